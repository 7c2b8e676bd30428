package processor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZacxDev/moviemix/internal/ffmpeg"
	"github.com/pkg/errors"
)

// TimestampLayout is the month-first stamp embedded in output names.
const TimestampLayout = "01-02-2006-15-04-05"

// OutputPath names the artifact of one iteration. An existing file is never
// overwritten; a " - dupN" suffix is added instead.
func OutputPath(dir, prefix, format string, now time.Time) string {
	base := ffmpeg.EnsureExtension(filepath.Join(dir, prefix+now.Format(TimestampLayout)), format)
	if !exists(base) {
		return base
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s - dup%d%s", stem, n, ext)
		if !exists(candidate) {
			return candidate
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// resetDir removes dir with its contents and creates it again empty.
func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, "clear %s", dir)
	}
	return errors.Wrapf(os.MkdirAll(dir, 0755), "create %s", dir)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.WithStack(err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrapf(err, "copy %s", src)
	}
	return errors.WithStack(out.Close())
}
