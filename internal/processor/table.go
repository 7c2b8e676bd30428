package processor

import (
	"fmt"
	"strconv"

	"github.com/ZacxDev/moviemix/pkg/types"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, columns)
	for i := range configs {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// PlanTable renders one row per clip plus a totals footer.
func PlanTable(plan types.SequencePlan) string {
	headers := []string{"#", "Subject", "Start", "End", "Duration", "Status"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignLeft}

	rows := make([][]string, 0, len(plan.Clips)+1)
	for i, c := range plan.Clips {
		status := "ok"
		start, end := strconv.Itoa(c.StartAt), strconv.Itoa(c.EndAt)
		if c.Skip {
			status = "skipped"
			start, end = "-", "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.Subject.Name,
			start,
			end,
			strconv.Itoa(c.Duration),
			status,
		})
	}
	rows = append(rows, []string{"", "total", "", "", strconv.Itoa(plan.TotalDuration), formatResolution(plan.Resolution)})

	return renderTable(headers, rows, aligns)
}

// IterationSummary is one finished iteration of a run.
type IterationSummary struct {
	Iteration int
	Hash      string
	Result    *CompileResult
}

// SummaryTable renders the artifacts written by a run.
func SummaryTable(items []IterationSummary) string {
	headers := []string{"Iteration", "Output", "Segments", "Duration", "Resolution", "Pattern"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft, alignLeft}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			strconv.Itoa(it.Iteration),
			it.Result.OutputPath,
			strconv.Itoa(it.Result.Segments),
			strconv.Itoa(it.Result.Duration),
			formatResolution(it.Result.Canvas),
			shortHash(it.Hash),
		})
	}
	return renderTable(headers, rows, aligns)
}

func formatResolution(r types.Resolution) string {
	if r.IsPassthrough() || r.Width == 0 || r.Height == 0 {
		return "source"
	}
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	if h == "" {
		return "-"
	}
	return h
}
