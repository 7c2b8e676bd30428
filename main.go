package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ZacxDev/moviemix/internal/config"
	"github.com/ZacxDev/moviemix/pkg/moviemix"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "moviemix",
		Short: "Stitch randomized clips of many videos into new ones",
		Long: `moviemix cuts windows out of every video in a working directory, orders
them, and concatenates them into a new video, as many times as configured.

Examples:
  # Write a default configuration
  moviemix sample-config -o config.json

  # Show the sequence the next run would compile
  moviemix plan

  # Compile the configured number of videos
  moviemix run --config ./config.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Plan and compile the configured iterations",
		Long: fmt.Sprintf(`Discover the subjects, then plan and compile one video per iteration.

Supported resolution strategies:
%s`, formatList(moviemix.SupportedStrategies())),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := moviemix.Mix(runOptions(cmd))
			return err
		},
	}

	planCmd = &cobra.Command{
		Use:   "plan",
		Short: "Print the plan of one iteration without encoding",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := moviemix.Plan(runOptions(cmd))
			return err
		},
	}

	sampleCmd = &cobra.Command{
		Use:   "sample-config",
		Short: "Write a configuration file holding every default",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")

			format = strings.ToLower(format)
			if output == "" {
				output = "config." + format
			}
			if err := moviemix.WriteSampleConfig(output, format); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}
)

func runOptions(cmd *cobra.Command) moviemix.RunOptions {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	return moviemix.RunOptions{
		ConfigPath:     configPath,
		ConfigRequired: cmd.Flags().Changed("config"),
		Verbose:        verbose,
		Output:         cmd.OutOrStdout(),
	}
}

func formatList(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("- %s\n", item))
	}
	return sb.String()
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultConfigPath, "Config file (json, toml or yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	sampleCmd.Flags().StringP("format", "f", "json",
		fmt.Sprintf("Config format (%s)", strings.Join(moviemix.SupportedConfigFormats(), ", ")))
	sampleCmd.Flags().StringP("output", "o", "", "Output path (default config.<format>)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(sampleCmd)
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
