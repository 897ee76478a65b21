package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l3aro/v2flow/internal/config"
	"github.com/l3aro/v2flow/internal/driver"
)

var buildCmd = &cobra.Command{
	Use:   "build [paths...]",
	Short: "Build CFGs and call graphs for files and directories",
	Long: `Parses every supported file under the given paths (default: the current
directory) and writes, per input file, into the output directory:

  <name>.dot             one CFG cluster per function (format dot)
  <name>.cfg.json        CFG document (format json)
  <name>.cfg.msgpack     CFG document (format msgpack)
  <name>.callgraph.dot   call graph with call counts
  <name>.callgraph.csv   caller,callee,count rows

A file that fails to parse does not stop the others; the command exits
non-zero once every file has been processed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := applyBuildFlags(cmd, c); err != nil {
			return err
		}

		jsonLog, _ := cmd.Flags().GetBool("log-json")
		logger := newLogger(cmd.ErrOrStderr(), c.Verbose, jsonLog)

		opts, err := driver.OptionsFromConfig(c, logger)
		if err != nil {
			return err
		}

		paths := args
		if len(paths) == 0 {
			paths = []string{"."}
		}

		report, runErr := driver.Run(cmd.Context(), opts, paths)
		if report == nil {
			return runErr
		}

		out := cmd.OutOrStdout()
		for _, f := range report.Files {
			for _, o := range f.Outputs {
				fmt.Fprintln(out, o)
			}
		}
		fmt.Fprintf(out, "Processed %d files (%d functions, %d failed)\n",
			len(report.Files), report.FunctionCount(), len(report.Failed()))

		return runErr
	},
}

// applyBuildFlags copies explicitly set flags over the loaded configuration
// and validates the result.
func applyBuildFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("out") {
		c.OutDir, _ = flags.GetString("out")
	}
	if flags.Changed("format") {
		c.Format, _ = flags.GetString("format")
	}
	if flags.Changed("language") {
		c.Language, _ = flags.GetString("language")
	}
	if flags.Changed("workers") {
		c.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("max-expr-depth") {
		c.MaxExprDepth, _ = flags.GetInt("max-expr-depth")
	}
	if flags.Changed("max-block-lines") {
		c.MaxBlockLines, _ = flags.GetInt("max-block-lines")
	}
	if flags.Changed("no-call-graph") {
		skip, _ := flags.GetBool("no-call-graph")
		c.CallGraph = !skip
	}
	if flags.Changed("verbose") {
		c.Verbose, _ = flags.GetBool("verbose")
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func init() {
	buildCmd.Flags().StringP("out", "o", ".", "Output directory")
	buildCmd.Flags().StringP("format", "f", "dot", "CFG output format (dot, json or msgpack)")
	buildCmd.Flags().StringP("language", "l", "", "Force a front end (v2, go or c) for every file")
	buildCmd.Flags().IntP("workers", "w", 4, "Number of files processed concurrently")
	buildCmd.Flags().Int("max-expr-depth", 4, "Expression nesting rendered before eliding with ...")
	buildCmd.Flags().Int("max-block-lines", 3, "IR lines per straight-line block")
	buildCmd.Flags().Bool("no-call-graph", false, "Skip call graph outputs")
	buildCmd.Flags().StringP("config", "c", "", "Config file path")
	buildCmd.Flags().BoolP("verbose", "v", false, "Verbose logging")
	buildCmd.Flags().Bool("log-json", false, "Log as JSON lines")
}
