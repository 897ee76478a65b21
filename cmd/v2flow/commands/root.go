package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/l3aro/v2flow/internal/config"
	"github.com/l3aro/v2flow/internal/log"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "v2flow",
	Short: "v2flow - Control flow graphs for v2, Go and C sources",
	Long: `v2flow parses source files, lowers every function body to a control flow
graph and writes Graphviz DOT files, CFG documents and call graphs.

Commands:
  build       Build CFGs and call graphs for files and directories
  cfg         Print the CFG of one function
  calls       Print the call graph of one file
  ast         Dump the syntax tree of one file as DOT
  init        Create a configuration file interactively
  doctor      Check front ends and the output directory

Use "v2flow [command] --help" for more information about a command.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.AddCommand(buildCmd)
	RootCmd.AddCommand(cfgCmd)
	RootCmd.AddCommand(callsCmd)
	RootCmd.AddCommand(astCmd)
	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(doctorCmd)
}

// loadConfig reads the file given by --config, or the layered configuration
// when none is given. It returns the path of the file in effect, if any.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		c, err := config.LoadFromFile(path)
		if err != nil {
			return nil, "", err
		}
		return c, path, nil
	}

	c, err := config.Load()
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	for _, p := range []string{config.ProjectConfigFilePath(), config.GlobalConfigFilePath()} {
		if fileExists(p) {
			return c, p, nil
		}
	}
	return c, "", nil
}

func newLogger(w io.Writer, verbose, jsonOutput bool) log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.New(log.LoggerConfig{Level: level, JSONOutput: jsonOutput, Output: w})
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
