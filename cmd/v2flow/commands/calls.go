package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l3aro/v2flow/internal/driver"
	"github.com/l3aro/v2flow/pkg/callgraph"
)

// callsCmd represents the calls command
var callsCmd = &cobra.Command{
	Use:   "calls <file>",
	Short: "Print the call graph of one file",
	Long: `Builds the call graph between the functions defined in a file. Calls are
read from the lowered CFG lines, so only calls to functions of the same file
appear. Prints DOT, or caller,callee,count rows with --csv.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath := args[0]

		c, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		lang, _ := cmd.Flags().GetString("language")

		src, err := driver.LoadSource(cmd.Context(), filePath, lang)
		if err != nil {
			return err
		}
		defer src.Close()

		if src.Diagnostics != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", filePath, src.Diagnostics)
		}

		graph := callgraph.Build(src.Functions(c.Limits()))

		csvOutput, _ := cmd.Flags().GetBool("csv")
		if csvOutput {
			return graph.WriteCSV(cmd.OutOrStdout())
		}
		return graph.WriteDOT(cmd.OutOrStdout())
	},
}

func init() {
	callsCmd.Flags().Bool("csv", false, "Output caller,callee,count rows")
	callsCmd.Flags().StringP("language", "l", "", "Force a front end (v2, go or c)")
	callsCmd.Flags().StringP("config", "c", "", "Config file path")
}
