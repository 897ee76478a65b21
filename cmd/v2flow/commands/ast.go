package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/l3aro/v2flow/internal/driver"
	"github.com/l3aro/v2flow/pkg/emit"
)

var astCmd = &cobra.Command{
	Use:   "ast <file> [output.dot]",
	Short: "Dump the syntax tree of one file as DOT",
	Long: `Parses a file and writes its syntax tree as a Graphviz digraph, one node per
syntax node labelled with its type. Writes to stdout unless an output file
is given.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, _ := cmd.Flags().GetString("language")

		src, err := driver.LoadSource(cmd.Context(), args[0], lang)
		if err != nil {
			return err
		}
		defer src.Close()

		if src.Diagnostics != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", args[0], src.Diagnostics)
		}

		if len(args) == 1 {
			return emit.WriteASTDOT(cmd.OutOrStdout(), src.Root)
		}

		var buf bytes.Buffer
		if err := emit.WriteASTDOT(&buf, src.Root); err != nil {
			return err
		}
		if err := os.WriteFile(args[1], buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", args[1], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "AST written to %s\n", args[1])
		return nil
	},
}

func init() {
	astCmd.Flags().StringP("language", "l", "", "Force a front end (v2, go or c)")
}
