package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/l3aro/v2flow/internal/driver"
	"github.com/l3aro/v2flow/pkg/emit"
)

// cfgCmd represents the cfg command
var cfgCmd = &cobra.Command{
	Use:   "cfg <file> <function>",
	Short: "Print the control flow graph of one function",
	Long: `Builds the Control Flow Graph (CFG) of a single function and prints it as
Graphviz DOT, or with --json as a document with nodes, edges and cyclomatic
complexity.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath := args[0]
		functionName := args[1]

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

		fn, ok := src.Function(functionName, c.Limits())
		if !ok {
			var names []string
			for _, f := range src.Functions(c.Limits()) {
				names = append(names, f.Name)
			}
			if suggestion := closestName(functionName, names); suggestion != "" {
				return fmt.Errorf("function %q not found in %s\nDid you mean: %s?", functionName, filePath, suggestion)
			}
			return fmt.Errorf("function %q not found in %s", functionName, filePath)
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			fd, err := emit.NewFunctionDoc(fn)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(fd, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}

		return emit.WriteDOT(cmd.OutOrStdout(), fn.Graph, fn.Name)
	},
}

// closestName picks a candidate sharing a prefix or substring with name,
// preferring the shortest. Returns "" when nothing is close.
func closestName(name string, candidates []string) string {
	lower := strings.ToLower(name)
	var matches []string
	for _, c := range candidates {
		lc := strings.ToLower(c)
		if strings.HasPrefix(lc, lower) || strings.HasPrefix(lower, lc) || strings.Contains(lc, lower) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return ""
	}
	sort.SliceStable(matches, func(i, j int) bool { return len(matches[i]) < len(matches[j]) })
	return matches[0]
}

func init() {
	cfgCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	cfgCmd.Flags().StringP("language", "l", "", "Force a front end (v2, go or c)")
	cfgCmd.Flags().StringP("config", "c", "", "Config file path")
}
