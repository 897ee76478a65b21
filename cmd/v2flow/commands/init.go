package commands

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/l3aro/v2flow/internal/config"
	"github.com/l3aro/v2flow/pkg/emit"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file interactively",
	Long: `Guides you through the build settings and writes them to
.v2flow/config.yaml, or to ~/.v2flow/config.yaml with --global.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		global, _ := cmd.Flags().GetBool("global")
		configPath := config.ProjectConfigFilePath()
		if global {
			configPath = config.GlobalConfigFilePath()
		}
		return runInit(cmd, configPath)
	},
}

// initAnswers holds the form values as the widgets edit them.
type initAnswers struct {
	outDir    string
	format    string
	language  string
	workers   string
	callGraph bool
}

func answersFrom(c *config.Config) *initAnswers {
	return &initAnswers{
		outDir:    c.OutDir,
		format:    c.Format,
		language:  c.Language,
		workers:   strconv.Itoa(c.Workers),
		callGraph: c.CallGraph,
	}
}

// apply copies the answers onto c and validates the result.
func (a *initAnswers) apply(c *config.Config) error {
	workers, err := strconv.Atoi(a.workers)
	if err != nil {
		return fmt.Errorf("workers: %w", err)
	}
	c.OutDir = a.outDir
	c.Format = a.format
	c.Language = a.language
	c.Workers = workers
	c.CallGraph = a.callGraph
	return c.Validate()
}

func validateWorkers(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

func newInitForm(a *initAnswers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output directory").
				Description("Where DOT files, CFG documents and call graphs are written").
				Placeholder(".").
				Value(&a.outDir),
			huh.NewSelect[string]().
				Title("CFG output format").
				Options(
					huh.NewOption("Graphviz DOT", string(emit.FormatDOT)),
					huh.NewOption("JSON document", string(emit.FormatJSON)),
					huh.NewOption("MessagePack document", string(emit.FormatMsgpack)),
				).
				Value(&a.format),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Front end").
				Description("Detect from the file extension, or force one for every file").
				Options(
					huh.NewOption("Detect from extension", ""),
					huh.NewOption("v2", "v2"),
					huh.NewOption("Go", "go"),
					huh.NewOption("C", "c"),
				).
				Value(&a.language),
			huh.NewInput().
				Title("Workers").
				Description("Files processed concurrently").
				Validate(validateWorkers).
				Value(&a.workers),
			huh.NewConfirm().
				Title("Write call graphs?").
				Affirmative("Yes").
				Negative("No").
				Value(&a.callGraph),
		),
	)
}

func runInit(cmd *cobra.Command, configPath string) error {
	c := config.DefaultConfig()
	if fileExists(configPath) {
		existing, err := config.LoadFromFile(configPath)
		if err == nil {
			c = existing
		}
	}

	answers := answersFrom(c)
	if err := newInitForm(answers).Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}
	if err := answers.apply(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n=== Configuration Preview ===")
	fmt.Fprintf(out, "Config path: %s\n", configPath)
	fmt.Fprintf(out, "Output directory: %s\n", c.OutDir)
	fmt.Fprintf(out, "Format: %s\n", c.Format)
	if c.Language == "" {
		fmt.Fprintln(out, "Front end: detect from extension")
	} else {
		fmt.Fprintf(out, "Front end: %s\n", c.Language)
	}
	fmt.Fprintf(out, "Workers: %d\n", c.Workers)
	fmt.Fprintf(out, "Call graphs: %t\n", c.CallGraph)
	fmt.Fprintln(out, "================================")

	if err := c.Save(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(out, "Configuration saved to: %s\n", configPath)
	return nil
}

func init() {
	initCmd.Flags().Bool("global", false, "Write the global config instead of the project one")
}
