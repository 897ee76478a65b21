package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/l3aro/v2flow/internal/healthcheck"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check front ends and the output directory",
	Long: `Loads the configuration, parses a sample function with every front end and
verifies that the output directory accepts files.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, configPath, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		result, err := healthcheck.Check(cmd.Context(), c, configPath)
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}

		displayDoctorResult(cmd.OutOrStdout(), result)

		if !result.Healthy() {
			return fmt.Errorf("health check failed: one or more checks did not pass")
		}
		return nil
	},
}

func displayDoctorResult(w io.Writer, result *healthcheck.HealthCheckResult) {
	if result.EffectivePath == "" {
		fmt.Fprintln(w, "Using config: defaults")
	} else {
		fmt.Fprintf(w, "Using config: %s (%s)\n", result.EffectivePath, result.EffectiveScope)
	}

	fmt.Fprintln(w, "\nFront ends:")
	for _, fe := range result.FrontEnds {
		fmt.Fprintf(w, "  %-3s %s %s", fe.Language, formatStatusIcon(fe.Status), fe.Status)
		if fe.Status == healthcheck.StatusReady {
			fmt.Fprintf(w, " (%d nodes)", fe.Nodes)
		}
		fmt.Fprintln(w)
		if fe.Error != "" {
			fmt.Fprintf(w, "      Error: %s\n", fe.Error)
		}
	}

	fmt.Fprintln(w, "\nOutput directory:")
	fmt.Fprintf(w, "  %s %s %s\n", result.Output.Dir, formatStatusIcon(result.Output.Status), result.Output.Status)
	if result.Output.Error != "" {
		fmt.Fprintf(w, "  Error: %s\n", result.Output.Error)
	}
}

func formatStatusIcon(status string) string {
	switch status {
	case healthcheck.StatusReady:
		return "✓"
	case healthcheck.StatusError:
		return "✗"
	default:
		return "?"
	}
}

func init() {
	doctorCmd.Flags().StringP("config", "c", "", "Config file path")
}
