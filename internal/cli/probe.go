package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/courtside/internal/probe"
)

func newProbeCmd(st *state) *cobra.Command {
	cfg := probe.Config{}
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check the dashboard properties of a running server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := probe.Run(cmd.Context(), cfg, st.log.Named("probe"))
			fmt.Fprintf(cmd.OutOrStdout(), "%d checks, %d violations\n", report.Checks, len(report.Violations))
			return err
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:8501", "base URL of the dashboard")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "per-request timeout")
	return cmd
}
