package main

import (
	"github.com/spf13/cobra"

	"github.com/perch-dev/perch/internal/doctor"
	clierrors "github.com/perch-dev/perch/internal/errors"
	"github.com/perch-dev/perch/internal/output"
)

// DoctorReport represents diagnostic results for JSON output.
type DoctorReport struct {
	Checks  []DoctorCheck `json:"checks"`
	Passed  int           `json:"passed"`
	Failed  int           `json:"failed"`
	Warning int           `json:"warnings"`
}

// DoctorCheck is one check result for JSON output.
type DoctorCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose common widget issues",
		Long: `Run diagnostic checks: git availability, repository detection,
configuration readability, and log file writability.`,
		Example: `  perch doctor
  perch doctor --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			sp := out.Spinner("Running checks")
			sp.Start()

			results := doctor.New().Run(cmd.Context())

			sp.Stop()

			passed, failed, warnings := doctor.Summary(results)

			if out.JSON {
				report := DoctorReport{Passed: passed, Failed: failed, Warning: warnings}
				for _, r := range results {
					report.Checks = append(report.Checks, DoctorCheck{
						Name:    r.Name,
						Status:  r.Status.Symbol(),
						Message: r.Message,
						Detail:  r.Detail,
					})
				}

				if err := out.PrintJSON(report); err != nil {
					return err
				}
			} else {
				for _, r := range results {
					out.Print("%s %-14s %s\n", r.Status.Symbol(), r.Name, r.Message)

					if r.Detail != "" {
						out.Muted("    %s", r.Detail)
					}
				}

				out.Print("\n%d passed, %d warnings, %d failed\n", passed, warnings, failed)
			}

			if failed > 0 {
				return clierrors.New(clierrors.ExitGeneral, "Some checks failed")
			}

			return nil
		},
	}
}
