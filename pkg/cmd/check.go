package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pyrules/isort-aspect/pkg/errors"
)

var markerDir string

var checkCmd = &cobra.Command{
	Use:   "check [TARGET...]",
	Short: "Check import ordering and exit non-zero on violations",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&markerDir, "marker-dir", "", "Directory receiving one marker file per passing target")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, _, err := buildAspect(markerDir)
	if err != nil {
		return err
	}

	report, err := a.Check(cmd.Context(), args)
	if err != nil {
		return err
	}

	for _, res := range report.Results {
		if res.ExitCode != 0 {
			fmt.Fprintf(os.Stderr, "target %s (exit %d):\n%s\n", res.Target, res.ExitCode, res.Output)
		}
	}

	if report.Failed > 0 {
		return fmt.Errorf(errors.ErrMsgTargetsFailedCheck, report.Failed)
	}

	fmt.Printf(errors.InfoMsgCheckedTargets+"\n", len(report.Results))
	return nil
}
