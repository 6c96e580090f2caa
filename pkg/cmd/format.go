package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pyrules/isort-aspect/pkg/errors"
)

var formatCmd = &cobra.Command{
	Use:   "format [TARGET...]",
	Short: "Apply isort formatting in place across targets",
	RunE:  runFormat,
}

func init() {
	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	a, _, err := buildAspect("")
	if err != nil {
		return err
	}

	formatted, err := a.Format(cmd.Context(), args)
	if err != nil {
		return err
	}

	fmt.Printf(errors.InfoMsgFormattedTargets+"\n", formatted)
	return nil
}
