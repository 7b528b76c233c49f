package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"streamcounter/internal/settings"
)

// ErrValidationFailed is returned by validate when any file has problems.
var ErrValidationFailed = errors.New("validation failed")

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the app config and settings files",
		Long: `Check that the app config and the settings file parse. A missing file is
not an error; the overlay creates it with defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			failed := false

			_, path, cfgErr := opts.resolve()
			if cfgErr != nil {
				failed = true
				fmt.Fprintf(out, "%s  %v\n", statusMark(out, false), cfgErr)
			} else {
				fmt.Fprintf(out, "%s  config\n", statusMark(out, true))
			}

			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(out, "%s  settings %s (not created yet)\n", statusMark(out, true), path)
			} else if _, err := settings.Load(path); err != nil {
				failed = true
				fmt.Fprintf(out, "%s  %v\n", statusMark(out, false), err)
			} else {
				fmt.Fprintf(out, "%s  settings %s\n", statusMark(out, true), path)
			}

			if failed {
				return ErrValidationFailed
			}
			return nil
		},
	}
}
