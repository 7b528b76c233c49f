package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"streamcounter/internal/config"
	"streamcounter/internal/counter"
	"streamcounter/internal/settings"
)

// editSettings loads the settings file, applies fn and saves the result with
// the overlay confirmed closed.
func editSettings(cfg config.Config, path string, fn func(*settings.Snapshot) error) error {
	return withOverlayClosed(func() error {
		snap, err := loadForEdit(path, cfg)
		if err != nil {
			return err
		}
		if err := fn(&snap); err != nil {
			return err
		}
		return settings.Save(path, snap)
	})
}

func setCounterValue(snap *settings.Snapshot, side counter.Side, value int) {
	switch side {
	case counter.Left:
		snap.Counters.Left.Value = value
	case counter.Right:
		snap.Counters.Right.Value = value
	}
}

func newSetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set <left|right> <value>",
		Short: "Set a counter value",
		Long: `Set a counter to a whole number. Negative values are stored as 0, matching
the overlay's count field.`,
		Example: `  counterctl set left 12
  counterctl set 2 0`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			side, err := counter.ParseSide(args[0])
			if err != nil {
				return err
			}
			value, err := counter.ParseCount(args[1])
			if err != nil {
				return err
			}
			cfg, path := opts.resolveLenient(cmd.ErrOrStderr())
			if err := editSettings(cfg, path, func(snap *settings.Snapshot) error {
				setCounterValue(snap, side, value)
				return nil
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s counter set to %d\n", side, value)
			return nil
		},
	}
}

func newResetCmd(opts *options) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "reset [left|right]",
		Short: "Reset a counter to 0",
		Example: `  counterctl reset right
  counterctl reset --all`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sides []counter.Side
			switch {
			case all && len(args) > 0:
				return errors.New("pass a side or --all, not both")
			case all:
				sides = counter.Sides()
			case len(args) == 1:
				side, err := counter.ParseSide(args[0])
				if err != nil {
					return err
				}
				sides = []counter.Side{side}
			default:
				return errors.New("pass a side (left or right) or --all")
			}

			cfg, path := opts.resolveLenient(cmd.ErrOrStderr())
			if err := editSettings(cfg, path, func(snap *settings.Snapshot) error {
				for _, side := range sides {
					setCounterValue(snap, side, counter.Reset(snap.Counters.Counter(side).Value))
				}
				return nil
			}); err != nil {
				return err
			}
			for _, side := range sides {
				fmt.Fprintf(cmd.OutOrStdout(), "%s counter reset\n", side)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "reset both counters")
	return cmd
}
