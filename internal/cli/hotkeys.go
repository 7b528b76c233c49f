package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"streamcounter/internal/config"
	"streamcounter/internal/hotkeys"
	"streamcounter/internal/settings"
)

func newHotkeysCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hotkeys",
		Short: "List hotkey bindings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, path := opts.resolveLenient(cmd.ErrOrStderr())
			snap, err := settings.Load(path)
			if err != nil {
				return err
			}
			return writeHotkeysText(cmd.OutOrStdout(), snap.Bindings.Labels())
		},
	}
	cmd.AddCommand(newHotkeysSetCmd(opts), newHotkeysResetCmd(opts))
	return cmd
}

func newHotkeysSetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set <action> <binding>",
		Short: "Bind an action to a key combination",
		Long: `Bind an action to a key combination. Actions are left_increment,
left_decrement, left_reset and the same for right. A binding may
not duplicate another action's binding.`,
		Example: `  counterctl hotkeys set left_increment "Ctrl+Alt+Up"
  counterctl hotkeys set right_reset F9`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := hotkeys.ParseAction(args[0])
			if err != nil {
				return err
			}
			b, err := hotkeys.ParseBinding(args[1])
			if err != nil {
				return err
			}

			cfg, path := opts.resolveLenient(cmd.ErrOrStderr())
			if err := editSettings(cfg, path, func(snap *settings.Snapshot) error {
				if other, dup := snap.Bindings.Conflict(action, b); dup {
					return fmt.Errorf("%s is already bound to %s", hotkeys.Format(b), other)
				}
				snap.Bindings = snap.Bindings.With(action, b)
				return nil
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s bound to %s\n", action, hotkeys.Format(b))
			return nil
		},
	}
}

func newHotkeysResetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default bindings",
		Long: `Restore the default bindings: Ctrl+Shift+F1 through F6, with any
default_hotkeys overrides from the app config applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, path := opts.resolveLenient(cmd.ErrOrStderr())
			defaults := config.ResolveDefaultBindings(cfg)
			if err := editSettings(cfg, path, func(snap *settings.Snapshot) error {
				snap.Bindings = defaults
				return nil
			}); err != nil {
				return err
			}
			return writeHotkeysText(cmd.OutOrStdout(), defaults.Labels())
		},
	}
}
