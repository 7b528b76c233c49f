package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"streamcounter/internal/counter"
	"streamcounter/internal/hotkeys"
	"streamcounter/internal/settings"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// stateView is the json/yaml shape printed by show.
type stateView struct {
	SettingsPath string            `json:"settingsPath" yaml:"settings_path"`
	Left         counterView       `json:"left" yaml:"left"`
	Right        counterView       `json:"right" yaml:"right"`
	Viewer       viewerView        `json:"viewer" yaml:"viewer"`
	Hotkeys      map[string]string `json:"hotkeys" yaml:"hotkeys"`
}

type counterView struct {
	Label      string `json:"label" yaml:"label"`
	Value      int    `json:"value" yaml:"value"`
	FontColor  string `json:"fontColor" yaml:"font_color"`
	FontSize   int    `json:"fontSize" yaml:"font_size"`
	FontFamily string `json:"fontFamily" yaml:"font_family"`
}

type viewerView struct {
	BackgroundColor string `json:"backgroundColor" yaml:"background_color"`
	BackgroundImage string `json:"backgroundImage,omitempty" yaml:"background_image,omitempty"`
	IncludeRight    bool   `json:"includeRight" yaml:"include_right"`
	Spacing         int    `json:"spacing" yaml:"spacing"`
}

func newStateView(path string, snap settings.Snapshot) stateView {
	c := snap.Counters
	return stateView{
		SettingsPath: path,
		Left:         newCounterView(c.Left),
		Right:        newCounterView(c.Right),
		Viewer: viewerView{
			BackgroundColor: c.Viewer.BackgroundColor,
			BackgroundImage: c.Viewer.BackgroundImage,
			IncludeRight:    c.Viewer.IncludeRight,
			Spacing:         c.Viewer.Spacing,
		},
		Hotkeys: snap.Bindings.Labels(),
	}
}

func newCounterView(s counter.State) counterView {
	return counterView{
		Label:      s.Label,
		Value:      s.Value,
		FontColor:  s.FontColor,
		FontSize:   s.FontSize,
		FontFamily: s.FontFamily,
	}
}

func newShowCmd(opts *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print counters, viewer styling and hotkeys",
		Args:  cobra.NoArgs,
		Example: `  counterctl show
  counterctl show -o yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, path := opts.resolveLenient(cmd.ErrOrStderr())
			snap, err := settings.Load(path)
			if err != nil {
				return err
			}
			return writeState(cmd.OutOrStdout(), output, newStateView(path, snap))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format (text/json/yaml)")
	return cmd
}

func writeState(w io.Writer, format string, view stateView) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case outputText, "":
		return writeStateText(w, view)
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

func writeStateText(w io.Writer, view stateView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Settings:\t%s\n\n", view.SettingsPath)
	fmt.Fprintln(tw, "COUNTER\tLABEL\tVALUE\tFONT")
	for _, row := range []struct {
		side string
		c    counterView
	}{{"left", view.Left}, {"right", view.Right}} {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s %dpt %s\n",
			row.side, row.c.Label, row.c.Value, row.c.FontFamily, row.c.FontSize, row.c.FontColor)
	}

	image := view.Viewer.BackgroundImage
	if image == "" {
		image = "(none)"
	}
	fmt.Fprintf(tw, "\nViewer background:\t%s\n", view.Viewer.BackgroundColor)
	fmt.Fprintf(tw, "Viewer image:\t%s\n", image)
	fmt.Fprintf(tw, "Include right:\t%t\n", view.Viewer.IncludeRight)
	fmt.Fprintf(tw, "Spacing:\t%d\n", view.Viewer.Spacing)
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return writeHotkeysText(w, view.Hotkeys)
}

// writeHotkeysText prints bindings in action order.
func writeHotkeysText(w io.Writer, labels map[string]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ACTION\tHOTKEY")
	for _, a := range hotkeys.Actions() {
		fmt.Fprintf(tw, "%s\t%s\n", a.String(), labels[a.String()])
	}
	return tw.Flush()
}
