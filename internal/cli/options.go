package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardgrid/pkg/pipeline"
)

// Layout option flag names. They double as config keys.
const (
	flagWidth        = "width"
	flagCellWidth    = "cell-width"
	flagCellHeight   = "cell-height"
	flagGutter       = "gutter"
	flagMaxColumns   = "max-columns"
	flagDirection    = "direction"
	flagAnimate      = "animate"
	flagTransitionMS = "transition-ms"
	flagEasing       = "easing"
	flagStrict       = "strict"
)

// addLayoutFlags registers the grid geometry and behavior flags on cmd.
func addLayoutFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64(flagCellWidth, pipeline.DefaultCellWidth, "cell width in pixels")
	f.Float64(flagCellHeight, pipeline.DefaultCellHeight, "cell height in pixels")
	f.Float64(flagGutter, pipeline.DefaultGutter, "gap between cells in pixels")
	f.Int(flagMaxColumns, 0, "cap the column count (0: no cap)")
	f.String(flagDirection, pipeline.DefaultDirection, "layout direction: ltr, rtl")
	f.Bool(flagAnimate, false, "emit animated geometry with a transition")
	f.Int(flagTransitionMS, pipeline.DefaultTransitionMS, "transition duration in milliseconds")
	f.String(flagEasing, pipeline.DefaultEasing, "transition easing")
	f.Bool(flagStrict, false, "reject malformed decks instead of skipping bad cards")
	_ = cmd.RegisterFlagCompletionFunc(flagDirection, completeDirection)
}

// layoutOptions resolves the layout flags of cmd through the config, so
// unset flags fall back to the environment and the config file.
func (c *CLI) layoutOptions(cmd *cobra.Command) (pipeline.Options, error) {
	v := c.Config
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		CellWidth:  v.GetFloat64(flagCellWidth),
		CellHeight: v.GetFloat64(flagCellHeight),
		Gutter:     v.GetFloat64(flagGutter),
		MaxColumns: v.GetInt(flagMaxColumns),
		Direction:  v.GetString(flagDirection),
		Animate:    v.GetBool(flagAnimate),
		Strict:     v.GetBool(flagStrict),
		Logger:     c.Logger,
	}
	if cmd.Flags().Lookup(flagWidth) != nil {
		opts.Width = v.GetFloat64(flagWidth)
	}
	if opts.Animate {
		opts.TransitionMS = v.GetInt(flagTransitionMS)
		opts.Easing = v.GetString(flagEasing)
	}
	return opts, nil
}
