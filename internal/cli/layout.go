package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardgrid/pkg/deck"
	"github.com/matzehuels/cardgrid/pkg/pipeline"
)

// layoutCommand creates the layout command for computing a card layout.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		show    bool
	)

	cmd := &cobra.Command{
		Use:   "layout [deck.toml|deck.json]",
		Short: "Compute the grid layout of a deck",
		Long: `Compute the grid layout of a deck for one container width.

The deck is a TOML or JSON file listing cards with an id, size tags
(double-width, double-height, triple-width, quad-width), and display text.
The output is a layout.json file holding every card's cell and pixel geometry.

Results are cached; resizes that keep the same column count reuse the
cached layout.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDeckFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.layoutOptions(cmd)
			if err != nil {
				return err
			}
			opts.Refresh = refresh
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache, show)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached layout exists")
	cmd.Flags().BoolVar(&show, "show", false, "draw the grid in the terminal")
	cmd.Flags().Float64P(flagWidth, "w", pipeline.DefaultWidth, "container width in pixels")
	addLayoutFlags(cmd)

	return cmd
}

// runLayout loads the deck, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache, show bool) error {
	d, err := deck.ReadDeckFile(input)
	if err != nil {
		return fmt.Errorf("load deck %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Laying out %d cards...", len(d.Cards)))
	spinner.Start()

	res, err := runner.Execute(ctx, d, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done(fmt.Sprintf("Laid out %d cards", res.Stats.Placed))

	if output == "-" {
		data, err := deck.MarshalLayout(res.Layout)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}
	if err := deck.WriteLayoutFile(res.Layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(res)
	if show {
		printNewline()
		fmt.Println(drawGrid(res.Layout))
	}
	for _, s := range res.Layout.Skipped {
		printWarning("skipped card %d (%s): %s", s.Index, s.ID, s.Reason)
	}
	printNewline()
	printNextStep("Preview", "cardgrid preview "+input)

	return nil
}
