package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardgrid/pkg/deck"
	"github.com/matzehuels/cardgrid/pkg/pipeline"
)

// breakpointsCommand creates the breakpoints command, which lays out a deck
// at every column count.
func (c *CLI) breakpointsCommand() *cobra.Command {
	var (
		outputDir string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "breakpoints [deck.toml|deck.json]",
		Short: "Lay out a deck at every column count",
		Long: `Lay out a deck once per column count, each at the narrowest container
width that reaches it, and summarize the results.

With --output-dir, each layout is written as <deck>.<n>col.layout.json.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDeckFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.layoutOptions(cmd)
			if err != nil {
				return err
			}
			return c.runBreakpoints(cmd.Context(), args[0], opts, outputDir, noCache)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "write one layout file per column count into this directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd)

	return cmd
}

func (c *CLI) runBreakpoints(ctx context.Context, input string, opts pipeline.Options, outputDir string, noCache bool) error {
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
	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Laying out %d cards at every column count...", len(d.Cards)))
	spinner.Start()

	results, err := runner.ExecuteBreakpoints(ctx, d, opts)
	if err != nil {
		spinner.StopWithError("Breakpoints failed")
		return fmt.Errorf("compute breakpoints: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Computed %d breakpoints", len(results)))

	fmt.Println(breakpointTable(results))

	if outputDir == "" {
		return nil
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	for _, res := range results {
		path := filepath.Join(outputDir, fmt.Sprintf("%s.%dcol.layout.json", base, res.Layout.Columns))
		if err := deck.WriteLayoutFile(res.Layout, path); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// breakpointTable renders one row per result.
func breakpointTable(results []*pipeline.Result) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(results))
	for _, res := range results {
		l := res.Layout
		rows = append(rows, []string{
			strconv.Itoa(l.Columns),
			fmt.Sprintf("%gpx", l.ContainerWidth),
			strconv.Itoa(l.Rows),
			fmt.Sprintf("%gx%gpx", l.Width, l.Height),
			strconv.Itoa(res.Stats.Skipped),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Columns", "Min width", "Rows", "Grid", "Skipped").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Render()
}
