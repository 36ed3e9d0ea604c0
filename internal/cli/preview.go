package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardgrid/pkg/deck"
	"github.com/matzehuels/cardgrid/pkg/grid"
	"github.com/matzehuels/cardgrid/pkg/pipeline"
)

// previewCommand creates the interactive preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var step float64

	cmd := &cobra.Command{
		Use:   "preview [deck.toml|deck.json]",
		Short: "Resize a deck's container interactively and watch it reflow",
		Long: `Preview a deck in the terminal.

Use ←/→ to shrink or grow the container by --step pixels, [/] to jump to the
previous or next breakpoint, r to toggle right-to-left, and q to quit.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDeckFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.layoutOptions(cmd)
			if err != nil {
				return err
			}
			return c.runPreview(cmd.Context(), args[0], opts, step)
		},
	}

	cmd.Flags().Float64P(flagWidth, "w", pipeline.DefaultWidth, "initial container width in pixels")
	cmd.Flags().Float64Var(&step, "step", 10, "pixels per arrow key press")
	addLayoutFlags(cmd)

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, input string, opts pipeline.Options, step float64) error {
	d, err := deck.ReadDeckFile(input)
	if err != nil {
		return fmt.Errorf("load deck %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	// Log lines would tear the alternate screen.
	quiet := log.NewWithOptions(io.Discard, log.Options{})
	runner.Logger, opts.Logger = quiet, quiet

	m, err := newPreviewModel(ctx, runner, d, opts, step)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

// =============================================================================
// previewModel - Interactive layout preview
// =============================================================================

// previewModel recomputes the layout whenever the width or direction changes.
type previewModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	deck   deck.Deck
	opts   pipeline.Options
	step   float64

	result *pipeline.Result
	err    error
}

func newPreviewModel(ctx context.Context, runner *pipeline.Runner, d deck.Deck, opts pipeline.Options, step float64) (previewModel, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return previewModel{}, err
	}
	if step <= 0 {
		step = 10
	}
	m := previewModel{ctx: ctx, runner: runner, deck: d, opts: opts, step: step}
	m.relayout()
	return m, m.err
}

func (m *previewModel) relayout() {
	m.result, m.err = m.runner.Execute(m.ctx, m.deck, m.opts)
}

// setWidth clamps w to zero and relayouts when it changed.
func (m *previewModel) setWidth(w float64) {
	w = max(w, 0)
	if w == m.opts.Width {
		return
	}
	m.opts.Width = w
	m.relayout()
}

// nextBreakpoint returns the smallest breakpoint above the current width,
// or the current width when there is none.
func (m previewModel) nextBreakpoint() float64 {
	for _, bp := range grid.Breakpoints(m.opts.CellWidth, m.opts.Gutter) {
		if bp > m.opts.Width {
			return bp
		}
	}
	return m.opts.Width
}

// prevBreakpoint returns the largest breakpoint below the current width,
// or zero.
func (m previewModel) prevBreakpoint() float64 {
	prev := 0.0
	for _, bp := range grid.Breakpoints(m.opts.CellWidth, m.opts.Gutter) {
		if bp < m.opts.Width {
			prev = bp
		}
	}
	return prev
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.setWidth(m.opts.Width - m.step)
		case "right", "l":
			m.setWidth(m.opts.Width + m.step)
		case "[":
			m.setWidth(m.prevBreakpoint())
		case "]":
			m.setWidth(m.nextBreakpoint())
		case "r":
			if m.opts.Direction == string(grid.RTL) {
				m.opts.Direction = string(grid.LTR)
			} else {
				m.opts.Direction = string(grid.RTL)
			}
			m.relayout()
		}
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("cardgrid preview"))
	if m.deck.Name != "" {
		b.WriteString(StyleDim.Render(" · " + m.deck.Name))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ resize  [/] breakpoints  r direction  q quit"))
	b.WriteString("\n\n")

	b.WriteString(StyleHighlight.Render(fmt.Sprintf("%gpx", m.opts.Width)))
	b.WriteString(StyleDim.Render(" · " + m.opts.Direction + " · "))
	if m.err != nil {
		b.WriteString(StyleWarning.Render(m.err.Error()))
		return b.String()
	}
	b.WriteString(statsLine(m.result))
	b.WriteString("\n\n")
	b.WriteString(styleGrid.Render(drawGrid(m.result.Layout)))
	b.WriteString("\n")
	return b.String()
}
