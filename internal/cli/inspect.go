package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/figslides/pkg/core/plan"
	"github.com/matzehuels/figslides/pkg/pipeline"
)

// inspectCommand creates the inspect command, which shows how each layer
// of a document would be placed without writing a presentation.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		plain        bool
		slideNumbers bool
		safeArea     bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <design.json|URL|->",
		Short: "Show the slide plan for a design export",
		Long: `Show the slide plan for a design export: every layer's kind, frame in
inches and style, and every skipped layer with its reason.

On a terminal this opens an interactive browser; --plain prints tables.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := c.loadDocument(ctx, args[0], cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			opts := c.baseOptions("cli")
			if cmd.Flags().Changed("slide-numbers") {
				opts.SlideNumbers = slideNumbers
			}
			if cmd.Flags().Changed("safe-area") {
				opts.ConstrainToSafeArea = safeArea
			}

			runner := pipeline.NewRunner(nil, nil, c.Logger)
			deck, err := runner.Plan(ctx, doc, opts)
			if err != nil {
				return err
			}

			if plain || !isatty.IsTerminal(os.Stdout.Fd()) {
				fmt.Fprint(cmd.OutOrStdout(), renderDeckTables(deck))
				return nil
			}
			_, err = tea.NewProgram(NewSlideBrowserModel(deck), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print tables instead of the interactive browser")
	cmd.Flags().BoolVar(&slideNumbers, "slide-numbers", false, "include the slide number footer")
	cmd.Flags().BoolVar(&safeArea, "safe-area", false, "pull layers inside the safe margin")

	return cmd
}

// =============================================================================
// Tables
// =============================================================================

var layerHeaders = []string{"#", "Layer", "Kind", "Frame (in)", "Detail"}

// renderDeckTables renders a heading and a layer table per slide.
func renderDeckTables(deck *plan.Deck) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(deck.Title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%g × %g in, margin %g in", deck.Config.TargetWidth, deck.Config.TargetHeight, deck.Config.SafeMargin)))
	b.WriteString("\n\n")
	for _, s := range deck.Slides {
		b.WriteString(slideHeading(s))
		b.WriteString("\n")
		b.WriteString(layerTable(layerRows(s), -1).Render())
		b.WriteString("\n\n")
	}
	return b.String()
}

func slideHeading(s plan.Slide) string {
	st := fmt.Sprintf("%d placed, %d skipped, scale %.3f", len(s.Placed()), len(s.Skips()), s.Transform.Scale)
	return fmt.Sprintf("%s %s  %s", StyleValue.Render(fmt.Sprintf("%d.", s.Index+1)), StyleValue.Render(s.Name), StyleDim.Render(st))
}

// layerTable renders rows from layerRows. The row at cursor is highlighted;
// pass -1 for none.
func layerTable(rows [][]string, cursor int) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(layerHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(rows) {
				return base
			}
			if rows[row][2] == "skip" {
				base = base.Foreground(colorAmber)
			} else if col == 0 || col == 3 {
				base = base.Foreground(colorGray)
			}
			if row == cursor {
				base = base.Bold(true).Foreground(colorTeal)
			}
			return base
		})
}

// layerRows lists the background, every outcome in paint order, then the
// overlay.
func layerRows(s plan.Slide) [][]string {
	var rows [][]string
	if bg := s.Background; bg != nil {
		detail := bg.Color.Hex()
		if bg.Kind == plan.BackgroundImage && bg.Image != nil {
			detail = pictureDetail(bg.Image)
		}
		rows = append(rows, []string{"-", "background", string(bg.Kind), frame(bg.Frame.X, bg.Frame.Y, bg.Frame.Width, bg.Frame.Height), detail})
	}
	n := 0
	for _, o := range s.Outcomes {
		n++
		if o.Skip != nil {
			rows = append(rows, []string{fmt.Sprint(n), o.Skip.Layer, "skip", "", skipDetail(o.Skip)})
			continue
		}
		rows = append(rows, placedRow(fmt.Sprint(n), *o.Placed))
	}
	for _, p := range s.Overlay {
		rows = append(rows, placedRow("+", p))
	}
	return rows
}

func placedRow(idx string, p plan.PlacedLayer) []string {
	return []string{idx, p.Name, string(p.Kind), frame(p.Frame.X, p.Frame.Y, p.Frame.Width, p.Frame.Height), placedDetail(p)}
}

func frame(x, y, w, h float64) string {
	return fmt.Sprintf("%.2f,%.2f %.2f×%.2f", x, y, w, h)
}

func placedDetail(p plan.PlacedLayer) string {
	switch {
	case p.Text != nil:
		t := p.Text
		face := t.Font
		if t.Bold {
			face += " bold"
		}
		if t.Italic {
			face += " italic"
		}
		return fmt.Sprintf("%s %gpt %s %s", face, t.Size, t.Color.Hex(), t.Align)
	case p.Shape != nil:
		sh := p.Shape
		fill := "no fill"
		if !sh.Fill.None {
			fill = sh.Fill.Color.Hex()
		}
		return fmt.Sprintf("%s %s", sh.Geometry, fill)
	case p.Image != nil:
		return pictureDetail(p.Image)
	}
	return ""
}

func pictureDetail(pic *plan.Picture) string {
	return fmt.Sprintf("%s %d×%d px", pic.Format, pic.Width, pic.Height)
}

func skipDetail(s *plan.Skip) string {
	if s.Detail == "" {
		return string(s.Reason)
	}
	return string(s.Reason) + ": " + s.Detail
}
