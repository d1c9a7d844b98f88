package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/figslides/pkg/core/plan"
)

var (
	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(colorDim)
	listDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// SlideBrowserModel - Interactive plan browser
// =============================================================================

// SlideBrowserModel is the bubbletea model for browsing a planned deck one
// slide at a time.
type SlideBrowserModel struct {
	Deck   *plan.Deck
	Slide  int
	Cursor int
	Height int
	Offset int
}

// NewSlideBrowserModel creates a browser positioned on the first slide.
func NewSlideBrowserModel(deck *plan.Deck) SlideBrowserModel {
	return SlideBrowserModel{Deck: deck, Height: 15}
}

func (m SlideBrowserModel) Init() tea.Cmd {
	return nil
}

func (m SlideBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h", "shift+tab":
			if m.Slide > 0 {
				m.Slide--
				m.Cursor, m.Offset = 0, 0
			}
		case "right", "l", "tab":
			if m.Slide < len(m.Deck.Slides)-1 {
				m.Slide++
				m.Cursor, m.Offset = 0, 0
			}
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < m.rowCount()-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
	}
	return m, nil
}

func (m SlideBrowserModel) rowCount() int {
	if len(m.Deck.Slides) == 0 {
		return 0
	}
	return len(layerRows(m.Deck.Slides[m.Slide]))
}

func (m SlideBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Deck.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ slide  ↑/↓ layer  q quit"))
	b.WriteString("\n\n")

	if len(m.Deck.Slides) == 0 {
		b.WriteString(listDimStyle.Render("no slides"))
		return b.String()
	}

	b.WriteString(m.tabs())
	b.WriteString("\n\n")

	s := m.Deck.Slides[m.Slide]
	b.WriteString(slideHeading(s))
	b.WriteString("\n")

	rows := layerRows(s)
	end := min(m.Offset+m.Height, len(rows))
	b.WriteString(layerTable(rows[m.Offset:end], m.Cursor-m.Offset).Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(rows)), len(rows))))

	return b.String()
}

// tabs renders the slide switcher, e.g. "1 Intro │ 2 Agenda".
func (m SlideBrowserModel) tabs() string {
	parts := make([]string, len(m.Deck.Slides))
	for i, s := range m.Deck.Slides {
		label := fmt.Sprintf("%d %s", i+1, s.Name)
		if i == m.Slide {
			parts[i] = tabActiveStyle.Render(label)
		} else {
			parts[i] = tabInactiveStyle.Render(label)
		}
	}
	return strings.Join(parts, listDimStyle.Render(" │ "))
}
