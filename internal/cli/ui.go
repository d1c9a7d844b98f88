package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/matzehuels/figslides/pkg/pipeline"
)

// =============================================================================
// Styles
// =============================================================================

// ANSI 256 palette shared by every command.
var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

// Exported styles are shared with the slide browser.
var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	StyleLink    = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning = lipgloss.NewStyle().Foreground(colorAmber)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorTeal)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// Status line markers.
var (
	markSuccess = lipgloss.NewStyle().Foreground(colorGreen).Render("✓")
	markWarning = lipgloss.NewStyle().Foreground(colorAmber).Render("!")
	markInfo    = lipgloss.NewStyle().Foreground(colorGray).Render("›")
	markFile    = StyleDim.Render("→")

	labelCached = lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	labelFresh  = lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
)

// =============================================================================
// Status Output
// =============================================================================

// Status lines go to stdout; logs and the spinner use stderr.

func printLine(mark, text string) {
	fmt.Println(mark + " " + text)
}

func printSuccess(format string, args ...any) {
	printLine(markSuccess, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printLine(markWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printLine(markInfo, fmt.Sprintf(format, args...))
}

func printDetail(format string, args ...any) {
	printLine(" ", StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	printLine(" ", markFile+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints conversion statistics on a single line, e.g.
// "3 slides · 12 layers · 1 skipped · cached".
func printStats(st pipeline.Stats, cached bool) {
	fmt.Println("  " + statsLine(st, cached))
}

func statsLine(st pipeline.Stats, cached bool) string {
	parts := []string{
		plural(st.Slides, "slide"),
		plural(st.Layers, "layer"),
	}
	if st.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", st.Skipped))
	}

	rendered := lo.Map(parts, func(p string, _ int) string { return StyleDim.Render(p) })
	rendered = append(rendered, lo.Ternary(cached, labelCached, labelFresh))
	return strings.Join(rendered, StyleDim.Render(" · "))
}

// printSkipReasons lists skip counts by reason in a stable order.
func printSkipReasons(st pipeline.Stats) {
	reasons := lo.Keys(st.Reasons)
	slices.Sort(reasons)
	for _, r := range reasons {
		printWarning("%s skipped (%s)", plural(st.Reasons[r], "layer"), r)
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
