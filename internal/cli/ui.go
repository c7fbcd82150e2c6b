package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/wireframe/pkg/export"
)

// Terminal palette, shared by command output and the compose TUI.
var (
	colorAccent = lipgloss.Color("36")  // teal: widget names, titles
	colorGreen  = lipgloss.Color("35")  // success, cached bundles
	colorAmber  = lipgloss.Color("220") // warnings, placeholders
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // URLs, suggested commands
	colorWhite  = lipgloss.Color("255") // paths, values
	colorGray   = lipgloss.Color("245") // labels, image files
	colorDim    = lipgloss.Color("240") // secondary text
)

var (
	// StyleTitle heads the compose screen.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	// StyleHighlight marks pane headings and widget names.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	// StyleLink renders the studio URL.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue renders paths and values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleNumber renders counts.
	StyleNumber = lipgloss.NewStyle().Foreground(colorAccent)
	// StyleWarning renders warnings and the exporting badge.
	StyleWarning = lipgloss.NewStyle().Foreground(colorAmber)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorAmber)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)

	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleFresh       = lipgloss.NewStyle().Foreground(colorGray)
	styleImage       = lipgloss.NewStyle().Foreground(colorGray)
	stylePlaceholder = lipgloss.NewStyle().Foreground(colorAmber).Italic(true)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written bundle or manifest path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints one line of the serve banner.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printComposition lists the exported layout in order, one entry per line.
func printComposition(sels []export.Selection) {
	for i, s := range sels {
		fmt.Println(entryLine(i, s))
	}
}

// entryLine renders one layout entry as "  1. [hero] hero_2.webp"; entries
// without a preview are marked as placeholders.
func entryLine(i int, s export.Selection) string {
	line := fmt.Sprintf("  %s %s ", StyleDim.Render(fmt.Sprintf("%d.", i+1)), StyleHighlight.Render("["+s.Widget+"]"))
	if s.Image == "" {
		return line + stylePlaceholder.Render("placeholder")
	}
	return line + styleImage.Render(s.Image)
}

// printStats prints export statistics on a single line.
func printStats(entries, size int, cached bool) {
	status := styleFresh.Render("fresh")
	if cached {
		status = styleCached.Render("cached")
	}
	sep := StyleDim.Render(" · ")
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf("%d entries", entries)) + sep + StyleDim.Render(formatBytes(size)) + sep + status)
}

// formatBytes renders n as B, KB or MB.
func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}
