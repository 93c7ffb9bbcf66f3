package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/compare"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorAmber = lipgloss.Color("214") // primary, headings
	colorGreen = lipgloss.Color("35")  // success, in range
	colorRed   = lipgloss.Color("167") // errors, above range
	colorBlue  = lipgloss.Color("75")  // below range, commands
	colorWhite = lipgloss.Color("255") // values
	colorGray  = lipgloss.Color("245") // labels
	colorDim   = lipgloss.Color("240") // muted text, empty track
	colorBand  = lipgloss.Color("238") // style range band
)

// =============================================================================
// Styles
// =============================================================================

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAmber)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAmber)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorAmber)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAmber)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleTag      = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(StyleWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Domain Output
// =============================================================================

// statsLine formats OG, IBU and SRM the way the web UI prints them.
func statsLine(st brew.Stats) string {
	return fmt.Sprintf("OG %s · IBU %s · SRM %s",
		compare.OriginalGravity.Format(st.OG),
		compare.BitternessUnits.Format(st.IBU),
		compare.ColorUnits.Format(st.SRM))
}

// printStats prints recipe statistics on one line, marking whether they
// were served from the cache.
func printStats(st brew.Stats, cached bool) {
	status := styleComputed.Render("fresh")
	if cached {
		status = styleCached.Render("cached")
	}
	fmt.Println("  " + StyleDim.Render(statsLine(st)+" · ") + status)
}

func formatTags(tags string) string {
	parts := brew.SplitTags(tags)
	for i, p := range parts {
		parts[i] = styleTag.Render("#" + p)
	}
	return strings.Join(parts, " ")
}

func printRecipe(r *brew.Recipe) {
	fmt.Println(StyleTitle.Render(r.Name))
	printKeyValue("File", r.Filename)
	printKeyValue("Brewer", r.Brewer)
	printKeyValue("Batch", fmt.Sprintf("%g gal", r.BatchSize))
	if r.Style != "" {
		printKeyValue("Style", r.Style)
	}
	if r.Tags != "" {
		printKeyValue("Tags", formatTags(r.Tags))
	}
	printKeyValue("Stats", statsLine(r.Stats))
	for _, g := range r.Grains {
		printDetail("grain  %-24s %6.2f lb  %4g ppg  %4g °L", g.Name, g.Amount, g.PPG, g.Lovibond)
	}
	for _, h := range r.Hops {
		printDetail("hop    %-24s %6.2f oz  %4g %%AA  %3g min", h.Name, h.Amount, h.Alpha, h.Time)
	}
	for _, y := range r.Yeasts {
		printDetail("yeast  %-24s %s", y.Name, y.Type)
	}
}

func printStyle(s brew.Style) {
	fmt.Println(StyleTitle.Render(s.Label()))
	printKeyValue("OG", s.OG.String())
	printKeyValue("FG", s.FG.String())
	printKeyValue("IBU", s.IBU.String())
	printKeyValue("SRM", s.SRM.String())
}
