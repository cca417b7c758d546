package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("#0187BA")
	colorSecondary = lipgloss.Color("245")
	colorMuted     = lipgloss.Color("240")
	colorText      = lipgloss.Color("255")
	colorStar      = lipgloss.Color("#FFD643")
	colorError     = lipgloss.Color("196")
)

// ActiveTab style for the selected category tab.
var ActiveTab = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorText).
	Background(colorPrimary).
	Padding(0, 3)

// InactiveTab style for the other tab.
var InactiveTab = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Background(lipgloss.Color("236")).
	Padding(0, 3)

// Badge styles keyed by the place category. PUBLIC and PRIVATE get their own
// colours; everything else shares the neutral one.
var (
	BadgePublic = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1A1A1B")).
			Background(lipgloss.Color("#E5F9EE")).
			Padding(0, 1)

	BadgePrivate = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1A1A1B")).
			Background(lipgloss.Color("#FDE6F4")).
			Padding(0, 1)

	BadgeOther = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1A1A1B")).
			Background(lipgloss.Color("#EEEEEE")).
			Padding(0, 1)
)

// CardName style for the place name.
var CardName = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorText)

// SelectedCardName highlights the name under the cursor.
var SelectedCardName = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorPrimary)

// CardMarker is the gutter drawn beside the selected card.
var CardMarker = lipgloss.NewStyle().
	Foreground(colorPrimary)

// RatingStar style for the ★ glyph.
var RatingStar = lipgloss.NewStyle().
	Foreground(colorStar)

// CardMeta style for review counts, distance and address.
var CardMeta = lipgloss.NewStyle().
	Foreground(colorSecondary)

// LoadingMessage style for the full-screen loading text.
var LoadingMessage = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Align(lipgloss.Center)

// SpinnerStyle colours the spinner glyph.
var SpinnerStyle = lipgloss.NewStyle().
	Foreground(colorPrimary)

// BlockedTitle style for the location-unavailable screen.
var BlockedTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorError)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(colorText).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorError).
	Bold(true).
	Padding(0, 1)

// HelpStyle for help text and empty states.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// DebugPanel style for the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// DebugHeaderStyle for section titles inside the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorPrimary)
