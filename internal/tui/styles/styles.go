package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Naira     = lipgloss.Color("#10B981")
	SlateDark = lipgloss.Color("#1F2937")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Green     = lipgloss.Color("#10B981")
	Red       = lipgloss.Color("#EF4444")
	Amber     = lipgloss.Color("#F59E0B")
	Blue      = lipgloss.Color("#3B82F6")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Naira)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	PendingStyle = lipgloss.NewStyle().
			Foreground(Amber)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Naira).
			Padding(0, 1)
)

// Tab styles
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(SlateDark).
			Bold(true).
			Padding(0, 2)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(DimGray).
				Padding(0, 2)
)

// Status badges
var (
	SyncedBadge  = SuccessStyle.Render("✅ Synced")
	PendingBadge = PendingStyle.Render("🕓 Pending")

	OnlineBadge  = SuccessStyle.Render("● Online")
	OfflineBadge = ErrorStyle.Render("● Offline")
	UnknownBadge = DimStyle.Render("● …")
)
