package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jisooooooooooo/sportus/internal/feed"
)

// cardLines is the number of text lines in one card.
const cardLines = 4

// cardRows is the height of a card including its separator line.
const cardRows = cardLines + 1

// visibleCards returns how many whole cards fit in height lines. At least
// one card is always shown once there is any space.
func visibleCards(height int) int {
	if height <= 0 {
		return 0
	}
	n := height / cardRows
	if n < 1 {
		n = 1
	}
	return n
}

// calcScrollOffset returns the first visible card index that keeps cursor on
// screen, moving the window as little as possible from prev.
func calcScrollOffset(prev, cursor, visible, total int) int {
	if total == 0 || visible <= 0 {
		return 0
	}
	if cursor >= total {
		cursor = total - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	offset := prev
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+visible {
		offset = cursor - visible + 1
	}
	if last := total - visible; offset > last {
		offset = last
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// RenderFeed renders the cards items[offset:] that fit in height lines.
func RenderFeed(items []feed.Item, cursor, offset, width, height int) string {
	visible := visibleCards(height)
	var b strings.Builder
	for i := offset; i < len(items) && i < offset+visible; i++ {
		b.WriteString(renderCard(items[i], i == cursor, width))
		b.WriteString("\n\n")
	}
	return b.String()
}

// renderCard renders one place as four lines: badge, name, rating, location.
func renderCard(item feed.Item, selected bool, width int) string {
	gutter := "  "
	nameStyle := CardName
	if selected {
		gutter = CardMarker.Render("▌ ")
		nameStyle = SelectedCardName
	}
	inner := width - 2
	if inner < 10 {
		inner = 10
	}

	lines := []string{
		badgeStyle(item.Category).Render(item.Category.Label()),
		nameStyle.Render(truncate(item.Name, inner)),
		RatingStar.Render("★") + " " + formatNumber(item.Rating) + " " +
			CardMeta.Render(fmt.Sprintf("(%d)", item.ReviewCount)),
		CardMeta.Render(truncate(formatNumber(item.Distance)+"m · "+item.Address, inner)),
	}
	for i := range lines {
		lines[i] = gutter + lines[i]
	}
	return strings.Join(lines, "\n")
}

func badgeStyle(c feed.PlaceCategory) lipgloss.Style {
	switch c {
	case feed.PlacePublic:
		return BadgePublic
	case feed.PlacePrivate:
		return BadgePrivate
	default:
		return BadgeOther
	}
}

// formatNumber prints v with the fewest digits that round-trip.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// truncate shortens s to maxWidth terminal cells, adding "…" if truncated.
// Width-aware so Hangul (two cells per rune) does not overflow.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, "…")
}

// RenderTabs renders the two category tabs with active highlighted.
func RenderTabs(active feed.Category, width int) string {
	tabs := make([]string, 0, 2)
	for _, c := range []feed.Category{feed.Courses, feed.Facilities} {
		style := InactiveTab
		if c == active {
			style = ActiveTab
		}
		tabs = append(tabs, style.Render(c.Label()))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, row)
}

// loadingText is the full-screen message while the first page is pending.
func loadingText(c feed.Category) string {
	object := "강좌를"
	if c == feed.Facilities {
		object = "시설을"
	}
	return "회원님에게 맞는 맞춤 " + object + " 찾는 중입니다.\n2~3분 소요될 수 있습니다."
}

// RenderStatusBar renders the bottom bar: position or state on the left, the
// short help on the right.
func RenderStatusBar(left, hints string, width int) string {
	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(hints)
	padding := width - leftWidth - rightWidth - 2
	if padding < 1 {
		padding = 1
	}
	return StatusBar.Width(width).Render(left + strings.Repeat(" ", padding) + hints)
}
