package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/jisooooooooooo/sportus/internal/feed"
)

func makeItems(n int) []feed.Item {
	items := make([]feed.Item, n)
	for i := range items {
		items[i] = feed.Item{
			PlaceID:     int64(i + 1),
			Name:        fmt.Sprintf("item-%03d", i),
			Category:    feed.PlacePublic,
			Rating:      4,
			ReviewCount: i,
			Distance:    float64(100 * i),
			Address:     "서울",
		}
	}
	return items
}

func TestVisibleCards(t *testing.T) {
	tests := []struct {
		height int
		want   int
	}{
		{0, 0},
		{-3, 0},
		{1, 1},
		{4, 1},
		{5, 1},
		{9, 1},
		{10, 2},
		{37, 7},
	}
	for _, tt := range tests {
		if got := visibleCards(tt.height); got != tt.want {
			t.Errorf("visibleCards(%d) = %d, want %d", tt.height, got, tt.want)
		}
	}
}

func TestCalcScrollOffset(t *testing.T) {
	tests := []struct {
		name                         string
		prev, cursor, visible, total int
		want                         int
	}{
		{"cursor at top", 0, 0, 6, 100, 0},
		{"cursor within viewport", 0, 5, 6, 100, 0},
		{"cursor one past viewport", 0, 6, 6, 100, 1},
		{"cursor far down", 0, 99, 6, 100, 94},
		{"scroll up to cursor", 50, 40, 6, 100, 40},
		{"keeps window while cursor visible", 10, 12, 6, 100, 10},
		{"clamps to last full window", 98, 99, 6, 100, 94},
		{"list shorter than viewport", 3, 2, 6, 4, 0},
		{"cursor past end", 0, 20, 6, 10, 4},
		{"empty list", 5, 0, 6, 0, 0},
		{"no space", 5, 3, 0, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calcScrollOffset(tt.prev, tt.cursor, tt.visible, tt.total)
			if got != tt.want {
				t.Errorf("calcScrollOffset(%d, %d, %d, %d) = %d, want %d",
					tt.prev, tt.cursor, tt.visible, tt.total, got, tt.want)
			}
		})
	}
}

func TestCalcScrollOffsetCursorAlwaysVisible(t *testing.T) {
	const total = 50
	for visible := 1; visible <= 10; visible++ {
		offset := 0
		for cursor := 0; cursor < total; cursor++ {
			offset = calcScrollOffset(offset, cursor, visible, total)
			if cursor < offset || cursor >= offset+visible {
				t.Fatalf("visible=%d cursor=%d: offset=%d hides cursor", visible, cursor, offset)
			}
		}
		for cursor := total - 1; cursor >= 0; cursor-- {
			offset = calcScrollOffset(offset, cursor, visible, total)
			if cursor < offset || cursor >= offset+visible {
				t.Fatalf("visible=%d cursor=%d (up): offset=%d hides cursor", visible, cursor, offset)
			}
		}
	}
}

func TestRenderFeedNoOverRender(t *testing.T) {
	items := makeItems(500)
	height := 30

	out := RenderFeed(items, 250, 248, 80, height)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) > height {
		t.Errorf("rendered %d lines, want <= %d", len(lines), height)
	}
	if !strings.Contains(out, "item-248") || !strings.Contains(out, "item-253") {
		t.Error("window should start at the offset and fill six cards")
	}
	if strings.Contains(out, "item-247") || strings.Contains(out, "item-254") {
		t.Error("items outside the window rendered")
	}
}

func TestRenderFeedMarksCursor(t *testing.T) {
	items := makeItems(10)
	out := RenderFeed(items, 2, 0, 80, 30)

	var marked []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(ansi.Strip(line), "▌ ") {
			marked = append(marked, ansi.Strip(line))
		}
	}
	if len(marked) != cardLines {
		t.Fatalf("%d marked lines, want %d", len(marked), cardLines)
	}
	if !strings.Contains(marked[1], "item-002") {
		t.Errorf("marked card is %q, want item-002", marked[1])
	}
}

func TestRenderCardLines(t *testing.T) {
	item := feed.Item{
		PlaceID:     7,
		Name:        "강남 스포츠센터",
		Category:    feed.PlaceCategory("SURFING"),
		Rating:      4.25,
		ReviewCount: 1234,
		Distance:    850.5,
		Address:     "서울 강남구 역삼동",
	}
	lines := strings.Split(ansi.Strip(renderCard(item, false, 80)), "\n")
	if len(lines) != cardLines {
		t.Fatalf("card has %d lines, want %d", len(lines), cardLines)
	}
	want := []string{"기타", "강남 스포츠센터", "★ 4.25 (1234)", "850.5m · 서울 강남구 역삼동"}
	for i, w := range want {
		if !strings.Contains(lines[i], w) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i], w)
		}
	}
}

func TestRenderCardBadgeLabels(t *testing.T) {
	for _, c := range []feed.PlaceCategory{feed.PlacePublic, feed.PlacePrivate, feed.PlaceYoga} {
		out := ansi.Strip(renderCard(feed.Item{Name: "x", Category: c}, false, 80))
		if !strings.Contains(out, c.Label()) {
			t.Errorf("%s: badge %q missing from %q", c, c.Label(), out)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"ascii cut", "hello world", 6, "hello…"},
		{"zero width", "hello", 0, ""},
		{"hangul fits", "수영장", 6, "수영장"},
		{"hangul cut", "강남구민체육센터", 7, "강남구…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.width)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
			if w := ansi.StringWidth(got); w > tt.width {
				t.Errorf("width %d exceeds %d", w, tt.width)
			}
		})
	}
}

func TestLoadingText(t *testing.T) {
	if got := loadingText(feed.Courses); !strings.HasPrefix(got, "회원님에게 맞는 맞춤 강좌를 찾는 중입니다.") {
		t.Errorf("courses: %q", got)
	}
	if got := loadingText(feed.Facilities); !strings.HasPrefix(got, "회원님에게 맞는 맞춤 시설을 찾는 중입니다.") {
		t.Errorf("facilities: %q", got)
	}
	if !strings.HasSuffix(loadingText(feed.Courses), "2~3분 소요될 수 있습니다.") {
		t.Error("missing duration hint")
	}
}

func TestRenderTabs(t *testing.T) {
	out := ansi.Strip(RenderTabs(feed.Facilities, 60))
	if !strings.Contains(out, "강좌 추천") || !strings.Contains(out, "시설 추천") {
		t.Errorf("tabs missing labels: %q", out)
	}
	if w := ansi.StringWidth(out); w > 60 {
		t.Errorf("tabs width %d exceeds 60", w)
	}
}

func TestRenderStatusBarFitsWidth(t *testing.T) {
	out := RenderStatusBar("3/40", "q quit", 50)
	if w := ansi.StringWidth(out); w != 50 {
		t.Errorf("status bar width %d, want 50", w)
	}
	plain := ansi.Strip(out)
	if !strings.Contains(plain, "3/40") || !strings.Contains(plain, "q quit") {
		t.Errorf("status bar content %q", plain)
	}
}
