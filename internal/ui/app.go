package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jisooooooooooo/sportus/internal/feed"
	"github.com/jisooooooooooo/sportus/internal/nav"
	"github.com/jisooooooooooo/sportus/internal/otel"
	"github.com/jisooooooooooo/sportus/internal/proximity"
)

// headerLines is the tab row plus a blank line.
const headerLines = 2

// AppConfig holds the command factories and settings for the App.
// The App performs no I/O itself; every side effect is a tea.Cmd built here.
type AppConfig struct {
	Locate   func() tea.Cmd
	Fetch    func(req feed.Request) tea.Cmd
	Navigate func(in nav.Intent) tea.Cmd

	Logger *otel.Logger
	Ring   *otel.RingBuffer

	Category        feed.Category
	MaxItems        int
	ProximityMargin int
	ShowDebug       bool
}

// App is the root Bubble Tea model. Update is the only place feed state
// changes.
type App struct {
	locate   func() tea.Cmd
	fetch    func(req feed.Request) tea.Cmd
	navigate func(in nav.Intent) tea.Cmd

	logger *otel.Logger
	ring   *otel.RingBuffer

	selector *feed.Selector
	trigger  *proximity.EdgeTrigger

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	cursor    int
	offset    int
	width     int
	height    int
	ready     bool
	showDebug bool
	notice    string // last navigation route
	err       error  // last fetch or navigation error
}

// NewApp creates an App from cfg.
func NewApp(cfg AppConfig) App {
	logger := cfg.Logger
	if logger == nil {
		logger = otel.NewNullLogger()
	}
	ctrl := feed.New(cfg.Category, feed.WithMaxItems(cfg.MaxItems))
	return App{
		locate:    cfg.Locate,
		fetch:     cfg.Fetch,
		navigate:  cfg.Navigate,
		logger:    logger,
		ring:      cfg.Ring,
		selector:  feed.NewSelector(ctrl),
		trigger:   proximity.NewEdgeTrigger(cfg.ProximityMargin),
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(SpinnerStyle)),
		showDebug: cfg.ShowDebug,
	}
}

func (a App) ctrl() *feed.Controller {
	return a.selector.Controller()
}

// Init starts the spinner and the one-shot location step.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spinner.Tick}
	if a.locate != nil {
		cmds = append(cmds, a.locate())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if otel.TraceEnabled() {
		a.logger.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindMsgReceived, Comp: "ui", Msg: fmt.Sprintf("%T", msg)})
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.ready = true
		a.clampScroll()
		return a, a.checkProximity()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case LocationAcquired:
		a.logger.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindLocationAcquired, Comp: "ui", Msg: msg.Coordinate.String()})
		req, ok := a.ctrl().SetCoordinate(msg.Coordinate)
		a.keys.Relocate.SetEnabled(false)
		if !ok {
			return a, nil
		}
		return a, a.issue(req)

	case LocationFailed:
		a.ctrl().Block(msg.Err)
		a.keys.Relocate.SetEnabled(a.ctrl().Status() == feed.StatusBlocked)
		a.logger.Error(otel.KindLocationError, "ui", msg.Err)
		return a, nil

	case PageFetched:
		return a.handlePage(msg)

	case Navigated:
		if msg.Err != nil {
			a.err = msg.Err
			a.logger.Error(otel.KindStoreError, "ui", msg.Err)
			return a, nil
		}
		a.notice = msg.Route
		return a, nil
	}

	return a, nil
}

// handlePage applies a fetch completion to the feed.
func (a App) handlePage(msg PageFetched) (tea.Model, tea.Cmd) {
	req := msg.Request
	var res feed.Result
	if msg.Err != nil {
		res = a.ctrl().OnFetchFailed(req, msg.Err)
		if !res.Stale {
			a.err = msg.Err
		}
	} else {
		res = a.ctrl().OnFetchSucceeded(req, msg.Page)
		if !res.Stale {
			a.err = nil
		}
	}

	if res.Stale {
		a.logger.Emit(otel.Event{
			Level:     otel.LevelInfo,
			Kind:      otel.KindFetchStale,
			Comp:      "ui",
			RequestID: msg.RequestID,
			Feed:      req.Session,
			Category:  req.Category.String(),
			Page:      req.Page,
			Count:     len(msg.Page.Items),
		})
		if res.Next != nil {
			return a, a.issue(*res.Next)
		}
		return a, a.checkProximity()
	}

	if res.Dropped > 0 {
		a.cursor -= res.Dropped
		a.offset -= res.Dropped
		a.logger.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindFeedTrimmed, Comp: "ui", Feed: req.Session, Count: res.Dropped})
	}
	a.clampScroll()

	if msg.Err == nil && !msg.Page.HasMore {
		a.logger.Emit(otel.Event{
			Level:    otel.LevelInfo,
			Kind:     otel.KindFeedExhausted,
			Comp:     "ui",
			Feed:     req.Session,
			Category: req.Category.String(),
			Page:     req.Page,
			Count:    a.ctrl().Len(),
		})
	}
	if msg.Err != nil {
		// The sentinel has not moved; nothing refires until the user scrolls
		// or presses r.
		return a, nil
	}
	return a, a.checkProximity()
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if otel.TraceEnabled() {
		a.logger.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindKeyPress, Comp: "ui", Msg: msg.String()})
	}
	a.keys.Relocate.SetEnabled(a.ctrl().Status() == feed.StatusBlocked)
	items := a.ctrl().Len()

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Toggle):
		return a.switchTo(otherCategory(a.selector.Active()))

	case key.Matches(msg, a.keys.Courses):
		return a.switchTo(feed.Courses)

	case key.Matches(msg, a.keys.Facilities):
		return a.switchTo(feed.Facilities)

	case key.Matches(msg, a.keys.Down):
		if a.cursor < items-1 {
			a.cursor++
		}
		a.clampScroll()
		return a, a.checkProximity()

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
		a.clampScroll()
		return a, a.checkProximity()

	case key.Matches(msg, a.keys.Top):
		a.cursor = 0
		a.clampScroll()
		return a, a.checkProximity()

	case key.Matches(msg, a.keys.Bottom):
		if items > 0 {
			a.cursor = items - 1
		}
		a.clampScroll()
		return a, a.checkProximity()

	case key.Matches(msg, a.keys.Select):
		return a.selectCurrent()

	case key.Matches(msg, a.keys.Retry):
		a.err = nil
		a.trigger.Reset()
		return a, a.checkProximity()

	case key.Matches(msg, a.keys.Relocate):
		if !a.ctrl().Unblock() || a.locate == nil {
			return a, nil
		}
		a.logger.Info(otel.KindLocationStart, "ui", "retry")
		return a, a.locate()

	case key.Matches(msg, a.keys.Debug):
		a.showDebug = !a.showDebug
		return a, nil

	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		a.clampScroll()
		return a, nil
	}

	return a, nil
}

func otherCategory(c feed.Category) feed.Category {
	if c == feed.Courses {
		return feed.Facilities
	}
	return feed.Courses
}

// switchTo changes the active tab. Selecting the active tab does nothing.
func (a App) switchTo(c feed.Category) (tea.Model, tea.Cmd) {
	if c == a.selector.Active() {
		return a, nil
	}
	from := a.selector.Active()
	req, ok := a.selector.Select(c)
	a.cursor, a.offset = 0, 0
	a.err = nil
	a.notice = ""
	a.logger.Emit(otel.Event{
		Level:    otel.LevelInfo,
		Kind:     otel.KindCategorySwitch,
		Comp:     "ui",
		Feed:     a.ctrl().Session(),
		Category: c.String(),
		Msg:      from.String() + " -> " + c.String(),
	})
	if !ok {
		return a, nil
	}
	return a, a.issue(req)
}

// selectCurrent emits the navigation intent for the card under the cursor.
func (a App) selectCurrent() (tea.Model, tea.Cmd) {
	st := a.ctrl().State()
	if a.cursor < 0 || a.cursor >= len(st.Items) {
		return a, nil
	}
	item := st.Items[a.cursor]
	a.logger.Emit(otel.Event{
		Level:    otel.LevelInfo,
		Kind:     otel.KindNavSelect,
		Comp:     "ui",
		Category: st.Category.String(),
		Msg:      nav.DetailRoute(item.PlaceID),
	})
	if a.navigate == nil {
		return a, nil
	}
	return a, a.navigate(nav.Intent{Item: item, Category: st.Category})
}

// issue turns a feed request into the fetch command.
func (a App) issue(req feed.Request) tea.Cmd {
	if a.fetch == nil {
		return nil
	}
	return a.fetch(req)
}

// viewport reports the visible slice of the list in card units.
func (a App) viewport() proximity.Viewport {
	return proximity.Viewport{
		Offset: a.offset,
		Height: visibleCards(a.listHeight()),
		Total:  a.ctrl().Len(),
	}
}

// checkProximity asks for the next page when the end of the list is in view.
func (a App) checkProximity() tea.Cmd {
	if !a.ready {
		return nil
	}
	if !a.trigger.Observe(a.viewport()) {
		return nil
	}
	a.logger.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindNearEnd, Comp: "ui", Count: a.ctrl().Len()})

	req, skip := a.ctrl().RequestNextPage()
	if skip != feed.SkipNone {
		a.logger.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindFetchSkip, Comp: "ui", Msg: skip.String()})
		return nil
	}
	return a.issue(req)
}

// listHeight is the number of lines available for cards.
func (a App) listHeight() int {
	h := a.height - headerLines - lipgloss.Height(a.statusBar())
	if a.err != nil {
		h--
	}
	if a.ctrl().Status() == feed.StatusLoading && a.ctrl().Len() > 0 {
		h-- // inline spinner row
	}
	if h < 0 {
		h = 0
	}
	return h
}

func (a *App) clampScroll() {
	n := a.ctrl().Len()
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	a.offset = calcScrollOffset(a.offset, a.cursor, visibleCards(a.listHeight()), n)
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(RenderTabs(a.selector.Active(), a.width))
	b.WriteString("\n\n")

	if a.showDebug && a.ring != nil {
		b.WriteString(debugOverlay(a.ring, a.ctrl().State(), a.width, a.height-headerLines-1))
		b.WriteString("\n")
		b.WriteString(a.statusBar())
		return b.String()
	}

	b.WriteString(a.body())

	if a.err != nil {
		b.WriteString(ErrorStyle.Width(a.width).Render("추천 데이터를 가져오지 못했습니다: " + truncate(a.err.Error(), a.width-24)))
		b.WriteString("\n")
	}
	b.WriteString(a.statusBar())
	return b.String()
}

// body renders the main area for the current feed status.
func (a App) body() string {
	st := a.ctrl().State()
	centered := func(s string) string {
		return lipgloss.Place(a.width, a.listHeight(), lipgloss.Center, lipgloss.Center, s) + "\n"
	}

	switch {
	case st.Status == feed.StatusBlocked:
		reason := "위치 정보를 사용할 수 없습니다."
		if st.Err != nil {
			reason = st.Err.Error()
		}
		return centered(lipgloss.JoinVertical(lipgloss.Center,
			BlockedTitle.Render("위치 정보를 가져오는 데 실패했습니다."),
			CardMeta.Render(reason),
			"",
			StatusBarText.Render("L: 다시 시도 · q: 종료"),
		))

	case len(st.Items) == 0 && st.IsLoading:
		return centered(lipgloss.JoinVertical(lipgloss.Center,
			a.spinner.View(),
			"",
			LoadingMessage.Render(loadingText(st.Category)),
		))

	case len(st.Items) == 0 && st.Status == feed.StatusExhausted:
		return centered(HelpStyle.Render("주변에 추천할 장소가 없습니다."))

	case len(st.Items) == 0:
		return centered(HelpStyle.Render("추천 결과가 없습니다. r 키로 다시 불러오세요."))
	}

	out := RenderFeed(st.Items, a.cursor, a.offset, a.width, a.listHeight())
	if st.Status == feed.StatusLoading {
		out += lipgloss.PlaceHorizontal(a.width, lipgloss.Center, a.spinner.View()) + "\n"
	}
	return out
}

// statusBar renders the position and key hints.
func (a App) statusBar() string {
	st := a.ctrl()
	var left string
	switch {
	case a.notice != "":
		left = "→ " + a.notice
	case st.Len() > 0:
		left = fmt.Sprintf("%d/%d", a.cursor+1, st.Len())
		if st.Status() == feed.StatusExhausted {
			left += " · 끝"
		}
	default:
		left = st.Status().String()
	}
	if a.help.ShowAll {
		return StatusBar.Width(a.width).Render(left) + "\n" + a.help.View(a.keys)
	}
	return RenderStatusBar(left, a.help.View(a.keys), a.width)
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// Offset returns the first visible card index (for testing).
func (a App) Offset() int {
	return a.offset
}

// State returns the feed snapshot (for testing).
func (a App) State() feed.State {
	return a.ctrl().State()
}

// Err returns the error shown in the error bar, if any.
func (a App) Err() error {
	return a.err
}

// Notice returns the last navigation route shown in the status bar.
func (a App) Notice() string {
	return a.notice
}

// DebugVisible reports whether the debug overlay is shown.
func (a App) DebugVisible() bool {
	return a.showDebug
}
