package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Sternrassler/mortyverse/pkg/listing"
)

// nearEnd is how close the cursor must get to the last row before the next
// page is requested.
const nearEnd = 3

// listPane renders one controller and tracks its cursor.
type listPane[T listing.Item] struct {
	title  string
	ctrl   *listing.Controller[T]
	states <-chan listing.State[T]
	unsub  func()
	wrap   func(listing.State[T]) tea.Msg
	render func(T) string

	state  listing.State[T]
	search string
	cursor int
	offset int
}

func newListPane[T listing.Item](title string, ctrl *listing.Controller[T], render func(T) string, wrap func(listing.State[T]) tea.Msg) *listPane[T] {
	states, unsub := ctrl.Subscribe()
	return &listPane[T]{
		title:  title,
		ctrl:   ctrl,
		states: states,
		unsub:  unsub,
		wrap:   wrap,
		render: render,
		state:  ctrl.State(),
	}
}

// wait returns a command delivering the next state of the controller.
func (p *listPane[T]) wait() tea.Cmd {
	return waitForState(p.states, p.wrap)
}

// start loads page 1 if the list has not been loaded yet.
func (p *listPane[T]) start() tea.Cmd {
	return func() tea.Msg {
		p.ctrl.StartLoading()
		return nil
	}
}

func (p *listPane[T]) apply(s listing.State[T]) {
	p.state = s
	if p.cursor >= len(s.Items) {
		p.cursor = max(len(s.Items)-1, 0)
	}
	if s.Kind != listing.KindLoaded {
		p.cursor, p.offset = 0, 0
	}
}

// move shifts the cursor and requests the next page once it nears the end.
func (p *listPane[T]) move(delta int) {
	n := len(p.state.Items)
	if n == 0 {
		return
	}
	p.cursor = min(max(p.cursor+delta, 0), n-1)
	if p.cursor >= n-nearEnd {
		p.ctrl.LoadNextPage()
	}
}

func (p *listPane[T]) selected() (T, bool) {
	var zero T
	if p.state.Kind != listing.KindLoaded || p.cursor >= len(p.state.Items) {
		return zero, false
	}
	return p.state.Items[p.cursor], true
}

func (p *listPane[T]) setSearch(text string) {
	p.search = text
	p.ctrl.SetSearchText(text)
}

func (p *listPane[T]) close() {
	p.unsub()
	_ = p.ctrl.Close()
}

// view renders at most rows lines of the list body.
func (p *listPane[T]) view(rows int, spin string) string {
	switch p.state.Kind {
	case listing.KindIdle:
		return dimStyle.Render("Press / to search")
	case listing.KindLoading:
		return spin + " Loading..."
	case listing.KindError:
		return errorStyle.Render(p.state.Message) + "\n\n" + dimStyle.Render("Press r to retry")
	}

	items := p.state.Items
	if len(items) == 0 {
		return dimStyle.Render("No results")
	}

	if p.state.IsLoadingMore {
		rows--
	}
	rows = max(rows, 1)
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+rows {
		p.offset = p.cursor - rows + 1
	}
	end := min(p.offset+rows, len(items))

	var b strings.Builder
	for i := p.offset; i < end; i++ {
		line := p.render(items[i])
		if i == p.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if p.state.IsLoadingMore {
		b.WriteString("\n" + spin + dimStyle.Render(" Loading more..."))
	}
	return b.String()
}

// status renders the footer summary for the list.
func (p *listPane[T]) status() string {
	if p.state.Kind != listing.KindLoaded {
		return ""
	}
	more := ""
	if p.state.HasMore {
		more = "+"
	}
	return fmt.Sprintf("%d%s items, page %d", len(p.state.Items), more, p.state.CurrentPage)
}
