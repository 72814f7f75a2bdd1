package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Sternrassler/mortyverse/pkg/listing"
	"github.com/Sternrassler/mortyverse/pkg/rickmorty"
	"github.com/Sternrassler/mortyverse/pkg/tmdb"
)

// moviesStateMsg carries a new movie list state.
type moviesStateMsg struct {
	state listing.State[tmdb.Movie]
}

// charactersStateMsg carries a new character list state.
type charactersStateMsg struct {
	state listing.State[rickmorty.Character]
}

// detailChangedMsg signals a detail loader transition. next resumes watching.
type detailChangedMsg struct {
	next tea.Cmd
}

// waitForState delivers the next snapshot from ch as a message.
// A closed channel ends the chain.
func waitForState[S any](ch <-chan S, wrap func(S) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return wrap(s)
	}
}

// watchDetail turns every snapshot on ch into a detailChangedMsg.
func watchDetail[S any](ch <-chan S) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return detailChangedMsg{next: watchDetail(ch)}
	}
}
