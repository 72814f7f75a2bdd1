// Package tui implements the terminal browser over the movie and character
// lists.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Sternrassler/mortyverse/pkg/listing"
	"github.com/Sternrassler/mortyverse/pkg/rickmorty"
	"github.com/Sternrassler/mortyverse/pkg/tmdb"
)

// MovieSource is the movie repository used by the browser.
type MovieSource interface {
	FetchMovies(ctx context.Context, page int, query string) (listing.PageResult[tmdb.Movie], error)
	MovieDetails(ctx context.Context, id int) (tmdb.MovieDetails, error)
	Reviews(ctx context.Context, id int) ([]tmdb.Review, error)
}

// CharacterSource is the character repository used by the browser.
type CharacterSource interface {
	FetchCharacters(ctx context.Context, page int, query string) (listing.PageResult[rickmorty.Character], error)
	Character(ctx context.Context, id int) (rickmorty.Character, error)
}

// Tab selects a list.
type Tab int

const (
	TabMovies Tab = iota
	TabCharacters
)

// ParseTab maps "movies" or "characters" to a Tab.
func ParseTab(s string) (Tab, error) {
	switch strings.ToLower(s) {
	case "movies", "movie":
		return TabMovies, nil
	case "characters", "character", "":
		return TabCharacters, nil
	default:
		return 0, fmt.Errorf("unknown list %q (want movies or characters)", s)
	}
}

// Options configures the browser.
type Options struct {
	// Movies backs the movies tab. Nil hides it.
	Movies MovieSource

	// Characters backs the characters tab (required).
	Characters CharacterSource

	// Debounce overrides listing.DefaultDebounce when positive.
	Debounce time.Duration

	// Tab is the list shown first.
	Tab Tab
}

// Model is the bubbletea model of the browser.
type Model struct {
	keys KeyMap

	movieSource     MovieSource
	characterSource CharacterSource
	movies          *listPane[tmdb.Movie]
	characters      *listPane[rickmorty.Character]

	active    Tab
	search    textinput.Model
	searching bool
	spinner   spinner.Model
	detail    detailView
	err       error

	width  int
	height int
}

// NewModel creates the controllers and the model. Call Close when done.
func NewModel(opts Options) (Model, error) {
	if opts.Characters == nil {
		return Model{}, fmt.Errorf("characters source is required")
	}

	m := Model{
		keys:            DefaultKeyMap(),
		movieSource:     opts.Movies,
		characterSource: opts.Characters,
		active:          opts.Tab,
	}

	charCtrl, err := listing.NewController[rickmorty.Character](opts.Characters.FetchCharacters, listConfig("characters", opts.Debounce))
	if err != nil {
		return Model{}, fmt.Errorf("create character list: %w", err)
	}
	m.characters = newListPane("Characters", charCtrl, renderCharacter, func(s listing.State[rickmorty.Character]) tea.Msg {
		return charactersStateMsg{state: s}
	})

	if opts.Movies != nil {
		movieCtrl, err := listing.NewController[tmdb.Movie](opts.Movies.FetchMovies, listConfig("movies", opts.Debounce))
		if err != nil {
			m.characters.close()
			return Model{}, fmt.Errorf("create movie list: %w", err)
		}
		m.movies = newListPane("Movies", movieCtrl, renderMovie, func(s listing.State[tmdb.Movie]) tea.Msg {
			return moviesStateMsg{state: s}
		})
	} else {
		m.active = TabCharacters
	}

	m.search = textinput.New()
	m.search.Placeholder = "Search..."
	m.search.Prompt = "/ "
	m.search.CharLimit = 100

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = selectedStyle

	return m, nil
}

func listConfig(name string, debounce time.Duration) listing.Config {
	cfg := listing.DefaultConfig(name)
	if debounce > 0 {
		cfg.Debounce = debounce
	}
	return cfg
}

// Close releases the controllers and any open detail screen.
func (m Model) Close() {
	if m.detail != nil {
		m.detail.close()
	}
	if m.movies != nil {
		m.movies.close()
	}
	m.characters.close()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.characters.wait()}
	if m.movies != nil {
		cmds = append(cmds, m.movies.wait())
	}
	cmds = append(cmds, m.startActive())
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.search.Width = max(msg.Width-4, 10)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case moviesStateMsg:
		if m.movies == nil {
			return m, nil
		}
		m.movies.apply(msg.state)
		return m, m.movies.wait()

	case charactersStateMsg:
		m.characters.apply(msg.state)
		return m, m.characters.wait()

	case detailChangedMsg:
		return m, msg.next

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.searching {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		prev := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if v := m.search.Value(); v != prev {
			m.setSearch(v)
		}
		return m, cmd
	}

	if m.detail != nil {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.detail.close()
			m.detail = nil
		case key.Matches(msg, m.keys.Retry):
			m.detail.retry()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextTab):
		if m.movies == nil {
			return m, nil
		}
		if m.active == TabMovies {
			m.active = TabCharacters
			m.search.SetValue(m.characters.search)
		} else {
			m.active = TabMovies
			m.search.SetValue(m.movies.search)
		}
		return m, m.startActive()

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.Retry):
		if m.active == TabMovies {
			m.movies.ctrl.Retry()
		} else {
			m.characters.ctrl.Retry()
		}

	case key.Matches(msg, m.keys.Enter):
		return m.openDetail()
	}

	return m, nil
}

func (m *Model) startActive() tea.Cmd {
	if m.active == TabMovies {
		return m.movies.start()
	}
	return m.characters.start()
}

func (m *Model) moveCursor(delta int) {
	if m.active == TabMovies {
		m.movies.move(delta)
	} else {
		m.characters.move(delta)
	}
}

func (m *Model) setSearch(text string) {
	if m.active == TabMovies {
		m.movies.setSearch(text)
	} else {
		m.characters.setSearch(text)
	}
}

func (m Model) openDetail() (tea.Model, tea.Cmd) {
	var (
		view detailView
		err  error
	)

	if m.active == TabMovies {
		movie, ok := m.movies.selected()
		if !ok {
			return m, nil
		}
		view, err = newMovieDetail(m.movieSource, movie)
	} else {
		character, ok := m.characters.selected()
		if !ok {
			return m, nil
		}
		view, err = newCharacterDetail(m.characterSource, character)
	}

	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.detail = view
	return m, view.start()
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.tabsView() + "\n")

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View() + "\n")
	} else {
		b.WriteString(dimStyle.Render("/ search") + "\n")
	}
	b.WriteString("\n")

	spin := m.spinner.View()
	width := max(m.width-4, 0)
	if m.detail != nil {
		b.WriteString(m.detail.view(width, spin))
	} else {
		rows := 20
		if m.height > 0 {
			rows = max(m.height-7, 1)
		}
		if m.active == TabMovies {
			b.WriteString(m.movies.view(rows, spin))
		} else {
			b.WriteString(m.characters.view(rows, spin))
		}
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()))
	}

	b.WriteString("\n\n" + m.footerView())
	return b.String()
}

func (m Model) tabsView() string {
	tabs := make([]string, 0, 2)
	if m.movies != nil {
		tabs = append(tabs, tabLabel(m.movies.title, m.active == TabMovies))
	}
	tabs = append(tabs, tabLabel(m.characters.title, m.active == TabCharacters))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func tabLabel(title string, active bool) string {
	if active {
		return activeTabStyle.Render(title)
	}
	return inactiveTabStyle.Render(title)
}

func (m Model) footerView() string {
	var help string
	switch {
	case m.searching:
		help = "enter/esc done"
	case m.detail != nil:
		help = helpLine(m.keys.Back, m.keys.Retry, m.keys.Quit)
	default:
		help = helpLine(m.keys.Up, m.keys.Down, m.keys.Enter, m.keys.Search, m.keys.NextTab, m.keys.Quit)
	}

	status := m.characters.status()
	if m.active == TabMovies {
		status = m.movies.status()
	}
	if status != "" && m.detail == nil {
		help = status + "  " + help
	}
	return dimStyle.Render(help)
}

func renderMovie(movie tmdb.Movie) string {
	line := movie.Title
	if year := movie.Year(); year != "" {
		line += dimStyle.Render(" (" + year + ")")
	}
	return line + "  " + ratingStyle.Render("★ "+movie.Rating())
}

func renderCharacter(c rickmorty.Character) string {
	return c.Name + dimStyle.Render(" · "+c.Status+" · "+c.Species)
}

// Run starts the browser in the alternate screen and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}
