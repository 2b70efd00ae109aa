// Package tui provides the interactive Bubble Tea frontend for campdown.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/catlinman/campdown/internal/config"
	"github.com/catlinman/campdown/internal/download"
	"github.com/catlinman/campdown/internal/logging"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1DA0C3")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	releaseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateResolving
	StateDownloading
	StateComplete
	StateError
)

// eventBuffer collects progress events from the manager's goroutines.
// The model drains it on every tick, since Bubble Tea models must only
// change inside Update.
type eventBuffer struct {
	mu     sync.Mutex
	events []download.ProgressEvent
}

func (b *eventBuffer) add(event download.ProgressEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *eventBuffer) drain() []download.ProgressEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	events := b.events
	b.events = nil
	return events
}

// Model is the Bubble Tea model for the campdown TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []download.ProgressEvent
	releases  []string
	err       error

	ctx    context.Context
	cancel context.CancelFunc

	manager *download.Manager
	buffer  *eventBuffer

	totalFiles     int32
	completedFiles int32
	receivedBytes  int64

	// Option toggles shown on the input screen
	shortNames bool
	playlist   bool
	noArtwork  bool
	verbose    bool

	width  int
	height int
}

// NewModel creates the TUI model with the given base settings.
func NewModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "https://artist.bandcamp.com/album/name"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#1DA0C3"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		buffer:    &eventBuffer{},
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

type (
	// ResolveDoneMsg is sent when the manager finished resolving releases.
	ResolveDoneMsg struct {
		Releases []string
		Manager  *download.Manager
		Err      error
	}

	// DownloadDoneMsg is sent when the whole run finished.
	DownloadDoneMsg struct {
		Failed int
		Err    error
	}

	// TickMsg drives periodic progress polling.
	TickMsg struct{}
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateResolving || m.state == StateDownloading {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				m.state = StateResolving
				return m, tea.Batch(m.resolve(), m.spinner.Tick, m.tick())
			}

		case "s":
			if m.state == StateInput {
				m.shortNames = !m.shortNames
			}

		case "p":
			if m.state == StateInput {
				m.playlist = !m.playlist
			}

		case "a":
			if m.state == StateInput {
				m.noArtwork = !m.noArtwork
			}

		case "v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.state = StateInput
				m.logs = nil
				m.releases = nil
				m.err = nil
				m.completedFiles = 0
				m.totalFiles = 0
				m.receivedBytes = 0
				m.manager = nil
				m.buffer = &eventBuffer{}
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ResolveDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.releases = msg.Releases
			m.manager = msg.Manager
			m.state = StateDownloading
			cmds = append(cmds, m.startDownload(), m.tick())
		}

	case DownloadDoneMsg:
		m.drainEvents()
		if m.manager != nil {
			received, _, completed, total := m.manager.Progress()
			m.receivedBytes = received
			m.completedFiles = completed
			m.totalFiles = total
		}
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		case msg.Failed > 0:
			m.state = StateError
			m.err = fmt.Errorf("%d tracks failed to download", msg.Failed)
		default:
			m.state = StateComplete
		}

	case TickMsg:
		m.drainEvents()
		if m.manager != nil && m.state == StateDownloading {
			received, _, completed, total := m.manager.Progress()
			m.receivedBytes = received
			m.completedFiles = completed
			m.totalFiles = total

			var percent float64
			if total > 0 {
				percent = float64(completed) / float64(total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent))
		}
		if m.state == StateResolving || m.state == StateDownloading {
			cmds = append(cmds, m.tick())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) drainEvents() {
	for _, event := range m.buffer.drain() {
		if event.Level == download.LevelVerbose && !m.verbose {
			continue
		}
		m.logs = append(m.logs, event)
	}
	if len(m.logs) > 10 {
		m.logs = m.logs[len(m.logs)-10:]
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("campdown"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download music from Bandcamp"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateResolving:
		b.WriteString(m.viewResolving())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter a Bandcamp track, album or artist URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Short file names (s)\n", checkbox(m.shortNames)))
	b.WriteString(fmt.Sprintf("  %s Create playlist (p)\n", checkbox(m.playlist)))
	b.WriteString(fmt.Sprintf("  %s Skip cover art (a)\n", checkbox(m.noArtwork)))
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", checkbox(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output path: %s", m.settings.OutputPath)))
	b.WriteString("\n")

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (m Model) viewResolving() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Resolving releases..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	if len(m.releases) > 0 {
		b.WriteString(successStyle.Render(fmt.Sprintf("Found %d release(s):", len(m.releases))))
		b.WriteString("\n")
		for _, release := range m.releases {
			b.WriteString(releaseStyle.Render("  " + release))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	var percent float64
	if m.totalFiles > 0 {
		percent = float64(m.completedFiles) / float64(m.totalFiles)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | Downloaded: %.2f MB",
		m.completedFiles,
		m.totalFiles,
		float64(m.receivedBytes)/1024/1024,
	)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	return boxStyle.Render(fmt.Sprintf(
		"Download complete\n\n"+
			"Releases: %d\n"+
			"Files: %d\n"+
			"Size: %.2f MB",
		len(m.releases),
		m.completedFiles,
		float64(m.receivedBytes)/1024/1024,
	))
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString("  " + m.err.Error())
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, event := range m.logs {
		var style lipgloss.Style
		prefix := "*"
		switch event.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "x"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "+"
		case download.LevelInfo:
			style = infoStyle
			prefix = ">"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + event.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		return "enter: start | s: short names | p: playlist | a: no art | v: verbose | esc: quit"
	case StateResolving, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new download | q: quit"
	}
	return ""
}

// resolve applies the option toggles and fetches release info.
func (m *Model) resolve() tea.Cmd {
	url := m.textInput.Value()
	buffer := m.buffer
	ctx := m.ctx

	settings := *m.settings
	settings.ShortNames = m.shortNames
	settings.CreatePlaylist = m.playlist
	if m.noArtwork {
		settings.SaveArtwork = false
		settings.EmbedArtwork = false
	}

	return func() tea.Msg {
		manager := download.NewManager(&settings, logging.NewNop(), buffer.add)

		if err := manager.Resolve(ctx, url); err != nil {
			return ResolveDoneMsg{Err: err}
		}
		manager.ProbeSizes(ctx)

		return ResolveDoneMsg{
			Releases: manager.ReleaseNames(),
			Manager:  manager,
		}
	}
}

// startDownload runs the download in the background.
func (m *Model) startDownload() tea.Cmd {
	manager := m.manager
	ctx := m.ctx

	return func() tea.Msg {
		if manager == nil {
			return DownloadDoneMsg{Err: fmt.Errorf("no releases resolved")}
		}

		err := manager.Start(ctx)

		return DownloadDoneMsg{
			Failed: manager.Failed(),
			Err:    err,
		}
	}
}

// Run starts the interactive TUI.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
