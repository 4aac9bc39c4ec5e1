// Package extract provides the extraction view for the TUI.
package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
)

// statusPollInterval is how often the view polls extraction status
// while a run is in progress.
const statusPollInterval = 500 * time.Millisecond

// statusTickMsg triggers a status poll while extraction is running.
type statusTickMsg struct{}

// statusUpdatedMsg carries the result of a status poll.
type statusUpdatedMsg struct {
	Status *driving.ExtractStatus
	Err    error
}

// View represents the extraction view: a source list, run controls,
// and a status bar showing extraction progress.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar

	extract       driving.ExtractOrchestrator
	sourceService driving.SourceService
	ctx           context.Context

	sources  []domain.SourceConfig
	selected int

	width   int
	height  int
	ready   bool
	err     error
	loading bool

	running   bool
	runningID string // source being extracted, empty when extracting all
	progress  *driving.ExtractStatus
}

// NewView creates a new extraction view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	extract driving.ExtractOrchestrator,
	sourceService driving.SourceService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		statusbar:     status.NewBar(s, km),
		extract:       extract,
		sourceService: sourceService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view by loading configured sources.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadSources()
}

// Update handles messages for the extraction view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SourcesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.sources = msg.Sources
		if v.selected >= len(v.sources) {
			v.selected = 0
		}
		return v, nil

	case messages.ExtractStarted:
		return v, nil

	case messages.ExtractCompleted:
		v.handleExtractCompleted(msg)
		if msg.Err == nil {
			// One final poll so the counts reflect the finished run.
			return v, v.pollStatus()
		}
		return v, nil

	case statusTickMsg:
		if !v.running {
			return v, nil
		}
		return v, tea.Batch(v.pollStatus(), v.scheduleTick())

	case statusUpdatedMsg:
		v.handleStatusUpdated(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.running = false
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	return v, nil
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
		return v, nil

	case "down", "j":
		if v.selected < len(v.sources)-1 {
			v.selected++
		}
		return v, nil

	case "enter":
		if v.running || len(v.sources) == 0 {
			return v, nil
		}
		return v, v.startExtract(v.sources[v.selected])

	case "a":
		if v.running || len(v.sources) == 0 {
			return v, nil
		}
		return v, v.startExtractAll()

	case "r":
		if v.running {
			return v, nil
		}
		v.loading = true
		return v, v.loadSources()

	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	return v, nil
}

// startExtract begins extraction for a single source.
func (v *View) startExtract(source domain.SourceConfig) tea.Cmd {
	v.running = true
	v.runningID = source.ID
	v.progress = nil
	v.err = nil
	v.statusbar.SetState(status.StateExtracting)
	v.statusbar.SetMessage(source.DisplayName())

	run := func() tea.Msg {
		if v.extract == nil {
			return messages.ExtractCompleted{SourceID: source.ID, Err: ErrNoExtractOrchestrator}
		}
		err := v.extract.Extract(v.ctx, source.ID)
		return messages.ExtractCompleted{SourceID: source.ID, Err: err}
	}

	return tea.Batch(run, v.scheduleTick())
}

// startExtractAll begins extraction for every configured source.
func (v *View) startExtractAll() tea.Cmd {
	v.running = true
	v.runningID = ""
	v.progress = nil
	v.err = nil
	v.statusbar.SetState(status.StateExtracting)
	v.statusbar.SetMessage("all sources")

	run := func() tea.Msg {
		if v.extract == nil {
			return messages.ExtractCompleted{Err: ErrNoExtractOrchestrator}
		}
		err := v.extract.ExtractAll(v.ctx)
		return messages.ExtractCompleted{Err: err}
	}

	return tea.Batch(run, v.scheduleTick())
}

// scheduleTick arms the next status poll.
func (v *View) scheduleTick() tea.Cmd {
	return tea.Tick(statusPollInterval, func(time.Time) tea.Msg {
		return statusTickMsg{}
	})
}

// pollStatus fetches extraction status for the running source.
func (v *View) pollStatus() tea.Cmd {
	sourceID := v.runningID
	if sourceID == "" && len(v.sources) > 0 {
		sourceID = v.sources[v.selected].ID
	}

	return func() tea.Msg {
		if v.extract == nil || sourceID == "" {
			return statusUpdatedMsg{}
		}
		st, err := v.extract.Status(v.ctx, sourceID)
		return statusUpdatedMsg{Status: st, Err: err}
	}
}

// handleExtractCompleted processes the end of an extraction run.
func (v *View) handleExtractCompleted(msg messages.ExtractCompleted) {
	v.running = false

	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.statusbar.SetState(status.StateDone)
	v.statusbar.SetMessage("")
}

// handleStatusUpdated refreshes the progress counters.
func (v *View) handleStatusUpdated(msg statusUpdatedMsg) {
	if msg.Err != nil || msg.Status == nil {
		// A missed poll is not fatal, the next tick retries.
		return
	}

	v.progress = msg.Status
	v.statusbar.SetRecordCount(msg.Status.RecordsExtracted)
}

// loadSources fetches the configured sources.
func (v *View) loadSources() tea.Cmd {
	return func() tea.Msg {
		if v.sourceService == nil {
			return messages.SourcesLoaded{Err: ErrNoSourceService}
		}
		sources, err := v.sourceService.List(v.ctx)
		return messages.SourcesLoaded{Sources: sources, Err: err}
	}
}

// View renders the extraction view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)

	header := v.styles.Title.Render("Extract Records")
	sections = append(sections, header, "")

	if v.err != nil {
		errView := v.styles.Error.Render("Error: " + v.err.Error())
		sections = append(sections, errView, "")
	}

	switch {
	case v.loading:
		sections = append(sections, v.styles.Muted.Render("Loading sources..."))
	case len(v.sources) == 0:
		sections = append(sections, v.styles.Muted.Render("No sources configured. Add one from the Sources view."))
	default:
		sections = append(sections, v.renderSources())
	}

	if v.progress != nil {
		sections = append(sections, "", v.renderProgress())
	}

	sections = append(sections, "", v.renderHelp())

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderSources renders the selectable source list.
func (v *View) renderSources() string {
	lines := make([]string, 0, len(v.sources))
	for i, source := range v.sources {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		label := fmt.Sprintf("%s[%s] %s", indicator, source.Type, source.DisplayName())
		if v.running && source.ID == v.runningID {
			label += " (extracting...)"
		}

		if i == v.selected {
			lines = append(lines, v.styles.Selected.Render(label))
		} else {
			lines = append(lines, v.styles.Normal.Render(label))
		}
	}

	return strings.Join(lines, "\n")
}

// renderProgress renders the running counters from the last status poll.
func (v *View) renderProgress() string {
	return v.styles.Muted.Render(fmt.Sprintf(
		"Blobs seen: %d  Records extracted: %d",
		v.progress.BlobsSeen, v.progress.RecordsExtracted,
	))
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] navigate  [enter] extract  [a] extract all  [r] reload  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Sources returns the loaded sources.
func (v *View) Sources() []domain.SourceConfig {
	return v.sources
}

// SelectedIndex returns the index of the selected source.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Running returns whether an extraction is in progress.
func (v *View) Running() bool {
	return v.running
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
