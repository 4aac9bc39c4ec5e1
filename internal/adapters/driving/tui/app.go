package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/views/addsource"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/views/extract"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/views/recordcontent"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/views/recorddetails"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/views/records"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/views/sourcedetail"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/views/sources"
	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// menuView is the main navigation menu.
	menuView *menu.View

	// extractView runs extractions with live progress.
	extractView *extract.View

	// sourcesView is the sources management view component.
	sourcesView *sources.View

	// sourceDetailView is the source detail view component.
	sourceDetailView *sourcedetail.View

	// recordsView is the records list view component.
	recordsView *records.View

	// recordContentView is the record content view component.
	recordContentView *recordcontent.View

	// recordDetailsView is the record metadata view component.
	recordDetailsView *recorddetails.View

	// addSourceView is the add source wizard view component.
	addSourceView *addsource.View

	// settingsView is the settings configuration view component.
	settingsView *settings.View

	// selectedSource tracks the currently selected source for navigation.
	selectedSource *domain.SourceConfig

	// selectedRecord tracks the currently selected record for navigation.
	selectedRecord *domain.StoredRecord

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	menuView := menu.NewView(s)
	extractView := extract.NewView(s, nil, ports.Extract, ports.Source)
	sourcesView := sources.NewView(s, ports.Source, ports.Records)
	sourceDetailView := sourcedetail.NewView(s, ports.Source, ports.Extract, ports.Records)
	recordsView := records.NewView(s, ports.Records)
	recordContentView := recordcontent.NewView(s, ports.Records)
	recordDetailsView := recorddetails.NewView(s)
	addSourceView := addsource.NewView(s, ports.Source, ports.SourceTypes, ports.Settings)
	settingsView := settings.NewView(s, ports.Settings)

	return &App{
		ports:             ports,
		ctx:               context.Background(),
		styles:            s,
		menuView:          menuView,
		extractView:       extractView,
		sourcesView:       sourcesView,
		sourceDetailView:  sourceDetailView,
		recordsView:       recordsView,
		recordContentView: recordContentView,
		recordDetailsView: recordDetailsView,
		addSourceView:     addSourceView,
		settingsView:      settingsView,
		currentView:       messages.ViewMenu, // Start with menu
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("gleaner - Record Extraction"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.menuView.SetDimensions(msg.Width, msg.Height)
		a.extractView.SetDimensions(msg.Width, msg.Height)
		a.sourcesView.SetDimensions(msg.Width, msg.Height)
		a.sourceDetailView.SetDimensions(msg.Width, msg.Height)
		a.recordsView.SetDimensions(msg.Width, msg.Height)
		a.recordContentView.SetDimensions(msg.Width, msg.Height)
		a.recordDetailsView.SetDimensions(msg.Width, msg.Height)
		a.addSourceView.SetDimensions(msg.Width, msg.Height)
		a.settingsView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Forward key messages to active view
		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
			return a, cmd

		case messages.ViewExtract:
			a.extractView, cmd = a.extractView.Update(msg)
			a.err = a.extractView.Err()
			return a, cmd

		case messages.ViewSources:
			// Esc from sources goes to menu
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			a.sourcesView, cmd = a.sourcesView.Update(msg)
			return a, cmd

		case messages.ViewSourceDetail:
			a.sourceDetailView, cmd = a.sourceDetailView.Update(msg)
			return a, cmd

		case messages.ViewRecords:
			a.recordsView, cmd = a.recordsView.Update(msg)
			return a, cmd

		case messages.ViewRecordContent:
			a.recordContentView, cmd = a.recordContentView.Update(msg)
			return a, cmd

		case messages.ViewRecordDetails:
			a.recordDetailsView, cmd = a.recordDetailsView.Update(msg)
			return a, cmd

		case messages.ViewHelp:
			// Esc from help goes to menu
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			return a, nil

		case messages.ViewAddSource:
			a.addSourceView, cmd = a.addSourceView.Update(msg)
			return a, cmd

		case messages.ViewSettings:
			a.settingsView, cmd = a.settingsView.Update(msg)
			return a, cmd
		}
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		// Initialise views when switching to them
		switch msg.View {
		case messages.ViewExtract:
			return a, a.extractView.Init()
		case messages.ViewSources:
			return a, a.sourcesView.Init()
		case messages.ViewSourceDetail:
			return a, a.sourceDetailView.Init()
		case messages.ViewAddSource:
			a.addSourceView.Reset()
			return a, a.addSourceView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewHelp,
			messages.ViewRecords, messages.ViewRecordContent, messages.ViewRecordDetails:
			// Other views don't need special initialisation
		}
		return a, nil

	case messages.SourceSelected:
		a.selectedSource = &msg.Source
		a.sourceDetailView.SetSource(msg.Source)
		// Selecting from the detail view drills into the records list.
		if a.currentView == messages.ViewSourceDetail {
			a.currentView = messages.ViewRecords
			return a, a.recordsView.SetSource(msg.Source)
		}
		// Coming from sources list
		a.currentView = messages.ViewSourceDetail
		return a, a.sourceDetailView.Init()

	case messages.RecordsLoaded:
		a.recordsView, cmd = a.recordsView.Update(msg)
		return a, cmd

	case messages.RecordSelected:
		// Navigate to record content
		a.selectedRecord = &msg.Record
		a.currentView = messages.ViewRecordContent
		return a, a.recordContentView.SetRecord(&msg.Record)

	case messages.RecordContentLoaded:
		a.recordContentView, cmd = a.recordContentView.Update(msg)
		return a, cmd

	case messages.RecordDetailsLoaded:
		if msg.Err != nil {
			a.err = msg.Err
		} else if details, ok := msg.Details.(*driving.RecordDetails); ok {
			a.recordDetailsView.SetDetails(details)
			a.currentView = messages.ViewRecordDetails
		}
		return a, nil

	case messages.RecordsPurged:
		if a.currentView == messages.ViewSourceDetail {
			a.sourceDetailView, cmd = a.sourceDetailView.Update(msg)
			return a, cmd
		}
		a.recordsView, cmd = a.recordsView.Update(msg)
		return a, cmd

	case messages.ExtractStarted, messages.ExtractCompleted:
		// Extraction progress can surface in the extract view or the
		// source detail view, depending on where the run was started.
		if a.currentView == messages.ViewSourceDetail {
			a.sourceDetailView, cmd = a.sourceDetailView.Update(msg)
			return a, cmd
		}
		a.extractView, cmd = a.extractView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		// Forward to current view
		switch a.currentView {
		case messages.ViewExtract:
			a.extractView, cmd = a.extractView.Update(msg)
		case messages.ViewRecords:
			a.recordsView, cmd = a.recordsView.Update(msg)
		case messages.ViewRecordContent:
			a.recordContentView, cmd = a.recordContentView.Update(msg)
		case messages.ViewRecordDetails:
			a.recordDetailsView, cmd = a.recordDetailsView.Update(msg)
		case messages.ViewAddSource:
			a.addSourceView, cmd = a.addSourceView.Update(msg)
		case messages.ViewMenu, messages.ViewSources, messages.ViewHelp,
			messages.ViewSourceDetail, messages.ViewSettings:
			// Other views don't handle error messages
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit

	case messages.SourcesLoaded, messages.SourceRemoved:
		// Forward to relevant view
		if a.currentView == messages.ViewSources {
			a.sourcesView, cmd = a.sourcesView.Update(msg)
			return a, cmd
		}
		if a.currentView == messages.ViewSourceDetail {
			a.sourceDetailView, cmd = a.sourceDetailView.Update(msg)
			return a, cmd
		}
		if a.currentView == messages.ViewExtract {
			a.extractView, cmd = a.extractView.Update(msg)
			return a, cmd
		}

	case messages.SourceAdded:
		// Forward to add source view
		if a.currentView == messages.ViewAddSource {
			a.addSourceView, cmd = a.addSourceView.Update(msg)
			return a, cmd
		}

	case messages.SettingsLoaded, messages.SettingsSaved:
		// Forward to settings view
		if a.currentView == messages.ViewSettings {
			a.settingsView, cmd = a.settingsView.Update(msg)
			return a, cmd
		}
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewExtract:
		a.extractView, cmd = a.extractView.Update(msg)
	case messages.ViewSources:
		a.sourcesView, cmd = a.sourcesView.Update(msg)
	case messages.ViewSourceDetail:
		a.sourceDetailView, cmd = a.sourceDetailView.Update(msg)
	case messages.ViewRecords:
		a.recordsView, cmd = a.recordsView.Update(msg)
	case messages.ViewRecordContent:
		a.recordContentView, cmd = a.recordContentView.Update(msg)
	case messages.ViewRecordDetails:
		a.recordDetailsView, cmd = a.recordDetailsView.Update(msg)
	case messages.ViewAddSource:
		a.addSourceView, cmd = a.addSourceView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewExtract:
		return a.extractView.View()
	case messages.ViewSources:
		return a.sourcesView.View()
	case messages.ViewSourceDetail:
		return a.sourceDetailView.View()
	case messages.ViewRecords:
		return a.recordsView.View()
	case messages.ViewRecordContent:
		return a.recordContentView.View()
	case messages.ViewRecordDetails:
		return a.recordDetailsView.View()
	case messages.ViewAddSource:
		return a.addSourceView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Extract:
  j/k, ↑/↓    Navigate sources
  enter       Extract selected source
  a           Extract all sources
  r           Reload source list

Records:
  j/k, ↑/↓    Navigate records
  enter       View record content
  esc         Back

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.extractView.SetDimensions(width, height)
}
