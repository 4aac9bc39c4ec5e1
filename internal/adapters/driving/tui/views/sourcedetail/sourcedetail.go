// Package sourcedetail provides the source detail view component for the TUI.
package sourcedetail

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
)

// MenuOption represents an action in the source detail menu.
type MenuOption int

const (
	OptionViewRecords MenuOption = iota
	OptionExtractNow
	OptionPurgeRecords
	OptionDeleteSource
	OptionBack
)

// View is the source detail view.
type View struct {
	styles         *styles.Styles
	sourceService  driving.SourceService
	extract        driving.ExtractOrchestrator
	recordsService driving.RecordsService

	source      *domain.SourceConfig
	recordCount int
	selected    MenuOption
	width       int
	height      int
	ready       bool
	err         error
	extracting  bool
	deleting    bool
}

// NewView creates a new source detail view.
func NewView(
	s *styles.Styles,
	sourceService driving.SourceService,
	extract driving.ExtractOrchestrator,
	recordsService driving.RecordsService,
) *View {
	return &View{
		styles:         s,
		sourceService:  sourceService,
		extract:        extract,
		recordsService: recordsService,
		selected:       OptionViewRecords,
	}
}

// SetSource sets the source to display details for.
func (v *View) SetSource(source domain.SourceConfig) {
	v.source = &source
	v.err = nil
	v.extracting = false
	v.deleting = false
	v.selected = OptionViewRecords
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.loadRecordCount()
}

// loadRecordCount returns a command that counts records for the source.
func (v *View) loadRecordCount() tea.Cmd {
	return func() tea.Msg {
		if v.source == nil || v.recordsService == nil {
			return nil
		}

		count, err := v.recordsService.Count(context.Background(), v.source.ID)
		if err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		v.recordCount = count
		return nil
	}
}

// Update handles messages for the source detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SourceRemoved:
		v.deleting = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			// Navigate back after deletion
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewSources}
			}
		}
		return v, nil

	case messages.ExtractCompleted:
		v.extracting = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		// Refresh the record count after extraction
		return v, v.loadRecordCount()

	case messages.RecordsPurged:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.recordCount = 0
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.extracting = false
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > OptionViewRecords {
			v.selected--
		}
	case "down", "j":
		if v.selected < OptionBack {
			v.selected++
		}
	case "enter":
		return v.handleSelect()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSources}
		}
	}

	return v, nil
}

// handleSelect handles selection of a menu option.
func (v *View) handleSelect() (*View, tea.Cmd) {
	switch v.selected {
	case OptionViewRecords:
		if v.source != nil {
			return v, func() tea.Msg {
				return messages.SourceSelected{Source: *v.source}
			}
		}
	case OptionExtractNow:
		v.extracting = true
		cmd := v.extractSource()
		return v, cmd
	case OptionPurgeRecords:
		cmd := v.purgeRecords()
		return v, cmd
	case OptionDeleteSource:
		cmd := v.deleteSource()
		return v, cmd
	case OptionBack:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSources}
		}
	}
	return v, nil
}

// extractSource returns a command that runs extraction for the source.
func (v *View) extractSource() tea.Cmd {
	return func() tea.Msg {
		if v.source == nil || v.extract == nil {
			return messages.ErrorOccurred{Err: fmt.Errorf("extraction not available")}
		}

		err := v.extract.Extract(context.Background(), v.source.ID)
		return messages.ExtractCompleted{SourceID: v.source.ID, Err: err}
	}
}

// purgeRecords returns a command that purges records for the source.
func (v *View) purgeRecords() tea.Cmd {
	return func() tea.Msg {
		if v.source == nil || v.recordsService == nil {
			return messages.ErrorOccurred{Err: fmt.Errorf("records service not available")}
		}

		err := v.recordsService.Purge(context.Background(), v.source.ID)
		return messages.RecordsPurged{SourceID: v.source.ID, Err: err}
	}
}

// deleteSource returns a command that deletes the source.
func (v *View) deleteSource() tea.Cmd {
	return func() tea.Msg {
		if v.source == nil || v.sourceService == nil {
			return messages.SourceRemoved{Err: fmt.Errorf("source service not available")}
		}

		v.deleting = true
		err := v.sourceService.Remove(context.Background(), v.source.ID)
		return messages.SourceRemoved{ID: v.source.ID, Err: err}
	}
}

// View renders the source detail view.
func (v *View) View() string {
	if v.source == nil {
		return v.styles.Muted.Render("No source selected")
	}

	var b strings.Builder

	// Title
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Source: %s", v.source.Name)))
	b.WriteString("\n\n")

	// Source info
	b.WriteString(v.styles.Subtitle.Render("Type: "))
	b.WriteString(v.styles.Normal.Render(v.source.Type))
	b.WriteString("\n")

	b.WriteString(v.styles.Subtitle.Render("ID: "))
	b.WriteString(v.styles.Muted.Render(v.source.ID))
	b.WriteString("\n")

	b.WriteString(v.styles.Subtitle.Render("Records: "))
	b.WriteString(v.styles.Normal.Render(fmt.Sprintf("%d", v.recordCount)))
	b.WriteString("\n\n")

	// Error state
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	// Status
	if v.extracting {
		b.WriteString(v.styles.Muted.Render("Extracting..."))
		b.WriteString("\n\n")
	}
	if v.deleting {
		b.WriteString(v.styles.Muted.Render("Deleting..."))
		b.WriteString("\n\n")
	}

	// Menu separator
	b.WriteString(strings.Repeat("─", minInt(40, v.width-4)))
	b.WriteString("\n\n")

	// Menu options
	options := []struct {
		option MenuOption
		label  string
	}{
		{OptionViewRecords, "View Records"},
		{OptionExtractNow, "Extract Now"},
		{OptionPurgeRecords, "Purge Records"},
		{OptionDeleteSource, "Delete Source"},
		{OptionBack, "Back"},
	}

	for _, opt := range options {
		indicator := "  "
		if v.selected == opt.option {
			indicator = "> "
			b.WriteString(v.styles.Selected.Render(fmt.Sprintf("%s%s", indicator, opt.label)))
		} else {
			b.WriteString(v.styles.Normal.Render(fmt.Sprintf("%s%s", indicator, opt.label)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] navigate  [enter] select  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Source returns the current source.
func (v *View) Source() *domain.SourceConfig {
	return v.source
}

// SelectedOption returns the currently selected menu option.
func (v *View) SelectedOption() MenuOption {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
