// Package records provides the records list view component for the TUI.
package records

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
)

// ActionOption represents a record action.
type ActionOption int

const (
	ActionShowContent ActionOption = iota
	ActionShowDetails
	ActionCancel
)

// View is the records list view.
type View struct {
	styles         *styles.Styles
	recordsService driving.RecordsService

	source       *domain.SourceConfig
	records      []domain.StoredRecord
	list         *list.RecordList
	filter       *input.FilterInput
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
	showingMenu  bool
	menuSelected ActionOption
}

// NewView creates a new records view.
func NewView(s *styles.Styles, recordsService driving.RecordsService) *View {
	return &View{
		styles:         s,
		recordsService: recordsService,
		records:        []domain.StoredRecord{},
		list:           list.NewRecordList(s),
		filter:         input.NewFilterInput(s),
	}
}

// SetSource sets the source and loads its records.
func (v *View) SetSource(source domain.SourceConfig) tea.Cmd {
	v.source = &source
	v.records = []domain.StoredRecord{}
	v.list.SetRecords(nil)
	v.filter.Reset()
	v.filter.Blur()
	v.err = nil
	v.showingMenu = false
	return v.loadRecords()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// loadRecords returns a command that loads records for the source.
func (v *View) loadRecords() tea.Cmd {
	return func() tea.Msg {
		if v.source == nil || v.recordsService == nil {
			return messages.RecordsLoaded{Err: fmt.Errorf("records service not available")}
		}

		v.loading = true
		records, err := v.recordsService.ListBySource(context.Background(), v.source.ID, 0, 0)
		return messages.RecordsLoaded{
			SourceID: v.source.ID,
			Records:  records,
			Err:      err,
		}
	}
}

// Update handles messages for the records view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.showingMenu {
			return v.handleMenuKeyMsg(msg)
		}
		if v.filter.Focused() {
			return v.handleFilterKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.RecordsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.records = msg.Records
			v.err = nil
			v.applyFilter()
		}
		return v, nil

	case messages.RecordsPurged:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			cmd := v.loadRecords()
			return v, cmd
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses in list mode.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		v.list.MoveUp()
	case "down", "j":
		v.list.MoveDown()
	case "enter":
		if !v.list.IsEmpty() {
			v.showingMenu = true
			v.menuSelected = ActionShowContent
		}
	case "/":
		cmd := v.filter.Focus()
		return v, cmd
	case "esc":
		if v.filter.Value() != "" {
			v.filter.Reset()
			v.applyFilter()
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSourceDetail}
		}
	case "r":
		// Reload records
		v.loading = true
		cmd := v.loadRecords()
		return v, cmd
	}

	return v, nil
}

// handleFilterKeyMsg handles key presses while the filter input is focused.
func (v *View) handleFilterKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "enter":
		v.filter.Blur()
		return v, nil
	case "esc":
		v.filter.Reset()
		v.filter.Blur()
		v.applyFilter()
		return v, nil
	}

	_, cmd := v.filter.Update(msg)
	v.applyFilter()
	return v, cmd
}

// handleMenuKeyMsg handles key presses in action menu mode.
func (v *View) handleMenuKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.menuSelected > ActionShowContent {
			v.menuSelected--
		}
	case "down", "j":
		if v.menuSelected < ActionCancel {
			v.menuSelected++
		}
	case "enter":
		return v.handleMenuSelect()
	case "esc":
		v.showingMenu = false
	}

	return v, nil
}

// handleMenuSelect handles selection of an action.
func (v *View) handleMenuSelect() (*View, tea.Cmd) {
	record := v.list.SelectedRecord()
	if record == nil {
		v.showingMenu = false
		return v, nil
	}

	switch v.menuSelected {
	case ActionShowContent:
		v.showingMenu = false
		selected := *record
		return v, func() tea.Msg {
			return messages.RecordSelected{Record: selected}
		}
	case ActionShowDetails:
		v.showingMenu = false
		cmd := v.loadRecordDetails(record.ID)
		return v, cmd
	case ActionCancel:
		v.showingMenu = false
	}

	return v, nil
}

// loadRecordDetails returns a command that loads record details.
func (v *View) loadRecordDetails(recordID string) tea.Cmd {
	return func() tea.Msg {
		if v.recordsService == nil {
			return messages.ErrorOccurred{Err: fmt.Errorf("records service not available")}
		}

		details, err := v.recordsService.GetDetails(context.Background(), recordID)
		return messages.RecordDetailsLoaded{
			RecordID: recordID,
			Details:  details,
			Err:      err,
		}
	}
}

// applyFilter narrows the visible records to those matching the filter text.
func (v *View) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(v.filter.Value()))
	if query == "" {
		v.list.SetRecords(v.records)
		return
	}

	filtered := make([]domain.StoredRecord, 0, len(v.records))
	for i := range v.records {
		rec := &v.records[i]
		if strings.Contains(strings.ToLower(rec.Origin), query) ||
			strings.Contains(strings.ToLower(rec.Content), query) {
			filtered = append(filtered, *rec)
		}
	}
	v.list.SetRecords(filtered)
}

// View renders the records view.
func (v *View) View() string {
	var b strings.Builder

	// Title
	sourceName := "Unknown"
	if v.source != nil {
		sourceName = v.source.Name
	}
	title := fmt.Sprintf("Records - %s (%d)", sourceName, len(v.records))
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	// Loading state
	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading records..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// Error state
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// Empty state
	if len(v.records) == 0 {
		b.WriteString(v.styles.Muted.Render("No records extracted for this source."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// Action menu overlay
	if v.showingMenu {
		b.WriteString(v.renderActionMenu())
		return b.String()
	}

	// Filter input (shown when focused or holding a query)
	if v.filter.Focused() || v.filter.Value() != "" {
		b.WriteString(v.filter.View())
		b.WriteString("\n\n")
	}

	// Records list
	b.WriteString(v.list.View())

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderActionMenu renders the action menu overlay.
func (v *View) renderActionMenu() string {
	var b strings.Builder

	// Show selected record context
	if record := v.list.SelectedRecord(); record != nil {
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Actions for: %s", record.Origin)))
		b.WriteString("\n\n")
	}

	// Menu options
	options := []struct {
		action ActionOption
		label  string
	}{
		{ActionShowContent, "Show Content"},
		{ActionShowDetails, "Show Details"},
		{ActionCancel, "Cancel"},
	}

	for _, opt := range options {
		indicator := "  "
		if v.menuSelected == opt.action {
			indicator = "> "
			b.WriteString(v.styles.Selected.Render(fmt.Sprintf("%s%s", indicator, opt.label)))
		} else {
			b.WriteString(v.styles.Normal.Render(fmt.Sprintf("%s%s", indicator, opt.label)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] select  [esc] cancel"))

	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] navigate  [enter] actions  [/] filter  [r] reload  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.filter.SetWidth(width)
	// Reserve lines for title, filter, and help
	listHeight := height - 8
	if listHeight < 4 {
		listHeight = 4
	}
	v.list.SetDimensions(width, listHeight)
}

// Records returns the current list of records.
func (v *View) Records() []domain.StoredRecord {
	return v.records
}

// SelectedIndex returns the currently selected record index.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// SelectedRecord returns the currently selected record.
func (v *View) SelectedRecord() *domain.StoredRecord {
	return v.list.SelectedRecord()
}

// IsShowingMenu returns true if the action menu is visible.
func (v *View) IsShowingMenu() bool {
	return v.showingMenu
}

// FilterValue returns the current filter text.
func (v *View) FilterValue() string {
	return v.filter.Value()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
