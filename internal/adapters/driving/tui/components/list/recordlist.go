// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

// RecordList displays extracted records in a navigable list.
type RecordList struct {
	records  []domain.StoredRecord
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewRecordList creates a new record list component.
func NewRecordList(s *styles.Styles) *RecordList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RecordList{
		records:  nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the record list.
func (r *RecordList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *RecordList) Update(msg tea.Msg) (*RecordList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			r.MoveUp()
		case tea.KeyDown:
			r.MoveDown()
		default:
			// Handle other keys
		}
		switch msg.String() {
		case "k":
			r.MoveUp()
		case "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the record list.
func (r *RecordList) View() string {
	if len(r.records) == 0 {
		return r.styles.Muted.Render("No records")
	}

	lines := make([]string, 0, len(r.records)*2+2)

	// Header
	header := r.styles.Subtitle.Render(fmt.Sprintf("Records (%d)", len(r.records)))
	lines = append(lines, header, "")

	// Each record takes 2 lines (origin + preview), keep a margin for the header
	visibleCount := (r.height - 4) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.records) {
		end = len(r.records)
	}

	for i := start; i < end; i++ {
		line := r.renderRecord(i, &r.records[i])
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// renderRecord formats a single record with a content preview.
func (r *RecordList) renderRecord(index int, record *domain.StoredRecord) string {
	// Indicator for selected item
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	origin := record.Origin
	if origin == "" {
		origin = "(unknown origin)"
	}

	// Truncate origin if too long
	maxOriginLen := r.width - 10
	if maxOriginLen < 10 {
		maxOriginLen = 10
	}
	if len(origin) > maxOriginLen {
		origin = origin[:maxOriginLen-3] + "..."
	}

	var originLine string
	if index == r.selected {
		originLine = r.styles.Selected.Render(indicator + origin)
	} else {
		originLine = r.styles.Normal.Render(indicator + origin)
	}

	// Preview text is the first line of content
	preview := record.Content
	if idx := strings.IndexByte(preview, '\n'); idx >= 0 {
		preview = preview[:idx]
	}

	// Truncate preview to fit width
	maxPreviewLen := r.width - 6
	if maxPreviewLen < 20 {
		maxPreviewLen = 20
	}
	if len(preview) > maxPreviewLen {
		preview = preview[:maxPreviewLen-3] + "..."
	}

	previewLine := r.styles.Muted.Render("    " + preview)

	return originLine + "\n" + previewLine
}

// SetRecords updates the record list.
func (r *RecordList) SetRecords(records []domain.StoredRecord) {
	r.records = records
	r.selected = 0
}

// Records returns the current records.
func (r *RecordList) Records() []domain.StoredRecord {
	return r.records
}

// Selected returns the index of the selected record.
func (r *RecordList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *RecordList) SetSelected(index int) {
	if index >= 0 && index < len(r.records) {
		r.selected = index
	}
}

// SelectedRecord returns the currently selected record, or nil if none.
func (r *RecordList) SelectedRecord() *domain.StoredRecord {
	if len(r.records) == 0 || r.selected < 0 || r.selected >= len(r.records) {
		return nil
	}
	return &r.records[r.selected]
}

// MoveUp moves selection up.
func (r *RecordList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *RecordList) MoveDown() {
	if r.selected < len(r.records)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *RecordList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *RecordList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *RecordList) Height() int {
	return r.height
}

// Count returns the number of records.
func (r *RecordList) Count() int {
	return len(r.records)
}

// IsEmpty returns whether the list is empty.
func (r *RecordList) IsEmpty() bool {
	return len(r.records) == 0
}
