package recordcontent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
)

// MockRecordsService implements driving.RecordsService for testing.
type MockRecordsService struct {
	GetFunc func(ctx context.Context, recordID string) (*domain.StoredRecord, error)
}

func (m *MockRecordsService) ListBySource(ctx context.Context, sourceID string, limit, offset int) ([]domain.StoredRecord, error) {
	return nil, nil
}

func (m *MockRecordsService) Get(ctx context.Context, recordID string) (*domain.StoredRecord, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, recordID)
	}
	return &domain.StoredRecord{ID: recordID}, nil
}

func (m *MockRecordsService) GetDetails(ctx context.Context, recordID string) (*driving.RecordDetails, error) {
	return nil, nil
}

func (m *MockRecordsService) Count(ctx context.Context, sourceID string) (int, error) {
	return 0, nil
}

func (m *MockRecordsService) Purge(ctx context.Context, sourceID string) error {
	return nil
}

func TestNewView(t *testing.T) {
	s := styles.DefaultStyles()
	mock := &MockRecordsService{}

	view := NewView(s, mock)

	require.NotNil(t, view)
	assert.False(t, view.ready)
	assert.Empty(t, view.content)
}

func TestNewView_NilParams(t *testing.T) {
	view := NewView(nil, nil)

	require.NotNil(t, view)
	assert.Nil(t, view.styles)
	assert.Nil(t, view.recordsService)
}

func TestView_SetRecord(t *testing.T) {
	mock := &MockRecordsService{
		GetFunc: func(ctx context.Context, recordID string) (*domain.StoredRecord, error) {
			assert.Equal(t, "rec-1", recordID)
			return &domain.StoredRecord{ID: "rec-1", Content: "Test content"}, nil
		},
	}
	view := NewView(nil, mock)

	record := domain.StoredRecord{ID: "rec-1", Origin: "notes/a.txt"}
	cmd := view.SetRecord(&record)

	require.NotNil(t, cmd)
	assert.Equal(t, "rec-1", view.record.ID)
	assert.Equal(t, 0, view.scrollOffset)

	// Execute command
	result := cmd()
	loaded, ok := result.(messages.RecordContentLoaded)
	require.True(t, ok)
	assert.Equal(t, "rec-1", loaded.RecordID)
	assert.Equal(t, "Test content", loaded.Content)
}

func TestView_Init(t *testing.T) {
	view := NewView(nil, nil)

	cmd := view.Init()

	assert.Nil(t, cmd)
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil, nil)

	msg := tea.WindowSizeMsg{Width: 80, Height: 24}
	updated, cmd := view.Update(msg)

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.True(t, view.ready)
	assert.Equal(t, 80, view.width)
	assert.Equal(t, 24, view.height)
}

func TestView_Update_ContentLoaded(t *testing.T) {
	view := NewView(nil, nil)
	view.width = 80
	view.height = 24
	view.record = &domain.StoredRecord{ID: "rec-1"}

	msg := messages.RecordContentLoaded{
		RecordID: "rec-1",
		Content:  "Line 1\nLine 2\nLine 3",
		Err:      nil,
	}
	updated, cmd := view.Update(msg)

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.Equal(t, "Line 1\nLine 2\nLine 3", view.content)
	assert.False(t, view.loading)
	assert.NoError(t, view.err)
}

func TestView_Update_ContentLoaded_Error(t *testing.T) {
	view := NewView(nil, nil)

	msg := messages.RecordContentLoaded{Err: errors.New("failed to load")}
	updated, cmd := view.Update(msg)

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.Error(t, view.err)
}

func TestView_Update_KeyMsg_ScrollDown(t *testing.T) {
	view := NewView(nil, nil)
	view.width = 80
	view.height = 10
	view.content = generateMultilineContent(12)
	view.wrapContent()

	msg := tea.KeyMsg{Type: tea.KeyDown}
	view.Update(msg)
	assert.Equal(t, 1, view.scrollOffset)

	// Test j key
	msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
	view.Update(msg)
	assert.Equal(t, 2, view.scrollOffset)
}

func TestView_Update_KeyMsg_ScrollUp(t *testing.T) {
	view := NewView(nil, nil)
	view.width = 80
	view.height = 10
	view.scrollOffset = 5

	msg := tea.KeyMsg{Type: tea.KeyUp}
	view.Update(msg)
	assert.Equal(t, 4, view.scrollOffset)

	// Test k key
	msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}
	view.Update(msg)
	assert.Equal(t, 3, view.scrollOffset)

	// Test boundary
	view.scrollOffset = 0
	msg = tea.KeyMsg{Type: tea.KeyUp}
	view.Update(msg)
	assert.Equal(t, 0, view.scrollOffset)
}

func TestView_Update_KeyMsg_PageDown(t *testing.T) {
	view := NewView(nil, nil)
	view.width = 80
	view.height = 10
	view.content = generateMultilineContent(20)
	view.wrapContent()
	view.scrollOffset = 0

	msg := tea.KeyMsg{Type: tea.KeyPgDown}
	view.Update(msg)
	assert.Greater(t, view.scrollOffset, 0)
}

func TestView_Update_KeyMsg_PageUp(t *testing.T) {
	view := NewView(nil, nil)
	view.width = 80
	view.height = 10
	view.content = "Line 1\nLine 2\nLine 3"
	view.wrapContent()
	view.scrollOffset = 5

	msg := tea.KeyMsg{Type: tea.KeyPgUp}
	view.Update(msg)
	assert.Less(t, view.scrollOffset, 5)
}

func TestView_Update_KeyMsg_CtrlU(t *testing.T) {
	view := NewView(nil, nil)
	view.width = 80
	view.height = 15
	view.content = generateMultilineContent(30)
	view.wrapContent()
	view.scrollOffset = 10

	msg := tea.KeyMsg{Type: tea.KeyCtrlU}
	view.Update(msg)

	assert.Less(t, view.scrollOffset, 10, "Ctrl+U should scroll up by visible lines")
}

func TestView_Update_KeyMsg_CtrlD(t *testing.T) {
	view := NewView(nil, nil)
	view.width = 80
	view.height = 15
	view.content = generateMultilineContent(30)
	view.wrapContent()
	view.scrollOffset = 5

	msg := tea.KeyMsg{Type: tea.KeyCtrlD}
	view.Update(msg)

	assert.Greater(t, view.scrollOffset, 5, "Ctrl+D should scroll down by visible lines")
}

func TestView_Update_KeyMsg_HomeKey(t *testing.T) {
	view := NewView(nil, nil)
	view.width = 80
	view.height = 10
	view.content = generateMultilineContent(20)
	view.wrapContent()
	view.scrollOffset = 10

	msg := tea.KeyMsg{Type: tea.KeyHome}
	view.Update(msg)

	assert.Equal(t, 0, view.scrollOffset, "Home key should scroll to top")
}

func TestView_Update_KeyMsg_GKey(t *testing.T) {
	view := NewView(nil, nil)
	view.width = 80
	view.height = 10
	view.content = generateMultilineContent(20)
	view.wrapContent()
	view.scrollOffset = 10

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}}
	view.Update(msg)

	assert.Equal(t, 0, view.scrollOffset, "g key should scroll to top")
}

func TestView_Update_KeyMsg_ShiftG(t *testing.T) {
	view := NewView(nil, nil)
	view.width = 80
	view.height = 10
	view.content = generateMultilineContent(20)
	view.wrapContent()
	view.scrollOffset = 0

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}}
	view.Update(msg)

	assert.Equal(t, view.maxScrollOffset(), view.scrollOffset, "G key should scroll to bottom")
}

func TestView_Update_KeyMsg_Back(t *testing.T) {
	view := NewView(nil, nil)

	msg := tea.KeyMsg{Type: tea.KeyEsc}
	_, cmd := view.Update(msg)

	require.NotNil(t, cmd)
	result := cmd()
	changed, ok := result.(messages.ViewChanged)
	assert.True(t, ok)
	assert.Equal(t, messages.ViewRecords, changed.View)
}

func TestView_Update_ErrorOccurred(t *testing.T) {
	view := NewView(nil, nil)

	msg := messages.ErrorOccurred{Err: errors.New("test error")}
	view.Update(msg)

	assert.Error(t, view.err)
}

func TestView_View_Loading(t *testing.T) {
	s := styles.DefaultStyles()
	view := NewView(s, nil)
	view.width = 80
	view.height = 24
	view.ready = true
	view.loading = true

	output := view.View()

	assert.Contains(t, output, "Loading")
}

func TestView_View_WithContent(t *testing.T) {
	s := styles.DefaultStyles()
	view := NewView(s, nil)
	view.width = 80
	view.height = 24
	view.ready = true
	view.record = &domain.StoredRecord{ID: "rec-1", Origin: "notes/a.txt"}
	view.content = "first extracted line"
	view.wrapContent()

	output := view.View()

	assert.Contains(t, output, "notes/a.txt")
	assert.Contains(t, output, "first extracted line")
}

func TestView_View_Error(t *testing.T) {
	s := styles.DefaultStyles()
	view := NewView(s, nil)
	view.width = 80
	view.height = 24
	view.ready = true
	view.err = errors.New("failed to load content")

	output := view.View()

	assert.Contains(t, output, "Error")
}

func TestView_View_NoRecord(t *testing.T) {
	s := styles.DefaultStyles()
	view := NewView(s, nil)
	view.width = 80
	view.height = 24
	view.ready = true
	view.record = nil

	output := view.View()

	assert.Contains(t, output, "Record Content", "Should show default title when no record")
}

func TestView_View_RecordWithEmptyOrigin(t *testing.T) {
	s := styles.DefaultStyles()
	view := NewView(s, nil)
	view.width = 80
	view.height = 24
	view.ready = true
	view.record = &domain.StoredRecord{ID: "rec-123", Origin: ""}

	output := view.View()

	assert.Contains(t, output, "rec-123", "Should show record ID when origin is empty")
}

func TestView_View_WithScrollIndicator(t *testing.T) {
	s := styles.DefaultStyles()
	view := NewView(s, nil)
	view.width = 80
	view.height = 10
	view.ready = true
	view.record = &domain.StoredRecord{ID: "rec-1", Origin: "notes/a.txt"}
	view.content = generateMultilineContent(30)
	view.wrapContent()
	view.scrollOffset = 5

	output := view.View()

	assert.Contains(t, output, "Line", "Should show scroll indicator")
	assert.Contains(t, output, "%", "Should show percentage")
}

func TestView_View_EmptyContentRendering(t *testing.T) {
	s := styles.DefaultStyles()
	view := NewView(s, nil)
	view.width = 80
	view.height = 24
	view.ready = true
	view.record = &domain.StoredRecord{ID: "rec-1", Origin: "notes/a.txt"}
	view.content = ""
	view.wrapContent()

	output := view.View()

	assert.Contains(t, output, "(No content)", "Should show no content message")
}

func TestView_WrapContent(t *testing.T) {
	view := NewView(nil, nil)
	view.width = 40
	view.content = "Short line\nThis is a much longer line that should be wrapped to fit within the width"
	view.wrapContent()

	assert.NotEmpty(t, view.lines)
}

func TestView_WrapContent_EmptyContent(t *testing.T) {
	view := NewView(nil, nil)
	view.width = 80
	view.content = ""

	view.wrapContent()

	assert.Nil(t, view.lines)
}

func TestView_WrapContent_VeryNarrowWidth(t *testing.T) {
	view := NewView(nil, nil)
	view.width = 10 // Less than minimum + padding
	view.content = "This is a test line that will need wrapping"

	view.wrapContent()

	// Should use minimum width of 20
	assert.NotEmpty(t, view.lines)
	assert.Greater(t, len(view.lines), 1, "Long line should be wrapped")
}

func TestView_WrapContent_ExactWidthLine(t *testing.T) {
	view := NewView(nil, nil)
	view.width = 30
	contentWidth := 26 // width - 4
	view.content = strings.Repeat("x", contentWidth)

	view.wrapContent()

	assert.Len(t, view.lines, 1, "Line that exactly fits should not be wrapped")
}

func TestView_WrapContent_MultipleNewlines(t *testing.T) {
	view := NewView(nil, nil)
	view.width = 80
	view.content = "Line 1\n\n\nLine 2"

	view.wrapContent()

	assert.Len(t, view.lines, 4, "Should preserve empty lines")
}

func TestView_WrapContent_TrailingNewline(t *testing.T) {
	view := NewView(nil, nil)
	view.width = 80
	view.content = "Line 1\nLine 2\n"

	view.wrapContent()

	// Trailing newline creates an empty line
	assert.Len(t, view.lines, 3)
}

func TestView_VisibleLines_VerySmallHeight(t *testing.T) {
	view := NewView(nil, nil)
	view.height = 3 // Less than reserved lines

	lines := view.visibleLines()

	assert.Equal(t, 1, lines, "Should return at least 1 visible line")
}

func TestView_VisibleLines_NormalHeight(t *testing.T) {
	view := NewView(nil, nil)
	view.height = 24

	lines := view.visibleLines()

	assert.Equal(t, 18, lines, "Should calculate correct visible lines (24 - 6 reserved)")
}

func TestView_MaxScrollOffset_ContentFitsScreen(t *testing.T) {
	view := NewView(nil, nil)
	view.height = 24
	view.lines = []string{"Line 1", "Line 2", "Line 3"}

	maxOffset := view.maxScrollOffset()

	assert.Equal(t, 0, maxOffset, "Content that fits on screen should have 0 max offset")
}

func TestView_MaxScrollOffset_ContentExceedsScreen(t *testing.T) {
	view := NewView(nil, nil)
	view.height = 10
	view.lines = make([]string, 30)

	maxOffset := view.maxScrollOffset()

	visible := view.visibleLines()
	expected := 30 - visible
	assert.Equal(t, expected, maxOffset, "Should calculate correct max offset for long content")
	assert.Greater(t, maxOffset, 0)
}

func TestView_LoadContent_NoService(t *testing.T) {
	view := NewView(nil, nil)
	view.record = &domain.StoredRecord{ID: "rec-1"}

	cmd := view.loadContent()
	result := cmd()

	loaded, ok := result.(messages.RecordContentLoaded)
	assert.True(t, ok)
	assert.Error(t, loaded.Err)
}

func TestView_LoadContent_NoRecord(t *testing.T) {
	mock := &MockRecordsService{}
	view := NewView(nil, mock)
	view.record = nil

	cmd := view.loadContent()
	result := cmd()

	loaded, ok := result.(messages.RecordContentLoaded)
	assert.True(t, ok)
	assert.Error(t, loaded.Err)
}

func TestView_LoadContent_GetError(t *testing.T) {
	mock := &MockRecordsService{
		GetFunc: func(ctx context.Context, recordID string) (*domain.StoredRecord, error) {
			return nil, domain.ErrNotFound
		},
	}
	view := NewView(nil, mock)
	view.record = &domain.StoredRecord{ID: "rec-1"}

	cmd := view.loadContent()
	result := cmd()

	loaded, ok := result.(messages.RecordContentLoaded)
	require.True(t, ok)
	assert.ErrorIs(t, loaded.Err, domain.ErrNotFound)
}

func TestView_SetDimensions(t *testing.T) {
	view := NewView(nil, nil)

	view.SetDimensions(100, 50)

	assert.Equal(t, 100, view.width)
	assert.Equal(t, 50, view.height)
}

func TestView_Record_Getter(t *testing.T) {
	view := NewView(nil, nil)
	record := &domain.StoredRecord{ID: "rec-1", Origin: "notes/a.txt"}
	view.record = record

	result := view.Record()

	assert.Equal(t, record, result)
	assert.Equal(t, "rec-1", result.ID)
}

func TestView_Content_Getter(t *testing.T) {
	view := NewView(nil, nil)
	view.content = "Test content here"

	result := view.Content()

	assert.Equal(t, "Test content here", result)
}

func TestView_Err_Getter(t *testing.T) {
	view := NewView(nil, nil)
	testErr := errors.New("test error")
	view.err = testErr

	result := view.Err()

	assert.Equal(t, testErr, result)
}

// Helper function to generate multiline content for testing
func generateMultilineContent(lines int) string {
	var content strings.Builder
	for i := 1; i <= lines; i++ {
		if i > 1 {
			content.WriteString("\n")
		}
		content.WriteString(fmt.Sprintf("This is line number %d with some content", i))
	}
	return content.String()
}
