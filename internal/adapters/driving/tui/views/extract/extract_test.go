package extract

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
)

// MockExtractOrchestrator implements driving.ExtractOrchestrator for testing.
type MockExtractOrchestrator struct {
	ExtractFunc    func(ctx context.Context, sourceID string) error
	ExtractAllFunc func(ctx context.Context) error
	StatusFunc     func(ctx context.Context, sourceID string) (*driving.ExtractStatus, error)
}

func (m *MockExtractOrchestrator) Extract(ctx context.Context, sourceID string) error {
	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, sourceID)
	}
	return nil
}

func (m *MockExtractOrchestrator) ExtractAll(ctx context.Context) error {
	if m.ExtractAllFunc != nil {
		return m.ExtractAllFunc(ctx)
	}
	return nil
}

func (m *MockExtractOrchestrator) Loader(ctx context.Context, sourceID string) (driving.Loader, error) {
	return nil, nil
}

func (m *MockExtractOrchestrator) Status(ctx context.Context, sourceID string) (*driving.ExtractStatus, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, sourceID)
	}
	return &driving.ExtractStatus{SourceID: sourceID}, nil
}

func (m *MockExtractOrchestrator) Runs(
	ctx context.Context,
	sourceID string,
	limit int,
) ([]domain.ExtractionRun, error) {
	return nil, nil
}

func (m *MockExtractOrchestrator) Watch(ctx context.Context, sourceID string) (<-chan driving.WatchEvent, error) {
	return nil, nil
}

// MockSourceService implements driving.SourceService for testing.
type MockSourceService struct {
	ListFunc func(ctx context.Context) ([]domain.SourceConfig, error)
}

func (m *MockSourceService) Add(ctx context.Context, source domain.SourceConfig) error { return nil }

func (m *MockSourceService) Get(ctx context.Context, id string) (*domain.SourceConfig, error) {
	return nil, nil
}

func (m *MockSourceService) List(ctx context.Context) ([]domain.SourceConfig, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockSourceService) Update(ctx context.Context, source domain.SourceConfig) error {
	return nil
}

func (m *MockSourceService) Remove(ctx context.Context, id string) error { return nil }

func (m *MockSourceService) ValidateConfig(ctx context.Context, sourceType string, config map[string]string) error {
	return nil
}

func testSources() []domain.SourceConfig {
	return []domain.SourceConfig{
		{ID: "src-1", Type: "filesystem", Name: "My Docs"},
		{ID: "src-2", Type: "http", Name: "Wiki Export"},
	}
}

func loadedView(t *testing.T) *View {
	t.Helper()

	view := NewView(nil, nil, &MockExtractOrchestrator{}, nil)
	view.SetDimensions(80, 24)
	view.Update(messages.SourcesLoaded{Sources: testSources()})
	return view
}

func TestNewView(t *testing.T) {
	s := styles.DefaultStyles()

	view := NewView(s, nil, &MockExtractOrchestrator{}, &MockSourceService{})

	require.NotNil(t, view)
	assert.False(t, view.Ready())
	assert.False(t, view.Running())
	assert.Empty(t, view.Sources())
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil, nil, nil, nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.NotNil(t, view.keymap)
}

func TestView_WithContext(t *testing.T) {
	view := NewView(nil, nil, nil, nil)
	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	result := view.WithContext(ctx)

	assert.Equal(t, view, result)
	assert.Equal(t, ctx, view.ctx)
}

func TestView_Init_LoadsSources(t *testing.T) {
	mock := &MockSourceService{
		ListFunc: func(ctx context.Context) ([]domain.SourceConfig, error) {
			return testSources(), nil
		},
	}
	view := NewView(nil, nil, nil, mock)

	cmd := view.Init()

	require.NotNil(t, cmd)
	result := cmd()
	loaded, ok := result.(messages.SourcesLoaded)
	require.True(t, ok)
	assert.NoError(t, loaded.Err)
	assert.Len(t, loaded.Sources, 2)
}

func TestView_Init_NoSourceService(t *testing.T) {
	view := NewView(nil, nil, nil, nil)

	cmd := view.Init()

	require.NotNil(t, cmd)
	result := cmd()
	loaded, ok := result.(messages.SourcesLoaded)
	require.True(t, ok)
	assert.ErrorIs(t, loaded.Err, ErrNoSourceService)
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil, nil, nil, nil)

	msg := tea.WindowSizeMsg{Width: 100, Height: 40}
	updated, cmd := view.Update(msg)

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.True(t, view.Ready())
	assert.Equal(t, 100, view.Width())
	assert.Equal(t, 40, view.Height())
}

func TestView_Update_SourcesLoaded(t *testing.T) {
	view := NewView(nil, nil, nil, nil)

	view.Update(messages.SourcesLoaded{Sources: testSources()})

	assert.Len(t, view.Sources(), 2)
	assert.NoError(t, view.Err())
}

func TestView_Update_SourcesLoaded_Error(t *testing.T) {
	view := NewView(nil, nil, nil, nil)

	view.Update(messages.SourcesLoaded{Err: errors.New("load failed")})

	assert.Error(t, view.Err())
	assert.Empty(t, view.Sources())
}

func TestView_Navigation(t *testing.T) {
	view := loadedView(t)

	assert.Equal(t, 0, view.SelectedIndex())

	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, view.SelectedIndex())

	// Boundary at the bottom
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, view.SelectedIndex())

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, view.SelectedIndex())

	// Boundary at the top
	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, view.SelectedIndex())
}

func TestView_Enter_StartsExtraction(t *testing.T) {
	extractCalled := false
	mock := &MockExtractOrchestrator{
		ExtractFunc: func(ctx context.Context, sourceID string) error {
			extractCalled = true
			assert.Equal(t, "src-1", sourceID)
			return nil
		},
	}
	view := NewView(nil, nil, mock, nil)
	view.SetDimensions(80, 24)
	view.Update(messages.SourcesLoaded{Sources: testSources()})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, view.Running())
	require.NotNil(t, cmd)

	// The batch contains the extract command and the poll tick; run
	// the batch children until the completion message appears.
	completed := collectMessages(t, cmd)
	require.NotNil(t, completed)
	assert.Equal(t, "src-1", completed.SourceID)
	assert.NoError(t, completed.Err)
	assert.True(t, extractCalled)
}

func TestView_Enter_NoSources(t *testing.T) {
	view := NewView(nil, nil, &MockExtractOrchestrator{}, nil)
	view.SetDimensions(80, 24)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, view.Running())
}

func TestView_Enter_IgnoredWhileRunning(t *testing.T) {
	view := loadedView(t)
	view.running = true

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_ExtractAll(t *testing.T) {
	allCalled := false
	mock := &MockExtractOrchestrator{
		ExtractAllFunc: func(ctx context.Context) error {
			allCalled = true
			return nil
		},
	}
	view := NewView(nil, nil, mock, nil)
	view.SetDimensions(80, 24)
	view.Update(messages.SourcesLoaded{Sources: testSources()})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	assert.True(t, view.Running())
	require.NotNil(t, cmd)

	completed := collectMessages(t, cmd)
	require.NotNil(t, completed)
	assert.NoError(t, completed.Err)
	assert.True(t, allCalled)
}

func TestView_Extract_NoOrchestrator(t *testing.T) {
	view := NewView(nil, nil, nil, nil)
	view.SetDimensions(80, 24)
	view.Update(messages.SourcesLoaded{Sources: testSources()})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	completed := collectMessages(t, cmd)
	require.NotNil(t, completed)
	assert.ErrorIs(t, completed.Err, ErrNoExtractOrchestrator)
}

func TestView_ExtractCompleted_Success(t *testing.T) {
	view := loadedView(t)
	view.running = true
	view.runningID = "src-1"

	_, cmd := view.Update(messages.ExtractCompleted{SourceID: "src-1"})

	assert.False(t, view.Running())
	assert.NoError(t, view.Err())
	// A final status poll is scheduled to refresh the counters.
	assert.NotNil(t, cmd)
}

func TestView_ExtractCompleted_Error(t *testing.T) {
	view := loadedView(t)
	view.running = true
	view.runningID = "src-1"

	_, cmd := view.Update(messages.ExtractCompleted{SourceID: "src-1", Err: errors.New("parse failed")})

	assert.False(t, view.Running())
	assert.Error(t, view.Err())
	assert.Nil(t, cmd)
}

func TestView_StatusTick_PollsWhileRunning(t *testing.T) {
	mock := &MockExtractOrchestrator{
		StatusFunc: func(ctx context.Context, sourceID string) (*driving.ExtractStatus, error) {
			return &driving.ExtractStatus{
				SourceID:         sourceID,
				Running:          true,
				BlobsSeen:        4,
				RecordsExtracted: 17,
			}, nil
		},
	}
	view := NewView(nil, nil, mock, nil)
	view.SetDimensions(80, 24)
	view.Update(messages.SourcesLoaded{Sources: testSources()})
	view.running = true
	view.runningID = "src-1"

	_, cmd := view.Update(statusTickMsg{})
	require.NotNil(t, cmd)
}

func TestView_StatusTick_IgnoredWhenIdle(t *testing.T) {
	view := loadedView(t)

	_, cmd := view.Update(statusTickMsg{})

	assert.Nil(t, cmd)
}

func TestView_StatusUpdated_SetsProgress(t *testing.T) {
	view := loadedView(t)

	st := &driving.ExtractStatus{SourceID: "src-1", BlobsSeen: 3, RecordsExtracted: 12}
	view.Update(statusUpdatedMsg{Status: st})

	require.NotNil(t, view.progress)
	assert.Equal(t, 12, view.progress.RecordsExtracted)
}

func TestView_StatusUpdated_ErrorIgnored(t *testing.T) {
	view := loadedView(t)

	view.Update(statusUpdatedMsg{Err: errors.New("poll failed")})

	assert.Nil(t, view.progress)
	assert.NoError(t, view.Err())
}

func TestView_PollStatus_QueriesRunningSource(t *testing.T) {
	var polled string
	mock := &MockExtractOrchestrator{
		StatusFunc: func(ctx context.Context, sourceID string) (*driving.ExtractStatus, error) {
			polled = sourceID
			return &driving.ExtractStatus{SourceID: sourceID}, nil
		},
	}
	view := NewView(nil, nil, mock, nil)
	view.Update(messages.SourcesLoaded{Sources: testSources()})
	view.runningID = "src-2"

	cmd := view.pollStatus()
	require.NotNil(t, cmd)
	result := cmd()

	updated, ok := result.(statusUpdatedMsg)
	require.True(t, ok)
	assert.NoError(t, updated.Err)
	assert.Equal(t, "src-2", polled)
}

func TestView_Reload(t *testing.T) {
	calls := 0
	mock := &MockSourceService{
		ListFunc: func(ctx context.Context) ([]domain.SourceConfig, error) {
			calls++
			return testSources(), nil
		},
	}
	view := NewView(nil, nil, nil, mock)
	view.SetDimensions(80, 24)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})

	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, 1, calls)
}

func TestView_Esc_BackToMenu(t *testing.T) {
	view := loadedView(t)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	result := cmd()
	changed, ok := result.(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewMenu, changed.View)
}

func TestView_View_NotReady(t *testing.T) {
	view := NewView(nil, nil, nil, nil)

	output := view.View()

	assert.Contains(t, output, "Initialising")
}

func TestView_View_NoSources(t *testing.T) {
	view := NewView(nil, nil, nil, nil)
	view.SetDimensions(80, 24)

	output := view.View()

	assert.Contains(t, output, "No sources configured")
}

func TestView_View_WithSources(t *testing.T) {
	view := loadedView(t)

	output := view.View()

	assert.Contains(t, output, "Extract Records")
	assert.Contains(t, output, "My Docs")
	assert.Contains(t, output, "Wiki Export")
	assert.Contains(t, output, "[filesystem]")
}

func TestView_View_RunningIndicator(t *testing.T) {
	view := loadedView(t)
	view.running = true
	view.runningID = "src-1"

	output := view.View()

	assert.Contains(t, output, "(extracting...)")
}

func TestView_View_WithProgress(t *testing.T) {
	view := loadedView(t)
	view.progress = &driving.ExtractStatus{BlobsSeen: 4, RecordsExtracted: 17}

	output := view.View()

	assert.Contains(t, output, "Blobs seen: 4")
	assert.Contains(t, output, "Records extracted: 17")
}

func TestView_View_WithError(t *testing.T) {
	view := loadedView(t)
	view.err = errors.New("enumeration failed")

	output := view.View()

	assert.Contains(t, output, "Error")
	assert.Contains(t, output, "enumeration failed")
}

// collectMessages executes a command tree and returns the first
// ExtractCompleted message found, skipping scheduled ticks.
func collectMessages(t *testing.T, cmd tea.Cmd) *messages.ExtractCompleted {
	t.Helper()

	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		msg := next()
		switch msg := msg.(type) {
		case messages.ExtractCompleted:
			return &msg
		case tea.BatchMsg:
			queue = append(queue, msg...)
		}
	}
	return nil
}
