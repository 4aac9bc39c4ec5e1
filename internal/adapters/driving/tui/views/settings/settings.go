// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
)

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionEncoding
	SectionExtraction
	SectionPipeline
)

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
)

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	// Current settings
	settings *domain.AppSettings
	err      error

	// Navigation state
	section  Section
	selected int // selection within current section

	// Text inputs
	encodingInput textinput.Model
	blobSizeInput textinput.Model
	pipelineInput textinput.Model

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	encodingInput := textinput.New()
	encodingInput.Placeholder = "utf-8, latin1, shift_jis, ..."
	encodingInput.CharLimit = 64

	blobSizeInput := textinput.New()
	blobSizeInput.Placeholder = "bytes, 0 for no cap"
	blobSizeInput.CharLimit = 20

	pipelineInput := textinput.New()
	pipelineInput.Placeholder = "trim, dedupe"
	pipelineInput.CharLimit = 256

	return &View{
		styles:          s,
		settingsService: settingsService,
		section:         SectionOverview,
		encodingInput:   encodingInput,
		blobSizeInput:   blobSizeInput,
		pipelineInput:   pipelineInput,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.err = nil
			// Reload settings after save
			cmd := v.loadSettings()
			return v, cmd
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses based on current section.
//
//nolint:exhaustive // explicit default handling for escape provides better UX
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Global escape to go back
	if msg.String() == "esc" {
		switch v.section {
		case SectionOverview:
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		default:
			v.leaveSection()
			return v, nil
		}
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionEncoding:
		return v.handleEncodingKeys(msg)
	case SectionExtraction:
		return v.handleExtractionKeys(msg)
	case SectionPipeline:
		return v.handlePipelineKeys(msg)
	}

	return v, nil
}

// leaveSection returns to the overview and blurs any focused input.
func (v *View) leaveSection() {
	v.section = SectionOverview
	v.selected = 0
	v.encodingInput.Blur()
	v.blobSizeInput.Blur()
	v.pipelineInput.Blur()
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Overview menu: Encoding, Extraction, Pipeline
	maxItems := 3

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < maxItems-1 {
			v.selected++
		}
	case keyEnter:
		switch v.selected {
		case 0:
			v.section = SectionEncoding
			v.selected = 0
			v.encodingInput.SetValue(v.currentEncoding())
			return v, v.encodingInput.Focus()
		case 1:
			v.section = SectionExtraction
			v.selected = 0
			v.blobSizeInput.SetValue(v.currentBlobSize())
		case 2:
			v.section = SectionPipeline
			v.selected = 0
			v.pipelineInput.SetValue(v.currentPipeline())
			return v, v.pipelineInput.Focus()
		}
	}
	return v, nil
}

func (v *View) handleEncodingKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEnter:
		return v, v.setEncoding(strings.TrimSpace(v.encodingInput.Value()))
	default:
		var cmd tea.Cmd
		v.encodingInput, cmd = v.encodingInput.Update(msg)
		return v, cmd
	}
}

func (v *View) handleExtractionKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Item 0 toggles hidden files, item 1 edits the blob size cap.
	const sizeItem = 1

	if v.selected == sizeItem && v.blobSizeInput.Focused() {
		switch msg.String() {
		case keyEnter:
			size, err := strconv.ParseInt(strings.TrimSpace(v.blobSizeInput.Value()), 10, 64)
			if err != nil || size < 0 {
				v.err = fmt.Errorf("max blob size must be a non-negative number of bytes")
				return v, nil
			}
			v.err = nil
			return v, v.setMaxBlobSize(size)
		case "up", "shift+tab":
			v.selected = 0
			v.blobSizeInput.Blur()
			return v, nil
		default:
			var cmd tea.Cmd
			v.blobSizeInput, cmd = v.blobSizeInput.Update(msg)
			return v, cmd
		}
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j", "tab":
		if v.selected < sizeItem {
			v.selected = sizeItem
			return v, v.blobSizeInput.Focus()
		}
	case keyEnter:
		if v.selected == 0 {
			return v, v.toggleFollowHidden()
		}
	}
	return v, nil
}

func (v *View) handlePipelineKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEnter:
		return v, v.setPipeline(v.pipelineInput.Value())
	default:
		var cmd tea.Cmd
		v.pipelineInput, cmd = v.pipelineInput.Update(msg)
		return v, cmd
	}
}

// Commands to update settings.

func (v *View) setEncoding(encoding string) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: fmt.Errorf("settings service not available")}
		}
		err := v.settingsService.SetDefaultEncoding(encoding)
		if err == nil {
			v.leaveSection()
		}
		return messages.SettingsSaved{Err: err}
	}
}

func (v *View) toggleFollowHidden() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: fmt.Errorf("settings service not available")}
		}
		follow := false
		if v.settings != nil {
			follow = !v.settings.Extraction.FollowHidden
		}
		return messages.SettingsSaved{Err: v.settingsService.SetFollowHidden(follow)}
	}
}

func (v *View) setMaxBlobSize(size int64) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: fmt.Errorf("settings service not available")}
		}
		err := v.settingsService.SetMaxBlobSize(size)
		if err == nil {
			v.leaveSection()
		}
		return messages.SettingsSaved{Err: err}
	}
}

func (v *View) setPipeline(raw string) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: fmt.Errorf("settings service not available")}
		}

		processors := parseProcessorList(raw)

		// Keep per-processor config for processors that remain in the list.
		cfg := domain.PipelineConfig{Processors: processors}
		if v.settings != nil {
			cfg.ProcessorConfigs = v.settings.Pipeline.ProcessorConfigs
		}

		err := v.settingsService.SetPipeline(cfg)
		if err == nil {
			v.leaveSection()
		}
		return messages.SettingsSaved{Err: err}
	}
}

// parseProcessorList splits a comma-separated processor list,
// dropping empty entries.
func parseProcessorList(raw string) []string {
	parts := strings.Split(raw, ",")
	processors := make([]string, 0, len(parts))
	for _, p := range parts {
		name := strings.TrimSpace(p)
		if name != "" {
			processors = append(processors, name)
		}
	}
	return processors
}

// Helper methods for current values.

func (v *View) currentEncoding() string {
	if v.settings == nil {
		return ""
	}
	return v.settings.Extraction.DefaultEncoding
}

func (v *View) currentBlobSize() string {
	if v.settings == nil || v.settings.Extraction.MaxBlobSize == 0 {
		return "0"
	}
	return strconv.FormatInt(v.settings.Extraction.MaxBlobSize, 10)
}

func (v *View) currentPipeline() string {
	if v.settings == nil {
		return ""
	}
	return strings.Join(v.settings.Pipeline.Processors, ", ")
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	// Error display
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	// Loading state
	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionEncoding:
		b.WriteString(v.renderEncoding())
	case SectionExtraction:
		b.WriteString(v.renderExtraction())
	case SectionPipeline:
		b.WriteString(v.renderPipeline())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder

	encodingValue := "UTF-8 (default)"
	if v.settings.Extraction.DefaultEncoding != "" {
		encodingValue = v.settings.Extraction.DefaultEncoding
	}

	hiddenValue := "skipped"
	if v.settings.Extraction.FollowHidden {
		hiddenValue = "included"
	}

	sizeValue := "no cap"
	if v.settings.Extraction.MaxBlobSize > 0 {
		sizeValue = fmt.Sprintf("%d bytes", v.settings.Extraction.MaxBlobSize)
	}

	pipelineValue := "none"
	if len(v.settings.Pipeline.Processors) > 0 {
		pipelineValue = strings.Join(v.settings.Pipeline.Processors, ", ")
	}

	items := []struct {
		label string
		value string
	}{
		{
			label: "Default Encoding",
			value: encodingValue,
		},
		{
			label: "Extraction",
			value: fmt.Sprintf("hidden files %s, max blob size %s", hiddenValue, sizeValue),
		},
		{
			label: "Pipeline",
			value: pipelineValue,
		},
	}

	for i, item := range items {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		line := fmt.Sprintf("%s%s: %s", indicator, item.label, item.value)

		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	// Validation status
	b.WriteString("\n")
	if v.settingsService != nil {
		if err := v.settingsService.Validate(); err != nil {
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Warning: %s", err.Error())))
		} else {
			b.WriteString(v.styles.Success.Render("Configuration is valid"))
		}
	}

	return b.String()
}

func (v *View) renderEncoding() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Default Encoding"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Assumed for blobs that carry no encoding hint. Leave empty for UTF-8."))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Normal.Render("Encoding:"))
	b.WriteString("\n")
	b.WriteString(v.encodingInput.View())
	b.WriteString("\n")

	return b.String()
}

func (v *View) renderExtraction() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Extraction"))
	b.WriteString("\n\n")

	hiddenValue := "no"
	if v.settings.Extraction.FollowHidden {
		hiddenValue = "yes"
	}

	indicator := "  "
	if v.selected == 0 {
		indicator = "> "
	}
	hiddenLine := fmt.Sprintf("%sInclude hidden files: %s", indicator, hiddenValue)
	if v.selected == 0 {
		b.WriteString(v.styles.Selected.Render(hiddenLine))
	} else {
		b.WriteString(v.styles.Normal.Render(hiddenLine))
	}
	b.WriteString("\n\n")

	indicator = "  "
	if v.selected == 1 {
		indicator = "> "
	}
	b.WriteString(v.styles.Normal.Render(indicator + "Max blob size (bytes):"))
	b.WriteString("\n")
	b.WriteString(v.blobSizeInput.View())
	b.WriteString("\n")

	return b.String()
}

func (v *View) renderPipeline() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Post-Processor Pipeline"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Comma-separated processors, run in order over extracted records."))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Normal.Render("Processors:"))
	b.WriteString("\n")
	b.WriteString(v.pipelineInput.View())
	b.WriteString("\n")

	return b.String()
}

func (v *View) renderHelp() string {
	switch v.section {
	case SectionOverview:
		return v.styles.Help.Render("[j/k] navigate  [enter] edit  [esc] back")
	case SectionEncoding, SectionPipeline:
		return v.styles.Help.Render("[enter] save  [esc] back")
	case SectionExtraction:
		return v.styles.Help.Render("[j/k] navigate  [enter] toggle/save  [esc] back")
	default:
		return ""
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.section = SectionOverview
	v.selected = 0
	v.err = nil
	v.encodingInput.SetValue("")
	v.encodingInput.Blur()
	v.blobSizeInput.SetValue("")
	v.blobSizeInput.Blur()
	v.pipelineInput.SetValue("")
	v.pipelineInput.Blur()
}
