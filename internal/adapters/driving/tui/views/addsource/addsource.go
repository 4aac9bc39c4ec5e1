// Package addsource provides the add source wizard view for the TUI.
package addsource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
)

// WizardStep tracks the current step in the wizard.
type WizardStep int

const (
	StepSelectType WizardStep = iota
	StepEnterConfig
	StepEnterToken // Only for source types with token auth
	StepComplete
)

// Key constants.
const (
	keyEnter = "enter"
	keyDown  = "down"
)

// View is the add source wizard view.
type View struct {
	styles        *styles.Styles
	sourceService driving.SourceService
	registry      driving.SourceTypeRegistry
	settings      driving.SettingsService

	// Wizard state
	step     WizardStep
	types    []domain.SourceType
	selected int

	// Selected source type
	sourceType *domain.SourceType

	// Config inputs
	configInputs []textinput.Model
	configKeys   []string
	focusIndex   int

	// Token input for types with token auth
	tokenInput textinput.Model

	// Result
	source *domain.SourceConfig
	err    error

	width  int
	height int
	ready  bool
}

// NewView creates a new add source wizard view.
func NewView(
	s *styles.Styles,
	sourceService driving.SourceService,
	registry driving.SourceTypeRegistry,
	settings driving.SettingsService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	tokenInput := textinput.New()
	tokenInput.Placeholder = "Access Token"
	tokenInput.EchoMode = textinput.EchoPassword
	tokenInput.CharLimit = 256

	return &View{
		styles:        s,
		sourceService: sourceService,
		registry:      registry,
		settings:      settings,
		step:          StepSelectType,
		tokenInput:    tokenInput,
	}
}

// Init initialises the view and loads available source types.
func (v *View) Init() tea.Cmd {
	return v.loadTypes()
}

// loadTypes returns a command that loads available source types.
func (v *View) loadTypes() tea.Cmd {
	return func() tea.Msg {
		if v.registry == nil {
			return messages.ErrorOccurred{Err: fmt.Errorf("source type registry not available")}
		}
		return typesLoaded{types: v.registry.Types()}
	}
}

// typesLoaded is a message indicating source types have been loaded.
type typesLoaded struct {
	types []domain.SourceType
}

// Update handles messages for the add source wizard.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case typesLoaded:
		v.types = msg.types
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SourceAdded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.source = &msg.Source
			v.step = StepComplete
		}
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses based on current step.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		// Go back one step or exit
		switch v.step {
		case StepSelectType:
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewSources}
			}
		case StepEnterConfig:
			v.step = StepSelectType
			return v, nil
		case StepEnterToken:
			v.step = StepEnterConfig
			return v, nil
		case StepComplete:
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewSources}
			}
		}
	}

	switch v.step {
	case StepSelectType:
		return v.handleTypeSelect(msg)
	case StepEnterConfig:
		return v.handleConfigInput(msg)
	case StepEnterToken:
		return v.handleTokenInput(msg)
	case StepComplete:
		if msg.String() == keyEnter {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewSources}
			}
		}
	}

	return v, nil
}

func (v *View) handleTypeSelect(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(v.types)-1 {
			v.selected++
		}
	case keyEnter:
		if len(v.types) > 0 && v.selected < len(v.types) {
			v.sourceType = &v.types[v.selected]
			cmd := v.initConfigInputs()
			v.step = StepEnterConfig
			return v, cmd
		}
	}
	return v, nil
}

func (v *View) initConfigInputs() tea.Cmd {
	if v.sourceType == nil {
		return nil
	}

	v.configInputs = make([]textinput.Model, len(v.sourceType.ConfigKeys))
	v.configKeys = make([]string, len(v.sourceType.ConfigKeys))

	for i, key := range v.sourceType.ConfigKeys {
		ti := textinput.New()
		placeholder := key.Description
		if key.Default != "" {
			if placeholder != "" {
				placeholder = fmt.Sprintf("%s (default: %s)", placeholder, key.Default)
			} else {
				placeholder = fmt.Sprintf("default: %s", key.Default)
			}
		}
		ti.Placeholder = placeholder
		if key.Secret {
			ti.EchoMode = textinput.EchoPassword
		}
		ti.SetValue("")
		v.configInputs[i] = ti
		v.configKeys[i] = key.Key
	}
	v.focusIndex = 0

	if len(v.configInputs) > 0 {
		return v.configInputs[0].Focus()
	}
	return nil
}

func (v *View) handleConfigInput(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "tab", keyDown:
		v.focusIndex++
		if v.focusIndex >= len(v.configInputs) {
			v.focusIndex = 0
		}
		return v, v.updateFocus()
	case "shift+tab", "up":
		v.focusIndex--
		if v.focusIndex < 0 {
			v.focusIndex = len(v.configInputs) - 1
		}
		return v, v.updateFocus()
	case keyEnter:
		if !v.validateConfig() {
			return v, nil
		}
		if v.sourceType != nil && v.sourceType.AuthMethod == domain.AuthMethodToken {
			v.tokenInput.SetValue("")
			v.step = StepEnterToken
			return v, v.tokenInput.Focus()
		}
		return v, v.createSource("")
	default:
		// Forward to current input
		if len(v.configInputs) > 0 && v.focusIndex < len(v.configInputs) {
			var cmd tea.Cmd
			v.configInputs[v.focusIndex], cmd = v.configInputs[v.focusIndex].Update(msg)
			return v, cmd
		}
	}
	return v, nil
}

func (v *View) handleTokenInput(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEnter:
		if strings.TrimSpace(v.tokenInput.Value()) == "" {
			v.err = fmt.Errorf("access token is required")
			return v, nil
		}
		v.err = nil
		return v, v.createSource(strings.TrimSpace(v.tokenInput.Value()))
	default:
		var cmd tea.Cmd
		v.tokenInput, cmd = v.tokenInput.Update(msg)
		return v, cmd
	}
}

func (v *View) updateFocus() tea.Cmd {
	cmds := make([]tea.Cmd, len(v.configInputs))
	for i := range v.configInputs {
		if i == v.focusIndex {
			cmds[i] = v.configInputs[i].Focus()
		} else {
			v.configInputs[i].Blur()
		}
	}
	return tea.Batch(cmds...)
}

func (v *View) validateConfig() bool {
	if v.sourceType == nil {
		return false
	}

	for i, key := range v.sourceType.ConfigKeys {
		if key.Required && strings.TrimSpace(v.configInputs[i].Value()) == "" {
			v.err = fmt.Errorf("required field %s is empty", key.Label)
			return false
		}
	}
	v.err = nil
	return true
}

// createSource builds the source from entered config and persists it.
// A non-empty token is stored in settings under the source type first.
func (v *View) createSource(token string) tea.Cmd {
	return func() tea.Msg {
		if v.sourceService == nil || v.sourceType == nil {
			return messages.SourceAdded{Err: fmt.Errorf("source service not available")}
		}

		config := make(map[string]string)
		for i, key := range v.configKeys {
			value := strings.TrimSpace(v.configInputs[i].Value())
			if value == "" {
				value = v.sourceType.ConfigKeys[i].Default
			}
			if value != "" {
				config[key] = value
			}
		}

		if token != "" {
			if v.settings == nil {
				return messages.SourceAdded{Err: fmt.Errorf("settings service not available")}
			}
			if err := v.settings.SetToken(v.sourceType.ID, token); err != nil {
				return messages.SourceAdded{Err: fmt.Errorf("failed to store token: %w", err)}
			}
		}

		now := time.Now()
		source := domain.SourceConfig{
			ID:        uuid.New().String(),
			Type:      v.sourceType.ID,
			Name:      v.deriveName(config),
			Config:    config,
			CreatedAt: now,
			UpdatedAt: now,
		}

		err := v.sourceService.Add(context.Background(), source)
		return messages.SourceAdded{Source: source, Err: err}
	}
}

// deriveName picks a readable name from the config, preferring the
// keys that identify what is being extracted.
func (v *View) deriveName(config map[string]string) string {
	for _, key := range []string{"path", "bucket", "repo", "url"} {
		if val, ok := config[key]; ok && val != "" {
			return val
		}
	}
	return v.sourceType.Name
}

// View renders the add source wizard.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Add Source"))
	b.WriteString("\n\n")

	b.WriteString(v.renderProgress())
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	switch v.step {
	case StepSelectType:
		b.WriteString(v.renderTypeSelect())
	case StepEnterConfig:
		b.WriteString(v.renderConfigInput())
	case StepEnterToken:
		b.WriteString(v.renderTokenInput())
	case StepComplete:
		b.WriteString(v.renderComplete())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderProgress() string {
	stepNames := []string{"Type", "Configure", "Authenticate", "Done"}
	currentIdx := 0
	switch v.step {
	case StepSelectType:
		currentIdx = 0
	case StepEnterConfig:
		currentIdx = 1
	case StepEnterToken:
		currentIdx = 2
	case StepComplete:
		currentIdx = 3
	}

	progress := ""
	for i, name := range stepNames {
		if i > 0 {
			progress += " > "
		}
		if i == currentIdx {
			progress += v.styles.Selected.Render(name)
		} else if i < currentIdx {
			progress += v.styles.Success.Render(name)
		} else {
			progress += v.styles.Muted.Render(name)
		}
	}
	return progress
}

func (v *View) renderTypeSelect() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Select a source type:"))
	b.WriteString("\n\n")

	if len(v.types) == 0 {
		b.WriteString(v.styles.Muted.Render("No source types available."))
		return b.String()
	}

	for i, t := range v.types {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		authBadge := "[no auth]"
		if t.RequiresAuth() {
			authBadge = "[token]"
		}

		line := fmt.Sprintf("%s%s - %s %s", indicator, t.Name, t.Description, authBadge)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderConfigInput() string {
	var b strings.Builder

	if v.sourceType == nil {
		return ""
	}

	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Configure %s:", v.sourceType.Name)))
	b.WriteString("\n\n")

	if len(v.sourceType.ConfigKeys) == 0 {
		b.WriteString(v.styles.Muted.Render("No configuration needed."))
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("Press enter to continue."))
		return b.String()
	}

	for i, key := range v.sourceType.ConfigKeys {
		label := key.Label
		if key.Required {
			label += " *"
		}
		b.WriteString(v.styles.Normal.Render(label + ":"))
		b.WriteString("\n")
		b.WriteString(v.configInputs[i].View())
		b.WriteString("\n\n")
	}

	return b.String()
}

func (v *View) renderTokenInput() string {
	var b strings.Builder

	if v.sourceType == nil {
		return ""
	}

	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Enter access token for %s:", v.sourceType.Name)))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("The token is stored in settings and shared by sources of this type."))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Normal.Render("Token:"))
	b.WriteString("\n")
	b.WriteString(v.tokenInput.View())
	b.WriteString("\n")

	return b.String()
}

func (v *View) renderComplete() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Source Added Successfully!"))
	b.WriteString("\n\n")

	if v.source != nil {
		b.WriteString(fmt.Sprintf("ID: %s\n", v.source.ID))
		b.WriteString(fmt.Sprintf("Type: %s\n", v.source.Type))
		b.WriteString(fmt.Sprintf("Name: %s\n", v.source.Name))
	}

	return b.String()
}

func (v *View) renderHelp() string {
	switch v.step {
	case StepSelectType:
		return v.styles.Help.Render("[j/k] navigate  [enter] select  [esc] cancel")
	case StepEnterConfig:
		return v.styles.Help.Render("[tab] next field  [enter] continue  [esc] back")
	case StepEnterToken:
		return v.styles.Help.Render("[enter] continue  [esc] back")
	case StepComplete:
		return v.styles.Help.Render("[enter] done  [esc] back to sources")
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

// Reset resets the wizard to initial state.
func (v *View) Reset() {
	v.step = StepSelectType
	v.selected = 0
	v.sourceType = nil
	v.configInputs = nil
	v.configKeys = nil
	v.focusIndex = 0
	v.tokenInput.SetValue("")
	v.source = nil
	v.err = nil
}
