// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewExtract is the extraction view with live progress.
	ViewExtract
	// ViewSources is the source management view.
	ViewSources
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewSourceDetail shows details for a single source.
	ViewSourceDetail
	// ViewRecords lists extracted records for a source.
	ViewRecords
	// ViewRecordContent shows record content.
	ViewRecordContent
	// ViewRecordDetails shows record metadata.
	ViewRecordDetails
	// ViewAddSource is the add source wizard.
	ViewAddSource
	// ViewSettings is the settings configuration view.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewExtract:
		return "extract"
	case ViewSources:
		return "sources"
	case ViewHelp:
		return "help"
	case ViewSourceDetail:
		return "source_detail"
	case ViewRecords:
		return "records"
	case ViewRecordContent:
		return "record_content"
	case ViewRecordDetails:
		return "record_details"
	case ViewAddSource:
		return "add_source"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SourcesLoaded carries the list of sources from the service.
type SourcesLoaded struct {
	Sources []domain.SourceConfig
	Err     error
}

// SourceAdded signals a source was added.
type SourceAdded struct {
	Source domain.SourceConfig
	Err    error
}

// SourceRemoved signals a source was removed.
type SourceRemoved struct {
	ID  string
	Err error
}

// SourceSelected signals a source was selected for detail view.
type SourceSelected struct {
	Source domain.SourceConfig
}

// ExtractStarted signals an extraction run began for a source.
type ExtractStarted struct {
	SourceID string
}

// ExtractCompleted signals an extraction run finished.
type ExtractCompleted struct {
	SourceID string
	Err      error
}

// RecordsLoaded carries the list of records for a source.
type RecordsLoaded struct {
	SourceID string
	Records  []domain.StoredRecord
	Err      error
}

// RecordSelected signals a record was selected.
type RecordSelected struct {
	Record domain.StoredRecord
}

// RecordContentLoaded carries the content of a record.
type RecordContentLoaded struct {
	RecordID string
	Content  string
	Err      error
}

// RecordDetailsLoaded carries the metadata of a record.
type RecordDetailsLoaded struct {
	RecordID string
	Details  interface{} // *driving.RecordDetails
	Err      error
}

// RecordsPurged signals all records for a source were removed.
type RecordsPurged struct {
	SourceID string
	Err      error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
