package commands

import "github.com/XCodeIsGoldX/ollamaland/internal/domain"

// CLI-specific constants
const (
	// DefaultEditorCommand is the default editor command
	DefaultEditorCommand = "vi"
	// TimestampFormat is used for list output
	TimestampFormat = domain.TimestampFormat
)

// Error messages
const (
	ErrConfigLoaderUnavailable  = "config loader unavailable"
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrHistoryStoreUnavailable  = "history store unavailable (history.enabled is false)"
	ErrCacheStoreUnavailable    = "cache store unavailable"
	ErrKeyRequired              = "config key is required"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgNoCachedResults          = "No cached results."
	MsgCancelled                = "Cancelled."
)
