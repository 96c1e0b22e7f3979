package errors

import "errors"

// Error message constants for the pyaz application
const (
	// File processing errors
	ErrMsgFailedToReadFile  = "failed to read file"
	ErrMsgFailedToParseFile = "failed to parse file"

	// Directory processing errors
	ErrMsgFailedToCheckPath       = "failed to check path"
	ErrMsgFailedToFindPythonFiles = "failed to find Python files in directory"
	ErrMsgFilesFailedToProcess    = "%d files failed to process"
	ErrMsgInvalidExclude          = "invalid exclude pattern"

	// Output errors
	ErrMsgFailedToWriteReport = "failed to write report"

	// Configuration errors
	ErrMsgFailedToReadConfig = "failed to read config file"

	// Info/warning messages
	InfoMsgNoPythonFilesFound = "No Python files found in: %s"
	InfoMsgFoundPythonFiles   = "Found %d Python files in: %s"
	InfoMsgAppNames           = "First-party names: %s"
	InfoMsgCheckedFile        = "Checked: %s"
	InfoMsgErrorProcessing    = "Error processing %s: %v"
	InfoMsgCheckedCount       = "Checked %d files, found %d problems"
	InfoMsgErrorCount         = ", %d files had errors"
)

// Sentinel errors
var (
	ErrDiagnosticsFound = errors.New("import order problems found")
	ErrUnknownFormat    = errors.New("unknown output format")
	ErrUnknownColor     = errors.New("unknown color mode")
	ErrInvalidParallel  = errors.New("parallel must be positive")
)
