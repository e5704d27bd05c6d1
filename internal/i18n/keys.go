package i18n

// Error message keys
const (
	ErrGeneric          = "error_generic"
	ErrInvalidInput     = "error_invalid_input"
	ErrMultipleDefaults = "error_multiple_defaults"
	ErrUnknownSeverity  = "error_unknown_severity"
	ErrModuleNotFound   = "error_module_not_found"
	ErrPackageNotFound  = "error_package_not_found"
	ErrStaleFile        = "error_stale_file"
	ErrConfigInvalid    = "error_config_invalid"
)

// Status message keys
const (
	StatusGeneratedFiles  = "status_generated_files"
	StatusUpToDate        = "status_up_to_date"
	StatusConfigValid     = "status_config_valid"
	StatusDuplicatePrefix = "status_duplicate_prefix"
	StatusConfigWritten   = "status_config_written"
	StatusWatching        = "status_watching"
)
