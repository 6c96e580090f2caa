package errors

// Error message constants for the isort-aspect application
const (
	// Manifest / graph errors
	ErrMsgFailedToReadManifest  = "failed to read manifest"
	ErrMsgFailedToParseManifest = "failed to parse manifest"
	ErrMsgFailedToExpandSrcs    = "failed to expand srcs"
	ErrMsgDuplicateTarget       = "duplicate target name"
	ErrMsgUnknownDep            = "dep references unknown target"
	ErrMsgDependencyCycle       = "dependency cycle detected"
	ErrMsgDuplicateSource       = "source file declared by multiple targets"
	ErrMsgUnknownTarget         = "unknown target"

	// Toolchain errors
	ErrMsgToolchainNotFound   = "isort binary not found"
	ErrMsgSettingsNotReadable = "settings file not readable"

	// Check/format errors
	ErrMsgTargetsFailedCheck = "%d targets failed the import check"

	// Info/warning messages
	InfoMsgNoPythonFilesFound = "No Python files found for target: %s"
	InfoMsgCheckedTargets     = "Checked %d targets"
	InfoMsgFormattedTargets   = "Formatted %d targets"
)
