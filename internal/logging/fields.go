package logging

// 结构化日志的字段名。
const (
	FieldError     = "error"
	FieldPath      = "path"
	FieldLanguage  = "language"
	FieldOperation = "operation"
	FieldOffset    = "offset"
	FieldLine      = "line"

	FieldBraceKinds  = "brace_kinds"
	FieldDemoted     = "demoted"
	FieldDiagnostics = "diagnostics"
	FieldFrom        = "from"
	FieldTo          = "to"
	FieldPrototypes  = "prototypes"

	FieldWorkers      = "workers"
	FieldFiles        = "files"
	FieldFilesChanged = "files_changed"
	FieldFilesWritten = "files_written"
	FieldErrors       = "errors"

	FieldVersion = "version"
)
