package logging

// Keys for structured log fields.
const (
	FieldError     = "error"
	FieldPath      = "path"
	FieldFiles     = "files"
	FieldBackup    = "backup"
	FieldDryRun    = "dry_run"
	FieldJobs      = "jobs"
	FieldTableName = "table"
	FieldRequestID = "request_id"
	FieldOperation = "operation"
	FieldURI       = "uri"
	FieldDocVer    = "doc_version"
	FieldLine      = "line"
	FieldRange     = "range"
	FieldClass     = "class"
	FieldMethod    = "method"
	FieldParams    = "params"
	FieldEdits     = "edits"
	FieldVariant   = "variant"
	FieldMismatch  = "mismatch"
	FieldDegraded  = "degraded"
	FieldVersion   = "version"
	FieldCommit    = "commit"
	FieldBuilt     = "built"

	FieldFilesDiscovered = "files_discovered"
	FieldFilesChecked    = "files_checked"
	FieldFilesWithErrors = "files_with_errors"
)
