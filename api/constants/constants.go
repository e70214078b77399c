package constants

// Common error messages
const (
	ErrInvalidSession     = "invalid user_id or session"
	ErrInvalidJSON        = "invalid json or missing fields"
	ErrInvalidJSONShort   = "Invalid JSON"
	ErrMissingUserID      = "Missing or invalid user_id in body"
	ErrUserIDRequired     = "user_id required"
	ErrInvalidRequestBody = "Invalid request body"
	ErrPleaseLogin        = "Please login to continue."
	ErrMethodNotAllowed   = "Method Not Allowed"
)

// DB / SQL error templates
const (
	ErrTxStartFailed  = "failed to start transaction: "
	ErrTxCommitFailed = "failed to commit transaction: "
	ErrCommitFailed   = "commit failed: "
	ErrQueryFailed    = "query failed: "
)

// Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "Content-Type"
)

// Date formats
const (
	DateTimeFormat = "2006-01-02 15:04:05"
	DateFormat     = "2006-01-02"
)

// Response map keys
const (
	ValueSuccess = "success"
	ValueError   = "error"
)

// Fiscal year bounds accepted anywhere a fiscal year enters the system,
// whether typed by an operator or read from an uploaded file.
const (
	MinFiscalYear = 2000
	MaxFiscalYear = 2100
)

// Upload form field names
const (
	KeyUserID      = "user_id"
	KeyTable       = "table"
	KeyMode        = "mode"
	KeyReplaceYear = "replace_year"
	KeyConfirmYear = "confirm_year"
	KeyConfirmAll  = "confirm_replace_all"
)

// Portal roles
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleViewer     = "viewer"
)
