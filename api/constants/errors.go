package constants

// ============================================================================
// AUTHENTICATION & SESSION ERRORS
// ============================================================================

const (
	ErrSessionExpired = "Your session has expired or is invalid. Please login again"
	ErrUnauthorized   = "You are not authorized to perform this action"
	ErrForbiddenRole  = "Your role does not allow this action"
)

// ============================================================================
// VALIDATION ERRORS - Users
// ============================================================================

const (
	ErrUserNotFound          = "User not found in the system"
	ErrUserEmailRequired     = "Email address is required"
	ErrUserRoleInvalid       = "Role must be one of super_admin, admin or viewer"
	ErrUserInviteFailed      = "Failed to invite user. Please check if the email is already registered"
	ErrUserSelfDelete        = "You cannot delete your own account"
	ErrUserLastSuperAdmin    = "Cannot remove the last super admin of this portal"
	ErrUserDeleteFailed      = "Failed to delete user. Please verify the user ID and try again"
	ErrSuperAdminOnly        = "Only a super admin can manage portal users"
)

// ============================================================================
// VALIDATION ERRORS - Uploads
// ============================================================================

const (
	ErrUnsupportedFileType        = "Unsupported file type: upload a .csv, .xlsx or .xls file"
	ErrFailedToParseMultipartForm = "Failed to parse uploaded form data"
	ErrUploadFileRequired         = "No file found in the upload request"
	ErrUploadEmptyFile            = "The uploaded file has no data rows"
	ErrUnknownUploadTable         = "Unknown upload table. Expected budgets, actuals, transactions or revenues"
	ErrUnknownUploadMode          = "Unknown upload mode. Expected append, replace_year or replace_table"
	ErrReplaceYearRequired        = "Replace-year mode requires a target fiscal year, typed twice to confirm"
	ErrReplaceYearMismatch        = "The confirmation fiscal year does not match the target fiscal year"
	ErrReplaceAllNotConfirmed     = "Replace-table mode requires explicit confirmation before any data is removed"
	ErrUploadBlocked              = "The upload was blocked by validation issues. No data was changed"
)

// ============================================================================
// VALIDATION ERRORS - Portal settings & tenants
// ============================================================================

const (
	ErrTenantRequired     = "tenant is required"
	ErrTenantNotFound     = "Portal not found"
	ErrPortalNotPublished = "This portal has not been published yet"
	ErrModuleDisabled     = "This section is not enabled for this portal"
	ErrSettingsLoadFailed = "Failed to load portal settings"
	ErrSettingsSaveFailed = "Failed to save portal settings"
	ErrInvalidFiscalStart = "Fiscal year start must be a valid month (1-12) and day (1-31)"
)

// ============================================================================
// GENERIC DATA ERRORS
// ============================================================================

const (
	ErrFailedToLoad       = "Failed to load data. Please try again"
	ErrFailedToSave       = "Failed to save data. Please try again"
	ErrInvalidYear        = "year must be an integer between 2000 and 2100"
	ErrDepartmentNotFound = "Department not found for the selected year"
)
