package httputil

// Machine-readable error codes carried next to the human-readable message so
// clients can branch without string matching.
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeInvalidAuthHeader  = "INVALID_AUTH_HEADER"
	CodeMissingAuth        = "MISSING_AUTH"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidTokenUserID = "INVALID_TOKEN_USER_ID"

	CodeUsernameTaken        = "USERNAME_TAKEN"
	CodeEmailAlreadyExists   = "EMAIL_ALREADY_EXISTS"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeAccountNotVerified   = "ACCOUNT_NOT_VERIFIED"
	CodeAlreadyVerified      = "ALREADY_VERIFIED"
	CodeVerificationFailed   = "VERIFICATION_FAILED"
	CodeVerifyCodeExpired    = "VERIFY_CODE_EXPIRED"
	CodeValidationFailed     = "VALIDATION_FAILED"
	CodeRefreshTokenRequired = "REFRESH_TOKEN_REQUIRED"
	CodeInvalidRefreshToken  = "INVALID_REFRESH_TOKEN"

	CodeContentRequired = "CONTENT_REQUIRED"
	CodeContentInvalid  = "CONTENT_INVALID"
	CodeModeMismatch    = "MODE_MISMATCH"
	CodeRecordNotFound  = "RECORD_NOT_FOUND"
	CodeUserNotFound    = "USER_NOT_FOUND"
	CodeUpstreamFailure = "UPSTREAM_FAILURE"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeInternalError   = "INTERNAL_ERROR"
)
