package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidPeriod        ErrorCode = 102
	ErrCodeInvalidLag           ErrorCode = 103
	ErrCodeMissingParameter     ErrorCode = 104
	ErrCodeLengthMismatch       ErrorCode = 105

	// Compile errors (200-299)
	ErrCodeUnsupportedNode   ErrorCode = 200
	ErrCodeUnknownSeries     ErrorCode = 201
	ErrCodeUnknownIndicator  ErrorCode = 202
	ErrCodeUnknownFunction   ErrorCode = 203
	ErrCodeEmptyStrategy     ErrorCode = 204

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeIndicatorCalculation   ErrorCode = 302

	// Data errors (400-499)
	ErrCodeDataNotFound       ErrorCode = 400
	ErrCodeDataLoadFailed     ErrorCode = 401
	ErrCodeDataNotSorted      ErrorCode = 402
	ErrCodeDuplicateTimestamp ErrorCode = 403
	ErrCodeQueryFailed        ErrorCode = 404
	ErrCodeInvalidPrice       ErrorCode = 405

	// Backtest errors (500-599)
	ErrCodeBacktestConfigError ErrorCode = 500
	ErrCodeSignalMismatch      ErrorCode = 501

	// Rule document errors (600-699)
	ErrCodeRuleValidation        ErrorCode = 600
	ErrCodeSchemaVersionMismatch ErrorCode = 601
	ErrCodeEmptyRuleDocument     ErrorCode = 602
)
