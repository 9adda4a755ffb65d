package domain

import (
	"fmt"
	"time"
)

// ErrorCategory groups errors for observability and retry policy.
type ErrorCategory string

const (
	// CategoryQuery marks structural query-construction failures. Never retried.
	CategoryQuery ErrorCategory = "QUERY"
	// CategoryConnection marks connection creation or health failures.
	// Retryable by higher-level callers with backoff.
	CategoryConnection ErrorCategory = "CONNECTION"
	// CategoryPool marks pool capacity and lifecycle failures.
	CategoryPool ErrorCategory = "POOL"
)

// Severity grades how an error should surface.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Error codes carried by the typed errors below.
const (
	CodeMissingFromTable    = "MISSING_FROM_TABLE"
	CodeInvalidIdentifier   = "INVALID_IDENTIFIER"
	CodeInvalidOperator     = "INVALID_OPERATOR"
	CodeInvalidOperatorArgs = "INVALID_OPERATOR_ARGS"
	CodeEmptyCriteria       = "EMPTY_CRITERIA"
	CodeEmptyValues         = "EMPTY_VALUES"
	CodeUnsupportedDialect  = "UNSUPPORTED_DIALECT"
	CodeStatementRejected   = "STATEMENT_REJECTED"
	CodeConnectionFailed    = "CONNECTION_FAILED"
	CodeNotConnected        = "NOT_CONNECTED"
	CodePoolTimeout         = "POOL_TIMEOUT"
	CodePoolClosed          = "POOL_CLOSED"
)

// QueryBuildError reports a structural problem detected while rendering SQL:
// a missing FROM table, wrong operator arity, or an identifier that sanitizes
// to nothing. It is synchronous and deterministic; callers must not retry.
type QueryBuildError struct {
	Code      string
	Message   string
	Timestamp time.Time
	Context   map[string]interface{}
}

// NewQueryBuildError creates a QueryBuildError with the given code.
func NewQueryBuildError(code, message string) *QueryBuildError {
	return &QueryBuildError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithContext attaches a key/value pair for observability.
func (e *QueryBuildError) WithContext(key string, value interface{}) *QueryBuildError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *QueryBuildError) Error() string {
	return fmt.Sprintf("query build error [%s]: %s", e.Code, e.Message)
}

// Category returns CategoryQuery.
func (e *QueryBuildError) Category() ErrorCategory { return CategoryQuery }

// Severity returns SeverityError.
func (e *QueryBuildError) Severity() Severity { return SeverityError }

// ConnectionError reports a failure to create or validate a live connection.
type ConnectionError struct {
	Dialect   Dialect
	Code      string
	Message   string
	Timestamp time.Time
	Context   map[string]interface{}
	Err       error
}

// NewConnectionError creates a ConnectionError wrapping err.
func NewConnectionError(dialect Dialect, code, message string, err error) *ConnectionError {
	return &ConnectionError{
		Dialect:   dialect,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// WithContext attaches a key/value pair for observability.
func (e *ConnectionError) WithContext(key string, value interface{}) *ConnectionError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("connection error [%s] (%s): %s: %v", e.Code, e.Dialect, e.Message, e.Err)
	}
	return fmt.Sprintf("connection error [%s] (%s): %s", e.Code, e.Dialect, e.Message)
}

// Unwrap returns the underlying driver error.
func (e *ConnectionError) Unwrap() error { return e.Err }

// Category returns CategoryConnection.
func (e *ConnectionError) Category() ErrorCategory { return CategoryConnection }

// Severity returns SeverityError.
func (e *ConnectionError) Severity() Severity { return SeverityError }

// PoolTimeoutError is raised when a bounded wait for a free pool slot expires.
// The pool never retries on the caller's behalf.
type PoolTimeoutError struct {
	Fingerprint string
	Timeout     time.Duration
	Timestamp   time.Time
}

// NewPoolTimeoutError creates a PoolTimeoutError for the given target.
func NewPoolTimeoutError(fingerprint string, timeout time.Duration) *PoolTimeoutError {
	return &PoolTimeoutError{
		Fingerprint: fingerprint,
		Timeout:     timeout,
		Timestamp:   time.Now(),
	}
}

func (e *PoolTimeoutError) Error() string {
	return fmt.Sprintf("pool timeout [%s]: no connection available for %s after %s",
		CodePoolTimeout, e.Fingerprint, e.Timeout)
}

// Category returns CategoryPool.
func (e *PoolTimeoutError) Category() ErrorCategory { return CategoryPool }

// Severity returns SeverityError.
func (e *PoolTimeoutError) Severity() Severity { return SeverityError }
