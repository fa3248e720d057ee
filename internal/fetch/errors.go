package fetch

// FetchError represents a failed content retrieval: bad status, malformed
// payload, or a network fault. During an update it is recorded per game and
// never aborts the batch.
type FetchError struct {
	Source  string // provider or page kind (e.g. "schedule", "boxscore")
	Code    string // machine-readable code
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeBadStatus    = "bad_status"
	ErrCodeRateLimited  = "rate_limit_exceeded"
	ErrCodeInvalidData  = "invalid_data"
	ErrCodeNetworkError = "network_error"
)

// NewFetchError creates a new fetch error.
func NewFetchError(source, code, message string, err error) *FetchError {
	return &FetchError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
