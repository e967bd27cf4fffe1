package core

import "github.com/bytedance/sonic"

// Status tells the two Result variants apart.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the outcome of one API call: either a payload or an error,
// never both.
type Result[T any] struct {
	Status Status
	Data   T
	Err    *ExchangeError
}

// Success wraps a payload.
func Success[T any](data T) Result[T] {
	return Result[T]{Status: StatusSuccess, Data: data}
}

// Failure wraps an error. Errors that are not an ExchangeError are
// converted to one of type ErrorTypeUnknown.
func Failure[T any](err error) Result[T] {
	e, ok := AsExchangeError(err)
	if !ok {
		e = NewError(ErrorTypeUnknown, 0, err.Error()).WithRaw(err)
	}
	return Result[T]{Status: StatusError, Err: e}
}

// Capture turns a (value, error) pair into a Result.
func Capture[T any](data T, err error) Result[T] {
	if err != nil {
		return Failure[T](err)
	}
	return Success(data)
}

// IsSuccess reports whether the call produced a payload.
func (r Result[T]) IsSuccess() bool {
	return r.Status == StatusSuccess
}

// Unwrap returns the payload and error in the usual Go form.
func (r Result[T]) Unwrap() (T, error) {
	if r.Err != nil {
		return r.Data, r.Err
	}
	return r.Data, nil
}

// Message returns the error message, or "" on success.
func (r Result[T]) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Message
}

type resultJSON[T any] struct {
	Status     Status `json:"status"`
	Data       *T     `json:"data,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
}

// MarshalJSON encodes {"status":"success","data":...} or
// {"status":"error","message":...,"code":...}.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	out := resultJSON[T]{Status: r.Status}
	if r.Err != nil {
		out.Message = r.Err.Message
		out.Code = r.Err.Code
		out.StatusCode = r.Err.StatusCode
	} else {
		out.Data = &r.Data
	}
	return sonic.Marshal(out)
}
