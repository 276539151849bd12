// Package services holds the envelope-returning application services.
// Operations never surface raw persistence errors: every call yields a
// Result whose status the request layer maps to a transport code.
package services

type Status int

const (
	StatusOK Status = iota
	StatusNotFound
	StatusInvalidInput
	StatusInsufficientStock
	StatusUnauthenticated
	StatusInternal
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not found"
	case StatusInvalidInput:
		return "invalid input"
	case StatusInsufficientStock:
		return "insufficient stock"
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusInternal:
		return "internal error"
	default:
		return "unknown"
	}
}

// Result is the uniform contract between the services and every consumer
// of them: a status tag, a human-readable message and an optional payload.
type Result struct {
	Status  Status
	Message string
	Data    any
}

func (r Result) OK() bool { return r.Status == StatusOK }

func ok(message string, data any) Result {
	return Result{Status: StatusOK, Message: message, Data: data}
}

func fail(status Status, message string) Result {
	return Result{Status: status, Message: message}
}
