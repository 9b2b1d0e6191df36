// Package outcome defines the tagged result used to report every stage of a sync
// to its consumer.
package outcome

import "fmt"

// Status tags which variant an Outcome holds.
type Status int

const (
	// StatusLoading reports that work started (Loading=true) or finished (Loading=false).
	StatusLoading Status = iota
	// StatusSuccess carries data read from the local store.
	StatusSuccess
	// StatusError carries a user-facing message and, optionally, the stale data already shown.
	StatusError
)

// String returns the lowercase name used on the wire.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is one event of a sync sequence.
// Only the fields relevant to Status are meaningful.
type Outcome[T any] struct {
	Status  Status
	Data    T
	HasData bool
	Message string
	Loading bool
}

// Loading reports the start (true) or the end (false) of a sync.
func Loading[T any](loading bool) Outcome[T] {
	return Outcome[T]{Status: StatusLoading, Loading: loading}
}

// Success wraps data that is ready to be shown.
func Success[T any](data T) Outcome[T] {
	return Outcome[T]{Status: StatusSuccess, Data: data, HasData: true}
}

// Error reports a failure. stale is the data that was already emitted, if any.
func Error[T any](message string, stale *T) Outcome[T] {
	o := Outcome[T]{Status: StatusError, Message: message}
	if stale != nil {
		o.Data = *stale
		o.HasData = true
	}
	return o
}

func (o Outcome[T]) IsLoading() bool { return o.Status == StatusLoading }
func (o Outcome[T]) IsSuccess() bool { return o.Status == StatusSuccess }
func (o Outcome[T]) IsError() bool   { return o.Status == StatusError }

func (o Outcome[T]) String() string {
	switch o.Status {
	case StatusLoading:
		return fmt.Sprintf("Loading(%t)", o.Loading)
	case StatusSuccess:
		return fmt.Sprintf("Success(%v)", o.Data)
	case StatusError:
		if o.HasData {
			return fmt.Sprintf("Error(%q, stale=%v)", o.Message, o.Data)
		}
		return fmt.Sprintf("Error(%q)", o.Message)
	default:
		return o.Status.String()
	}
}

// Collect drains seq and returns every outcome in emission order.
func Collect[T any](seq <-chan Outcome[T]) []Outcome[T] {
	var out []Outcome[T]
	for o := range seq {
		out = append(out, o)
	}
	return out
}
