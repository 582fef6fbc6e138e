package tmpl

// outcomeState enumerates the three states of an [Outcome].
type outcomeState int

const (
	stateFound outcomeState = iota
	stateAbsent
	stateFault
)

// Outcome is the three-state result of a context lookup or expression
// evaluation: a value was found, the key is genuinely absent (a soft signal
// meaning "this provider has no opinion"), or the lookup ran and failed
// hard, carrying a diagnostic trail.
type Outcome[T any] struct {
	state outcomeState
	value T
	fault *Error
}

// Found returns a successful outcome carrying a value.
func Found[T any](value T) Outcome[T] {
	return Outcome[T]{state: stateFound, value: value}
}

// Absent returns the soft "no opinion" outcome.
func Absent[T any]() Outcome[T] {
	return Outcome[T]{state: stateAbsent}
}

// Fail returns a hard failure outcome carrying a diagnostic error.
func Fail[T any](err *Error) Outcome[T] {
	return Outcome[T]{state: stateFault, fault: err}
}

// IsFound reports whether the outcome carries a value.
func (o Outcome[T]) IsFound() bool { return o.state == stateFound }

// IsAbsent reports whether the outcome is the soft "no opinion" signal.
func (o Outcome[T]) IsAbsent() bool { return o.state == stateAbsent }

// IsFault reports whether the outcome is a hard failure.
func (o Outcome[T]) IsFault() bool { return o.state == stateFault }

// Value returns the carried value, or the zero value unless IsFound.
func (o Outcome[T]) Value() T { return o.value }

// Err returns the carried diagnostic error, or nil unless IsFault.
func (o Outcome[T]) Err() *Error { return o.fault }
