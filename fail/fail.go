package fail

import "fmt"

// failure travels through panic/recover only inside one call tree that
// is guarded with a deferred Around. It never escapes as a raw panic.
// A failure raised with Fast keeps the original error reachable, so
// sentinel checks with errors.Is work across the guard boundary.
type failure struct {
	message string
	cause   error
}

func (it failure) Error() string {
	if it.cause != nil {
		return it.cause.Error()
	}
	return it.message
}

func (it failure) Unwrap() error {
	return it.cause
}

// Around recovers a failure raised with On or Fast and stores it into
// given error reference. Use as `defer fail.Around(&err)` at the top of
// functions using the guards below.
func Around(err *error) {
	recovered := recover()
	if recovered == nil {
		return
	}
	fault, ok := recovered.(failure)
	if !ok {
		panic(recovered)
	}
	*err = fault
}

// On raises a failure with given message when the condition holds.
func On(condition bool, form string, details ...interface{}) {
	if condition {
		panic(failure{message: fmt.Sprintf(form, details...)})
	}
}

// Fast raises the given error as a failure when it is not nil.
func Fast(err error) {
	if err != nil {
		panic(failure{cause: err})
	}
}
