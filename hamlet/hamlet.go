package hamlet

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// Hamlet is a minimal "to be, or not to be" style assertion helper.
// Specifications gives two views of the same judge: one that demands
// the condition and one that forbids it.
type Hamlet struct {
	t        *testing.T
	expected bool
}

func Specifications(t *testing.T) (*Hamlet, *Hamlet) {
	return &Hamlet{t, true}, &Hamlet{t, false}
}

func (it *Hamlet) fail(form string, details ...interface{}) {
	it.t.Helper()
	it.t.Errorf(form, details...)
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	reflected := reflect.ValueOf(value)
	switch reflected.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return reflected.IsNil()
	}
	return false
}

func (it *Hamlet) True(value bool) {
	it.t.Helper()
	if value != it.expected {
		it.fail("%v is not %v (truthiness)", value, it.expected)
	}
}

func (it *Hamlet) Nil(value interface{}) {
	it.t.Helper()
	if isNil(value) != it.expected {
		it.fail("%#v nilness is not %v", value, it.expected)
	}
}

func (it *Hamlet) Equal(expected, actual interface{}) {
	it.t.Helper()
	if reflect.DeepEqual(expected, actual) != it.expected {
		it.fail("equality of %#v vs. %#v is not %v", expected, actual, it.expected)
	}
}

func (it *Hamlet) Text(expected string, actual interface{}) {
	it.t.Helper()
	it.Equal(expected, fmt.Sprintf("%v", actual))
}

func (it *Hamlet) Contains(fragment string, actual string) {
	it.t.Helper()
	if strings.Contains(actual, fragment) != it.expected {
		it.fail("%q containing %q is not %v", actual, fragment, it.expected)
	}
}

func (it *Hamlet) Panic(task func()) {
	it.t.Helper()
	defer func() {
		it.t.Helper()
		recovered := recover()
		if (recovered != nil) != it.expected {
			it.fail("panic %#v presence is not %v", recovered, it.expected)
		}
	}()
	task()
}
