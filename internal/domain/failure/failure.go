package failure

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

type Kind string

const (
	KindFetch   Kind = "FETCH"
	KindParse   Kind = "PARSE"
	KindStore   Kind = "STORE"
	KindSend    Kind = "SEND"
	KindPanic   Kind = "PANIC"
	KindUnknown Kind = "UNKNOWN"
)

// Error is a pipeline failure tagged with the stage it came from.
type Error struct {
	Kind  Kind
	Op    string
	Err   error
	Stack []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", strings.ToLower(string(e.Kind)), e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err, Stack: debug.Stack()}
}

func Fetch(op string, err error) error { return wrap(KindFetch, op, err) }
func Parse(op string, err error) error { return wrap(KindParse, op, err) }
func Store(op string, err error) error { return wrap(KindStore, op, err) }
func Send(op string, err error) error  { return wrap(KindSend, op, err) }

// Recovered converts a recovered panic value into an Error.
func Recovered(v any) error {
	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("%v", v)
	}
	return &Error{Kind: KindPanic, Op: "recover", Err: err, Stack: debug.Stack()}
}

func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

func StackOf(err error) []byte {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Stack
	}
	return nil
}
