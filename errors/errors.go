// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errors provides the coded root errors used throughout this library.
//
// Every failure surfaced to a caller wraps one of the root errors declared
// here, so callers can branch on the kind with Is() while the full message,
// including any raw revert reason returned by the ledger, is preserved in the
// wrap chain.
package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidAmount is returned when a decimal amount string cannot be
	// converted to the ledger's smallest unit without loss.
	ErrInvalidAmount = Register(2, "invalid amount")

	// ErrNoSigner is returned when an operation requires a signer but none
	// is configured or reachable.
	ErrNoSigner = Register(3, "no signer available")

	// ErrUserRejected is returned when the signer reports that the user
	// declined a request. It is terminal and never retried.
	ErrUserRejected = Register(4, "user rejected request")

	// ErrEstimation is returned when the node cannot simulate a call. This
	// usually means the call would revert on-ledger and is terminal.
	ErrEstimation = Register(5, "cost estimation failed")

	// ErrEventMissing is returned when a transaction confirmed but its
	// receipt does not contain the event the caller expected.
	ErrEventMissing = Register(6, "expected event missing from receipt")

	// ErrNotOwner is returned by local ownership precondition checks,
	// before any call is submitted.
	ErrNotOwner = Register(7, "not the asset owner")

	// ErrNothingToWithdraw is returned when a withdrawal is requested but
	// no proceeds are pending.
	ErrNothingToWithdraw = Register(8, "nothing to withdraw")

	// ErrNetwork is returned for transport-level failures talking to the
	// ledger endpoint or a collaborator. Transient; the confirmation poll
	// loop retries through it.
	ErrNetwork = Register(9, "network error")

	// ErrUnsupportedNetwork is returned when a network id is not present
	// in the network registry.
	ErrUnsupportedNetwork = Register(10, "unsupported network")

	// ErrCancelled is returned when a confirmation wait is abandoned by
	// the caller. The underlying submission's outcome is unaffected.
	ErrCancelled = Register(11, "cancelled")

	// ErrTimeout is returned when a confirmation wait exceeds its
	// deadline. The underlying submission's outcome is unaffected.
	ErrTimeout = Register(12, "timed out")

	// ErrInvalidInput is returned for malformed arguments that are not
	// amounts, e.g. a zero auction duration.
	ErrInvalidInput = Register(13, "invalid input")

	// ErrState is returned when an operation is illegal in the current
	// session or entity state.
	ErrState = Register(14, "invalid state")

	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = Register(15, "not found")

	// ErrPanic is only set when recovering from a panic.
	ErrPanic = Register(111222, "panic")
)

// Register returns an error instance to be used as the base for creating
// error instances during runtime. Reusing an error code results in a panic,
// so call this only during program startup.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes keeps track of used codes to ensure their uniqueness.
var usedCodes = map[uint32]*Error{
	1: nil, // code 1 is reserved for errors from outside this library
}

// Error represents a root error. Each error instance created during runtime
// should wrap one of the roots declared in this package.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the registered code for this root error.
func (e Error) Code() uint32 {
	return e.code
}

// New returns a new error with this root as its cause.
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with formatting capabilities.
func (e *Error) Newf(description string, args ...any) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is checks if a given error instance is of this kind. This involves
// unwrapping the error using the Cause method if available.
func (kind *Error) Is(err error) bool {
	// Reflect usage is necessary to correctly compare with a nil
	// implementation of an error.
	if kind == nil {
		if err == nil {
			return true
		}
		return reflect.ValueOf(err).IsNil()
	}

	for {
		if err == kind {
			return true
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Wrap extends a given error with additional information.
//
// If err is nil, this returns nil, avoiding the need for an if statement when
// wrapping an error returned at the end of a function.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// Attach a stacktrace if this error does not carry one yet. This should
	// happen only once per error, at the most inner wrap.
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf extends a given error with additional formatted information.
func Wrapf(err error, format string, args ...any) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	// This error layer description.
	msg string
	// The underlying error that triggered this one.
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Unwrap supports the stdlib errors.Is/As traversal.
func (e *wrappedError) Unwrap() error {
	return e.parent
}

// Recover captures a panic and stops its propagation, transforming it into an
// ErrPanic instance assigned to the given error. Call using defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// causer is an interface implemented by an error that supports wrapping. Use
// it to test if an error wraps another error instance.
type causer interface {
	Cause() error
}

// stackTracer is implemented by errors that carry a recorded stacktrace.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first found stacktrace in the cause chain, or nil.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}
