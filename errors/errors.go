// Copyright (c) 2026 The simplerpc developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package errors provides the error type returned by every RPC client
operation.  It is imported as errors and takes over the role of the standard
library errors package.

Each error records the operation (usually the RPC method wrapper) that failed
and a Kind classifying the failure.  The set of kinds is closed: a failure
is either a configuration problem, a local I/O problem, a transport or
protocol failure, a JSON-RPC error object returned by the server, a JSON
encoding mismatch, a malformed hex identifier, a rejected raw-to-model
conversion, or an integer outside of the domain type's range.
*/
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Separator is inserted between nested errors when formatting as strings.
// Callers logging errors on a single line may set it to ": " at init time.
var Separator = ":\n\t"

// Error describes an error condition raised by the RPC client.
type Error struct {
	Op   Op
	Kind Kind
	Err  error
}

// Op describes the operation or RPC wrapper in which an error condition was
// raised.
type Op string

// Opf returns a formatted Op.
func Opf(format string, a ...any) Op {
	return Op(fmt.Sprintf(format, a...))
}

// Kind describes the class of error.
type Kind int

// Error kinds.
const (
	Other      Kind = iota // Unclassified error -- does not appear in error strings
	Bug                    // Error is known to be a result of our bug
	Config                 // Invalid client configuration (URL, cookie file, version)
	IO                     // Local I/O error
	Transport              // Network failure, timeout, or unexpected HTTP status
	Protocol               // Malformed JSON-RPC envelope
	RPC                    // JSON-RPC error object returned by the server
	Encoding               // JSON (de)serialization error
	Hex                    // Malformed hex identifier
	Conversion             // Raw response rejected by the model conversion
	IntRange               // Integer outside the range of the domain type
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "unclassified error"
	case Bug:
		return "internal client error"
	case Config:
		return "invalid configuration"
	case IO:
		return "I/O error"
	case Transport:
		return "transport error"
	case Protocol:
		return "JSON-RPC protocol violation"
	case RPC:
		return "JSON-RPC error"
	case Encoding:
		return "JSON encoding error"
	case Hex:
		return "invalid hex identifier"
	case Conversion:
		return "model conversion error"
	case IntRange:
		return "integer out of range"
	default:
		return "unknown error kind"
	}
}

// Error implements the error interface so that a Kind may be used as the
// target of Is.
func (k Kind) Error() string {
	return k.String()
}

// New creates a simple error from a string.  New is identical to "errors".New
// from the standard library.
func New(text string) error {
	return errors.New(text)
}

// Errorf creates a simple error from a format string and arguments.  Errorf is
// identical to "fmt".Errorf from the standard library.
func Errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// E creates an *Error from one or more arguments.
//
// Each argument type is inspected when constructing the error.  If multiple
// args of similar type are passed, the final arg is recorded.  The following
// types are recognized:
//
//	errors.Op
//	    The operation or RPC which was invoked.
//	errors.Kind
//	    The class of error.
//	string
//	    Description of the error condition.  String types populate the
//	    Err field and overwrite, and are overwritten by, other arguments
//	    which implement the error interface.
//	error
//	    The underlying error.  If the error is an *Error, the Op and Kind
//	    will be promoted to the newly created error if not set to another
//	    value in the args.
//
// If another *Error is passed as an argument and no other arguments differ from
// the wrapped error, instead of wrapping the error, the errors are collapsed
// and fields of the passed *Error are promoted to the returned error.
//
// Panics if no arguments are passed.
func E(args ...any) error {
	if len(args) == 0 {
		panic("errors.E: no args")
	}

	var e Error
	var prev *Error

	for _, arg := range args {
		switch arg := arg.(type) {
		case Op:
			e.Op = arg
		case Kind:
			e.Kind = arg
		case string:
			e.Err = New(arg)
		case *Error:
			prev = arg
			e.Err = arg
		case error:
			e.Err = arg
		}
	}

	if e.Err == prev && prev != nil {
		if e.Op == "" {
			e.Op = prev.Op
		}
		if e.Kind == Other {
			e.Kind = prev.Kind
		}
		if (prev.Op == "" || e.Op == prev.Op) && (prev.Kind == Other || e.Kind == prev.Kind) {
			e.Err = prev.Err
		}
	}

	return &e
}

func (e *Error) Error() string {
	var b strings.Builder

	// Record the last added fields to the string to avoid duplication.
	var last Error

	for {
		pad := false
		if e.Op != "" && e.Op != last.Op {
			b.WriteString(string(e.Op))
			pad = true
			last.Op = e.Op
		}
		if e.Kind != Other && e.Kind != last.Kind {
			if pad {
				b.WriteString(": ")
			}
			b.WriteString(e.Kind.String())
			pad = true
			last.Kind = e.Kind
		}
		if e.Err == nil {
			break
		}
		if err, ok := e.Err.(*Error); ok {
			if pad {
				b.WriteString(Separator)
			}
			e = err
			continue
		}
		if pad {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
		break
	}

	s := b.String()
	if s == "" {
		return Other.String()
	}
	return s
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether e matches target.  A Kind target matches the kind of e,
// or the kind of its nearest nested *Error when e is unclassified.  Since Is
// of this package visits the whole chain, kinds of wrapped errors also match.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	if !ok {
		return false
	}
	return KindOf(e) == k
}

// KindOf returns the outermost non-Other Kind recorded in err, or Other if err
// carries no *Error with a kind.
func KindOf(err error) Kind {
	for {
		var e *Error
		if !errors.As(err, &e) {
			return Other
		}
		if e.Kind != Other {
			return e.Kind
		}
		err = e.Err
	}
}

// Is reports whether any error in err's chain matches target.  Is is
// identical to "errors".Is from the standard library.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.  As is
// identical to "errors".As from the standard library.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Match compares two Errors, returning true if every non-zero field of err1 is
// equal to the same field in err2.  Nested errors in err1 are similarly
// compared to any nested error of err2.
func Match(err1, err2 error) bool {
	e1, ok := err1.(*Error)
	if !ok {
		return false
	}
	e2, ok := err2.(*Error)
	if !ok {
		return false
	}

	if e1.Op != "" && e1.Op != e2.Op {
		return false
	}
	if e1.Kind != Other && e1.Kind != e2.Kind {
		return false
	}
	if e1.Err == nil {
		return true
	}
	if e1.Err == e2.Err {
		return true
	}
	if _, ok := e1.Err.(*Error); ok {
		return Match(e1.Err, e2.Err)
	}
	if e2.Err == nil {
		return false
	}
	return e1.Err.Error() == e2.Err.Error()
}
