package store

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/dPrefs/lib/db"
	"github.com/ValentinKolb/dPrefs/lib/native"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// DBFactory is a function type that creates a new db used by the store.
// This is used to abstract the creation of the db from the store implementation.
type DBFactory func() db.KVDB

// ISuite is a named, flat namespace of preference entries.
// Every entry maps a string key to a native.Value. All methods return a *Error
// on failure (nil on success).
//
// A suite offers per-key atomic reads and writes only: there are no
// transactions spanning several keys.
type ISuite interface {
	// Name returns the name of the suite.
	Name() string
	// Get returns the value for a key. The boolean return value indicates whether a value for the key was found.
	Get(key string) (value native.Value, loaded bool, err error)
	// Has returns whether a key exists in the suite.
	Has(key string) (loaded bool, err error)
	// Set inserts or updates a key–value pair, overwriting unconditionally.
	// Writing native.Null (or nil) deletes the key; Null is never persisted at the top level.
	Set(key string, value native.Value) (err error)
	// Delete deletes a key–value pair. Deleting a missing key is not an error.
	Delete(key string) (err error)
	// Keys returns all keys of the suite in ascending order.
	Keys() (keys []string, err error)
	// Close releases the resources held by the suite.
	Close() (err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
	Err  error   // The underlying cause, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("SuiteError (code %s): %s", e.Code, e.Msg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new suite error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// WrapError creates a new suite error with the given code and message wrapping err.
func WrapError(code RetCode, msg string, err error) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
		Err:  err,
	}
}

// IsCode reports whether err is or wraps a *Error with the given code.
func IsCode(err error, code RetCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by underlying database.
	RetCInvalidOperation                    // 3: Invalid operation.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCUnsupportedOperation:
		return "UnsupportedOperation"
	case RetCInvalidOperation:
		return "InvalidOperation"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// Encode converts a value into the bytes stored by byte-level backends.
// A value that cannot be encoded yields a RetCInvalidOperation error.
func Encode(value native.Value) ([]byte, error) {
	data, err := native.Marshal(value)
	if err != nil {
		return nil, WrapError(RetCInvalidOperation, "value cannot be stored", err)
	}
	return data, nil
}

// Decode converts stored bytes back into a value.
// Corrupt data yields a RetCInternalError wrapping native.ErrMalformed.
func Decode(key string, data []byte) (native.Value, error) {
	v, err := native.Unmarshal(data)
	if err != nil {
		return nil, WrapError(RetCInternalError, fmt.Sprintf("corrupt value for key %q", key), err)
	}
	return v, nil
}
