package conv

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/dPrefs/lib/native"
)

// --------------------------------------------------------------------------
// Error Codes
// --------------------------------------------------------------------------

// ErrCode categorizes conversion failures.
type ErrCode uint8

const (
	ErrCShapeMismatch     ErrCode = iota + 1 // 1: the native value has the wrong kind
	ErrCDecode                               // 2: a blob or tagged string could not be decoded
	ErrCEncode                               // 3: a value could not be encoded
	ErrCElementConversion                    // 4: an element of a sequence or mapping failed
)

func (c ErrCode) String() string {
	switch c {
	case ErrCShapeMismatch:
		return "ShapeMismatch"
	case ErrCDecode:
		return "DecodeError"
	case ErrCEncode:
		return "EncodeError"
	case ErrCElementConversion:
		return "ElementConversionError"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Error Type
// --------------------------------------------------------------------------

// Error is returned by every converter in this package.
// Element errors nest: the outer error carries the element path, Err holds
// the failure of the element itself.
type Error struct {
	Code ErrCode // The error category
	Msg  string  // Human-readable description
	Path string  // Element path for ErrCElementConversion, e.g. [2]["name"]
	Err  error   // The wrapped cause, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Code.String()
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// newShapeMismatch creates an error for a native value of the wrong kind.
func newShapeMismatch(want native.Kind, got native.Value) *Error {
	return &Error{
		Code: ErrCShapeMismatch,
		Msg:  fmt.Sprintf("expected %s, got %s", want, native.KindOf(got)),
	}
}

// newElementError wraps the failure of a single container element.
// Nested element errors are flattened into one path.
func newElementError(segment string, err error) *Error {
	var inner *Error
	if errors.As(err, &inner) && inner.Code == ErrCElementConversion {
		return &Error{
			Code: ErrCElementConversion,
			Path: segment + inner.Path,
			Err:  inner.Err,
		}
	}
	return &Error{
		Code: ErrCElementConversion,
		Path: segment,
		Err:  err,
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// hasCode walks the whole wrap chain and reports whether any *Error in it has code.
func hasCode(err error, code ErrCode) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Err
	}
	return false
}

// IsShapeMismatch reports whether err is or wraps a shape mismatch.
func IsShapeMismatch(err error) bool { return hasCode(err, ErrCShapeMismatch) }

// IsDecodeError reports whether err is or wraps a decode failure.
func IsDecodeError(err error) bool { return hasCode(err, ErrCDecode) }

// IsEncodeError reports whether err is or wraps an encode failure.
func IsEncodeError(err error) bool { return hasCode(err, ErrCEncode) }

// IsElementConversion reports whether err is or wraps a container element failure.
func IsElementConversion(err error) bool { return hasCode(err, ErrCElementConversion) }
