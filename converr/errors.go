// Package converr provides the error types returned by the Tecplot to VTK
// conversion.
//
// Every error kind has a sentinel for use with errors.Is and a struct type
// for errors.As:
//
//	if errors.Is(err, converr.ErrTruncatedData) {
//	    // the node data block ended early
//	}
//
//	var hdr *converr.MalformedHeaderError
//	if errors.As(err, &hdr) {
//	    fmt.Println(hdr.Line, hdr.Message)
//	}
package converr

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	ErrMalformedHeader        = errors.New("malformed header")
	ErrUnsupportedElementType = errors.New("unsupported element type")
	ErrTruncatedData          = errors.New("truncated data")
	ErrNumericParse           = errors.New("numeric parse error")
	ErrTruncatedConnectivity  = errors.New("truncated connectivity")
	ErrIndexParse             = errors.New("index parse error")
	ErrInvalidNodeIndex       = errors.New("invalid node index")
	ErrIO                     = errors.New("i/o error")
)

// MalformedHeaderError is returned when the VARIABLES or ZONE declaration is
// missing, or a required zone attribute (N, E, ET) is absent or not numeric.
type MalformedHeaderError struct {
	// Line is the 1-based line number, 0 if the problem is not tied to a line
	Line    int
	Message string
	Cause   error
}

func (e *MalformedHeaderError) Error() string {
	msg := "malformed header"
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *MalformedHeaderError) Unwrap() error { return e.Cause }

func (e *MalformedHeaderError) Is(target error) bool { return target == ErrMalformedHeader }

// UnsupportedElementTypeError is returned for an ET= value outside the closed
// element table.
type UnsupportedElementTypeError struct {
	ElementType string
}

func (e *UnsupportedElementTypeError) Error() string {
	return fmt.Sprintf("unsupported element type: %q", e.ElementType)
}

func (e *UnsupportedElementTypeError) Is(target error) bool {
	return target == ErrUnsupportedElementType
}

// TruncatedDataError is returned when the node data block holds fewer values
// than the header declares.
type TruncatedDataError struct {
	// Variable is the variable being read when the data ran out
	Variable string
	Expected int
	Got      int
}

func (e *TruncatedDataError) Error() string {
	msg := fmt.Sprintf("truncated data: expected %d values, got %d", e.Expected, e.Got)
	if e.Variable != "" {
		msg += fmt.Sprintf(" (reading variable %q)", e.Variable)
	}
	return msg
}

func (e *TruncatedDataError) Is(target error) bool { return target == ErrTruncatedData }

// NumericParseError is returned for a data token that is not a floating point literal.
type NumericParseError struct {
	Line  int
	Token string
	Cause error
}

func (e *NumericParseError) Error() string {
	return fmt.Sprintf("numeric parse error at line %d: invalid value %q", e.Line, e.Token)
}

func (e *NumericParseError) Unwrap() error { return e.Cause }

func (e *NumericParseError) Is(target error) bool { return target == ErrNumericParse }

// TruncatedConnectivityError is returned when fewer element lines, or fewer
// indices on an element line, remain than the header declares.
type TruncatedConnectivityError struct {
	Line     int
	Element  int
	Expected int
	Got      int
}

func (e *TruncatedConnectivityError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("truncated connectivity at line %d: element %d has %d of %d node indices",
			e.Line, e.Element+1, e.Got, e.Expected)
	}
	return fmt.Sprintf("truncated connectivity: expected %d elements, got %d", e.Expected, e.Got)
}

func (e *TruncatedConnectivityError) Is(target error) bool {
	return target == ErrTruncatedConnectivity
}

// IndexParseError is returned for a connectivity token that is not an integer.
type IndexParseError struct {
	Line    int
	Token   string
	Message string
	Cause   error
}

func (e *IndexParseError) Error() string {
	msg := fmt.Sprintf("index parse error at line %d", e.Line)
	if e.Token != "" {
		msg += fmt.Sprintf(": invalid index %q", e.Token)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *IndexParseError) Unwrap() error { return e.Cause }

func (e *IndexParseError) Is(target error) bool { return target == ErrIndexParse }

// InvalidNodeIndexError is returned in strict mode for a connectivity index
// outside [1, NodeCount].
type InvalidNodeIndexError struct {
	Line      int
	Element   int
	Index     int
	NodeCount int
}

func (e *InvalidNodeIndexError) Error() string {
	return fmt.Sprintf("invalid node index %d in element %d at line %d: valid range is [1,%d]",
		e.Index, e.Element+1, e.Line, e.NodeCount)
}

func (e *InvalidNodeIndexError) Is(target error) bool { return target == ErrInvalidNodeIndex }

// IOError wraps a failure to open, read, or write a file.
type IOError struct {
	Op    string
	Path  string
	Cause error
}

func (e *IOError) Error() string {
	msg := "i/o error"
	if e.Op != "" {
		msg += " during " + e.Op
	}
	if e.Path != "" {
		msg += " on " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *IOError) Unwrap() error { return e.Cause }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// FileError tags a conversion failure with the input file it belongs to.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *FileError) Unwrap() error { return e.Err }

// Kind names the error category of err, or "Unknown" when err carries none
// of the package's types.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedHeader):
		return "MalformedHeader"
	case errors.Is(err, ErrUnsupportedElementType):
		return "UnsupportedElementType"
	case errors.Is(err, ErrTruncatedData):
		return "TruncatedData"
	case errors.Is(err, ErrNumericParse):
		return "NumericParse"
	case errors.Is(err, ErrTruncatedConnectivity):
		return "TruncatedConnectivity"
	case errors.Is(err, ErrIndexParse):
		return "IndexParse"
	case errors.Is(err, ErrInvalidNodeIndex):
		return "InvalidNodeIndex"
	case errors.Is(err, ErrIO):
		return "IO"
	default:
		return "Unknown"
	}
}
