package converr

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"header minimal", &MalformedHeaderError{}, "malformed header"},
		{"header full", &MalformedHeaderError{Line: 3, Message: "missing N="},
			"malformed header at line 3: missing N="},
		{"element type", &UnsupportedElementTypeError{ElementType: "HEXAHEDRON"},
			`unsupported element type: "HEXAHEDRON"`},
		{"truncated data", &TruncatedDataError{Variable: "Z", Expected: 12, Got: 8},
			`truncated data: expected 12 values, got 8 (reading variable "Z")`},
		{"numeric", &NumericParseError{Line: 7, Token: "1.0x"},
			`numeric parse error at line 7: invalid value "1.0x"`},
		{"truncated connectivity lines", &TruncatedConnectivityError{Expected: 4, Got: 2},
			"truncated connectivity: expected 4 elements, got 2"},
		{"truncated connectivity tuple", &TruncatedConnectivityError{Line: 9, Element: 0, Expected: 4, Got: 3},
			"truncated connectivity at line 9: element 1 has 3 of 4 node indices"},
		{"index parse", &IndexParseError{Line: 5, Token: "2.5"},
			`index parse error at line 5: invalid index "2.5"`},
		{"invalid index", &InvalidNodeIndexError{Line: 10, Element: 1, Index: 0, NodeCount: 4},
			"invalid node index 0 in element 2 at line 10: valid range is [1,4]"},
		{"io", &IOError{Op: "open", Path: "a.dat", Cause: os.ErrNotExist},
			"i/o error during open on a.dat: file does not exist"},
		{"file", &FileError{Path: "a.dat", Err: &UnsupportedElementTypeError{ElementType: "X"}},
			`a.dat: unsupported element type: "X"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestSentinelsAndKind(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
		kind     string
	}{
		{&MalformedHeaderError{}, ErrMalformedHeader, "MalformedHeader"},
		{&UnsupportedElementTypeError{}, ErrUnsupportedElementType, "UnsupportedElementType"},
		{&TruncatedDataError{}, ErrTruncatedData, "TruncatedData"},
		{&NumericParseError{}, ErrNumericParse, "NumericParse"},
		{&TruncatedConnectivityError{}, ErrTruncatedConnectivity, "TruncatedConnectivity"},
		{&IndexParseError{}, ErrIndexParse, "IndexParse"},
		{&InvalidNodeIndexError{}, ErrInvalidNodeIndex, "InvalidNodeIndex"},
		{&IOError{}, ErrIO, "IO"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			wrapped := &FileError{Path: "in.dat", Err: fmt.Errorf("reading: %w", tt.err)}
			assert.True(t, errors.Is(wrapped, tt.sentinel))
			assert.Equal(t, tt.kind, Kind(wrapped))
			for _, other := range tests {
				if other.sentinel != tt.sentinel {
					assert.False(t, errors.Is(tt.err, other.sentinel))
				}
			}
		})
	}
	assert.Equal(t, "", Kind(nil))
	assert.Equal(t, "Unknown", Kind(errors.New("boom")))
}

func TestUnwrapChain(t *testing.T) {
	err := &FileError{Path: "x.dat", Err: &IOError{Op: "open", Cause: os.ErrNotExist}}
	assert.True(t, errors.Is(err, os.ErrNotExist))

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "open", ioErr.Op)
}
