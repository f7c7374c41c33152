package readers

import (
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/tec2vtk/converr"
	"github.com/notargets/tec2vtk/mesh"
)

// TecplotOptions controls how strictly a Tecplot file is read
type TecplotOptions struct {
	// Strict rejects connectivity indices outside [1, N] with an
	// InvalidNodeIndexError. Otherwise they are passed through unchanged.
	Strict bool
}

// ReadTecplot reads a Tecplot ASCII FEBLOCK file (single zone)
func ReadTecplot(filename string, opts TecplotOptions) (*mesh.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &converr.IOError{Op: "open", Path: filename, Cause: err}
	}
	defer file.Close()

	msh, err := ParseTecplot(file, opts)
	if err != nil {
		var ioErr *converr.IOError
		if errors.As(err, &ioErr) && ioErr.Path == "" {
			ioErr.Path = filename
		}
		return nil, err
	}
	return msh, nil
}

// ParseTecplot reads the header, the variable blocks and the connectivity,
// in that order, from r.
func ParseTecplot(r io.Reader, opts TecplotOptions) (*mesh.Mesh, error) {
	ts := newTokenStream(r)

	hdr, err := readTecplotHeader(ts)
	if err != nil {
		return nil, err
	}

	msh := &mesh.Mesh{
		Title:         hdr.Title,
		VariableNames: hdr.Variables,
		ElementType:   hdr.ElementType,
		NodeCount:     hdr.NodeCount,
		ElementCount:  hdr.ElementCount,
	}
	ts.startRecording()
	if err = readBlocks(ts, hdr, msh); err != nil {
		return nil, err
	}
	if msh.Connectivity, err = readConnectivity(ts, hdr, opts.Strict); err != nil {
		return nil, classifyShortfall(ts, hdr, err)
	}
	if err = msh.Validate(false); err != nil {
		return nil, &converr.MalformedHeaderError{Line: hdr.ZoneLine, Cause: err}
	}
	return msh, nil
}

// classifyShortfall decides which section is short when the input ran out
// during connectivity. The data block reads across line boundaries, so a
// short data block silently absorbs connectivity lines; if the input still
// ends in E complete index lines that follow a line of data, the data block
// is the one that is short. Integer-only data is left as a connectivity
// shortfall since both readings fit it.
func classifyShortfall(ts *tokenStream, hdr *TecplotHeader, err error) error {
	var tcErr *converr.TruncatedConnectivityError
	if !errors.As(err, &tcErr) || tcErr.Line != 0 {
		return err
	}
	npe := hdr.ElementType.GetNumNodes()
	indexLines, bounded := ts.trailingIndexLines(npe)
	if hdr.ElementCount == 0 || !bounded || indexLines < hdr.ElementCount {
		return err
	}
	var expected int
	for v := range hdr.Variables {
		if hdr.Locations[v] == CellCentered {
			expected += hdr.ElementCount
		} else {
			expected += hdr.NodeCount
		}
	}
	return &converr.TruncatedDataError{Expected: expected, Got: ts.totalTokens() - hdr.ElementCount*npe}
}

// coordinateAxes maps each variable to the coordinate axis it provides, -1
// for field variables. Variables named X, Y, Z (any case) are the
// coordinates; if none is so named the first three variables are.
func coordinateAxes(names []string) (axes []int, err error) {
	axes = make([]int, len(names))
	var named bool
	for i, name := range names {
		axes[i] = -1
		switch strings.ToUpper(name) {
		case "X":
			axes[i], named = 0, true
		case "Y":
			axes[i], named = 1, true
		case "Z":
			axes[i], named = 2, true
		}
	}
	if named {
		return
	}
	if len(names) < 3 {
		return nil, &converr.MalformedHeaderError{
			Message: "VARIABLES names no X/Y/Z coordinates and has fewer than 3 entries"}
	}
	axes[0], axes[1], axes[2] = 0, 1, 2
	return
}

// parseTecplotFloat accepts decimal literals, with Fortran D exponents, and
// the NaN/Inf spellings solvers write for diverged values. Hex floats and
// digit separators are rejected.
func parseTecplotFloat(tok string) (float64, error) {
	if !isDecimalLiteral(tok) && !isNonFinite(tok) {
		return 0, &strconv.NumError{Func: "ParseFloat", Num: tok, Err: strconv.ErrSyntax}
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil && strings.ContainsAny(tok, "dD") {
		if f, err2 := strconv.ParseFloat(strings.NewReplacer("d", "e", "D", "E").Replace(tok), 64); err2 == nil {
			return f, nil
		}
	}
	return f, err
}

func isDecimalLiteral(tok string) bool {
	for _, r := range tok {
		switch {
		case r >= '0' && r <= '9':
		case strings.ContainsRune(".+-eEdD", r):
		default:
			return false
		}
	}
	return tok != ""
}

func isNonFinite(tok string) bool {
	switch strings.ToLower(strings.TrimLeft(tok, "+-")) {
	case "nan", "inf", "infinity":
		return len(tok)-len(strings.TrimLeft(tok, "+-")) <= 1
	}
	return false
}
