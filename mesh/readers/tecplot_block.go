package readers

import (
	"github.com/notargets/tec2vtk/converr"
	"github.com/notargets/tec2vtk/mesh"
)

// readBlocks reads the FEBLOCK data section: every value of variable 1, then
// every value of variable 2, and so on. Nodal variables hold N values and
// cell-centered ones E values. Line breaks carry no meaning.
func readBlocks(ts *tokenStream, hdr *TecplotHeader, msh *mesh.Mesh) error {
	axes, err := coordinateAxes(hdr.Variables)
	if err != nil {
		if h, ok := err.(*converr.MalformedHeaderError); ok {
			h.Line = hdr.ZoneLine
		}
		return err
	}

	var expected int
	for v := range hdr.Variables {
		if hdr.Locations[v] == CellCentered {
			if axes[v] >= 0 {
				return &converr.MalformedHeaderError{Line: hdr.ZoneLine,
					Message: "coordinate variable " + hdr.Variables[v] + " cannot be cell-centered"}
			}
			expected += hdr.ElementCount
		} else {
			expected += hdr.NodeCount
		}
	}

	msh.Coordinates = make([][3]float64, hdr.NodeCount)
	var got int
	for v, name := range hdr.Variables {
		count := hdr.NodeCount
		if hdr.Locations[v] == CellCentered {
			count = hdr.ElementCount
		}
		values := make([]float64, count)
		for i := 0; i < count; i++ {
			tok, lineNum, ok := ts.next()
			if !ok {
				if err := ts.Err(); err != nil {
					return &converr.IOError{Op: "read", Cause: err}
				}
				return &converr.TruncatedDataError{Variable: name, Expected: expected, Got: got}
			}
			if values[i], err = parseTecplotFloat(tok); err != nil {
				return &converr.NumericParseError{Line: lineNum, Token: tok, Cause: err}
			}
			got++
		}
		switch {
		case axes[v] >= 0:
			for i, x := range values {
				msh.Coordinates[i][axes[v]] = x
			}
		case hdr.Locations[v] == CellCentered:
			msh.CellFields = append(msh.CellFields, mesh.Field{Name: name, Values: values})
		default:
			msh.PointFields = append(msh.PointFields, mesh.Field{Name: name, Values: values})
		}
	}
	return nil
}
