package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/notargets/tec2vtk/converr"
	"github.com/notargets/tec2vtk/utils"
)

// Field is one named scalar array, either one value per node or one per element
type Field struct {
	Name   string
	Values []float64
}

// Mesh is the parsed content of a single finite element zone. It is built
// once by a reader and consumed once by a writer; nothing mutates it after
// construction.
type Mesh struct {
	Title         string
	VariableNames []string // All variables in declaration order, coordinates included

	ElementType  utils.ElementType
	NodeCount    int
	ElementCount int

	// Geometry
	Coordinates [][3]float64 // Vertex coordinates [NodeCount][3]

	// Element data
	Connectivity [][]int // Element to vertex connectivity, 1-based [ElementCount][nodes per element]

	// Attribute data
	PointFields []Field // Nodal variables other than the coordinates, in declaration order
	CellFields  []Field // Cell-centered variables, in declaration order
}

// NodesPerElement returns the fixed tuple size of the connectivity
func (m *Mesh) NodesPerElement() int {
	return m.ElementType.GetNumNodes()
}

// Validate checks the count invariants of the mesh. With checkIndices set
// every connectivity index must also lie in [1, NodeCount].
func (m *Mesh) Validate(checkIndices bool) error {
	if m.ElementType.VTKCellType() == 0 {
		return &converr.UnsupportedElementTypeError{ElementType: m.ElementType.String()}
	}
	if len(m.Coordinates) != m.NodeCount {
		return fmt.Errorf("mesh has %d coordinates for %d nodes", len(m.Coordinates), m.NodeCount)
	}
	if len(m.Connectivity) != m.ElementCount {
		return fmt.Errorf("mesh has %d connectivity entries for %d elements",
			len(m.Connectivity), m.ElementCount)
	}
	for _, f := range m.PointFields {
		if len(f.Values) != m.NodeCount {
			return fmt.Errorf("point field %q has %d values for %d nodes", f.Name, len(f.Values), m.NodeCount)
		}
	}
	for _, f := range m.CellFields {
		if len(f.Values) != m.ElementCount {
			return fmt.Errorf("cell field %q has %d values for %d elements", f.Name, len(f.Values), m.ElementCount)
		}
	}
	npe := m.NodesPerElement()
	for k, elem := range m.Connectivity {
		if len(elem) != npe {
			return fmt.Errorf("element %d has %d nodes, %s expects %d", k+1, len(elem), m.ElementType, npe)
		}
		if !checkIndices {
			continue
		}
		for _, idx := range elem {
			if idx < 1 || idx > m.NodeCount {
				return &converr.InvalidNodeIndexError{Element: k, Index: idx, NodeCount: m.NodeCount}
			}
		}
	}
	return nil
}

// FieldStats summarizes one scalar array
type FieldStats struct {
	Name           string
	Min, Max, Mean float64
}

// Stats returns min/max/mean for the coordinate axes followed by the point
// and cell fields. Empty arrays are skipped.
func (m *Mesh) Stats() (stats []FieldStats) {
	if m.NodeCount > 0 {
		axis := make([]float64, m.NodeCount)
		for d, name := range []string{"X", "Y", "Z"} {
			for i, xyz := range m.Coordinates {
				axis[i] = xyz[d]
			}
			stats = append(stats, newFieldStats(name, axis))
		}
	}
	for _, fields := range [][]Field{m.PointFields, m.CellFields} {
		for _, f := range fields {
			if len(f.Values) == 0 {
				continue
			}
			stats = append(stats, newFieldStats(f.Name, f.Values))
		}
	}
	return
}

func newFieldStats(name string, values []float64) FieldStats {
	return FieldStats{
		Name: name,
		Min:  floats.Min(values),
		Max:  floats.Max(values),
		Mean: stat.Mean(values, nil),
	}
}
