package utils

import "strings"

// ElementType represents the finite element topologies a Tecplot FE zone can declare

type ElementType int

const (
	Unknown ElementType = iota
	// 1D elements
	Line
	// 2D elements
	Triangle
	Quad
	// 3D elements
	Tet
	Hex
)

// VTK legacy cell type codes
const (
	VTKLine       = 3
	VTKTriangle   = 5
	VTKQuad       = 9
	VTKTetra      = 10
	VTKHexahedron = 12
)

// String representation of element types
func (e ElementType) String() string {
	names := []string{
		"Unknown",
		"Line",
		"Triangle", "Quad",
		"Tet", "Hex",
	}
	if int(e) >= 0 && int(e) < len(names) {
		return names[e]
	}
	return "Invalid"
}

// GetDimension returns the spatial dimension of the element
func (e ElementType) GetDimension() int {
	switch e {
	case Line:
		return 1
	case Triangle, Quad:
		return 2
	case Tet, Hex:
		return 3
	default:
		return -1
	}
}

// GetNumNodes returns the number of nodes for each element type
func (e ElementType) GetNumNodes() int {
	switch e {
	case Line:
		return 2
	case Triangle:
		return 3
	case Quad:
		return 4
	case Tet:
		return 4
	case Hex:
		return 8
	default:
		return 0
	}
}

// VTKCellType returns the legacy VTK cell type code, 0 for Unknown
func (e ElementType) VTKCellType() int {
	switch e {
	case Line:
		return VTKLine
	case Triangle:
		return VTKTriangle
	case Quad:
		return VTKQuad
	case Tet:
		return VTKTetra
	case Hex:
		return VTKHexahedron
	default:
		return 0
	}
}

// TecplotName returns the ET= token Tecplot writes for the element type
func (e ElementType) TecplotName() string {
	for name, et := range tecplotElementTypeMap {
		if et == e && name != "QUAD" {
			return name
		}
	}
	return ""
}

// tecplotElementTypeMap maps Tecplot ET= tokens to our ElementType. The table
// is closed: anything not listed here cannot be exported to VTK.
var tecplotElementTypeMap = map[string]ElementType{
	"LINESEG":       Line,
	"TRIANGLE":      Triangle,
	"QUADRILATERAL": Quad,
	"QUAD":          Quad,
	"TETRAHEDRON":   Tet,
	"BRICK":         Hex,
}

// ParseTecplotElementType resolves an ET= or ZONETYPE= value. A ZONETYPE
// value carries an "FE" prefix (FETRIANGLE), which is stripped first.
func ParseTecplotElementType(token string) (ElementType, bool) {
	name := strings.ToUpper(strings.Trim(strings.TrimSpace(token), `"`))
	if et, ok := tecplotElementTypeMap[name]; ok {
		return et, true
	}
	if strings.HasPrefix(name, "FE") {
		if et, ok := tecplotElementTypeMap[name[2:]]; ok {
			return et, true
		}
	}
	return Unknown, false
}
