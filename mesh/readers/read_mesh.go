package readers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/notargets/tec2vtk/mesh"
)

// ReadMeshFile reads a mesh file based on extension, with strict index checking
func ReadMeshFile(filename string) (*mesh.Mesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".dat", ".tec":
		return ReadTecplot(filename, TecplotOptions{Strict: true})
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", ext)
	}
}
