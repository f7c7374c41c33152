package writers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/notargets/tec2vtk/converr"
	"github.com/notargets/tec2vtk/mesh"
)

const (
	DefaultTitle     = "Converted from Tecplot"
	DefaultPrecision = 6
	maxTitleLength   = 255 // legacy VTK readers take the title line as at most 256 chars
)

// VTKOptions controls the text layout of the legacy VTK file
type VTKOptions struct {
	// Title replaces the mesh title on the second header line when set
	Title string
	// Precision is the number of decimals written for every value. A
	// negative precision writes the shortest text that reads back exactly.
	Precision int
	// SanitizeNames replaces characters outside [A-Za-z0-9_] in field names
	SanitizeNames bool
}

// DefaultVTKOptions writes six decimals and sanitized names
func DefaultVTKOptions() VTKOptions {
	return VTKOptions{Precision: DefaultPrecision, SanitizeNames: true}
}

var reUnsafeName = regexp.MustCompile(`[^A-Za-z0-9_]`)

// WriteVTK writes msh as a legacy ASCII VTK UNSTRUCTURED_GRID dataset. The
// output depends only on msh and opts.
func WriteVTK(w io.Writer, msh *mesh.Mesh, opts VTKOptions) (err error) {
	if err = msh.Validate(false); err != nil {
		return err
	}
	var (
		bw   = bufio.NewWriter(w)
		buf  = make([]byte, 0, 64)
		npe  = msh.NodesPerElement()
		code = msh.ElementType.VTKCellType()
	)
	writeFloat := func(v float64) {
		buf = strconv.AppendFloat(buf[:0], v, 'f', opts.Precision, 64)
		bw.Write(buf)
	}
	writeInt := func(v int) {
		buf = strconv.AppendInt(buf[:0], int64(v), 10)
		bw.Write(buf)
	}

	fmt.Fprintf(bw, "# vtk DataFile Version 3.0\n%s\nASCII\nDATASET UNSTRUCTURED_GRID\n", vtkTitle(msh, opts))

	fmt.Fprintf(bw, "POINTS %d float\n", msh.NodeCount)
	for _, xyz := range msh.Coordinates {
		writeFloat(xyz[0])
		bw.WriteByte(' ')
		writeFloat(xyz[1])
		bw.WriteByte(' ')
		writeFloat(xyz[2])
		bw.WriteByte('\n')
	}

	fmt.Fprintf(bw, "\nCELLS %d %d\n", msh.ElementCount, msh.ElementCount*(npe+1))
	for _, elem := range msh.Connectivity {
		writeInt(npe)
		for _, idx := range elem {
			bw.WriteByte(' ')
			writeInt(idx - 1) // Tecplot is 1-based, VTK 0-based
		}
		bw.WriteByte('\n')
	}

	fmt.Fprintf(bw, "\nCELL_TYPES %d\n", msh.ElementCount)
	for k := 0; k < msh.ElementCount; k++ {
		writeInt(code)
		bw.WriteByte('\n')
	}

	writeScalars := func(section string, count int, fields []mesh.Field) {
		if len(fields) == 0 {
			return
		}
		fmt.Fprintf(bw, "\n%s %d\n", section, count)
		for _, f := range fields {
			fmt.Fprintf(bw, "SCALARS %s float 1\nLOOKUP_TABLE default\n", fieldName(f.Name, opts))
			for _, v := range f.Values {
				writeFloat(v)
				bw.WriteByte('\n')
			}
		}
	}
	writeScalars("POINT_DATA", msh.NodeCount, msh.PointFields)
	writeScalars("CELL_DATA", msh.ElementCount, msh.CellFields)

	// bufio.Writer keeps the first write error, Flush reports it
	if err = bw.Flush(); err != nil {
		return &converr.IOError{Op: "write", Cause: err}
	}
	return nil
}

func vtkTitle(msh *mesh.Mesh, opts VTKOptions) (title string) {
	switch {
	case opts.Title != "":
		title = opts.Title
	case msh.Title != "":
		title = msh.Title
	default:
		title = DefaultTitle
	}
	title = strings.Join(strings.Fields(title), " ")
	if len(title) > maxTitleLength {
		cut := maxTitleLength
		for cut > 0 && !utf8.RuneStart(title[cut]) {
			cut--
		}
		title = title[:cut]
	}
	return
}

func fieldName(name string, opts VTKOptions) string {
	if opts.SanitizeNames {
		return reUnsafeName.ReplaceAllString(name, "_")
	}
	// Legacy VTK names are single tokens
	return strings.Join(strings.Fields(name), "_")
}

// WriteVTKFile writes msh to filename. The data goes to a temporary file in
// the same directory which is renamed over filename only after a complete
// write, so a failed conversion never leaves a partial file behind.
func WriteVTKFile(filename string, msh *mesh.Mesh, opts VTKOptions) (err error) {
	var (
		dir = filepath.Dir(filename)
		tmp *os.File
	)
	if tmp, err = os.CreateTemp(dir, "."+filepath.Base(filename)+".tmp*"); err != nil {
		return &converr.IOError{Op: "create", Path: filename, Cause: err}
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if err = WriteVTK(tmp, msh, opts); err != nil {
		var ioErr *converr.IOError
		if errors.As(err, &ioErr) {
			ioErr.Path = filename
		}
		return err
	}
	if err = tmp.Close(); err != nil {
		return &converr.IOError{Op: "close", Path: filename, Cause: err}
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return &converr.IOError{Op: "chmod", Path: filename, Cause: err}
	}
	if err = os.Rename(tmp.Name(), filename); err != nil {
		return &converr.IOError{Op: "rename", Path: filename, Cause: err}
	}
	return nil
}
