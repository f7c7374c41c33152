// Package converter turns Tecplot ASCII FEBLOCK files into legacy VTK
// unstructured grid files.
//
// Convert handles one file and shares no state with other calls, so any
// number of conversions may run at once. RunBatch is the driver that fans
// a list of files out over worker goroutines.
package converter

import (
	"log/slog"
	"time"

	"github.com/notargets/tec2vtk/converr"
	"github.com/notargets/tec2vtk/mesh"
	"github.com/notargets/tec2vtk/mesh/readers"
	"github.com/notargets/tec2vtk/mesh/writers"
	"github.com/notargets/tec2vtk/utils"
)

// Options for a single conversion
type Options struct {
	// Strict fails on connectivity indices outside [1, N]
	Strict bool
	VTK    writers.VTKOptions
	// Logger receives debug records per conversion, nil discards them
	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Strict: true,
		VTK:    writers.DefaultVTKOptions(),
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Result describes one conversion. Err is nil on success.
type Result struct {
	InputPath    string
	OutputPath   string
	ElementType  utils.ElementType
	NodeCount    int
	ElementCount int
	PointFields  int
	CellFields   int
	Elapsed      time.Duration
	Err          error
}

// Convert reads inputPath completely, then writes outputPath. The output
// file is only created once the whole mesh has been read and checked; on
// any error no output file is left behind. Errors are *converr.FileError
// values naming inputPath.
func Convert(inputPath, outputPath string, opts Options) (res Result, err error) {
	var (
		log   = opts.logger().With("input", inputPath)
		start = time.Now()
	)
	res = Result{InputPath: inputPath, OutputPath: outputPath}
	defer func() {
		res.Elapsed = time.Since(start)
		if err != nil {
			err = &converr.FileError{Path: inputPath, Err: err}
			res.Err = err
			log.Debug("conversion failed", "kind", converr.Kind(err), "error", err)
		}
	}()

	msh, err := readers.ReadTecplot(inputPath, readers.TecplotOptions{Strict: opts.Strict})
	if err != nil {
		return
	}
	res.ElementType = msh.ElementType
	res.NodeCount, res.ElementCount = msh.NodeCount, msh.ElementCount
	res.PointFields, res.CellFields = len(msh.PointFields), len(msh.CellFields)
	log.Debug("parsed mesh",
		"elementType", msh.ElementType.String(),
		"nodes", msh.NodeCount,
		"elements", msh.ElementCount,
		"pointFields", res.PointFields,
		"cellFields", res.CellFields)
	if utils.IsNan(msh.Coordinates) {
		log.Warn("coordinates contain NaN")
	}
	for _, fields := range [][]mesh.Field{msh.PointFields, msh.CellFields} {
		for _, f := range fields {
			if utils.IsNan(f.Values) {
				log.Warn("field contains NaN", "field", f.Name)
			}
		}
	}

	if err = writers.WriteVTKFile(outputPath, msh, opts.VTK); err != nil {
		return
	}
	log.Debug("wrote vtk", "output", outputPath, "elapsed", time.Since(start))
	return
}
