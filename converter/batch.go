package converter

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/notargets/tec2vtk/converr"
	"github.com/notargets/tec2vtk/utils"
)

// Job is one input file and the output it converts to
type Job struct {
	InputPath  string
	OutputPath string
}

// FindInputs expands each root into the files to convert. A root naming a
// file is taken as is; a directory is walked recursively for file names
// matching pattern. Directories equal to skipDir (normally the output
// directory) are not entered. The result is sorted and free of duplicates.
func FindInputs(roots []string, pattern, skipDir string) (inputs []string, err error) {
	if _, err = filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	var skipAbs string
	if skipDir != "" {
		if skipAbs, err = filepath.Abs(skipDir); err != nil {
			return nil, err
		}
	}
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			inputs = append(inputs, path)
		}
	}
	for _, root := range roots {
		var info os.FileInfo
		if info, err = os.Stat(root); err != nil {
			return nil, &converr.IOError{Op: "stat", Path: root, Cause: err}
		}
		if !info.IsDir() {
			add(filepath.Clean(root))
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				if skipAbs != "" && path != root {
					if abs, err := filepath.Abs(path); err == nil && abs == skipAbs {
						return filepath.SkipDir
					}
				}
				return nil
			}
			if ok, _ := filepath.Match(pattern, d.Name()); ok {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, &converr.IOError{Op: "walk", Path: root, Cause: err}
		}
	}
	sort.Strings(inputs)
	return inputs, nil
}

// OutputPath names the VTK file for an input: foo_nf.dat becomes
// foo_nf.vtk, anything else has its extension replaced by .vtk.
func OutputPath(inputPath, outputDir string) string {
	base := filepath.Base(inputPath)
	if strings.HasSuffix(base, "_nf.dat") {
		base = strings.TrimSuffix(base, "_nf.dat") + "_nf.vtk"
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base)) + ".vtk"
	}
	return filepath.Join(outputDir, base)
}

// PlanJobs pairs every input with its output path, rejecting inputs that
// would overwrite each other's output
func PlanJobs(inputs []string, outputDir string) (jobs []Job, err error) {
	owner := make(map[string]string, len(inputs))
	for _, in := range inputs {
		out := OutputPath(in, outputDir)
		if prev, ok := owner[out]; ok {
			return nil, fmt.Errorf("%s and %s both convert to %s", prev, in, out)
		}
		owner[out] = in
		jobs = append(jobs, Job{InputPath: in, OutputPath: out})
	}
	return
}

// RunBatch converts every job, using up to workers goroutines (0 means one
// per CPU). A failed file does not stop the others. progress, if not nil,
// is called once per finished job, never concurrently. Results come back
// in job order.
func RunBatch(jobs []Job, opts Options, workers int, progress func(Result)) (results []Result) {
	var (
		NP = utils.WorkerCount(workers, len(jobs))
		pm = utils.NewPartitionMap(NP, len(jobs))
		wg = sync.WaitGroup{}
		mu sync.Mutex
	)
	results = make([]Result, len(jobs))
	opts.logger().Debug("starting batch", "files", len(jobs), "workers", NP)
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(np)
			opts.logger().Debug("worker started", "worker", np, "files", pm.GetBucketDimension(np))
			for k := kMin; k < kMax; k++ {
				results[k], _ = Convert(jobs[k].InputPath, jobs[k].OutputPath, opts)
				if progress != nil {
					mu.Lock()
					progress(results[k])
					mu.Unlock()
				}
			}
		}(np)
	}
	wg.Wait()
	return
}

// BatchSummary tallies a batch run
type BatchSummary struct {
	Converted int
	Failed    int
	ByKind    map[string]int // Failure count per error kind
}

func Summarize(results []Result) (s BatchSummary) {
	s.ByKind = make(map[string]int)
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			s.ByKind[converr.Kind(r.Err)]++
			continue
		}
		s.Converted++
	}
	return
}

// Total returns the number of files processed
func (s BatchSummary) Total() int {
	return s.Converted + s.Failed
}

// HasFailures reports whether any file failed to convert
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// FileKind classifies an input by name the way the aero post-processing
// files are named: line cuts, surfaces, nacelle surfaces, or other.
func FileKind(path string) string {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.Contains(name, "line"):
		return "line"
	case strings.Contains(name, "surface"):
		return "surface"
	case strings.Contains(name, "nacelle"):
		return "nacelle"
	default:
		return "other"
	}
}

// PrintResult writes the per-file progress lines
func PrintResult(w io.Writer, r Result) {
	in := filepath.Base(r.InputPath)
	if r.Err != nil {
		var fe *converr.FileError
		msg := r.Err.Error()
		if errors.As(r.Err, &fe) {
			msg = fe.Err.Error()
		}
		fmt.Fprintf(w, "✗ %s: [%s] %s\n", in, converr.Kind(r.Err), msg)
		return
	}
	fmt.Fprintf(w, "✓ %-40s → %-40s\n", in, filepath.Base(r.OutputPath))
	fmt.Fprintf(w, "  Type: %-8s  Points: %6d  Cells: %6d  Fields: %d+%d\n",
		FileKind(r.InputPath), r.NodeCount, r.ElementCount, r.PointFields, r.CellFields)
}

// PrintSummary writes the closing report of a batch run
func PrintSummary(w io.Writer, s BatchSummary, outputDir string) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(w, "\n%s\nConversion complete!\n", rule)
	fmt.Fprintf(w, "  Successful: %d\n", s.Converted)
	fmt.Fprintf(w, "  Failed: %d\n", s.Failed)
	if s.HasFailures() {
		kinds := make([]string, 0, len(s.ByKind))
		for k := range s.ByKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(w, "    %s: %d\n", k, s.ByKind[k])
		}
	}
	fmt.Fprintf(w, "  Output directory: %s\n%s\n", outputDir, rule)
}
