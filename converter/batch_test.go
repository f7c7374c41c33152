package converter

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/tec2vtk/converr"
)

func TestFindInputs(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "wing_surface_nf.dat", scenarioA)
	b := writeFile(t, dir, filepath.Join("cuts", "y0_line_nf.dat"), scenarioA)
	writeFile(t, dir, "notes.txt", "x")
	writeFile(t, dir, "mesh.dat", scenarioA)
	outDir := filepath.Join(dir, "vtk_output")
	writeFile(t, dir, filepath.Join("vtk_output", "old_nf.dat"), scenarioA)

	inputs, err := FindInputs([]string{dir}, "*_nf.dat", outDir)
	require.NoError(t, err)
	assert.Equal(t, []string{b, a}, inputs)

	// An explicit file is taken regardless of pattern, and duplicates collapse
	explicit := filepath.Join(dir, "mesh.dat")
	inputs, err = FindInputs([]string{explicit, dir, explicit}, "*_nf.dat", outDir)
	require.NoError(t, err)
	assert.Equal(t, []string{b, explicit, a}, inputs)

	// No skip directory walks everything
	inputs, err = FindInputs([]string{dir}, "*_nf.dat", "")
	require.NoError(t, err)
	assert.Len(t, inputs, 3)
}

func TestFindInputs_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := FindInputs([]string{filepath.Join(dir, "nope")}, "*_nf.dat", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, converr.ErrIO)

	_, err = FindInputs([]string{dir}, "[", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")

	inputs, err := FindInputs([]string{dir}, "*_nf.dat", "")
	require.NoError(t, err)
	assert.Empty(t, inputs)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "wing_nf.vtk"), OutputPath(filepath.Join("a", "b", "wing_nf.dat"), "out"))
	assert.Equal(t, filepath.Join("out", "mesh.vtk"), OutputPath("mesh.dat", "out"))
	assert.Equal(t, filepath.Join("out", "grid.vtk"), OutputPath("grid.tec", "out"))
	assert.Equal(t, filepath.Join("out", "plain.vtk"), OutputPath("plain", "out"))
}

func TestPlanJobs(t *testing.T) {
	jobs, err := PlanJobs([]string{"a/x_nf.dat", "b/y_nf.dat"}, "out")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, Job{InputPath: "a/x_nf.dat", OutputPath: filepath.Join("out", "x_nf.vtk")}, jobs[0])

	_, err = PlanJobs([]string{"a/x_nf.dat", "b/x_nf.dat"}, "out")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both convert to")
}

func TestRunBatch(t *testing.T) {
	for _, workers := range []int{0, 1, 3} {
		dir := t.TempDir()
		outDir := filepath.Join(dir, "vtk_output")
		require.NoError(t, os.MkdirAll(outDir, 0755))
		var inputs []string
		for _, name := range []string{"a_line_nf.dat", "b_surface_nf.dat", "c_nacelle_nf.dat", "d_nf.dat"} {
			content := scenarioA
			if name == "b_surface_nf.dat" {
				content = strings.Replace(scenarioA, "TETRAHEDRON", "HEXAHEDRON", 1)
			}
			inputs = append(inputs, writeFile(t, dir, name, content))
		}
		jobs, err := PlanJobs(inputs, outDir)
		require.NoError(t, err)

		var seen []string
		results := RunBatch(jobs, DefaultOptions(), workers, func(r Result) {
			seen = append(seen, r.InputPath)
		})
		require.Len(t, results, 4)
		assert.ElementsMatch(t, inputs, seen)
		for i, r := range results {
			assert.Equal(t, jobs[i].InputPath, r.InputPath)
		}
		// The failure in the middle does not stop the files after it
		assert.Error(t, results[1].Err)
		for _, i := range []int{0, 2, 3} {
			assert.NoError(t, results[i].Err)
			assert.FileExists(t, jobs[i].OutputPath)
		}
		assert.NoFileExists(t, jobs[1].OutputPath)

		s := Summarize(results)
		assert.Equal(t, 3, s.Converted)
		assert.Equal(t, 1, s.Failed)
		assert.Equal(t, 4, s.Total())
		assert.True(t, s.HasFailures())
		assert.Equal(t, map[string]int{"UnsupportedElementType": 1}, s.ByKind)
	}
}

func TestRunBatch_Empty(t *testing.T) {
	results := RunBatch(nil, DefaultOptions(), 4, nil)
	assert.Empty(t, results)
	s := Summarize(results)
	assert.Equal(t, 0, s.Total())
	assert.False(t, s.HasFailures())
}

func TestFileKind(t *testing.T) {
	assert.Equal(t, "line", FileKind("/x/y0_LINE_nf.dat"))
	assert.Equal(t, "surface", FileKind("wing_surface_nf.dat"))
	assert.Equal(t, "nacelle", FileKind("nacelle_nf.dat"))
	assert.Equal(t, "other", FileKind("volume_nf.dat"))
}

func TestPrintResultAndSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintResult(&buf, Result{
		InputPath: "/data/wing_surface_nf.dat", OutputPath: "/out/wing_surface_nf.vtk",
		NodeCount: 4, ElementCount: 1, PointFields: 1,
	})
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "✓ wing_surface_nf.dat"))
	assert.Contains(t, out, "→ wing_surface_nf.vtk")
	assert.Contains(t, out, "Type: surface")
	assert.Contains(t, out, "Points:      4")
	assert.Contains(t, out, "Fields: 1+0")

	buf.Reset()
	PrintResult(&buf, Result{
		InputPath: "/data/bad_nf.dat",
		Err: &converr.FileError{Path: "/data/bad_nf.dat",
			Err: &converr.UnsupportedElementTypeError{ElementType: "HEXAHEDRON"}},
	})
	assert.True(t, strings.HasPrefix(buf.String(), "✗ bad_nf.dat: [UnsupportedElementType] "))
	assert.Contains(t, buf.String(), "HEXAHEDRON")
	assert.NotContains(t, buf.String(), "/data/")

	buf.Reset()
	PrintSummary(&buf, BatchSummary{Converted: 2, Failed: 3,
		ByKind: map[string]int{"TruncatedData": 1, "InvalidNodeIndex": 2}}, "vtk_output")
	out = buf.String()
	assert.Contains(t, out, "Conversion complete!")
	assert.Contains(t, out, "Successful: 2")
	assert.Contains(t, out, "Failed: 3")
	assert.Less(t, strings.Index(out, "InvalidNodeIndex: 2"), strings.Index(out, "TruncatedData: 1"))
	assert.Contains(t, out, "Output directory: vtk_output")
}

func TestRunBatch_WorkerLogging(t *testing.T) {
	dir := t.TempDir()
	var inputs []string
	for _, name := range []string{"a_nf.dat", "b_nf.dat", "c_nf.dat"} {
		inputs = append(inputs, writeFile(t, dir, name, scenarioA))
	}
	jobs, err := PlanJobs(inputs, dir)
	require.NoError(t, err)

	var logBuf bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	results := RunBatch(jobs, opts, 2, nil)
	require.Len(t, results, 3)
	assert.Equal(t, 2, strings.Count(logBuf.String(), "worker started"))
	assert.Contains(t, logBuf.String(), "files=2")
	assert.Contains(t, logBuf.String(), "files=1")
}
