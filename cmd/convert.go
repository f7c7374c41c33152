/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/tec2vtk/InputParameters"
	"github.com/notargets/tec2vtk/converter"
	"github.com/notargets/tec2vtk/utils"
)

// ConvertCmd represents the convert command
var ConvertCmd = &cobra.Command{
	Use:   "convert [files or directories]",
	Short: "Convert Tecplot FEBLOCK files to VTK unstructured grid files",
	Long: `
Converts each named file, and every file matching --pattern below each named
directory, into a .vtk file in the output directory. With no arguments the
current directory is scanned. A file that fails to convert is reported and
the rest of the batch continues; the exit status is 1 if any file failed.

tec2vtk convert -o vtk_output -w 4 ./results`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			ip *InputParameters.ConversionParameters
		)
		deckFile, _ := cmd.Flags().GetString("inputParametersFile")
		if ip, err = resolveParameters(viper.GetViper(), deckFile); err != nil {
			return
		}
		if len(deckFile) != 0 {
			ip.Print()
		}
		switch prof, _ := cmd.Flags().GetString("profile"); prof {
		case "":
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(ip.OutputDir), profile.Quiet).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile, profile.ProfilePath(ip.OutputDir), profile.Quiet).Stop()
		default:
			return fmt.Errorf("unknown profile %q, use cpu or mem", prof)
		}
		if len(args) == 0 {
			args = []string{"."}
		}
		_, err = convertPaths(cmd.OutOrStdout(), args, ip, slog.Default())
		return
	},
}

func init() {
	rootCmd.AddCommand(ConvertCmd)
	flags := ConvertCmd.Flags()
	flags.StringP("outputDir", "o", InputParameters.DefaultOutputDir, "directory receiving the .vtk files")
	flags.StringP("pattern", "p", InputParameters.DefaultPattern, "file name pattern used when scanning directories")
	flags.IntP("workers", "w", 1, "files converted concurrently, 0 = one per CPU")
	flags.Bool("strict", true, "reject connectivity indices outside [1, N]")
	flags.Int("precision", 6, "decimals written per value, negative = shortest exact")
	flags.StringP("title", "t", "", "VTK header title, defaults to the Tecplot TITLE")
	flags.Bool("sanitizeNames", true, "replace characters outside [A-Za-z0-9_] in field names")
	flags.StringP("inputParametersFile", "I", "", "YAML file for conversion parameters like:\n\t- OutputDir\n\t- Precision\n\t- Workers")
	flags.String("profile", "", "write a cpu or mem profile into the output directory")
	for _, key := range parameterKeys {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
}

var parameterKeys = []string{"outputDir", "pattern", "workers", "strict", "precision", "title", "sanitizeNames"}

// resolveParameters lays the parameter file, then config file, environment
// and command line settings known to v over the defaults.
func resolveParameters(v *viper.Viper, deckFile string) (ip *InputParameters.ConversionParameters, err error) {
	ip = InputParameters.NewConversionParameters()
	if len(deckFile) != 0 {
		var data []byte
		if data, err = os.ReadFile(deckFile); err != nil {
			return nil, err
		}
		if err = ip.Parse(data); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", deckFile, err)
		}
	}
	if v.IsSet("outputDir") {
		ip.OutputDir = v.GetString("outputDir")
	}
	if v.IsSet("pattern") {
		ip.Pattern = v.GetString("pattern")
	}
	if v.IsSet("workers") {
		ip.Workers = v.GetInt("workers")
	}
	if v.IsSet("strict") {
		ip.Strict = v.GetBool("strict")
	}
	if v.IsSet("precision") {
		ip.Precision = v.GetInt("precision")
	}
	if v.IsSet("title") {
		ip.Title = v.GetString("title")
	}
	if v.IsSet("sanitizeNames") {
		ip.SanitizeNames = v.GetBool("sanitizeNames")
	}
	if err = ip.Validate(); err != nil {
		return nil, err
	}
	return
}

// convertPaths runs a whole batch, writing progress and the summary to w.
// The returned error is non nil when nothing could be converted or any
// file failed.
func convertPaths(w io.Writer, paths []string, ip *InputParameters.ConversionParameters,
	logger *slog.Logger) (s converter.BatchSummary, err error) {
	if err = os.MkdirAll(ip.OutputDir, 0755); err != nil {
		return
	}
	var (
		inputs []string
		jobs   []converter.Job
	)
	if inputs, err = converter.FindInputs(paths, ip.Pattern, ip.OutputDir); err != nil {
		return
	}
	if len(inputs) == 0 {
		err = fmt.Errorf("no files matching %s found", ip.Pattern)
		return
	}
	if jobs, err = converter.PlanJobs(inputs, ip.OutputDir); err != nil {
		return
	}
	fmt.Fprintf(w, "Found %d files to convert\n\n", len(jobs))
	opts := converter.Options{
		Strict: ip.Strict,
		VTK:    ip.VTKOptions(),
		Logger: logger,
	}
	results := converter.RunBatch(jobs, opts, ip.Workers, func(r converter.Result) {
		converter.PrintResult(w, r)
	})
	s = converter.Summarize(results)
	if logger != nil {
		logger.Debug("batch finished", "memory", utils.GetMemUsage())
	}
	converter.PrintSummary(w, s, ip.OutputDir)
	if s.HasFailures() {
		err = fmt.Errorf("%d of %d files failed to convert", s.Failed, s.Total())
	}
	return
}
