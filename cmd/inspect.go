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

	"github.com/spf13/cobra"

	"github.com/notargets/tec2vtk/converr"
	"github.com/notargets/tec2vtk/mesh"
	"github.com/notargets/tec2vtk/mesh/readers"
)

// InspectCmd represents the inspect command
var InspectCmd = &cobra.Command{
	Use:   "inspect file.dat",
	Short: "Parse a Tecplot file and print its zone summary without writing output",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		msh, err := readers.ReadMeshFile(args[0])
		if err != nil {
			return fmt.Errorf("[%s] %w", converr.Kind(err), err)
		}
		printInspection(cmd.OutOrStdout(), args[0], msh)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(InspectCmd)
}

func printInspection(w io.Writer, path string, msh *mesh.Mesh) {
	fmt.Fprintf(w, "File:      %s\n", path)
	if msh.Title != "" {
		fmt.Fprintf(w, "Title:     %s\n", msh.Title)
	}
	fmt.Fprintf(w, "Variables: %v\n", msh.VariableNames)
	fmt.Fprintf(w, "Zone:      %s (%dD), %d nodes, %d elements (VTK cell type %d)\n",
		msh.ElementType.TecplotName(), msh.ElementType.GetDimension(),
		msh.NodeCount, msh.ElementCount, msh.ElementType.VTKCellType())
	fmt.Fprintf(w, "Fields:    %d point, %d cell\n", len(msh.PointFields), len(msh.CellFields))
	fmt.Fprintf(w, "\n%-20s %14s %14s %14s\n", "Name", "Min", "Max", "Mean")
	for _, fs := range msh.Stats() {
		fmt.Fprintf(w, "%-20s %14.6g %14.6g %14.6g\n", fs.Name, fs.Min, fs.Max, fs.Mean)
	}
}
