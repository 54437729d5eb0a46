/*
Copyright 2020 Google LLC

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
	"github.com/spf13/viper"

	"github.com/ademuri/music-analysis/internal/dataset"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [file...]",
	Short: "Prints the inferred schema of input files",
	Long: `Reads each file and prints the column types inferred from its contents.
With no arguments, the configured listening log and song metadata are used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{viper.GetString("listens"), viper.GetString("songs")}
		}
		return printSchemas(cmd.OutOrStdout(), args)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func printSchemas(out io.Writer, paths []string) error {
	for _, path := range paths {
		t, err := dataset.ReadFile(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s:\n", path)
		writeSchema(out, t)
		fmt.Fprintln(out)
	}
	return nil
}

// writeSchema prints the columns as a tree. Every column is nullable since
// any cell may be empty.
func writeSchema(out io.Writer, t *dataset.Table) {
	fmt.Fprintln(out, "root")
	for _, c := range t.Columns {
		fmt.Fprintf(out, " |-- %s: %s (nullable = true)\n", c.Name, c.Type)
	}
}
