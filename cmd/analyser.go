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
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/ademuri/music-analysis/internal/analysis"
	"github.com/ademuri/music-analysis/internal/dataset"
)

// Analysis is one titled result table. results[0] is the header row.
type Analysis struct {
	title   string
	results [][]string
}

type PreviewConfig struct {
	// Number of rows to show, default is all rows.
	NumToReturn int

	// Cut strings longer than truncateWidth.
	Truncate bool
}

const truncateWidth = 20

func (a Analysis) Render(out io.Writer, config PreviewConfig) error {
	fmt.Fprintf(out, "===== %s =====\n", a.title)

	rows := a.results[1:]
	shown := rows
	if config.NumToReturn > 0 && len(rows) > config.NumToReturn {
		shown = rows[:config.NumToReturn]
	}

	table := tablewriter.NewWriter(out)
	table.Header(a.results[0])
	for _, row := range shown {
		if config.Truncate {
			row = truncateRow(row)
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("rendering %s: %w", a.title, err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering %s: %w", a.title, err)
	}

	if len(shown) < len(rows) {
		fmt.Fprintf(out, "only showing top %d rows\n", len(shown))
	}
	fmt.Fprintln(out)
	return nil
}

func (a Analysis) String() string {
	out := new(bytes.Buffer)
	if err := a.Render(out, PreviewConfig{Truncate: true}); err != nil {
		return fmt.Sprintf("Error rendering table: %v", err)
	}
	return out.String()
}

func truncateRow(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		if r := []rune(cell); len(r) > truncateWidth {
			cell = string(r[:truncateWidth-3]) + "..."
		}
		out[i] = cell
	}
	return out
}

func resultAnalyses(r *analysis.Results) []Analysis {
	favorites := Analysis{
		title:   "Task 1: User Favorite Genres",
		results: [][]string{{"user_id", "genre", "count"}},
	}
	for _, f := range r.FavoriteGenres {
		favorites.results = append(favorites.results,
			[]string{f.UserID, f.Genre, strconv.FormatInt(f.Count, 10)})
	}

	averages := Analysis{
		title:   "Task 2: Average Listen Time",
		results: [][]string{{"user_id", "avg_duration"}},
	}
	for _, a := range r.AverageListenTimes {
		var avg any
		if a.AvgDuration != nil {
			avg = *a.AvgDuration
		}
		averages.results = append(averages.results, []string{a.UserID, dataset.Format(avg)})
	}

	loyalty := Analysis{
		title:   fmt.Sprintf("Task 3: Top %d Genre Loyalty Scores", analysis.LoyaltyLimit),
		results: [][]string{{"user_id", "genre", "loyalty_score", "rank"}},
	}
	for _, g := range r.GenreLoyalty {
		loyalty.results = append(loyalty.results, []string{
			g.UserID, g.Genre, strconv.FormatInt(g.LoyaltyScore, 10), strconv.Itoa(g.Rank),
		})
	}

	lateNight := Analysis{
		title:   "Task 4: Late Night Users (12 AM - 5 AM)",
		results: [][]string{{"user_id"}},
	}
	for _, u := range r.LateNightUsers {
		lateNight.results = append(lateNight.results, []string{u.UserID})
	}

	return []Analysis{favorites, averages, loyalty, lateNight}
}

// printResults writes every result in the given format: "table" previews
// or "yaml" for the complete results.
func printResults(out io.Writer, r *analysis.Results, format string, config PreviewConfig) error {
	switch format {
	case "", "table":
		for _, a := range resultAnalyses(r) {
			if err := a.Render(out, config); err != nil {
				return err
			}
		}
		return nil

	case "yaml":
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(r); err != nil {
			return fmt.Errorf("encoding results: %w", err)
		}
		return encoder.Close()

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
