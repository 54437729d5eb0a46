package cmd

import (
	"fmt"
	"regexp"
	"time"

	"github.com/ademuri/music-analysis/internal/analysis"
)

type ParsedDate struct {
	Date  time.Time
	Year  bool
	Month bool
	Day   bool
}

// parsePeriod turns the --period values into an event filter. No values
// means every event is kept.
func parsePeriod(args []string) (analysis.Period, error) {
	if len(args) == 0 {
		return analysis.Period{}, nil
	}
	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return analysis.Period{}, fmt.Errorf("--period: %w", err)
	}
	if !end.After(start) {
		return analysis.Period{}, fmt.Errorf("--period: %s is not before %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return analysis.Period{Start: start, End: end}, nil
}

func parseDateRangeFromArgs(args []string) (start time.Time, end time.Time, err error) {
	switch len(args) {
	case 1:
		start, end, err = getImplicitDateRange(args[0])

	case 2:
		start, end, err = getExplicitDateRange(args[0], args[1])

	default:
		err = fmt.Errorf("Expected one or two date arguments")
	}
	return
}

func getImplicitDateRange(ds string) (start time.Time, end time.Time, err error) {
	date, err := parseSingleDatestring(ds)
	if err != nil {
		return
	}

	start = date.Date
	switch {
	case date.Year:
		end = start.AddDate(1, 0, 0)

	case date.Month:
		end = start.AddDate(0, 1, 0)

	case date.Day:
		end = start.AddDate(0, 0, 1)

	default:
		err = fmt.Errorf("Invalid format: %q", ds)
	}

	return
}

func getExplicitDateRange(startString, endString string) (start time.Time, end time.Time, err error) {
	startParsed, err := parseSingleDatestring(startString)
	if err != nil {
		return
	}
	start = startParsed.Date

	endParsed, err := parseSingleDatestring(endString)
	if err != nil {
		return
	}
	end = endParsed.Date

	return
}

var datestringFormats = []struct {
	pattern *regexp.Regexp
	layout  string
	unit    string
}{
	{regexp.MustCompile(`^\d{4}$`), "2006", "year"},
	{regexp.MustCompile(`^\d{4}-\d{2}$`), "2006-01", "month"},
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), "2006-01-02", "day"},
}

func parseSingleDatestring(ds string) (date ParsedDate, err error) {
	for _, f := range datestringFormats {
		if !f.pattern.MatchString(ds) {
			continue
		}
		date.Date, err = time.Parse(f.layout, ds)
		if err != nil {
			err = fmt.Errorf("Parsing datestring as %s: %w", f.unit, err)
			return
		}
		switch f.unit {
		case "year":
			date.Year = true
		case "month":
			date.Month = true
		case "day":
			date.Day = true
		}
		return
	}

	err = fmt.Errorf("Invalid format: %q", ds)
	return
}
