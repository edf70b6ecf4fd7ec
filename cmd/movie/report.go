package main

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/argentumzz/movie/pkg/group"
	"github.com/argentumzz/movie/pkg/movies"
	"github.com/argentumzz/movie/pkg/profile"
)

func printReport(w io.Writer, rep *movies.Report) {
	for _, in := range rep.Inputs {
		fmt.Fprintf(w, "\n%s (%s): %d rows\n", in.Name, in.Path, in.Rows)
		rows := make([][]string, 0, len(in.Columns))
		for _, c := range in.Columns {
			rows = append(rows, []string{c.Name, c.Kind, fmt.Sprint(c.Count), fmt.Sprint(c.Nulls)})
		}
		profile.Table(w, []string{"column", "kind", "non-null", "nulls"}, rows)
	}

	fmt.Fprintf(w, "\nThe number of unique movies is: %d\n", rep.UniqueMovies)
	fmt.Fprintf(w, "The average ratings of all movies is: %.2f\n", rep.AverageRating)

	fmt.Fprintln(w, "\nTop rated movies")
	groupTable(w, "title", "rating", rep.TopRated, func(g group.Group) string { return fmt.Sprintf("%.2f", g.Value) })

	fmt.Fprintln(w, "\nMovies released per year")
	groupTable(w, "year", "titles", rep.ReleasesPerYear, func(g group.Group) string { return fmt.Sprint(g.Count) })
	if chart := yearChart(rep.ReleasesPerYear); chart != "" {
		fmt.Fprintln(w, chart)
	}

	fmt.Fprintln(w, "\nMovies per genre")
	groupTable(w, "genre", "count", rep.GenreCounts, func(g group.Group) string { return fmt.Sprint(g.Count) })
	if rep.SkippedGenres > 0 {
		fmt.Fprintf(w, "%d genre cells could not be decoded\n", rep.SkippedGenres)
	}

	if rep.OutputPath != "" {
		fmt.Fprintf(w, "\nwrote %d rows to %s\n", rep.OutputRows, rep.OutputPath)
	}
}

func groupTable(w io.Writer, keyHeader, valueHeader string, gs group.Groups, value func(group.Group) string) {
	rows := make([][]string, len(gs))
	for i, g := range gs {
		rows[i] = []string{fmt.Sprint(g.Key), value(g)}
	}
	profile.Table(w, []string{keyHeader, valueHeader}, rows)
}

// yearChart plots release counts in calendar order.
func yearChart(perYear group.Groups) string {
	if len(perYear) < 2 {
		return ""
	}
	byYear := append(group.Groups(nil), perYear...)
	byYear.SortByKey()
	series := make([]float64, len(byYear))
	for i, g := range byYear {
		series[i] = float64(g.Count)
	}
	return profile.Chart(series, fmt.Sprintf("releases per year, %v to %v", byYear[0].Key, byYear[len(byYear)-1].Key))
}

func writeReportJSON(path string, rep *movies.Report) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if path == "-" {
		_, err = os.Stdout.Write(b)
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
