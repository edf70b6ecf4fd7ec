// Package movies runs the ratings analysis end to end: load and clean the
// movies metadata, ratings and links tables, join them, summarize, explode
// genres and write the exploded table.
package movies

import (
	"context"
	"fmt"
	"log"

	"github.com/argentumzz/movie/pkg/frame"
	"github.com/argentumzz/movie/pkg/group"
	"github.com/argentumzz/movie/pkg/load"
	"github.com/argentumzz/movie/pkg/profile"
	"github.com/argentumzz/movie/pkg/stats"
	"github.com/argentumzz/movie/pkg/transform/clean"
	"github.com/argentumzz/movie/pkg/transform/explode"
	"github.com/argentumzz/movie/pkg/transform/join"
)

// Column names of the source datasets.
const (
	colID          = "id"
	colTmdbID      = "tmdbId"
	colMovieID     = "movieId"
	colTitle       = "title"
	colGenres      = "genres"
	colReleaseDate = "release_date"
	colRating      = "rating"
	colGenreNames  = "genre_names"
	colIndex       = "index"
)

// idDatePattern matches the shifted rows whose id cell holds a date.
const idDatePattern = `\d{4}-\d{2}-\d{2}`

type InputSummary struct {
	Name    string                  `json:"name"`
	Path    string                  `json:"path"`
	Rows    int                     `json:"rows"`
	Columns []profile.ColumnProfile `json:"columns"`
}

// Report is everything a run computes.
type Report struct {
	Inputs          []InputSummary      `json:"inputs"`
	MovieNulls      []stats.ColumnCount `json:"movie_nulls"`
	MovieRows       int                 `json:"movie_rows"`
	UniqueMovies    int                 `json:"unique_movies"`
	AverageRating   float64             `json:"average_rating"`
	RatedRows       int                 `json:"rated_rows"`
	TopRated        group.Groups        `json:"top_rated"`
	ReleasesPerYear group.Groups        `json:"releases_per_year"`
	GenreCounts     group.Groups        `json:"genre_counts"`
	SkippedGenres   int                 `json:"skipped_genres"`
	OutputRows      int                 `json:"output_rows"`
	OutputPath      string              `json:"output_path,omitempty"`
}

// Run executes the analysis described by cfg. Any stage failure stops the
// run; the error names the stage.
func Run(ctx context.Context, cfg Config, logger *log.Logger) (*Report, error) {
	if logger == nil {
		logger = log.Default()
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, err := join.ParseMode(cfg.JoinMode)
	if err != nil {
		return nil, err
	}
	r := &runner{cfg: cfg, logger: logger, report: &Report{}}
	opts := load.Options{LowMemory: cfg.LowMemory, SampleRows: cfg.ChunkRows, Logger: logger}

	// 1. movies metadata
	raw, err := r.load("movies", cfg.Inputs.Movies, opts)
	if err != nil {
		return nil, err
	}
	movies, err := r.cleanMovies(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("clean movies: %w", err)
	}
	r.report.MovieRows = movies.Rows()
	logger.Printf("movies: %d rows after cleaning (%d loaded)", movies.Rows(), raw.Rows())

	// 2. unique titles
	if r.report.UniqueMovies, err = stats.UniqueCount(movies, colTitle); err != nil {
		return nil, fmt.Errorf("unique movies: %w", err)
	}
	logger.Printf("The number of unique movies is: %d", r.report.UniqueMovies)

	// 3. ratings and their average
	ratings, err := r.load("ratings", cfg.Inputs.Ratings, opts)
	if err != nil {
		return nil, err
	}
	if ratings, err = clean.Between(colRating, 0, 5).Apply(ctx, ratings); err != nil {
		return nil, fmt.Errorf("validate ratings: %w", err)
	}
	if r.report.AverageRating, err = stats.Mean(ratings, colRating); err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}
	logger.Printf("The average ratings of all movies is: %.2f", r.report.AverageRating)

	// 4. links
	links, err := r.load("links", cfg.Inputs.Links, opts)
	if err != nil {
		return nil, err
	}
	links, err = frame.NewPipeline(
		&clean.DropNulls{},
		&clean.Cast{Column: colTmdbID, To: frame.KindInt},
	).Run(ctx, links)
	if err != nil {
		return nil, fmt.Errorf("clean links: %w", err)
	}

	// 5. ratings + links + movies
	merged, err := join.Join(ratings, links, mode, colMovieID)
	if err != nil {
		return nil, fmt.Errorf("join ratings and links: %w", err)
	}
	rated, err := join.Join(merged, movies, mode, colTmdbID)
	if err != nil {
		return nil, fmt.Errorf("join movies: %w", err)
	}
	r.report.RatedRows = rated.Rows()
	logger.Printf("rated movies: %d rows (%s joins)", rated.Rows(), mode)

	// 6. top rated titles
	byTitle, err := group.GroupAndSort(rated, colTitle, colRating)
	if err != nil {
		return nil, fmt.Errorf("top rated: %w", err)
	}
	r.report.TopRated = byTitle.Top(cfg.TopN)
	logger.Printf("top rated: %d of %d titles", len(r.report.TopRated), len(byTitle))

	// 7. releases per year
	if rated, err = (&clean.ExtractYear{Column: colReleaseDate}).Apply(ctx, rated); err != nil {
		return nil, fmt.Errorf("release year: %w", err)
	}
	perYear, err := group.Count(rated, colReleaseDate, colTitle)
	if err != nil {
		return nil, fmt.Errorf("releases per year: %w", err)
	}
	perYear.SortByValueDesc()
	r.report.ReleasesPerYear = perYear
	logger.Printf("releases per year: %d years", len(perYear))

	// 8. genres
	extract := &explode.Extract{From: colGenres, To: colGenreNames, Lenient: cfg.LenientGenres}
	withGenres, err := extract.Apply(ctx, rated)
	if err != nil {
		return nil, fmt.Errorf("extract genres: %w", err)
	}
	r.report.SkippedGenres = extract.Skipped()
	exploded, err := explode.Explode(withGenres, colGenreNames, explode.Options{IndexColumn: colIndex})
	if err != nil {
		return nil, fmt.Errorf("explode genres: %w", err)
	}
	if r.report.GenreCounts, err = group.Count(exploded, colGenreNames, colMovieID); err != nil {
		return nil, fmt.Errorf("genre counts: %w", err)
	}
	logger.Printf("exploded: %d rows, %d genres", exploded.Rows(), len(r.report.GenreCounts))

	// 9. output
	r.report.OutputRows = exploded.Rows()
	if cfg.Output.Path == "" {
		logger.Printf("no output path configured, skipping write")
		return r.report, nil
	}
	if err := Write(ctx, cfg.Output, exploded); err != nil {
		return nil, fmt.Errorf("write %s: %w", cfg.Output.Format, err)
	}
	r.report.OutputPath = cfg.Output.Path
	logger.Printf("wrote %d rows to %s (%s)", exploded.Rows(), cfg.Output.Path, cfg.Output.Format)
	return r.report, nil
}

type runner struct {
	cfg    Config
	logger *log.Logger
	report *Report
}

func (r *runner) load(name, path string, opts load.Options) (*frame.Frame, error) {
	f, err := load.File(path, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	p := profile.Of(f, 0)
	r.report.Inputs = append(r.report.Inputs, InputSummary{Name: name, Path: path, Rows: f.Rows(), Columns: p.Columns()})
	r.logger.Printf("%s: loaded %d rows x %d columns from %s", name, f.Rows(), f.Cols(), path)
	return f, nil
}

func (r *runner) cleanMovies(ctx context.Context, raw *frame.Frame) (*frame.Frame, error) {
	p := frame.NewPipeline(
		&clean.DropMatching{Column: colID, Pattern: idDatePattern},
		&clean.Rename{From: colID, To: colTmdbID},
		&clean.Cast{Column: colTmdbID, To: frame.KindInt},
		&clean.Select{Columns: []string{colTmdbID, colTitle, colGenres, colReleaseDate}},
	)
	if r.cfg.NormalizeTitles {
		p.Add(&clean.Trim{Column: colTitle}).Add(&clean.Normalize{Column: colTitle})
	}
	selected, err := p.Run(ctx, raw)
	if err != nil {
		return nil, err
	}
	r.report.MovieNulls = stats.NullCounts(selected)
	return (&clean.DropNulls{}).Apply(ctx, selected)
}
