package movies

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/smartystreets/goconvey/convey"

	"github.com/argentumzz/movie/pkg/frame"
	"github.com/argentumzz/movie/pkg/group"
	"github.com/argentumzz/movie/pkg/io/csvio"
)

func keys(gs group.Groups) []any {
	out := make([]any, len(gs))
	for i, g := range gs {
		out[i] = g.Key
	}
	return out
}

const moviesCSV = `adult,budget,genres,id,imdb_id,title,release_date,vote_average
False,30000000,"[{'id': 16, 'name': 'Animation'}, {'id': 35, 'name': 'Comedy'}]",862,tt0114709,Toy Story,1995-10-30,7.7
False,65000000,"[{'id': 12, 'name': 'Adventure'}]",8844,tt0113497,Jumanji,1995-12-15,6.9
False,0,"[{'id': 80, 'name': 'Crime'}, {'id': 18, 'name': 'Drama'}]",949,tt0113277,Heat,1995-12-15,7.7
False,0,[],1997-08-20,tt0000000,Shifted Row,,0
False,0,"[{'id': 18, 'name': 'Drama'}]",9999,tt9999999,Unreleased,,5.0
False,58000000,[],11860,tt0114319,Sabrina,1995-12-15,6.2
False,52000000,"[{'id': 18, 'name': 'Drama'}]",524,tt0112641,Casino,1996-11-22,7.8
`

const linksCSV = `movieId,imdbId,tmdbId
1,114709,862
2,113497,8844
6,113277,949
7,114319,11860
16,112641,524
99,999999,
`

const ratingsCSV = `userId,movieId,rating,timestamp
1,1,4.0,1260759144
2,1,5.0,1260759179
1,2,3.0,1260759182
3,6,4.5,1260759185
4,6,4.5,1260759205
1,7,2.0,1260759151
2,16,4.5,1260759187
5,99,1.0,1260759139
6,500,3.0,1260759131
`

func fixtures(t *testing.T) (Config, string) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{"movies_metadata.csv": moviesCSV, "links_small.csv": linksCSV, "ratings_small.csv": ratingsCSV}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return Config{
		Inputs: Inputs{
			Movies:  filepath.Join(dir, "movies_metadata.csv"),
			Ratings: filepath.Join(dir, "ratings_small.csv"),
			Links:   filepath.Join(dir, "links_small.csv"),
		},
		Output: Output{Path: filepath.Join(dir, "dataset_exploded.json")},
	}, dir
}

func quiet() *log.Logger { return log.New(io.Discard, "", 0) }

func TestRun(t *testing.T) {
	convey.Convey("Given small movies, ratings and links files", t, func() {
		cfg, dir := fixtures(t)

		convey.Convey("A default run produces the expected report", func() {
			rep, err := Run(context.Background(), cfg, quiet())
			convey.So(err, convey.ShouldBeNil)
			convey.So(rep.MovieRows, convey.ShouldEqual, 5)
			convey.So(rep.UniqueMovies, convey.ShouldEqual, 5)
			convey.So(rep.AverageRating, convey.ShouldEqual, 3.5)
			convey.So(rep.RatedRows, convey.ShouldEqual, 7)
			convey.So(len(rep.Inputs), convey.ShouldEqual, 3)
			convey.So(rep.Inputs[0].Rows, convey.ShouldEqual, 7)

			convey.So(keys(rep.TopRated), convey.ShouldResemble, []any{"Casino", "Heat", "Toy Story", "Jumanji", "Sabrina"})
			convey.So(rep.TopRated[0].Value, convey.ShouldEqual, 4.5)

			convey.So(keys(rep.ReleasesPerYear), convey.ShouldResemble, []any{int64(1995), int64(1996)})
			convey.So(rep.ReleasesPerYear[0].Count, convey.ShouldEqual, 6)

			convey.So(keys(rep.GenreCounts), convey.ShouldResemble, []any{"Adventure", "Animation", "Comedy", "Crime", "Drama"})
			counts := map[any]int{}
			for _, g := range rep.GenreCounts {
				counts[g.Key] = g.Count
			}
			convey.So(counts["Drama"], convey.ShouldEqual, 3)
			convey.So(counts["Animation"], convey.ShouldEqual, 2)

			convey.So(rep.OutputRows, convey.ShouldEqual, 11)
			b, err := os.ReadFile(cfg.Output.Path)
			convey.So(err, convey.ShouldBeNil)
			var doc map[string]map[string]any
			convey.So(json.Unmarshal(b, &doc), convey.ShouldBeNil)
			convey.So(len(doc), convey.ShouldEqual, 11)
			convey.So(doc["0"]["title"], convey.ShouldEqual, "Toy Story")
			convey.So(doc["0"]["genre_names"], convey.ShouldEqual, "Animation")
			convey.So(doc["0"]["release_date"], convey.ShouldEqual, 1995.0)
			convey.So(doc["10"]["index"], convey.ShouldEqual, 6.0)
		})

		convey.Convey("Low-memory reads and CSV output give the same counts", func() {
			cfg.LowMemory = true
			cfg.ChunkRows = 2
			cfg.Output = Output{Path: filepath.Join(dir, "exploded.csv"), Format: FormatCSV}
			rep, err := Run(context.Background(), cfg, quiet())
			convey.So(err, convey.ShouldBeNil)
			convey.So(rep.UniqueMovies, convey.ShouldEqual, 5)
			convey.So(rep.OutputRows, convey.ShouldEqual, 11)

			r, c, err := csvio.Open(cfg.Output.Path, csvio.ReaderOptions{})
			convey.So(err, convey.ShouldBeNil)
			defer c.Close()
			f, err := r.ReadAll()
			convey.So(err, convey.ShouldBeNil)
			convey.So(f.Rows(), convey.ShouldEqual, 11)
			convey.So(f.Schema().Names()[0], convey.ShouldEqual, "index")
		})

		convey.Convey("ARFF output is written for golearn", func() {
			cfg.Output = Output{Path: filepath.Join(dir, "exploded.arff"), Format: FormatARFF}
			rep, err := Run(context.Background(), cfg, quiet())
			convey.So(err, convey.ShouldBeNil)
			convey.So(rep.OutputPath, convey.ShouldEqual, cfg.Output.Path)
			st, err := os.Stat(cfg.Output.Path)
			convey.So(err, convey.ShouldBeNil)
			convey.So(st.Size(), convey.ShouldBeGreaterThan, 0)
		})

		convey.Convey("A negative TopN reports every title", func() {
			cfg.TopN = -1
			cfg.Output.Path = ""
			rep, err := Run(context.Background(), cfg, quiet())
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(rep.TopRated), convey.ShouldEqual, 5)
		})

		convey.Convey("Left joins keep ratings without a movie", func() {
			cfg.JoinMode = "left"
			cfg.Output.Path = ""
			rep, err := Run(context.Background(), cfg, quiet())
			convey.So(err, convey.ShouldBeNil)
			convey.So(rep.RatedRows, convey.ShouldEqual, 9)
			convey.So(rep.OutputPath, convey.ShouldEqual, "")
		})

		convey.Convey("A missing input stops the run", func() {
			cfg.Inputs.Links = filepath.Join(dir, "nope.csv")
			_, err := Run(context.Background(), cfg, quiet())
			convey.So(errors.Is(err, frame.ErrNotFound), convey.ShouldBeTrue)
		})

		convey.Convey("A rating outside 0-5 stops the run", func() {
			bad := filepath.Join(dir, "bad_ratings.csv")
			convey.So(os.WriteFile(bad, []byte("userId,movieId,rating\n1,1,7.5\n"), 0o644), convey.ShouldBeNil)
			cfg.Inputs.Ratings = bad
			_, err := Run(context.Background(), cfg, quiet())
			convey.So(errors.Is(err, frame.ErrOutOfRange), convey.ShouldBeTrue)
		})
	})
}

func TestConfigValidate(t *testing.T) {
	convey.Convey("Config validation", t, func() {
		cfg, _ := fixtures(t)
		convey.So(cfg.WithDefaults().Validate(), convey.ShouldBeNil)

		d := cfg.WithDefaults()
		convey.So(d.JoinMode, convey.ShouldEqual, "inner")
		convey.So(d.TopN, convey.ShouldEqual, 5)
		convey.So(d.Output.Format, convey.ShouldEqual, FormatJSON)

		cfg.TopN = -1
		convey.So(cfg.WithDefaults().TopN, convey.ShouldEqual, -1)
		convey.So(cfg.WithDefaults().Validate(), convey.ShouldBeNil)
		cfg.TopN = 0

		cfg.JoinMode = "cross"
		convey.So(errors.Is(cfg.Validate(), frame.ErrInvalidJoinMode), convey.ShouldBeTrue)

		cfg.JoinMode = ""
		cfg.Output.Format = "xml"
		convey.So(cfg.Validate(), convey.ShouldNotBeNil)

		cfg.Output.Format = ""
		cfg.Inputs.Ratings = ""
		convey.So(cfg.Validate(), convey.ShouldNotBeNil)
	})
}
