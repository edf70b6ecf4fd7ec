package movies

import (
	"fmt"
	"strings"

	"github.com/argentumzz/movie/pkg/transform/join"
)

// Output formats accepted by Output.Format.
const (
	FormatJSON    = "json"
	FormatJSONL   = "jsonl"
	FormatCSV     = "csv"
	FormatParquet = "parquet"
	FormatSQLite  = "sqlite"
	FormatARFF    = "arff"
)

type Inputs struct {
	Movies  string `json:"movies" yaml:"movies" toml:"movies"`
	Ratings string `json:"ratings" yaml:"ratings" toml:"ratings"`
	Links   string `json:"links" yaml:"links" toml:"links"`
}

type Output struct {
	// Path of the exploded table; empty skips writing. For sqlite it is the DSN.
	Path   string `json:"path" yaml:"path" toml:"path"`
	Format string `json:"format" yaml:"format" toml:"format"`
	// Table is the sqlite table name and the ARFF relation.
	Table string `json:"table" yaml:"table" toml:"table"`
}

// Config drives one analysis run.
type Config struct {
	Inputs    Inputs `json:"inputs" yaml:"inputs" toml:"inputs"`
	LowMemory bool   `json:"low_memory" yaml:"low_memory" toml:"low_memory"`
	// ChunkRows is the LowMemory chunk size; 0 uses the loader default.
	ChunkRows int    `json:"chunk_rows" yaml:"chunk_rows" toml:"chunk_rows"`
	Output    Output `json:"output" yaml:"output" toml:"output"`
	JoinMode  string `json:"join_mode" yaml:"join_mode" toml:"join_mode"`
	// TopN bounds Report.TopRated: 0 means the default of 5, negative means
	// every title.
	TopN            int  `json:"top_n" yaml:"top_n" toml:"top_n"`
	NormalizeTitles bool `json:"normalize_titles" yaml:"normalize_titles" toml:"normalize_titles"`
	// LenientGenres nulls out undecodable genre cells instead of failing.
	LenientGenres bool `json:"lenient_genres" yaml:"lenient_genres" toml:"lenient_genres"`
}

// WithDefaults fills unset fields: inner joins, top 5, JSON output.
func (c Config) WithDefaults() Config {
	if c.JoinMode == "" {
		c.JoinMode = join.Inner.String()
	}
	if c.TopN == 0 {
		c.TopN = 5
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatJSON
	}
	c.Output.Format = strings.ToLower(c.Output.Format)
	if c.Output.Table == "" {
		c.Output.Table = "exploded"
	}
	return c
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	for _, in := range []struct{ name, path string }{
		{"movies", c.Inputs.Movies},
		{"ratings", c.Inputs.Ratings},
		{"links", c.Inputs.Links},
	} {
		if strings.TrimSpace(in.path) == "" {
			return fmt.Errorf("config: %s input path is required", in.name)
		}
	}
	if _, err := join.ParseMode(c.JoinMode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Output.Format {
	case "", FormatJSON, FormatJSONL, FormatCSV, FormatParquet, FormatSQLite, FormatARFF:
	default:
		return fmt.Errorf("config: unknown output format %q", c.Output.Format)
	}
	return nil
}
