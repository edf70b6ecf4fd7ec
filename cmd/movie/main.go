package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/argentumzz/movie/pkg/movies"
)

var (
	version = "0.1.0-dev"
)

func main() {
	showVersion := flag.Bool("version", false, "Print version and exit")
	configPath := flag.String("config", "", "Path to run config (.json, .yaml or .toml)")
	reportJSON := flag.String("report-json", "", "Also write the report as JSON to this path (- for stdout)")
	quiet := flag.Bool("quiet", false, "Suppress progress logging")
	var o overrides
	flag.StringVar(&o.movies, "movies", "", "Movies metadata file")
	flag.StringVar(&o.ratings, "ratings", "", "Ratings file")
	flag.StringVar(&o.links, "links", "", "Links file")
	flag.StringVar(&o.out, "out", "", "Output path for the exploded table (DSN for sqlite)")
	flag.StringVar(&o.format, "format", "", "Output format: json|jsonl|csv|parquet|sqlite|arff")
	flag.StringVar(&o.join, "join", "", "Join mode: inner|left|right|outer")
	flag.IntVar(&o.top, "top", 0, "Number of top rated movies to report (0 = 5, -1 = all)")
	flag.BoolVar(&o.lowMemory, "low-memory", false, "Read inputs in chunks")
	flag.Parse()

	if *showVersion {
		fmt.Println("movie", version)
		return
	}

	var cfg movies.Config
	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	o.set = map[string]bool{}
	flag.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	cfg = o.apply(cfg).WithDefaults()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "try --config <file> or --movies/--ratings/--links; --help for flags")
		os.Exit(2)
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if *quiet {
		logger.SetOutput(io.Discard)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rep, err := movies.Run(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	printReport(os.Stdout, rep)
	if *reportJSON != "" {
		if err := writeReportJSON(*reportJSON, rep); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
