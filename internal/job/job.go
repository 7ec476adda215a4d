package job

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/nmarkovic/moviehist/internal/dataset"
	"github.com/nmarkovic/moviehist/internal/hist"
	"github.com/nmarkovic/moviehist/internal/shared/config"
	"github.com/nmarkovic/moviehist/internal/shared/logging"
	"github.com/nmarkovic/moviehist/internal/sink"
)

// Params is the filter predicate: title-embedded release year and exact
// genre tag.
type Params struct {
	Year  int
	Genre string
}

// Summary reports what one run produced.
type Summary struct {
	RunID         uuid.UUID
	MoviesMatched int
	Stats         hist.Stats
	JSONPath      string
	CSVDir        string
}

// Job is a single-attempt batch run: load, filter, aggregate, export.
type Job struct {
	config *config.Config
	logger logging.Logger
}

func New(cfg *config.Config, logger logging.Logger) *Job {
	return &Job{config: cfg, logger: logger}
}

// Run executes the aggregation and writes both output artifacts. An empty
// match is a successful run: the JSON holds only a zero hist_all and the CSV
// directory holds only the completion marker.
func (j *Job) Run(params Params) (*Summary, error) {
	runID := uuid.New()
	logger := j.logger.With("run_id", runID.String())
	started := time.Now()

	cfg := j.config
	moviesPath := filepath.Join(cfg.Dataset.Dir, cfg.Dataset.MoviesFile)
	movies, err := dataset.LoadMovies(moviesPath)
	if err != nil {
		return nil, err
	}

	var matched []dataset.Movie
	for _, movie := range movies {
		if movie.Year == params.Year && movie.HasGenre(params.Genre) {
			matched = append(matched, movie)
		}
	}
	logger.Info("Filtered movies",
		"total", len(movies),
		"matched", len(matched),
		"year", params.Year,
		"genre", params.Genre,
	)

	perMovie := make(map[string]hist.Vector, len(matched))
	var stats hist.Stats
	var rows []sink.Row

	if len(matched) == 0 {
		logger.Warn("No movies matched the filter; writing empty results")
	} else {
		selected := make(map[int64]bool, len(matched))
		for _, movie := range matched {
			selected[movie.ID] = true
		}

		files, err := dataset.FindRatingFiles(cfg.Dataset.Dir, cfg.Dataset.RatingsGlob)
		if err != nil {
			return nil, err
		}

		engine := hist.NewEngine(hist.Config{
			Workers:   cfg.Job.Workers,
			ChunkSize: cfg.Job.ChunkSize,
		})
		histogram, engineStats, err := engine.Run(files, selected)
		if err != nil {
			return nil, err
		}
		stats = engineStats
		logger.Info("Aggregated ratings",
			"files", len(files),
			"lines_scanned", stats.LinesScanned,
			"ratings_kept", stats.RatingsKept,
			"half_star_skipped", stats.HalfStarSkipped,
		)

		for _, movie := range matched {
			vector, _ := histogram.Vector(movie.ID)
			// A handful of titles repeat across distinct movie ids; their
			// vectors fold into one key so hist_all stays the per-bin sum of
			// the object's values.
			perMovie[movie.Title] = perMovie[movie.Title].Add(vector)
		}

		linksPath := filepath.Join(cfg.Dataset.Dir, cfg.Dataset.LinksFile)
		links, err := dataset.LoadLinks(linksPath)
		if err != nil {
			return nil, err
		}
		rows = make([]sink.Row, 0, len(matched))
		for _, movie := range matched {
			rows = append(rows, sink.NewRow(movie, links))
		}
	}

	histAll := hist.SumAll(perMovie)
	if err := sink.WriteJSON(cfg.Output.JSONPath, perMovie, histAll); err != nil {
		return nil, err
	}
	logger.Info("Wrote histogram summary", "path", cfg.Output.JSONPath, "movies", len(perMovie))

	if err := sink.WriteCSVDir(cfg.Output.CSVDir, rows, cfg.Output.Partitions, runID); err != nil {
		return nil, err
	}
	logger.Info("Wrote movie export",
		"dir", cfg.Output.CSVDir,
		"rows", len(rows),
		"partitions", cfg.Output.Partitions,
	)

	logger.Info("Job completed", "duration", time.Since(started).String())
	return &Summary{
		RunID:         runID,
		MoviesMatched: len(matched),
		Stats:         stats,
		JSONPath:      cfg.Output.JSONPath,
		CSVDir:        cfg.Output.CSVDir,
	}, nil
}
