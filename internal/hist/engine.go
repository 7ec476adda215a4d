package hist

import (
	"fmt"
	"sync"

	"github.com/nmarkovic/moviehist/internal/dataset"
)

// Config controls the aggregation engine's parallelism.
type Config struct {
	Workers   int
	ChunkSize int
}

// Stats summarizes one aggregation run.
type Stats struct {
	LinesScanned    int64
	RatingsKept     int64
	HalfStarSkipped int64
}

func (s *Stats) add(other Stats) {
	s.LinesScanned += other.LinesScanned
	s.RatingsKept += other.RatingsKept
	s.HalfStarSkipped += other.HalfStarSkipped
}

// Engine aggregates rating histograms for a selected movie set across one or
// more ratings files using a fixed worker pool.
type Engine struct {
	config Config
}

func NewEngine(config Config) *Engine {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.ChunkSize <= 0 {
		config.ChunkSize = 65536
	}
	return &Engine{config: config}
}

// Run scans every ratings file in chunks. Each chunk task parses, filters by
// the selected movie ids, buckets, and accumulates into a private histogram;
// partials merge under a lock. The result is independent of worker count and
// chunk boundaries.
func (e *Engine) Run(files []string, selected map[int64]bool) (*Histogram, Stats, error) {
	var (
		mu      sync.Mutex
		merged  = NewHistogram()
		stats   Stats
		scanErr error
	)

	pool := NewPool(e.config.Workers)
	pool.Start()

	submit := func(chunk dataset.Chunk) error {
		pool.Submit(func() {
			partial := NewHistogram()
			var local Stats
			var taskErr error

			for i, line := range chunk.Lines {
				local.LinesScanned++
				rating, err := dataset.ParseRating(line)
				if err != nil {
					taskErr = fmt.Errorf("%s: line %d: %w", chunk.File, chunk.Start+i, err)
					break
				}
				if !selected[rating.MovieID] {
					continue
				}
				bucket, ok := Bucket(rating.Value)
				if !ok {
					local.HalfStarSkipped++
					continue
				}
				partial.Add(rating.MovieID, bucket)
				local.RatingsKept++
			}

			mu.Lock()
			defer mu.Unlock()
			if taskErr != nil && scanErr == nil {
				scanErr = taskErr
			}
			merged.Merge(partial)
			stats.add(local)
		})
		return nil
	}

	for _, file := range files {
		if err := dataset.ScanChunks(file, e.config.ChunkSize, submit); err != nil {
			pool.Close()
			return nil, stats, err
		}
	}
	pool.Close()

	if scanErr != nil {
		return nil, stats, scanErr
	}
	return merged, stats, nil
}
