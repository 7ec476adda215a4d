package job

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nmarkovic/moviehist/internal/hist"
	"github.com/nmarkovic/moviehist/internal/shared/config"
	"github.com/nmarkovic/moviehist/internal/shared/logging"
	"github.com/nmarkovic/moviehist/internal/sink"
)

func writeFixtureDataset(t *testing.T, dir string) {
	t.Helper()

	movies := "movieId,title,genres\n" +
		"1,Toy Story (1995),Adventure|Animation|Children|Comedy|Fantasy\n" +
		"2,\"American President, The (1995)\",Comedy|Drama|Romance\n" +
		"3,Jumanji (1995),Adventure|Children|Fantasy\n" +
		"4,Heat (1995),Action|Crime|Thriller\n" +
		"5,Balto (1995),Adventure|Animation|Children\n" +
		"6,Casino (1996),Crime|Drama\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "movies.csv"), []byte(movies), 0o644))

	ratings := "userId,movieId,rating,timestamp\n" +
		"1,1,5.0,964982703\n" +
		"1,3,4.0,964981247\n" +
		"2,1,4.5,964982224\n" + // half star, not counted
		"2,3,2.0,964982931\n" +
		"3,1,5.0,964982400\n" +
		"3,4,3.0,964982176\n" + // Heat: wrong genre
		"4,5,1.0,964983815\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ratings.csv"), []byte(ratings), 0o644))

	links := "movieId,imdbId,tmdbId\n" +
		"1,0114709,862\n" +
		"3,0113497,8844\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "links.csv"), []byte(links), 0o644))
}

func fixtureConfig(t *testing.T) *config.Config {
	t.Helper()

	tmpDir := t.TempDir()
	dataDir := filepath.Join(tmpDir, "ml-25m")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	writeFixtureDataset(t, dataDir)

	return &config.Config{
		Dataset: config.DatasetConfig{
			Dir:         dataDir,
			RatingsGlob: "ratings*.csv",
			MoviesFile:  "movies.csv",
			LinksFile:   "links.csv",
		},
		Output: config.OutputConfig{
			JSONPath:   filepath.Join(tmpDir, "results.json"),
			CSVDir:     filepath.Join(tmpDir, "results"),
			Partitions: 2,
		},
		Job:     config.JobConfig{Workers: 2, ChunkSize: 2},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	}
}

func readJSON(t *testing.T, path string) map[string][hist.NumBuckets]int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string][hist.NumBuckets]int
	require.NoError(t, json.Unmarshal(data, &decoded))
	return decoded
}

func TestJob_Run_EndToEnd(t *testing.T) {
	cfg := fixtureConfig(t)
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	summary, err := New(cfg, logger).Run(Params{Year: 1995, Genre: "Children"})
	require.NoError(t, err)
	require.Equal(t, 3, summary.MoviesMatched)
	require.Equal(t, int64(4), summary.Stats.RatingsKept)
	require.Equal(t, int64(1), summary.Stats.HalfStarSkipped)

	decoded := readJSON(t, cfg.Output.JSONPath)
	require.Len(t, decoded, 4)
	require.Equal(t, [hist.NumBuckets]int{0, 0, 0, 0, 2}, decoded["Toy Story (1995)"])
	require.Equal(t, [hist.NumBuckets]int{0, 1, 0, 1, 0}, decoded["Jumanji (1995)"])
	require.Equal(t, [hist.NumBuckets]int{1, 0, 0, 0, 0}, decoded["Balto (1995)"])

	// hist_all is the element-wise sum of every per-movie vector.
	var want [hist.NumBuckets]int
	for title, vector := range decoded {
		if title == sink.HistAllKey {
			continue
		}
		for i := range vector {
			want[i] += vector[i]
		}
	}
	require.Equal(t, want, decoded[sink.HistAllKey])

	// CSV export: filtered movies left-joined with links, marker present.
	_, err = os.Stat(filepath.Join(cfg.Output.CSVDir, sink.SuccessMarker))
	require.NoError(t, err)

	rows := readExportRows(t, cfg.Output.CSVDir)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"0114709", "862"}, rows["Toy Story (1995)"])
	require.Equal(t, []string{"0113497", "8844"}, rows["Jumanji (1995)"])
	require.Equal(t, []string{"", ""}, rows["Balto (1995)"])
}

func readExportRows(t *testing.T, dir string) map[string][]string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, "part-*.csv"))
	require.NoError(t, err)

	rows := make(map[string][]string)
	for _, match := range matches {
		file, err := os.Open(match)
		require.NoError(t, err)
		records, err := csv.NewReader(file).ReadAll()
		require.NoError(t, file.Close())
		require.NoError(t, err)
		for _, record := range records {
			require.Len(t, record, 3)
			rows[record[0]] = record[1:]
		}
	}
	return rows
}

func TestJob_Run_Deterministic(t *testing.T) {
	cfg := fixtureConfig(t)
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	_, err := New(cfg, logger).Run(Params{Year: 1995, Genre: "Children"})
	require.NoError(t, err)
	first, err := os.ReadFile(cfg.Output.JSONPath)
	require.NoError(t, err)

	_, err = New(cfg, logger).Run(Params{Year: 1995, Genre: "Children"})
	require.NoError(t, err)
	second, err := os.ReadFile(cfg.Output.JSONPath)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestJob_Run_GenreIsCaseSensitive(t *testing.T) {
	cfg := fixtureConfig(t)
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	summary, err := New(cfg, logger).Run(Params{Year: 1995, Genre: "children"})
	require.NoError(t, err)
	require.Equal(t, 0, summary.MoviesMatched)
}

func TestJob_Run_EmptyMatch(t *testing.T) {
	cfg := fixtureConfig(t)
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	summary, err := New(cfg, logger).Run(Params{Year: 2050, Genre: "Children"})
	require.NoError(t, err)
	require.Equal(t, 0, summary.MoviesMatched)

	// JSON holds only a zero hist_all.
	decoded := readJSON(t, cfg.Output.JSONPath)
	require.Len(t, decoded, 1)
	require.Equal(t, [hist.NumBuckets]int{}, decoded[sink.HistAllKey])

	// CSV directory holds only the completion marker.
	entries, err := os.ReadDir(cfg.Output.CSVDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, sink.SuccessMarker, entries[0].Name())
}

func TestJob_Run_MissingMoviesTable(t *testing.T) {
	cfg := fixtureConfig(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.Dataset.Dir, "movies.csv")))
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	_, err := New(cfg, logger).Run(Params{Year: 1995, Genre: "Children"})
	require.Error(t, err)

	// No completion marker on failure.
	_, statErr := os.Stat(filepath.Join(cfg.Output.CSVDir, sink.SuccessMarker))
	require.True(t, os.IsNotExist(statErr))
}

func TestJob_Run_MissingRatings(t *testing.T) {
	cfg := fixtureConfig(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.Dataset.Dir, "ratings.csv")))
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	_, err := New(cfg, logger).Run(Params{Year: 1995, Genre: "Children"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no ratings files matched")
}
