package sink

import (
	"encoding/csv"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/nmarkovic/moviehist/internal/dataset"
)

// SuccessMarker is the zero-byte file signaling that the output directory is
// complete and safe to read.
const SuccessMarker = "_SUCCESS"

// Row is one record of the movie export: the filtered movies left-joined
// with their external identifiers. Missing links leave the id columns empty.
type Row struct {
	MovieID int64
	Title   string
	IMDBID  string
	TMDBID  string
}

// NewRow joins a movie with its link entry, if any.
func NewRow(movie dataset.Movie, links map[int64]dataset.Link) Row {
	link := links[movie.ID]
	return Row{
		MovieID: movie.ID,
		Title:   movie.Title,
		IMDBID:  link.IMDBID,
		TMDBID:  link.TMDBID,
	}
}

func Hash(value string) uint32 {
	hash := fnv.New32a()
	hash.Write([]byte(value))
	return hash.Sum32()
}

func Partition(key string, numPartitions int) int {
	if numPartitions <= 0 {
		return 0
	}
	return int(Hash(key)) % numPartitions
}

// WriteCSVDir overwrites dir with one CSV file per non-empty partition plus
// the _SUCCESS marker. Rows are assigned to partitions by movie-id hash. The
// marker is written last: its presence means every partition file landed.
func WriteCSVDir(dir string, rows []Row, partitions int, runID uuid.UUID) error {
	if partitions <= 0 {
		partitions = 1
	}

	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	parts := make(map[int][]Row)
	for _, row := range rows {
		part := Partition(strconv.FormatInt(row.MovieID, 10), partitions)
		parts[part] = append(parts[part], row)
	}

	for part := 0; part < partitions; part++ {
		records := parts[part]
		if len(records) == 0 {
			continue
		}
		name := fmt.Sprintf("part-%05d-%s-c000.csv", part, runID)
		if err := writePartition(filepath.Join(dir, name), records); err != nil {
			return err
		}
	}

	marker, err := os.Create(filepath.Join(dir, SuccessMarker))
	if err != nil {
		return err
	}
	return marker.Close()
}

func writePartition(path string, rows []Row) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	for _, row := range rows {
		if err := writer.Write([]string{row.Title, row.IMDBID, row.TMDBID}); err != nil {
			file.Close()
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}
