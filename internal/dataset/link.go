package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Link holds the external identifiers of a movie. The ids stay strings:
// imdbId values carry significant leading zeros, and tmdbId may be empty.
type Link struct {
	MovieID int64
	IMDBID  string
	TMDBID  string
}

// LoadLinks reads the links table into a movie-id index.
func LoadLinks(path string) (map[int64]Link, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 3

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	links := make(map[int64]Link, len(records))
	for i, record := range records {
		if i == 0 && record[0] == "movieId" {
			continue
		}
		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			// Links are supplementary; a bad row loses one join, not the run.
			continue
		}
		links[id] = Link{MovieID: id, IMDBID: record[1], TMDBID: record[2]}
	}

	return links, nil
}
