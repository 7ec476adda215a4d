package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var titleYearPattern = regexp.MustCompile(`\((\d{4})\)\s*$`)

// noGenresListed is the literal the dataset uses for movies without tags.
const noGenresListed = "(no genres listed)"

// Movie is one row of the movies table. Year is parsed from the trailing
// "(YYYY)" in the title and is 0 when the title carries no year.
type Movie struct {
	ID     int64
	Title  string
	Year   int
	Genres []string
}

// HasGenre reports whether the movie carries the exact genre tag.
// Matching is case-sensitive, no substring or fuzzy matching.
func (m Movie) HasGenre(genre string) bool {
	return slices.Contains(m.Genres, genre)
}

// ParseTitleYear extracts the release year embedded at the end of a title,
// e.g. "Toy Story (1995)" -> 1995. Returns 0 when no year is present.
func ParseTitleYear(title string) int {
	match := titleYearPattern.FindStringSubmatch(strings.TrimSpace(title))
	if match == nil {
		return 0
	}
	year, _ := strconv.Atoi(match[1])
	return year
}

// LoadMovies reads the full movies table. Titles may contain commas, so rows
// go through a CSV reader rather than a plain split.
func LoadMovies(path string) ([]Movie, error) {
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

	var movies []Movie
	for i, record := range records {
		if i == 0 && record[0] == "movieId" {
			continue
		}
		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: invalid movie id %q", path, i+1, record[0])
		}
		title := record[1]
		movies = append(movies, Movie{
			ID:     id,
			Title:  title,
			Year:   ParseTitleYear(title),
			Genres: splitGenres(record[2]),
		})
	}

	return movies, nil
}

func splitGenres(field string) []string {
	if field == "" || field == noGenresListed {
		return nil
	}
	return strings.Split(field, "|")
}
