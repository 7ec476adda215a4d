package sink

import (
	"encoding/json"
	"os"

	"github.com/nmarkovic/moviehist/internal/hist"
)

// HistAllKey is the reserved output key holding the element-wise sum of
// every per-movie vector in the same object.
const HistAllKey = "hist_all"

// WriteJSON writes the histogram summary as a single JSON object: one key
// per movie title plus the reserved hist_all key. Map keys marshal in sorted
// order, so identical inputs produce byte-identical output.
func WriteJSON(path string, perMovie map[string]hist.Vector, histAll hist.Vector) error {
	object := make(map[string]hist.Vector, len(perMovie)+1)
	for title, vector := range perMovie {
		object[title] = vector
	}
	object[HistAllKey] = histAll

	data, err := json.Marshal(object)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
