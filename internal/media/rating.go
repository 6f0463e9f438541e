package media

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Rating is a 0-10 score. NaN means the catalog had no rating.
type Rating float64

// NoRating returns the unknown rating.
func NoRating() Rating { return Rating(math.NaN()) }

// Known reports whether the rating carries a value.
func (r Rating) Known() bool { return !math.IsNaN(float64(r)) }

// Or returns the rating, or fallback when it is unknown.
func (r Rating) Or(fallback float64) float64 {
	if !r.Known() {
		return fallback
	}
	return float64(r)
}

// String renders one decimal place, or "n/a".
func (r Rating) String() string {
	if !r.Known() {
		return "n/a"
	}
	return strconv.FormatFloat(float64(r), 'f', 1, 64)
}

func (r Rating) MarshalJSON() ([]byte, error) {
	value := float64(r)
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(value)
}

func (r *Rating) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = NoRating()
		return nil
	}
	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*r = Rating(value)
	return nil
}
