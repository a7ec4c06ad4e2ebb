package rows

import (
	"regexp"
	"strconv"
	"time"

	"github.com/ingestd/ingestd/internal/model"
)

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ].*)?$`)

// toScalar infers a model.Scalar from a raw decoded value (string, number,
// bool, or nil). Nested maps/slices are dropped upstream before reaching
// here; any other type becomes empty text.
func toScalar(v any) model.Scalar {
	switch val := v.(type) {
	case nil:
		return model.Null()
	case bool:
		return model.BoolVal(val)
	case int:
		return model.IntVal(int64(val))
	case int64:
		return model.IntVal(val)
	case float64:
		if val == float64(int64(val)) {
			return model.IntVal(int64(val))
		}
		return model.RealVal(val)
	case string:
		return scalarFromString(val)
	default:
		return model.TextVal("")
	}
}

// scalarFromString infers whether a string cell looks like an int, real,
// timestamp, or plain text. A timestamp candidate matches
// ^\d{4}-\d{2}-\d{2} with an optional "T..." or " ..." suffix.
func scalarFromString(s string) model.Scalar {
	if s == "" {
		return model.TextVal(s)
	}
	if timestampPattern.MatchString(s) {
		if t, err := parseTimestamp(s); err == nil {
			return model.TimeVal(t)
		}
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return model.IntVal(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return model.RealVal(f)
	}
	return model.TextVal(s)
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}
