package style

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/deckforge/deckforge/api/schemas"
)

// percentRe is the complete percentage grammar. Fractional percentages and
// bare numeric strings are rejected.
var percentRe = regexp.MustCompile(`^\d+%$`)

// NormalizeCoordinate validates a single authored coordinate. Numbers pass
// through unchanged, strings must be percentages, and an unset value is
// replaced by def. The result is still a Coord: percentage strings stay
// unresolved until a reference dimension is known.
func NormalizeCoordinate(v, def schemas.Coord) (schemas.Coord, error) {
	if !v.IsSet() {
		v = def
	}
	if raw, ok := v.Raw(); ok {
		if !percentRe.MatchString(raw) {
			return schemas.Coord{}, &schemas.InvalidPositionError{Value: raw}
		}
	}
	return v, nil
}

// NormalizePosition resolves a coordinate to an absolute value in inches.
// Percentage strings resolve against ref; numbers pass through unchanged.
func NormalizePosition(v, def schemas.Coord, ref float64) (float64, error) {
	normalized, err := NormalizeCoordinate(v, def)
	if err != nil {
		return 0, err
	}
	if n, ok := normalized.Number(); ok {
		return n, nil
	}
	if raw, ok := normalized.Raw(); ok {
		percent, convErr := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
		if convErr != nil {
			return 0, &schemas.InvalidPositionError{Value: raw}
		}
		return ref * percent / 100.0, nil
	}
	// Unset with an unset default resolves to zero.
	return 0, nil
}

// ExpandBox normalizes a margin/padding shorthand to a full
// [top, right, bottom, left] tuple. Accepted forms: empty (all zero), one
// value (all sides), two values ([vertical, horizontal]) and four values.
func ExpandBox(b schemas.Box) ([4]float64, error) {
	switch len(b) {
	case 0:
		return [4]float64{}, nil
	case 1:
		return [4]float64{b[0], b[0], b[0], b[0]}, nil
	case 2:
		return [4]float64{b[0], b[1], b[0], b[1]}, nil
	case 4:
		return [4]float64{b[0], b[1], b[2], b[3]}, nil
	}
	return [4]float64{}, &schemas.InvalidPositionError{Value: boxString(b)}
}

func boxString(b schemas.Box) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
