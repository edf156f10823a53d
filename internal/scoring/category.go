package scoring

import "strings"

// Category is an ordered runnability label.
type Category string

const (
	Excellent Category = "Excellent"
	Good      Category = "Good"
	Fair      Category = "Fair"
	Poor      Category = "Poor"
	Bad       Category = "Bad"
)

// Class returns the CSS class used to colour the badge.
func (c Category) Class() string {
	return strings.ToLower(string(c))
}

// Categorize buckets a score into five labels: >=80 Excellent, >=60 Good,
// >=40 Fair, >=20 Poor, otherwise Bad.
func Categorize(score float64) Category {
	switch {
	case score >= 80:
		return Excellent
	case score >= 60:
		return Good
	case score >= 40:
		return Fair
	case score >= 20:
		return Poor
	default:
		return Bad
	}
}

// CategorizeFourTier is the coarser bucketing used with weighted scores:
// >=80 Excellent, >=60 Good, >=40 Fair, otherwise Poor.
func CategorizeFourTier(score float64) Category {
	switch {
	case score >= 80:
		return Excellent
	case score >= 60:
		return Good
	case score >= 40:
		return Fair
	default:
		return Poor
	}
}
