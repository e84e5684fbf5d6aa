package calculator

// PercentChange returns the percent change from one price to another.
// A zero base yields 0 rather than a division error.
func PercentChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100.0
}
