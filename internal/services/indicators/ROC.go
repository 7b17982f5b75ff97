package indicators

// ROC returns the trailing rate of change over `offset` observations,
// evaluated at the end of the series, in percent. The second return is
// false when the series is too short or the past value is non-positive.
func ROC(values []float64, offset int) (float64, bool) {
	if offset <= 0 || len(values) <= offset {
		return 0, false
	}
	past := values[len(values)-1-offset]
	if past <= 0 {
		return 0, false
	}
	last := values[len(values)-1]
	return (last/past - 1.0) * 100.0, true
}
