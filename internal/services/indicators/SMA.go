package indicators

// SMA returns the simple moving average of the trailing `period`
// observations, evaluated at the end of the series. The second return is
// false when fewer than `period` observations exist.
func SMA(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), true
}
