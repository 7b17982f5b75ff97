package models

import (
	"sort"
	"time"
)

// PriceBar is one close observation.
type PriceBar struct {
	Date  time.Time
	Close float64
}

// PriceSeries is an ordered-by-date close series for one ticker. The
// decision components treat it as read-only; callers truncate it to the
// decision date before handing it over.
type PriceSeries struct {
	Ticker string
	Bars   []PriceBar
}

func (s PriceSeries) Len() int {
	return len(s.Bars)
}

// IndexAtOrBefore returns the index of the last bar dated at or before the
// given date, or -1 when no such bar exists.
func (s PriceSeries) IndexAtOrBefore(date time.Time) int {
	i := sort.Search(len(s.Bars), func(i int) bool {
		return s.Bars[i].Date.After(date)
	})
	return i - 1
}

// TruncateTo returns the prefix of the series up to and including date.
func (s PriceSeries) TruncateTo(date time.Time) PriceSeries {
	idx := s.IndexAtOrBefore(date)
	return PriceSeries{Ticker: s.Ticker, Bars: s.Bars[:idx+1]}
}

// CloseOn returns the close on exactly the given date. The second return is
// false when the ticker has no observation that day.
func (s PriceSeries) CloseOn(date time.Time) (float64, bool) {
	idx := s.IndexAtOrBefore(date)
	if idx < 0 || !s.Bars[idx].Date.Equal(date) {
		return 0, false
	}
	return s.Bars[idx].Close, true
}

// LastCloseAtOrBefore returns the most recent close at or before date.
func (s PriceSeries) LastCloseAtOrBefore(date time.Time) (float64, bool) {
	idx := s.IndexAtOrBefore(date)
	if idx < 0 {
		return 0, false
	}
	return s.Bars[idx].Close, true
}
