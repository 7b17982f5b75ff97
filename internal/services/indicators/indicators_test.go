package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSMA(t *testing.T) {
	sma, ok := SMA([]float64{1, 2, 3, 4, 5}, 3)
	assert.True(t, ok)
	assert.InDelta(t, 4.0, sma, 1e-12)

	_, ok = SMA([]float64{1, 2}, 3)
	assert.False(t, ok)

	_, ok = SMA(nil, 5)
	assert.False(t, ok)

	_, ok = SMA([]float64{1, 2, 3}, 0)
	assert.False(t, ok)
}

func TestROC(t *testing.T) {
	// last=110, value 2 back=100 -> +10%
	roc, ok := ROC([]float64{100, 105, 110}, 2)
	assert.True(t, ok)
	assert.InDelta(t, 10.0, roc, 1e-12)

	roc, ok = ROC([]float64{100, 95, 90}, 2)
	assert.True(t, ok)
	assert.InDelta(t, -10.0, roc, 1e-12)

	// needs strictly more observations than the offset
	_, ok = ROC([]float64{100, 110}, 2)
	assert.False(t, ok)

	// non-positive reference price
	_, ok = ROC([]float64{0, 105, 110}, 2)
	assert.False(t, ok)
}
