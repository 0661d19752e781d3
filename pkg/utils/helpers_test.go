package utils

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 2*time.Second, ParseDuration("2s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("not-a-duration", time.Minute))
}

func TestParseCell(t *testing.T) {
	assert.Nil(t, ParseCell(""))
	assert.Nil(t, ParseCell("  NA "))
	assert.Nil(t, ParseCell("null"))
	assert.Nil(t, ParseCell("NaN"))
	assert.Equal(t, 42, ParseCell("42"))
	assert.Equal(t, -7, ParseCell(" -7 "))
	assert.Equal(t, 3.5, ParseCell("3.5"))
	assert.Equal(t, "hello world", ParseCell(" hello world "))
}

func TestNumeric(t *testing.T) {
	f, ok := Numeric(3)
	assert.True(t, ok)
	assert.Equal(t, 3.0, f)

	f, ok = Numeric(2.5)
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)

	f, ok = Numeric(true)
	assert.True(t, ok)
	assert.Equal(t, 1.0, f)

	_, ok = Numeric("text")
	assert.False(t, ok)
	_, ok = Numeric(nil)
	assert.False(t, ok)
}

func TestMeanStd(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 5.0, Mean(xs), 1e-9)
	assert.InDelta(t, 2.138, Std(xs), 1e-3)

	assert.True(t, math.IsNaN(Mean(nil)))
	assert.True(t, math.IsNaN(Std([]float64{1})))
}

func TestQuantileLinearInterpolation(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5, 100}
	assert.InDelta(t, 2.25, Quantile(xs, 0.25), 1e-9)
	assert.InDelta(t, 4.75, Quantile(xs, 0.75), 1e-9)
	assert.InDelta(t, 3.5, Median(xs), 1e-9)
	assert.Equal(t, 1.0, Quantile(xs, 0))
	assert.Equal(t, 100.0, Quantile(xs, 1))
}

func TestMode(t *testing.T) {
	mode, ok := Mode([]string{"b", "a", "b", "a", "c"})
	assert.True(t, ok)
	assert.Equal(t, "a", mode, "ties break toward the smaller value")

	_, ok = Mode(nil)
	assert.False(t, ok)
}

func TestSanitize(t *testing.T) {
	in := map[string]interface{}{
		"nan":    math.NaN(),
		"inf":    math.Inf(1),
		"int64":  int64(9),
		"nested": []interface{}{math.NaN(), 1.5},
		"ok":     "text",
	}
	out := Sanitize(in).(map[string]interface{})
	assert.Nil(t, out["nan"])
	assert.Nil(t, out["inf"])
	assert.Equal(t, 9, out["int64"])
	assert.Equal(t, []interface{}{nil, 1.5}, out["nested"])
	assert.Equal(t, "text", out["ok"])
}
