package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return base.Add(time.Duration(minutes) * time.Minute)
}

func iv(startMin, endMin int) Interval {
	return New(at(startMin), at(endMin))
}

func TestInterval_IsEmpty(t *testing.T) {
	assert.False(t, iv(0, 60).IsEmpty())
	assert.True(t, iv(60, 60).IsEmpty())
	assert.True(t, iv(60, 0).IsEmpty())
}

func TestInterval_Contains(t *testing.T) {
	outer := iv(60, 180)

	assert.True(t, outer.Contains(iv(60, 180)))
	assert.True(t, outer.Contains(iv(90, 120)))
	assert.False(t, outer.Contains(iv(30, 120)))
	assert.False(t, outer.Contains(iv(90, 200)))
}

func TestInterval_ContainsInstant(t *testing.T) {
	span := iv(60, 120)

	assert.True(t, span.ContainsInstant(at(60)))
	assert.True(t, span.ContainsInstant(at(119)))
	// Полуоткрытый интервал: правая граница не входит
	assert.False(t, span.ContainsInstant(at(120)))
	assert.False(t, span.ContainsInstant(at(59)))
}

func TestInterval_Overlaps(t *testing.T) {
	assert.True(t, iv(0, 60).Overlaps(iv(30, 90)))
	assert.True(t, iv(30, 90).Overlaps(iv(0, 60)))
	// Касание границами — не пересечение
	assert.False(t, iv(0, 60).Overlaps(iv(60, 120)))
	assert.False(t, iv(0, 60).Overlaps(iv(90, 120)))
}

func TestIntersect(t *testing.T) {
	got, ok := Intersect(iv(0, 60), iv(30, 90))
	require.True(t, ok)
	assert.Equal(t, iv(30, 60), got)

	_, ok = Intersect(iv(0, 60), iv(60, 120))
	assert.False(t, ok)

	_, ok = Intersect(iv(0, 30), iv(60, 90))
	assert.False(t, ok)
}

func TestSubtract(t *testing.T) {
	t.Run("block splits free interval in two", func(t *testing.T) {
		got := Subtract([]Interval{iv(0, 120)}, []Interval{iv(30, 60)})
		assert.Equal(t, []Interval{iv(0, 30), iv(60, 120)}, got)
	})

	t.Run("block covering whole interval removes it", func(t *testing.T) {
		got := Subtract([]Interval{iv(30, 60)}, []Interval{iv(0, 120)})
		assert.Empty(t, got)
	})

	t.Run("partial overlap trims the edge", func(t *testing.T) {
		got := Subtract([]Interval{iv(0, 60)}, []Interval{iv(30, 90)})
		assert.Equal(t, []Interval{iv(0, 30)}, got)
	})

	t.Run("touching block is a no-op", func(t *testing.T) {
		got := Subtract([]Interval{iv(0, 60)}, []Interval{iv(60, 120)})
		assert.Equal(t, []Interval{iv(0, 60)}, got)
	})

	t.Run("empty blocking set keeps free set", func(t *testing.T) {
		got := Subtract([]Interval{iv(0, 60), iv(90, 120)}, nil)
		assert.Equal(t, []Interval{iv(0, 60), iv(90, 120)}, got)
	})

	t.Run("empty free intervals are dropped", func(t *testing.T) {
		got := Subtract([]Interval{iv(60, 60), iv(0, 30)}, nil)
		assert.Equal(t, []Interval{iv(0, 30)}, got)
	})

	t.Run("order of blocking intervals does not matter", func(t *testing.T) {
		free := []Interval{iv(0, 240)}
		a := Subtract(free, []Interval{iv(30, 60), iv(120, 150)})
		b := Subtract(free, []Interval{iv(120, 150), iv(30, 60)})
		assert.Equal(t, a, b)
		assert.Equal(t, []Interval{iv(0, 30), iv(60, 120), iv(150, 240)}, a)
	})
}

func TestInterval_Duration(t *testing.T) {
	assert.Equal(t, time.Hour, iv(0, 60).Duration())
	assert.Equal(t, time.Duration(0), iv(60, 0).Duration())
}
