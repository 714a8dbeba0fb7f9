package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandDisruptionsSeriesRoot(t *testing.T) {
	out := ExpandDisruptions([]int{100})
	assert.Len(t, out, 99)
	assert.False(t, out[100], "series root itself is not excluded, only n+1..n+99")
	assert.True(t, out[101])
	assert.True(t, out[199])
	assert.False(t, out[200])
}

func TestExpandDisruptionsNonRootExcludesOnlyItself(t *testing.T) {
	out := ExpandDisruptions([]int{42})
	assert.Equal(t, map[int]bool{42: true}, out)
}

func TestExpandDisruptionsMixed(t *testing.T) {
	out := ExpandDisruptions([]int{42, 200})
	assert.True(t, out[42])
	assert.True(t, out[201])
	assert.True(t, out[299])
	assert.False(t, out[200])
	assert.Len(t, out, 100)
}

func TestDisruptedTripsResolvesShortNamesOnDate(t *testing.T) {
	store := buildTestStore(t)
	excluded := DisruptedTrips(store, "20260801", ExpandDisruptions([]int{100}))
	assert.Empty(t, excluded, "100 is a series root, excludes 101..199, not trip 100 itself")

	excluded = DisruptedTrips(store, "20260801", ExpandDisruptions([]int{200}))
	assert.Empty(t, excluded)

	excluded = DisruptedTrips(store, "20260801", map[int]bool{100: true})
	assert.True(t, excluded[0])
	assert.False(t, excluded[1])
}

func TestDisruptedTripsEmptySetShortCircuits(t *testing.T) {
	store := buildTestStore(t)
	excluded := DisruptedTrips(store, "20260801", nil)
	assert.Empty(t, excluded)
}
