package telemetry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWindow(t *testing.T) {
	var w Window
	require.Equal(t, 0, w.Count())
	require.Nil(t, w.Recent())

	w.Push(100)
	require.Equal(t, 1, w.Count())
	require.Equal(t, []int{100}, w.Recent())

	w.Push(101)
	require.Equal(t, []int{100, 101}, w.Recent())

	w.Push(99)
	require.Equal(t, 3, w.Count())
	// Full ring: the oldest sample (100) is about to be overwritten
	// and drops out of the comparison set.
	require.Equal(t, []int{101, 99}, w.Recent())

	w.Push(500)
	require.Equal(t, 3, w.Count())
	require.Equal(t, []int{99, 500}, w.Recent())

	w.Push(500)
	require.Equal(t, []int{500, 500}, w.Recent())
}
