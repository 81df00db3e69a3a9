package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVolunteersRoundTrip(t *testing.T) {
	require.Equal(t, "[]", encodeVolunteers(nil))
	require.Equal(t, "[]", encodeVolunteers([]int64{}))
	require.Equal(t, "[3,7]", encodeVolunteers([]int64{3, 7}))

	require.Equal(t, []int64{3, 7}, decodeVolunteers(encodeVolunteers([]int64{3, 7})))
	require.Equal(t, []int64{}, decodeVolunteers(encodeVolunteers(nil)))
}

func TestDecodeVolunteersCorrupt(t *testing.T) {
	// corrupt stored text degrades to empty, never errors
	require.Equal(t, []int64{}, decodeVolunteers(""))
	require.Equal(t, []int64{}, decodeVolunteers("null"))
	require.Equal(t, []int64{}, decodeVolunteers("not json"))
	require.Equal(t, []int64{}, decodeVolunteers(`{"a":1}`))
	require.Equal(t, []int64{}, decodeVolunteers(`["a","b"]`))
}
