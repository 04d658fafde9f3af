// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

package memory_test

import (
	"testing"

	"github.com/recall-dev/recall/internal/memory"
	recallerr "github.com/recall-dev/recall/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatIndex_AddAssignsSequentialPositions(t *testing.T) {
	x := memory.NewFlatIndex(2)

	pos, err := x.Add([]float32{1, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, pos)

	pos, err = x.Add([]float32{0, 1})
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	assert.Equal(t, 2, x.Len())
}

func TestFlatIndex_AddRejectsDimensionMismatch(t *testing.T) {
	x := memory.NewFlatIndex(2)

	_, err := x.Add([]float32{1, 0, 0})
	require.Error(t, err)
	assert.True(t, recallerr.HasCode(err, recallerr.CodeMemoryDimensionMismatch))
	assert.Equal(t, 0, x.Len())
}

func TestFlatIndex_SearchOrdersByAscendingDistance(t *testing.T) {
	x := memory.NewFlatIndex(2)

	// e1=[1,0], e2=[0,1], e3=[0.9,0.1]: query [1,0] with k=2 must return
	// e1 then e3, never e2.
	for _, vec := range [][]float32{{1, 0}, {0, 1}, {0.9, 0.1}} {
		_, err := x.Add(vec)
		require.NoError(t, err)
	}

	hits, err := x.Search([]float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, 0, hits[0].Position)
	assert.Equal(t, 2, hits[1].Position)
	assert.InDelta(t, 0.0, float64(hits[0].Distance), 1e-6)
	assert.InDelta(t, 0.02, float64(hits[1].Distance), 1e-6)
	assert.Less(t, hits[0].Distance, hits[1].Distance)
}

func TestFlatIndex_SearchReturnsAllWhenKExceedsSize(t *testing.T) {
	x := memory.NewFlatIndex(2)
	_, err := x.Add([]float32{1, 0})
	require.NoError(t, err)

	hits, err := x.Search([]float32{0, 1}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestFlatIndex_SearchEmptyIndex(t *testing.T) {
	x := memory.NewFlatIndex(3)

	hits, err := x.Search([]float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestFlatIndex_SearchRejectsDimensionMismatch(t *testing.T) {
	x := memory.NewFlatIndex(2)
	_, err := x.Add([]float32{1, 0})
	require.NoError(t, err)

	_, err = x.Search([]float32{1, 0, 0}, 1)
	require.Error(t, err)
	assert.True(t, recallerr.HasCode(err, recallerr.CodeMemoryDimensionMismatch))
}

func TestFlatIndex_BinaryRoundTrip(t *testing.T) {
	x := memory.NewFlatIndex(3)
	for _, vec := range [][]float32{{1, 0, 0}, {0, 1, 0}, {0.5, 0.5, 0.25}} {
		_, err := x.Add(vec)
		require.NoError(t, err)
	}

	blob, err := x.MarshalBinary()
	require.NoError(t, err)

	loaded, err := memory.UnmarshalFlatIndex(blob)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Dimension())
	assert.Equal(t, 3, loaded.Len())

	// Rankings must survive the round trip.
	want, err := x.Search([]float32{0.6, 0.4, 0.3}, 3)
	require.NoError(t, err)
	got, err := loaded.Search([]float32{0.6, 0.4, 0.3}, 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUnmarshalFlatIndex_RejectsCorruptBlobs(t *testing.T) {
	_, err := memory.UnmarshalFlatIndex([]byte("not an index"))
	require.Error(t, err)
	assert.True(t, recallerr.HasCode(err, recallerr.CodeMemoryLoadFailure))

	x := memory.NewFlatIndex(2)
	_, err = x.Add([]float32{1, 2})
	require.NoError(t, err)
	blob, err := x.MarshalBinary()
	require.NoError(t, err)

	_, err = memory.UnmarshalFlatIndex(blob[:len(blob)-4])
	require.Error(t, err)
	assert.True(t, recallerr.HasCode(err, recallerr.CodeMemoryLoadFailure))
}
