// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

package memory

import (
	"encoding/binary"
	"math"
	"sort"

	recallerr "github.com/recall-dev/recall/pkg/errors"
)

// indexMagic identifies the binary flat-index artifact, followed by a
// uint32 dimension, a uint32 vector count, and the little-endian float32
// payload in insertion order.
var indexMagic = [4]byte{'R', 'V', 'I', '1'}

// Hit is one nearest-neighbor match: the vector's insertion position and
// its squared Euclidean distance to the query.
type Hit struct {
	Position int
	Distance float32
}

// FlatIndex is an exact nearest-neighbor index over fixed-dimension
// vectors, stored as one contiguous row-major slice. It is append-only:
// vectors are never deleted or updated in place, so positions are stable
// for the life of the store.
//
// FlatIndex is not goroutine-safe; the Manager serializes access.
type FlatIndex struct {
	dim  int
	data []float32
}

// NewFlatIndex creates an empty index for vectors of the given dimension.
func NewFlatIndex(dim int) *FlatIndex {
	return &FlatIndex{dim: dim}
}

// Dimension returns the fixed vector dimensionality.
func (x *FlatIndex) Dimension() int { return x.dim }

// Len returns the number of stored vectors.
func (x *FlatIndex) Len() int {
	if x.dim == 0 {
		return 0
	}
	return len(x.data) / x.dim
}

// Add appends vec and returns its position. The store dimension is never
// silently changed: a vector of any other length is rejected.
func (x *FlatIndex) Add(vec []float32) (int, error) {
	if len(vec) != x.dim {
		return 0, recallerr.Errorf(recallerr.CodeMemoryDimensionMismatch,
			"vector has %d dimensions, index expects %d", len(vec), x.dim)
	}

	x.data = append(x.data, vec...)
	return x.Len() - 1, nil
}

// Search returns up to k hits ordered by ascending squared Euclidean
// distance. Fewer than k stored vectors yields all of them; an empty index
// yields nil. Neither case is an error.
func (x *FlatIndex) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != x.dim {
		return nil, recallerr.Errorf(recallerr.CodeMemoryDimensionMismatch,
			"query has %d dimensions, index expects %d", len(query), x.dim)
	}
	n := x.Len()
	if n == 0 || k <= 0 {
		return nil, nil
	}

	hits := make([]Hit, n)
	for i := 0; i < n; i++ {
		row := x.data[i*x.dim : (i+1)*x.dim]
		var dist float32
		for j, q := range query {
			d := row[j] - q
			dist += d * d
		}
		hits[i] = Hit{Position: i, Distance: dist}
	}

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Distance < hits[b].Distance })
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// MarshalBinary serializes the full vector set.
func (x *FlatIndex) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 12+4*len(x.data))
	copy(buf[0:4], indexMagic[:])
	binary.LittleEndian.PutUint32(buf[4:8], uint32(x.dim))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(x.Len()))
	for i, v := range x.data {
		binary.LittleEndian.PutUint32(buf[12+4*i:], math.Float32bits(v))
	}
	return buf, nil
}

// UnmarshalFlatIndex deserializes a full vector set written by MarshalBinary.
func UnmarshalFlatIndex(data []byte) (*FlatIndex, error) {
	if len(data) < 12 || [4]byte(data[0:4]) != indexMagic {
		return nil, recallerr.New(recallerr.CodeMemoryLoadFailure, "index blob has invalid header")
	}

	dim := int(binary.LittleEndian.Uint32(data[4:8]))
	count := int(binary.LittleEndian.Uint32(data[8:12]))
	if dim <= 0 {
		return nil, recallerr.Errorf(recallerr.CodeMemoryLoadFailure, "index blob declares invalid dimension %d", dim)
	}
	if len(data) != 12+4*dim*count {
		return nil, recallerr.Errorf(recallerr.CodeMemoryLoadFailure,
			"index blob truncated: %d bytes for %d vectors of dimension %d", len(data), count, dim)
	}

	x := &FlatIndex{dim: dim, data: make([]float32, dim*count)}
	for i := range x.data {
		x.data[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[12+4*i:]))
	}
	return x, nil
}
