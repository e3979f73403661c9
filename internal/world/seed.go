package world

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
	"github.com/segmentio/fasthash/fnv1a"

	"worldpop/internal/stream"
)

const (
	passLarge uint64 = iota + 1
	passCover
	passBatch
)

// chunkSeed mixes the world seed with the chunk coordinate.
func chunkSeed(seed int64, c stream.Coord) uint64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(seed))
	binary.LittleEndian.PutUint64(buf[8:], uint64(int64(c.X)))
	binary.LittleEndian.PutUint64(buf[16:], uint64(int64(c.Z)))
	return xxhash.Sum64(buf[:])
}

// candidateRNG returns an independent generator for one candidate so plans
// can be built in any order and still come out identical.
func candidateRNG(chunk, pass uint64, index int) *rand.Rand {
	h := fnv1a.HashUint64(chunk)
	h = fnv1a.AddUint64(h, pass)
	h = fnv1a.AddUint64(h, uint64(index))
	return rand.New(rand.NewPCG(h, chunk))
}
