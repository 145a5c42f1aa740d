package megasena

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"time"
)

// NewRand returns a reproducible generator for the given seed
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewEntropyRand returns a generator seeded from OS randomness mixed with the current time,
// so rapid successive calls never share a stream
func NewEntropyRand() *rand.Rand {
	var buf [16]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		// crypto/rand does not fail on supported platforms; the clock still differs per call
		binary.LittleEndian.PutUint64(buf[:8], rand.Uint64())
	}
	now := uint64(time.Now().UnixNano())
	hi := binary.LittleEndian.Uint64(buf[:8]) ^ now
	lo := binary.LittleEndian.Uint64(buf[8:]) ^ (now << 17)
	return rand.New(rand.NewPCG(hi, lo))
}

func randFromOptions(opts Options) *rand.Rand {
	if opts.Seed != nil {
		return NewRand(*opts.Seed)
	}
	return NewEntropyRand()
}
