// Package rng implements the resolver's determinism discipline: a
// master seed combined with the turn number produces a per-turn seed,
// and named sub-streams (combat, breakthroughs, detection, ...) are
// derived by hashing a tag into that per-turn seed so a local change
// (e.g. one extra breakthrough roll) never perturbs an unrelated
// subsystem's stream.
//
// blake2b is used as the mixing primitive rather than a hand-rolled
// hash: it is a well-understood keyed hash and keeps the tag-to-stream
// derivation collision-resistant without inventing one.
package rng

import (
	"encoding/binary"
	"math/rand"

	"golang.org/x/crypto/blake2b"
)

// PerTurnSeed derives the seed for one turn from the master seed and the
// turn number.
func PerTurnSeed(masterSeed int64, turn int) int64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(masterSeed))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(turn))
	sum := blake2b.Sum256(buf[:])
	return int64(binary.LittleEndian.Uint64(sum[:8]))
}

// SubStream derives a named sub-stream's seed from a per-turn seed by
// hashing the tag in. Two different tags under the same per-turn seed
// produce uncorrelated streams; the same tag always reproduces the same
// stream for the same per-turn seed.
func SubStream(perTurnSeed int64, tag string) *rand.Rand {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(perTurnSeed))
	h, err := blake2b.New256(buf[:])
	if err != nil {
		// blake2b.New256 only errors on an over-long key; 8 bytes never
		// triggers that path.
		panic(err)
	}
	h.Write([]byte(tag))
	sum := h.Sum(nil)
	seed := int64(binary.LittleEndian.Uint64(sum[:8]))
	return rand.New(rand.NewSource(seed))
}

// Tags used to name the sub-streams the resolver's subsystems draw
// from.
const (
	TagCombat        = "combat"
	TagBreakthrough  = "breakthrough"
	TagDetection     = "detection"
	TagBombardment   = "bombardment"
	TagInvasion      = "invasion"
)
