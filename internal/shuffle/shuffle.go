// Package shuffle provides permutation sources for building sessions.
//
// A Func has the same shape as math/rand's Shuffle, so any of them can be
// injected into game.New. Random is the production default; Seeded gives a
// reproducible order for a (salt, key) pair; Identity keeps catalog order.
package shuffle

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"math/big"
	mrand "math/rand/v2"
)

// Func permutes n elements by calling swap.
type Func func(n int, swap func(i, j int))

// Random is a Fisher–Yates shuffle driven by crypto/rand.
func Random() Func {
	return func(n int, swap func(i, j int)) {
		for i := n - 1; i > 0; i-- {
			swap(i, cryptoIntn(i+1))
		}
	}
}

// Seeded returns a deterministic shuffle keyed by HMAC-SHA256(salt, key).
// The same pair always yields the same permutation for a given n.
func Seeded(salt, key string) Func {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(key))
	sum := h.Sum(nil)
	s1 := binary.BigEndian.Uint64(sum[:8])
	s2 := binary.BigEndian.Uint64(sum[8:16])
	return func(n int, swap func(i, j int)) {
		// fresh source per call so repeated shuffles agree
		mrand.New(mrand.NewPCG(s1, s2)).Shuffle(n, swap)
	}
}

// Identity leaves the order untouched.
func Identity() Func {
	return func(int, func(i, j int)) {}
}

// cryptoIntn returns a uniform int in [0,n). Falls back to math/rand if the
// system entropy source fails.
func cryptoIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return mrand.IntN(n)
	}
	return int(v.Int64())
}
