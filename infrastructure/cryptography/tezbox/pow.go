package tezbox

import (
	"errors"
	"math/bits"

	"golang.org/x/crypto/blake2b"
)

// DefaultPowTarget is the number of leading zero bits a proof-of-work
// stamp must reach.
const DefaultPowTarget = 24

// ErrWrongPow reports a proof-of-work stamp below target.
var ErrWrongPow = errors.New("wrong proof of work")

// CheckProofOfWork verifies that blake2b(publicKey ‖ stamp) carries at
// least target leading zero bits.
func CheckProofOfWork(publicKey [PublicKeyLength]byte, stamp [PowStampLength]byte, target int) error {
	digest := blake2b.Sum256(append(append([]byte(nil), publicKey[:]...), stamp[:]...))
	if leadingZeroBits(digest[:]) < target {
		return ErrWrongPow
	}
	return nil
}

func leadingZeroBits(data []byte) int {
	zeros := 0
	for _, b := range data {
		if b == 0 {
			zeros += 8
			continue
		}
		return zeros + bits.LeadingZeros8(b)
	}
	return zeros
}
