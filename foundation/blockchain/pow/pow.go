// Package pow implements the proof of work puzzle used to seal blocks. A
// proof is valid when the hash of the previous proof followed by the
// candidate proof, both in decimal, starts with Difficulty zeros.
package pow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Difficulty is the number of leading hex zeros a solution must produce.
const Difficulty = 4

// EventHandler defines a function that is called to report progress
// while searching for a proof.
type EventHandler func(v string, args ...any)

// =============================================================================

// Solve performs a linear search starting at zero for the smallest proof that
// is valid against the previous proof. The search has no upper bound and
// returns the context error if cancelled before a solution is found.
func Solve(ctx context.Context, prevProof uint64, ev EventHandler) (uint64, error) {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	ev("pow: Solve: MINING: started: prevProof[%d]", prevProof)
	defer ev("pow: Solve: MINING: completed")

	var candidate uint64
	for {
		if candidate%1_000_000 == 0 && candidate > 0 {
			ev("pow: Solve: MINING: attempts[%d]", candidate)
		}

		// Did we get cancelled trying to solve the problem.
		if ctx.Err() != nil {
			ev("pow: Solve: MINING: CANCELLED: attempts[%d]", candidate)
			return 0, ctx.Err()
		}

		if IsValid(prevProof, candidate) {
			ev("pow: Solve: MINING: SOLVED: prevProof[%d]: proof[%d]", prevProof, candidate)
			return candidate, nil
		}

		candidate++
	}
}

// IsValid reports whether the candidate proof solves the puzzle for the
// previous proof.
func IsValid(prevProof uint64, candidate uint64) bool {
	return isHashSolved(Hash(prevProof, candidate))
}

// Hash returns the hex encoded hash of the previous proof and the candidate
// proof concatenated in decimal form.
func Hash(prevProof uint64, candidate uint64) string {
	guess := make([]byte, 0, 40)
	guess = strconv.AppendUint(guess, prevProof, 10)
	guess = strconv.AppendUint(guess, candidate, 10)

	hash := sha256.Sum256(guess)
	return hex.EncodeToString(hash[:])
}

// isHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func isHashSolved(hash string) bool {
	const match = "0000000000000000"

	if len(hash) != 64 {
		return false
	}

	return hash[:Difficulty] == match[:Difficulty]
}
