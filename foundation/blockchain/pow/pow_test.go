package pow_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/pow"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestSolve(t *testing.T) {
	seeds := []uint64{0, 1, 100, 35293}

	t.Log("Given the need to find the smallest valid proof.")
	{
		for testID, seed := range seeds {
			t.Logf("\tTest %d:\tWhen solving for previous proof %d.", testID, seed)
			{
				proof, err := pow.Solve(context.Background(), seed, nil)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to solve the puzzle: %s", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to solve the puzzle: %d", success, testID, proof)

				if !pow.IsValid(seed, proof) {
					t.Fatalf("\t%s\tTest %d:\tShould get back a valid proof.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get back a valid proof.", success, testID)

				if !strings.HasPrefix(pow.Hash(seed, proof), "0000") {
					t.Fatalf("\t%s\tTest %d:\tShould get a hash with four leading zeros.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get a hash with four leading zeros.", success, testID)

				for c := uint64(0); c < proof; c++ {
					if pow.IsValid(seed, c) {
						t.Fatalf("\t%s\tTest %d:\tShould not find a smaller valid proof: %d", failed, testID, c)
					}
				}
				t.Logf("\t%s\tTest %d:\tShould not find a smaller valid proof.", success, testID)
			}
		}
	}
}

func TestSolveCancel(t *testing.T) {
	t.Log("Given the need to cancel a proof of work search.")
	{
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := pow.Solve(ctx, 100, nil)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("\t%s\tShould get a cancelled error: %v", failed, err)
		}
		t.Logf("\t%s\tShould get a cancelled error.", success)
	}
}

func TestHash(t *testing.T) {
	t.Log("Given the need to hash a proof pair.")
	{
		sum := sha256.Sum256([]byte("1002"))
		exp := hex.EncodeToString(sum[:])

		if got := pow.Hash(100, 2); got != exp {
			t.Logf("\t%s\tgot: %s", failed, got)
			t.Logf("\t%s\texp: %s", failed, exp)
			t.Fatalf("\t%s\tShould hash the decimal concatenation of the proofs.", failed)
		}
		t.Logf("\t%s\tShould hash the decimal concatenation of the proofs.", success)

		if pow.Hash(1, 23) != pow.Hash(12, 3) {
			t.Fatalf("\t%s\tShould only depend on the concatenated digits.", failed)
		}
		t.Logf("\t%s\tShould only depend on the concatenated digits.", success)
	}
}
