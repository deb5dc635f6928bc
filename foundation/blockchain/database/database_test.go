package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
	"github.com/ardanlabs/ledger/foundation/blockchain/pow"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// buildChain constructs a valid chain of the specified length with one
// transaction in each block after genesis.
func buildChain(t *testing.T, length int) []database.Block {
	chain := []database.Block{database.NewGenesis()}

	for len(chain) < length {
		prevBlock := chain[len(chain)-1]

		proof, err := pow.Solve(context.Background(), prevBlock.Proof, nil)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to solve the puzzle: %s", failed, err)
		}

		trans := []database.Tx{database.NewTx("bill", "ana", uint64(len(chain)))}
		chain = append(chain, database.NewBlock(prevBlock, proof, trans))
	}

	return chain
}

// =============================================================================

func TestValidateChain(t *testing.T) {
	chain := buildChain(t, 4)

	t.Log("Given the need to validate a chain of blocks.")
	{
		t.Logf("\tTest 0:\tWhen handling a chain built by sealing blocks.")
		{
			if err := database.ValidateChain(chain, nil); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to validate the chain: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to validate the chain.", success)

			for i := 1; i < len(chain); i++ {
				if chain[i].PreviousHash != chain[i-1].Hash() {
					t.Fatalf("\t%s\tTest 0:\tShould link blk[%d] to its predecessor.", failed, chain[i].Index)
				}
				if !pow.IsValid(chain[i-1].Proof, chain[i].Proof) {
					t.Fatalf("\t%s\tTest 0:\tShould have a valid proof pair for blk[%d].", failed, chain[i].Index)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould link every block with a valid proof pair.", success)

			if !database.IsChainValid(chain[:1], nil) {
				t.Fatalf("\t%s\tTest 0:\tShould accept a chain with only genesis.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould accept a chain with only genesis.", success)

			if database.IsChainValid(nil, nil) {
				t.Fatalf("\t%s\tTest 0:\tShould reject an empty chain.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reject an empty chain.", success)
		}
	}
}

func TestValidateChainTamper(t *testing.T) {
	type table struct {
		name   string
		tamper func(chain []database.Block)
	}

	tt := []table{
		{
			name: "transactions",
			tamper: func(chain []database.Block) {
				trans := make([]database.Tx, len(chain[1].Transactions))
				copy(trans, chain[1].Transactions)
				trans[0].Amount = 1_000_000
				chain[1].Transactions = trans
			},
		},
		{
			name: "previous_hash",
			tamper: func(chain []database.Block) {
				chain[2].PreviousHash = chain[0].Hash()
			},
		},
		{
			name: "proof",
			tamper: func(chain []database.Block) {
				chain[3].Proof++
			},
		},
		{
			name: "index",
			tamper: func(chain []database.Block) {
				chain[3].Index = 7
			},
		},
	}

	chain := buildChain(t, 4)

	t.Log("Given the need to detect a tampered chain.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen the %s field was altered.", testID, tst.name)
				{
					tampered := make([]database.Block, len(chain))
					copy(tampered, chain)
					tst.tamper(tampered)

					err := database.ValidateChain(tampered, nil)
					if !errors.Is(err, database.ErrInvalidChain) {
						t.Fatalf("\t%s\tTest %d:\tShould reject the chain: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould reject the chain: %s", success, testID, err)

					if !database.IsChainValid(chain, nil) {
						t.Fatalf("\t%s\tTest %d:\tShould leave the original chain valid.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould leave the original chain valid.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func TestGenesis(t *testing.T) {
	t.Log("Given the need to construct a genesis block.")
	{
		g := database.NewGenesis()

		if !g.IsGenesis() {
			t.Fatalf("\t%s\tShould have the genesis shape: %+v", failed, g)
		}
		t.Logf("\t%s\tShould have the genesis shape.", success)

		if g.Transactions == nil || len(g.Transactions) != 0 {
			t.Fatalf("\t%s\tShould have an empty, non nil transaction list.", failed)
		}
		t.Logf("\t%s\tShould have an empty, non nil transaction list.", success)

		if g.Hash() != g.Hash() {
			t.Fatalf("\t%s\tShould produce a deterministic hash.", failed)
		}
		t.Logf("\t%s\tShould produce a deterministic hash.", success)
	}
}

func TestBlockHashCanonical(t *testing.T) {
	chain := buildChain(t, 2)
	block := chain[1]

	t.Log("Given the need to hash a sealed block independent of field order.")
	{
		trans := make([]any, len(block.Transactions))
		for i, tx := range block.Transactions {
			trans[i] = map[string]any{
				"amount":    tx.Amount,
				"recipient": tx.Recipient,
				"sender":    tx.Sender,
			}
		}

		reordered := map[string]any{
			"previous_hash": block.PreviousHash,
			"proof":         block.Proof,
			"transactions":  trans,
			"timestamp":     block.TimeStamp,
			"index":         block.Index,
		}

		if got, exp := digest.Hash(reordered), block.Hash(); got != exp {
			t.Logf("\t%s\tgot: %s", failed, got)
			t.Logf("\t%s\texp: %s", failed, exp)
			t.Fatalf("\t%s\tShould get the same hash from a differently ordered construction.", failed)
		}
		t.Logf("\t%s\tShould get the same hash from a differently ordered construction.", success)
	}
}

func TestValidateChainEncoding(t *testing.T) {
	t.Log("Given the need to reject blocks whose hash would be lossy.")
	{
		genesis := database.NewGenesis()

		proof, err := pow.Solve(context.Background(), genesis.Proof, nil)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to solve the puzzle: %s", failed, err)
		}

		// Constructed directly so the bytes skip transaction validation.
		bad := database.NewBlock(genesis, proof, []database.Tx{{Sender: "\xfe", Recipient: "ana", Amount: 1}})
		swapped := bad
		swapped.Transactions = []database.Tx{{Sender: "\xff", Recipient: "ana", Amount: 1}}

		t.Logf("\tTest 0:\tWhen a block holds a sender that is not valid utf-8.")
		{
			for _, chain := range [][]database.Block{{genesis, bad}, {genesis, swapped}} {
				err := database.ValidateChain(chain, nil)
				if !errors.Is(err, database.ErrInvalidChain) || !errors.Is(err, digest.ErrInvalidUTF8) {
					t.Fatalf("\t%s\tTest 0:\tShould reject the chain: %v", failed, err)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould reject the chain.", success)
		}

		t.Logf("\tTest 1:\tWhen the bad block is followed by a block linked to it.")
		{
			proof2, err := pow.Solve(context.Background(), bad.Proof, nil)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to solve the puzzle: %s", failed, err)
			}
			next := database.NewBlock(bad, proof2, nil)

			if next.PreviousHash != digest.ZeroHash {
				t.Fatalf("\t%s\tTest 1:\tShould not be able to hash the bad block: %s", failed, next.PreviousHash)
			}
			t.Logf("\t%s\tTest 1:\tShould not be able to hash the bad block.", success)

			if database.IsChainValid([]database.Block{genesis, bad, next}, nil) {
				t.Fatalf("\t%s\tTest 1:\tShould reject the chain.", failed)
			}
			if err := database.ValidateNextBlock(swapped, next, func(string, ...any) {}); !errors.Is(err, digest.ErrInvalidUTF8) {
				t.Fatalf("\t%s\tTest 1:\tShould reject a link to a block that can't be hashed: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a link to a block that can't be hashed.", success)
		}
	}
}

func TestTxValidate(t *testing.T) {
	t.Log("Given the need to validate a transaction before it is pending.")
	{
		if err := database.NewTx("bill", "ana", 0).Validate(); err != nil {
			t.Fatalf("\t%s\tShould accept a zero amount transaction: %s", failed, err)
		}
		t.Logf("\t%s\tShould accept a zero amount transaction.", success)

		for _, tx := range []database.Tx{database.NewTx("\xff", "ana", 1), database.NewTx("bill", "an\xfea", 1)} {
			if err := tx.Validate(); !errors.Is(err, database.ErrInvalidTx) {
				t.Fatalf("\t%s\tShould reject identifiers that are not valid utf-8: %v", failed, err)
			}
		}
		t.Logf("\t%s\tShould reject identifiers that are not valid utf-8.", success)
	}
}
