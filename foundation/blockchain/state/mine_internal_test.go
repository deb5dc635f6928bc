package state

import (
	"context"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/consensus"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/pow"
)

func Test_ReplaceCancelsMining(t *testing.T) {
	st := New(Config{NodeID: "node1"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	id := st.trackMining(cancel)
	defer st.untrackMining(id)

	genesis := database.NewGenesis()
	proof, err := pow.Solve(context.Background(), genesis.Proof, nil)
	if err != nil {
		t.Fatalf("Should be able to solve the puzzle: %s", err)
	}
	chain := []database.Block{genesis, database.NewBlock(genesis, proof, nil)}

	cand := consensus.Candidate{Chain: chain, Length: len(chain)}
	if !st.ResolveConflicts([]consensus.Candidate{cand}) {
		t.Fatalf("Should replace the chain.")
	}

	select {
	case <-ctx.Done():
	default:
		t.Fatalf("Should cancel in-progress mining when the chain is replaced.")
	}
}
