package state

import (
	"context"

	"github.com/ardanlabs/ledger/foundation/blockchain/consensus"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Resolve asks every known peer for its chain and adopts the longest valid
// chain that is strictly longer than ours. It returns true if the local chain
// was replaced. Peers that can't be reached are skipped.
func (s *State) Resolve(ctx context.Context) (bool, error) {
	s.evHandler("state: Resolve: started")
	defer s.evHandler("state: Resolve: completed")

	peers := s.RetrieveKnownPeers()
	if len(peers) == 0 {
		s.evHandler("state: Resolve: no known peers")
		return false, nil
	}

	if s.fetcher == nil {
		s.evHandler("state: Resolve: no fetcher configured")
		return false, nil
	}

	candidates := consensus.Collect(ctx, peers, s.fetcher, consensus.EventHandler(s.evHandler))
	if err := ctx.Err(); err != nil {
		return false, err
	}

	return s.ResolveConflicts(candidates), nil
}

// ResolveConflicts compares the candidates against the chain as it is at this
// moment and replaces the chain wholesale with the best candidate, if any.
// The comparison and replacement happen under the lock so a block sealed
// while the candidates were being fetched is taken into account. Any
// in-progress mining is cancelled when the chain is replaced.
func (s *State) ResolveConflicts(candidates []consensus.Candidate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	chain, replaced := consensus.Select(len(s.chain), candidates, consensus.EventHandler(s.evHandler))
	if !replaced {
		s.evHandler("state: ResolveConflicts: chain is authoritative: length[%d]", len(s.chain))
		return false
	}

	s.evHandler("state: ResolveConflicts: chain replaced: length[%d]: new length[%d]", len(s.chain), len(chain))

	// The candidate's backing array belongs to the caller.
	s.chain = make([]database.Block, len(chain))
	copy(s.chain, chain)

	s.cancelMining()

	return true
}
