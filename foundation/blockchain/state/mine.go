package state

import (
	"context"
	"errors"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/pow"
)

// ErrChainChanged is returned when a proof was found but the chain moved on
// while searching, so the proof no longer follows the latest block.
var ErrChainChanged = errors.New("chain changed while mining")

// =============================================================================

// MineNewBlock solves the proof of work for the latest block, pays this node
// the mining reward and seals a new block. The search is performed without
// holding the lock and stops if the context is cancelled or the chain is
// replaced by a peer's chain.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: started")
	defer s.evHandler("state: MineNewBlock: MINING: completed")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	id := s.trackMining(cancel)
	defer s.untrackMining(id)

	prevBlock := s.LatestBlock()
	prevHash := prevBlock.Hash()

	s.evHandler("state: MineNewBlock: MINING: perform POW: prevBlk[%d]", prevBlock.Index)

	proof, err := pow.Solve(ctx, prevBlock.Proof, pow.EventHandler(s.evHandler))
	if err != nil {
		return database.Block{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	if latest := s.chain[len(s.chain)-1]; latest.Hash() != prevHash {
		s.evHandler("state: MineNewBlock: MINING: stale proof: prevBlk[%d]: latestBlk[%d]", prevBlock.Index, latest.Index)
		return database.Block{}, ErrChainChanged
	}

	s.evHandler("state: MineNewBlock: MINING: apply mining reward: node[%s]", s.nodeID)

	s.pending = append(s.pending, database.NewRewardTx(s.nodeID, MiningReward))

	return s.sealBlock(proof), nil
}

// =============================================================================

// trackMining registers the cancel function of an in-progress search.
func (s *State) trackMining(cancel context.CancelFunc) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.mining[s.nextID] = cancel

	return s.nextID
}

// untrackMining removes a search that has completed.
func (s *State) untrackMining(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.mining, id)
}

// cancelMining stops every in-progress search. The caller must hold the lock.
func (s *State) cancelMining() {
	for id, cancel := range s.mining {
		s.evHandler("state: cancelMining: MINING: cancel search[%d]", id)
		cancel()
	}
}
