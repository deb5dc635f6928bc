package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// LatestBlock returns the last block in the chain.
func (s *State) LatestBlock() database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain[len(s.chain)-1]
}

// RetrieveChain returns a snapshot of the chain. Sealed blocks are never
// modified so the blocks are shared with the ledger.
func (s *State) RetrieveChain() []database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	chain := make([]database.Block, len(s.chain))
	copy(chain, s.chain)

	return chain
}

// RetrievePending returns a copy of the transactions waiting to be sealed.
func (s *State) RetrievePending() []database.Tx {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make([]database.Tx, len(s.pending))
	copy(pending, s.pending)

	return pending
}

// QueryChainLength returns the number of blocks in the chain.
func (s *State) QueryChainLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.chain)
}

// RetrieveKnownPeers retrieves a copy of the known peer list, excluding
// this node.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// IsChainValid reports whether the specified chain passes hash linkage and
// proof of work verification. Only the specified chain is considered.
func (s *State) IsChainValid(chain []database.Block) bool {
	return database.IsChainValid(chain, database.EventHandler(s.evHandler))
}
