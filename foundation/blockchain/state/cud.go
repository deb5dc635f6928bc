package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// AddKnownPeer provides the ability to add a new peer. It returns false if
// the peer is already known or is this node.
func (s *State) AddKnownPeer(pr peer.Peer) bool {
	if pr.Match(s.host) {
		return false
	}
	return s.knownPeers.Add(pr)
}

// RemoveKnownPeer removes a peer from the set of known peers so it is no
// longer asked for its chain. It returns false if the peer wasn't known.
func (s *State) RemoveKnownPeer(pr peer.Peer) bool {
	return s.knownPeers.Remove(pr)
}

// NewTransaction adds a transaction to the pending pool. It returns the index
// of the block the transaction is expected to be sealed into. This is only a
// prediction. Other blocks may be sealed first, or the chain may be replaced
// and the transaction dropped. A transaction that fails validation is
// rejected with database.ErrInvalidTx.
func (s *State) NewTransaction(tx database.Tx) (uint64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = append(s.pending, tx)

	index := s.chain[len(s.chain)-1].Index + 1
	s.evHandler("state: NewTransaction: tx[%s]: expected blk[%d]", tx, index)

	return index, nil
}

// NewBlock seals the pending transactions into a new block that follows the
// latest block and appends it to the chain. The pending pool is emptied as
// part of the same operation.
func (s *State) NewBlock(proof uint64) database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sealBlock(proof)
}

// sealBlock moves the pending transactions into a new block. The caller
// must hold the lock.
func (s *State) sealBlock(proof uint64) database.Block {
	prevBlock := s.chain[len(s.chain)-1]

	block := database.NewBlock(prevBlock, proof, s.pending)
	s.pending = nil
	s.chain = append(s.chain, block)

	s.evHandler("state: sealBlock: blk[%d]: hash[%s]: trans[%d]", block.Index, block.Hash(), len(block.Transactions))

	return block
}
