// Package state is the core API for the ledger and implements all the
// business rules and processing. A State value owns the chain and the pool
// of pending transactions for a node.
package state

import (
	"context"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/consensus"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// MiningReward is the amount paid to a node for sealing a block.
const MiningReward uint64 = 1

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for background mining and conflict resolution.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalResolve()
}

// =============================================================================

// Config represents the configuration required to start
// the ledger node.
type Config struct {
	NodeID     string
	Host       string
	KnownPeers *peer.PeerSet
	Fetcher    consensus.Fetcher
	EvHandler  EventHandler
}

// State manages the chain and the pending transactions.
type State struct {
	nodeID    string
	host      string
	evHandler EventHandler

	mu      sync.Mutex
	chain   []database.Block
	pending []database.Tx
	mining  map[uint64]context.CancelFunc
	nextID  uint64

	knownPeers *peer.PeerSet
	fetcher    consensus.Fetcher

	Worker Worker
}

// New constructs a new ledger with a genesis block.
func New(cfg Config) *State {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	state := State{
		nodeID:    cfg.NodeID,
		host:      cfg.Host,
		evHandler: ev,
		chain:     []database.Block{database.NewGenesis()},
		mining:    make(map[uint64]context.CancelFunc),

		knownPeers: knownPeers,
		fetcher:    cfg.Fetcher,
	}

	ev("state: New: genesis: hash[%s]", state.chain[0].Hash())

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop any mining taking place outside of the worker.
	s.mu.Lock()
	s.cancelMining()
	s.mu.Unlock()

	if s.Worker != nil {
		s.Worker.Shutdown()
	}
}

// NodeID returns the identifier this node is paid mining rewards under.
func (s *State) NodeID() string {
	return s.nodeID
}

// Host returns the private host of this node.
func (s *State) Host() string {
	return s.host
}
