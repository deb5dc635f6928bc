// Package consensus implements the longest valid chain rule used to resolve
// conflicts between this node and its peers.
//
// Only the raw number of blocks is compared. A peer chain must be strictly
// longer than the best chain seen so far, so a tie is always won by the local
// chain or by the peer that was scanned first.
package consensus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// ErrLengthMismatch is returned when a peer reports a length that doesn't
// match the number of blocks it sent.
var ErrLengthMismatch = errors.New("reported length doesn't match chain")

// EventHandler defines a function that is called when events
// occur while resolving conflicts.
type EventHandler func(v string, args ...any)

// Fetcher interface represents the behavior required to retrieve
// a peer's chain.
type Fetcher interface {
	QueryChain(ctx context.Context, pr peer.Peer) (peer.ChainStatus, error)
}

// Candidate is the result of asking one peer for its chain. Err is set when
// the peer could not be reached or sent a malformed response.
type Candidate struct {
	Peer   peer.Peer
	Length int
	Chain  []database.Block
	Err    error
}

// =============================================================================

// Collect asks every peer for its chain concurrently. A failing peer never
// stops the others. The candidates are returned in the same order as the
// specified peers.
func Collect(ctx context.Context, peers []peer.Peer, fetcher Fetcher, ev EventHandler) []Candidate {
	ev = safe(ev)

	candidates := make([]Candidate, len(peers))

	var wg sync.WaitGroup
	wg.Add(len(peers))

	for i, pr := range peers {
		go func() {
			defer wg.Done()

			ev("consensus: Collect: queryChain: started: %s", pr)

			candidates[i] = Candidate{Peer: pr}

			cs, err := fetcher.QueryChain(ctx, pr)
			if err != nil {
				ev("consensus: Collect: queryChain: %s: ERROR: %s", pr, err)
				candidates[i].Err = err
				return
			}

			if cs.Length != len(cs.Chain) {
				err := fmt.Errorf("%w: length[%d]: blocks[%d]", ErrLengthMismatch, cs.Length, len(cs.Chain))
				ev("consensus: Collect: queryChain: %s: ERROR: %s", pr, err)
				candidates[i].Err = err
				return
			}

			candidates[i].Length = cs.Length
			candidates[i].Chain = cs.Chain

			ev("consensus: Collect: queryChain: completed: %s: length[%d]", pr, cs.Length)
		}()
	}

	wg.Wait()

	return candidates
}

// Select scans the candidates in order and returns the longest valid chain
// that is strictly longer than the local length. The boolean is false when
// no candidate qualifies, in which case the local chain should be kept.
func Select(localLength int, candidates []Candidate, ev EventHandler) ([]database.Block, bool) {
	ev = safe(ev)

	bestLength := localLength
	var bestChain []database.Block

	for _, cand := range candidates {
		if cand.Err != nil {
			ev("consensus: Select: %s: skipped: %s", cand.Peer, cand.Err)
			continue
		}

		if cand.Length <= bestLength {
			ev("consensus: Select: %s: skipped: length[%d] not greater than best[%d]", cand.Peer, cand.Length, bestLength)
			continue
		}

		if err := database.ValidateChain(cand.Chain, database.EventHandler(ev)); err != nil {
			ev("consensus: Select: %s: rejected: %s", cand.Peer, err)
			continue
		}

		ev("consensus: Select: %s: new best: length[%d]", cand.Peer, cand.Length)
		bestLength = cand.Length
		bestChain = cand.Chain
	}

	return bestChain, bestChain != nil
}

// safe returns an event handler that can always be called.
func safe(ev EventHandler) EventHandler {
	if ev == nil {
		return func(string, ...any) {}
	}
	return ev
}
