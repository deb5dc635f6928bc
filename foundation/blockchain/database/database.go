// Package database defines the blocks and transactions that make up the
// ledger and the rules for validating a chain of blocks.
package database

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
	"github.com/ardanlabs/ledger/foundation/blockchain/pow"
)

// ErrInvalidChain is returned when a chain fails hash linkage, index,
// encoding or proof of work verification.
var ErrInvalidChain = errors.New("invalid chain")

// EventHandler defines a function that is called when events
// occur while validating a chain.
type EventHandler func(v string, args ...any)

// =============================================================================

// ValidateChain walks the specified chain from the first block and checks
// every consecutive pair of blocks. The first violation is returned wrapped
// with ErrInvalidChain. Only the specified blocks are considered.
func ValidateChain(chain []Block, ev EventHandler) error {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	if len(chain) == 0 {
		return fmt.Errorf("%w: no blocks", ErrInvalidChain)
	}

	prevBlock := chain[0]
	if _, err := digest.Canonical(prevBlock); err != nil {
		return fmt.Errorf("%w: blk[%d]: %w", ErrInvalidChain, prevBlock.Index, err)
	}

	for _, block := range chain[1:] {
		if err := ValidateNextBlock(prevBlock, block, ev); err != nil {
			return err
		}
		prevBlock = block
	}

	return nil
}

// IsChainValid reports whether ValidateChain accepts the specified chain.
func IsChainValid(chain []Block, ev EventHandler) bool {
	return ValidateChain(chain, ev) == nil
}

// ValidateNextBlock checks the specified block can follow the previous block.
func ValidateNextBlock(prevBlock Block, block Block, ev EventHandler) error {
	ev("database: ValidateNextBlock: validate: blk[%d]: check: block index is the next index", block.Index)

	if block.Index != prevBlock.Index+1 {
		return fmt.Errorf("%w: blk[%d]: not the next index, got %d, exp %d", ErrInvalidChain, block.Index, block.Index, prevBlock.Index+1)
	}

	ev("database: ValidateNextBlock: validate: blk[%d]: check: block can be encoded", block.Index)

	if _, err := digest.Canonical(block); err != nil {
		return fmt.Errorf("%w: blk[%d]: %w", ErrInvalidChain, block.Index, err)
	}

	ev("database: ValidateNextBlock: validate: blk[%d]: check: previous hash does match previous block", block.Index)

	hash, err := digest.Sum(prevBlock)
	if err != nil {
		return fmt.Errorf("%w: blk[%d]: %w", ErrInvalidChain, prevBlock.Index, err)
	}
	if block.PreviousHash != hash {
		return fmt.Errorf("%w: blk[%d]: previous hash doesn't match, got %s, exp %s", ErrInvalidChain, block.Index, block.PreviousHash, hash)
	}

	ev("database: ValidateNextBlock: validate: blk[%d]: check: proof solves the puzzle", block.Index)

	if !pow.IsValid(prevBlock.Proof, block.Proof) {
		return fmt.Errorf("%w: blk[%d]: proof %d doesn't solve the puzzle for %d", ErrInvalidChain, block.Index, block.Proof, prevBlock.Proof)
	}

	return nil
}
