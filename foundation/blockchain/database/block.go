package database

import (
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
)

// Fixed values that make up the genesis block.
const (
	GenesisPrevHash        = "1"
	GenesisProof    uint64 = 100
)

// =============================================================================

// Block represents a group of transactions sealed into the chain.
type Block struct {
	Index        uint64 `json:"index"`         // Position in the chain starting at 1.
	TimeStamp    int64  `json:"timestamp"`     // Unix milliseconds when the block was sealed.
	Transactions []Tx   `json:"transactions"`  // Transactions moved out of the pending pool.
	Proof        uint64 `json:"proof"`         // Solution to the POW puzzle against the previous proof.
	PreviousHash string `json:"previous_hash"` // Hash of the previous block or the genesis sentinel.
}

// NewBlock constructs a block that follows the specified previous block.
// The transactions slice is owned by the block from this point on.
func NewBlock(prevBlock Block, proof uint64, trans []Tx) Block {
	return newBlock(prevBlock.Index+1, proof, prevBlock.Hash(), trans)
}

// NewGenesis constructs the first block of a chain.
func NewGenesis() Block {
	return newBlock(1, GenesisProof, GenesisPrevHash, nil)
}

func newBlock(index uint64, proof uint64, prevHash string, trans []Tx) Block {
	if trans == nil {
		trans = []Tx{}
	}

	return Block{
		Index:        index,
		TimeStamp:    time.Now().UTC().UnixMilli(),
		Transactions: trans,
		Proof:        proof,
		PreviousHash: prevHash,
	}
}

// Hash returns the unique hash for the Block. Every field of the block,
// including the transactions, is part of the hash.
func (b Block) Hash() string {
	return digest.Hash(b)
}

// IsGenesis reports whether the block has the shape of a genesis block.
func (b Block) IsGenesis() bool {
	return b.Index == 1 && b.PreviousHash == GenesisPrevHash && b.Proof == GenesisProof
}
