package database

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// RewardSender is the sender used for the transaction that pays a node for
// mining a block. It signifies newly created coins.
const RewardSender = "0"

// ErrInvalidTx is returned when a transaction can't be accepted into the
// pending pool.
var ErrInvalidTx = errors.New("invalid transaction")

// =============================================================================

// Tx is the transactional information between two parties.
type Tx struct {
	Sender    string `json:"sender"`    // Identifier of the party sending the amount.
	Recipient string `json:"recipient"` // Identifier of the party receiving the amount.
	Amount    uint64 `json:"amount"`    // Units transferred from sender to recipient.
}

// NewTx constructs a new transaction.
func NewTx(sender string, recipient string, amount uint64) Tx {
	return Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	}
}

// NewRewardTx constructs the transaction that pays the mining reward
// to the specified node.
func NewRewardTx(nodeID string, reward uint64) Tx {
	return NewTx(RewardSender, nodeID, reward)
}

// Validate checks the transaction can be hashed as part of a block. The
// identifiers must be valid UTF-8 or the block encoding would be lossy.
func (tx Tx) Validate() error {
	if !utf8.ValidString(tx.Sender) {
		return fmt.Errorf("%w: sender is not valid utf-8", ErrInvalidTx)
	}
	if !utf8.ValidString(tx.Recipient) {
		return fmt.Errorf("%w: recipient is not valid utf-8", ErrInvalidTx)
	}
	return nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%d", tx.Sender, tx.Recipient, tx.Amount)
}
