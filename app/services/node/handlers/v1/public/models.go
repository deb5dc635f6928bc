package public

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// newTx is the document submitted to add a transaction. The amount is a
// pointer so a missing amount can be told apart from a zero amount.
type newTx struct {
	Sender    string  `json:"sender" validate:"required"`
	Recipient string  `json:"recipient" validate:"required"`
	Amount    *uint64 `json:"amount" validate:"required"`
}

type newTxResponse struct {
	Message string `json:"message"`
	Index   uint64 `json:"index"`
}

type minedBlock struct {
	Message      string        `json:"message"`
	Index        uint64        `json:"index"`
	Transactions []database.Tx `json:"transactions"`
	Proof        uint64        `json:"proof"`
	PreviousHash string        `json:"previous_hash"`
}

type registerNodes struct {
	Nodes []string `json:"nodes" validate:"required"`
}

type registerResponse struct {
	Message    string   `json:"message"`
	TotalNodes []string `json:"total_nodes"`
}

type resolveResponse struct {
	Message  string           `json:"message"`
	NewChain []database.Block `json:"new_chain,omitempty"`
	Chain    []database.Block `json:"chain,omitempty"`
}

type pendingTx struct {
	Sender        string `json:"sender"`
	SenderName    string `json:"sender_name"`
	Recipient     string `json:"recipient"`
	RecipientName string `json:"recipient_name"`
	Amount        uint64 `json:"amount"`
}

type nodeStatus struct {
	Host             string `json:"host"`
	NodeID           string `json:"node_id,omitempty"`
	Name             string `json:"name,omitempty"`
	LatestBlockIndex uint64 `json:"latest_block_index,omitempty"`
	LatestBlockHash  string `json:"latest_block_hash,omitempty"`
	Error            string `json:"error,omitempty"`
}
