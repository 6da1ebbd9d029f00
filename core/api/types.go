package api

import "github.com/shu8h0-null/boarcoin/core/blockchain"

const (
	MsgBlockForged       = "New Block Forged"
	MsgMissingValues     = "Missing values"
	MsgInsufficientFunds = "Insufficient balance for transaction"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type MineResponse struct {
	Message      string                   `json:"message"`
	Index        uint64                   `json:"index"`
	Transactions []blockchain.Transaction `json:"transactions"`
	Proof        uint64                   `json:"proof"`
	PreviousHash string                   `json:"previous_hash"`
}

// TransactionRequest is the body of POST /transactions/new. Amount may be a
// JSON number or a numeric string.
type TransactionRequest struct {
	Sender    string      `json:"sender"`
	Recipient string      `json:"recipient"`
	Amount    interface{} `json:"amount"`
}

type ChainResponse struct {
	Chain  []blockchain.Block `json:"chain"`
	Length int                `json:"length"`
}

type BalanceResponse struct {
	Address string `json:"address"`
	Balance int64  `json:"balance"`
}

func NewMineResponse(b blockchain.Block) *MineResponse {
	return &MineResponse{
		Message:      MsgBlockForged,
		Index:        b.Index,
		Transactions: b.Transactions,
		Proof:        b.Proof,
		PreviousHash: b.PreviousHash,
	}
}
