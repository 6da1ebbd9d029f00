package blockchain

import (
	"math"
	"time"

	"github.com/shu8h0-null/boarcoin/core/logger"
)

var log = logger.NewLogger()

const (
	GenesisPreviousHash        = "BoarCoin Entertainment"
	GenesisProof        uint64 = 100
)

type Block struct {
	Index        uint64        `json:"index"`
	Timestamp    float64       `json:"timestamp"`
	Transactions []Transaction `json:"transactions"`
	Proof        uint64        `json:"proof"`
	PreviousHash string        `json:"previous_hash"`
}

func newBlock(index uint64, txs []Transaction, proof uint64, prevHash string) *Block {
	if txs == nil {
		txs = []Transaction{}
	}
	return &Block{
		Index:        index,
		Timestamp:    float64(time.Now().UnixMicro()) / 1e6,
		Transactions: txs,
		Proof:        proof,
		PreviousHash: prevHash,
	}
}

// Time converts the block's unix-seconds timestamp.
func (b *Block) Time() time.Time {
	sec := math.Floor(b.Timestamp)
	return time.Unix(int64(sec), int64((b.Timestamp-sec)*1e9))
}

// clone returns a copy that does not share the transaction slice.
func (b *Block) clone() Block {
	c := *b
	c.Transactions = make([]Transaction, len(b.Transactions))
	copy(c.Transactions, b.Transactions)
	return c
}
