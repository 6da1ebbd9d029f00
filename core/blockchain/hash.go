package blockchain

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/shu8h0-null/boarcoin/core/jsonx"
)

// HashBlock returns the hex encoded SHA-256 of the block's canonical encoding.
// The block is first flattened into maps so every key is serialized in sorted
// order, independent of struct layout.
func HashBlock(b *Block) string {
	txs := make([]map[string]interface{}, 0, len(b.Transactions))
	for _, tx := range b.Transactions {
		txs = append(txs, map[string]interface{}{
			"sender":    tx.Sender,
			"recipient": tx.Recipient,
			"amount":    tx.Amount,
		})
	}

	canonical := map[string]interface{}{
		"index":         b.Index,
		"timestamp":     b.Timestamp,
		"transactions":  txs,
		"proof":         b.Proof,
		"previous_hash": b.PreviousHash,
	}

	data, err := jsonx.Marshal(canonical)
	if err != nil {
		// only reachable with a NaN/Inf timestamp, which newBlock never produces
		panic("blockchain: cannot encode block: " + err.Error())
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
