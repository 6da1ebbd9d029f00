package blockchain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Difficulty is the number of leading zero hex characters a proof hash needs.
// It is fixed; there is no retargeting.
const Difficulty = 4

var proofPrefix = strings.Repeat("0", Difficulty)

// ValidProof reports whether sha256(lastProof || proof), with both numbers
// written in decimal and concatenated as text, starts with Difficulty zeros.
func ValidProof(lastProof, proof uint64) bool {
	guess := strconv.FormatUint(lastProof, 10) + strconv.FormatUint(proof, 10)
	hash := sha256.Sum256([]byte(guess))
	return strings.HasPrefix(hex.EncodeToString(hash[:]), proofPrefix)
}

// ProofOfWork returns the smallest proof that satisfies ValidProof for lastProof.
func ProofOfWork(lastProof uint64) uint64 {
	var proof uint64
	for !ValidProof(lastProof, proof) {
		proof++
	}
	return proof
}
