package blockchain

import (
	"encoding/json"
	"math"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashBlockIsDeterministic(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(0, 6).Funcs(
		func(ts *float64, c fuzz.Continue) {
			*ts = float64(c.Int63n(1<<40)) / 1000
		},
	)

	for i := 0; i < 200; i++ {
		var b Block
		f.Fuzz(&b)

		cp := b.clone()
		assert.Equal(t, HashBlock(&b), HashBlock(&cp))
		assert.Len(t, HashBlock(&b), 64)
	}
}

func TestHashBlockCoversEveryField(t *testing.T) {
	base := Block{
		Index:        2,
		Timestamp:    1700000000.25,
		Transactions: []Transaction{{Sender: "A", Recipient: "B", Amount: 3}},
		Proof:        35293,
		PreviousHash: "abc",
	}
	h := HashBlock(&base)

	mutations := map[string]func(b *Block){
		"index":         func(b *Block) { b.Index++ },
		"timestamp":     func(b *Block) { b.Timestamp += 0.5 },
		"proof":         func(b *Block) { b.Proof++ },
		"previous_hash": func(b *Block) { b.PreviousHash = "abd" },
		"amount":        func(b *Block) { b.Transactions[0].Amount = 4 },
		"sender":        func(b *Block) { b.Transactions[0].Sender = "C" },
		"tx order": func(b *Block) {
			b.Transactions = append(b.Transactions, Transaction{Sender: "0", Recipient: "A", Amount: 1})
			b.Transactions[0], b.Transactions[1] = b.Transactions[1], b.Transactions[0]
		},
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			b := base.clone()
			mutate(&b)
			assert.NotEqual(t, h, HashBlock(&b))
		})
	}
}

func TestHashBlockTreatsNilAndEmptyTransactionsAlike(t *testing.T) {
	a := Block{Index: 1, PreviousHash: GenesisPreviousHash, Proof: GenesisProof}
	b := a
	b.Transactions = []Transaction{}
	require.Equal(t, HashBlock(&a), HashBlock(&b))
}

func TestParseAmount(t *testing.T) {
	for _, tc := range []struct {
		raw     interface{}
		want    int64
		invalid bool
	}{
		{raw: 5, want: 5},
		{raw: float64(7), want: 7},
		{raw: 3.9, want: 3},
		{raw: "12", want: 12},
		{raw: " 4 ", want: 4},
		{raw: json.Number("8"), want: 8},
		{raw: json.Number("3.5"), want: 3},
		{raw: json.Number("99999999999999999999"), want: math.MaxInt64},
		{raw: json.Number("1e30"), want: math.MaxInt64},
		{raw: json.Number("1e400"), want: math.MaxInt64},
		{raw: "99999999999999999999", want: math.MaxInt64},
		{raw: uint64(math.MaxUint64), want: math.MaxInt64},
		{raw: 1e30, want: math.MaxInt64},
		{raw: math.Inf(1), want: math.MaxInt64},
		{raw: json.Number("-99999999999999999999"), invalid: true},
		{raw: "-99999999999999999999", invalid: true},
		{raw: json.Number("-1e30"), invalid: true},
		{raw: math.NaN(), invalid: true},
		{raw: "1e30", invalid: true},
		{raw: "abc", invalid: true},
		{raw: "1.5", invalid: true},
		{raw: -2, invalid: true},
		{raw: "-2", invalid: true},
		{raw: true, invalid: true},
		{raw: nil, invalid: true},
	} {
		got, err := ParseAmount(tc.raw)
		if tc.invalid {
			assert.ErrorIs(t, err, ErrInvalidAmount, "raw=%v", tc.raw)
			continue
		}
		assert.NoError(t, err, "raw=%v", tc.raw)
		assert.Equal(t, tc.want, got, "raw=%v", tc.raw)
	}
}
