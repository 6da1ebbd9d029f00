package blockchain

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesisBlock(t *testing.T) {
	bc := NewBlockchain(Options{})

	require.Equal(t, 1, bc.Len())
	genesis := bc.LastBlock()
	assert.Equal(t, uint64(1), genesis.Index)
	assert.Equal(t, GenesisPreviousHash, genesis.PreviousHash)
	assert.Equal(t, GenesisProof, genesis.Proof)
	assert.NotNil(t, genesis.Transactions)
	assert.Empty(t, genesis.Transactions)
	assert.NoError(t, bc.Validate())
}

func TestMineThenTransfer(t *testing.T) {
	bc := NewBlockchain(Options{})

	b := bc.Mine("A")
	assert.Equal(t, uint64(2), b.Index)
	assert.Equal(t, int64(1), bc.GetBalance("A"))
	assert.Equal(t, 2, bc.Len())
	require.Len(t, b.Transactions, 1)
	assert.Equal(t, Transaction{Sender: RewardSender, Recipient: "A", Amount: 1}, b.Transactions[0])

	next, err := bc.NewTransaction("A", "B", 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), next)

	b = bc.Mine("A")
	assert.Equal(t, uint64(3), b.Index)
	assert.Equal(t, int64(1), bc.GetBalance("B"))
	assert.Equal(t, int64(1), bc.GetBalance("A"))
	assert.Equal(t, 3, bc.Len())

	// the transfer precedes the reward because it was pooled first
	require.Len(t, b.Transactions, 2)
	assert.Equal(t, "B", b.Transactions[0].Recipient)
	assert.True(t, b.Transactions[1].IsReward())
	assert.NoError(t, bc.Validate())
}

func TestInsufficientBalanceLeavesStateUntouched(t *testing.T) {
	bc := NewBlockchain(Options{})

	_, err := bc.NewTransaction("C", "D", 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientBalance))
	assert.Equal(t, 0, bc.Mempool().Len())
	assert.Equal(t, 1, bc.Len())
}

func TestUnparseableAmountIsCoercedToZero(t *testing.T) {
	// Lenient parsing is kept for compatibility with existing clients;
	// StrictAmounts is the intended replacement.
	bc := NewBlockchain(Options{})

	next, err := bc.SubmitTransaction("C", "D", "abc")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), next)

	pending := bc.Mempool().Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, int64(0), pending[0].Amount)
}

func TestStrictAmountsRejectsUnparseableAmount(t *testing.T) {
	bc := NewBlockchain(Options{StrictAmounts: true})

	_, err := bc.SubmitTransaction("C", "D", "abc")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = bc.SubmitTransaction("C", "D", -3)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, 0, bc.Mempool().Len())
}

func TestSubmitTransactionMissingAmount(t *testing.T) {
	bc := NewBlockchain(Options{})
	_, err := bc.SubmitTransaction("A", "B", nil)
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Zero(t, bc.Mempool().Len())
}

func TestSubmitTransactionAcceptsEmptyAddresses(t *testing.T) {
	bc := NewBlockchain(Options{})

	index, err := bc.SubmitTransaction("", "B", 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), index)

	_, err = bc.SubmitTransaction("A", "", "0")
	require.NoError(t, err)

	assert.Equal(t, []Transaction{
		{Sender: "", Recipient: "B", Amount: 0},
		{Sender: "A", Recipient: "", Amount: 0},
	}, bc.Mempool().Pending())
}

func TestOversizedAmountIsInsufficientBalance(t *testing.T) {
	for _, strict := range []bool{false, true} {
		bc := NewBlockchain(Options{StrictAmounts: strict})
		bc.Mine("C")

		for _, raw := range []interface{}{
			json.Number("99999999999999999999"),
			"99999999999999999999",
			json.Number("1e30"),
			1e30,
		} {
			_, err := bc.SubmitTransaction("C", "D", raw)
			assert.ErrorIs(t, err, ErrInsufficientBalance, "strict=%v raw=%v", strict, raw)
		}
		assert.Zero(t, bc.Mempool().Len(), "strict=%v", strict)
	}
}

func TestNegativeAmountIsRejected(t *testing.T) {
	bc := NewBlockchain(Options{})
	_, err := bc.NewTransaction("A", "B", -1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestChainInvariants(t *testing.T) {
	bc := NewBlockchain(Options{})
	bc.Mine("A")
	_, err := bc.NewTransaction("A", "B", 1)
	require.NoError(t, err)
	bc.Mine("B")
	bc.Mine("A")

	chain := bc.Chain()
	require.Len(t, chain, 4)
	for i, b := range chain {
		assert.Equal(t, uint64(i+1), b.Index)
		if i == 0 {
			continue
		}
		assert.Equal(t, HashBlock(&chain[i-1]), b.PreviousHash)
		assert.True(t, ValidProof(chain[i-1].Proof, b.Proof))
	}
}

func TestConservationOfValue(t *testing.T) {
	bc := NewBlockchain(Options{})
	bc.Mine("A")
	bc.Mine("A")
	_, err := bc.NewTransaction("A", "B", 2)
	require.NoError(t, err)
	bc.Mine("B")
	_, err = bc.NewTransaction("B", "C", 1)
	require.NoError(t, err)
	bc.Mine("C")

	chain := bc.Chain()
	var issued int64
	seen := map[string]bool{}
	for _, b := range chain {
		for _, tx := range b.Transactions {
			if tx.IsReward() {
				issued += tx.Amount
			} else {
				seen[tx.Sender] = true
			}
			seen[tx.Recipient] = true
		}
	}

	var sum int64
	for addr := range seen {
		sum += Balance(chain, addr)
	}
	assert.Equal(t, issued, sum)
	assert.Equal(t, int64(4), issued)
}

func TestGetBalanceIsIdempotent(t *testing.T) {
	bc := NewBlockchain(Options{})
	bc.Mine("A")

	first := bc.GetBalance("A")
	assert.Equal(t, first, bc.GetBalance("A"))
	assert.Equal(t, int64(0), bc.GetBalance("nobody"))
}

func TestNewBlockDrainsMempool(t *testing.T) {
	bc := NewBlockchain(Options{})
	_, err := bc.NewTransaction("A", "B", 0)
	require.NoError(t, err)

	b := bc.NewBlock(12345, "")
	assert.Len(t, b.Transactions, 1)
	assert.Equal(t, 0, bc.Mempool().Len())
	assert.Equal(t, HashBlock(&bc.Chain()[0]), b.PreviousHash)

	empty := bc.NewBlock(1, "explicit")
	assert.Equal(t, "explicit", empty.PreviousHash)
	assert.NotNil(t, empty.Transactions)
	assert.Empty(t, empty.Transactions)
}

func TestReturnedBlocksAreCopies(t *testing.T) {
	bc := NewBlockchain(Options{})
	b := bc.Mine("A")
	b.Transactions[0].Amount = 1000

	assert.Equal(t, int64(1), bc.GetBalance("A"))
	assert.NoError(t, bc.Validate())
}

func TestValidateDetectsTampering(t *testing.T) {
	bc := NewBlockchain(Options{})
	bc.Mine("A")
	bc.Mine("A")

	chain := bc.Chain()
	chain[1].Transactions[0].Amount = 50
	assert.ErrorIs(t, ValidateChain(chain), ErrInvalidChain)

	chain = bc.Chain()
	chain[2].Index = 7
	assert.ErrorIs(t, ValidateChain(chain), ErrInvalidChain)

	chain = bc.Chain()
	chain[2].Proof++
	assert.ErrorIs(t, ValidateChain(chain), ErrInvalidChain)

	assert.ErrorIs(t, ValidateChain(nil), ErrEmptyChain)
}

func TestConcurrentMiningKeepsChainLinked(t *testing.T) {
	bc := NewBlockchain(Options{})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bc.Mine("A")
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, bc.Len())
	assert.Equal(t, int64(4), bc.GetBalance("A"))
	assert.NoError(t, bc.Validate())
}

func TestBalanceCheckIgnoresPendingTransactions(t *testing.T) {
	bc := NewBlockchain(Options{})
	bc.Mine("A")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = bc.NewTransaction("A", "B", 1)
		}()
	}
	wg.Wait()

	// balance checks only see committed blocks, so every spend of 1 is
	// admitted against the same balance of 1
	assert.Equal(t, 8, bc.Mempool().Len())
}

func TestEventsPublishedForAppendedBlocks(t *testing.T) {
	feed := NewEventFeed[BlockEvent]()
	ch := make(chan BlockEvent, 4)
	require.NoError(t, feed.Subscribe("test", ch))

	bc := NewBlockchain(Options{Events: feed})
	genesis := <-ch
	assert.Equal(t, uint64(1), genesis.Block.Index)
	assert.Zero(t, genesis.MiningTime)

	bc.Mine("A")
	mined := <-ch
	assert.Equal(t, uint64(2), mined.Block.Index)
}
