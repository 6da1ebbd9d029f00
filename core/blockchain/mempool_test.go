package blockchain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMempoolDrainAll(t *testing.T) {
	mem := NewMempool()
	mem.AddTx(Transaction{Sender: "A", Recipient: "B", Amount: 1})
	mem.AddTx(Transaction{Sender: "B", Recipient: "C", Amount: 2})

	txs := mem.DrainAll()
	require.Len(t, txs, 2)
	assert.Equal(t, "A", txs[0].Sender)
	assert.Equal(t, "B", txs[1].Sender)
	assert.Equal(t, 0, mem.Len())

	empty := mem.DrainAll()
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMempoolPendingIsACopy(t *testing.T) {
	mem := NewMempool()
	mem.AddTx(Transaction{Sender: "A", Recipient: "B", Amount: 1})

	pending := mem.Pending()
	pending[0].Amount = 99
	assert.Equal(t, int64(1), mem.Pending()[0].Amount)
}

func TestMempoolConcurrentAdds(t *testing.T) {
	mem := NewMempool()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mem.AddTx(Transaction{Sender: "A", Recipient: "B"})
		}()
	}
	wg.Wait()

	assert.Len(t, mem.DrainAll(), 50)
}

func TestEventFeedSubscriptions(t *testing.T) {
	feed := NewEventFeed[int]()
	ch := make(chan int, 1)

	require.NoError(t, feed.Subscribe("a", ch))
	assert.Error(t, feed.Subscribe("a", ch))

	feed.Send(1)
	feed.Send(2) // dropped, channel full
	assert.Equal(t, 1, <-ch)
	assert.Len(t, ch, 0)

	feed.UnSubscribe("a")
	feed.Send(3)
	assert.Len(t, ch, 0)
}
