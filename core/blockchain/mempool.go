package blockchain

import (
	"sync"
)

// Mempool holds transactions accepted but not yet committed to a block, in
// arrival order.
type Mempool struct {
	transactions []Transaction
	mu           sync.Mutex
}

func NewMempool() *Mempool {
	return &Mempool{
		transactions: []Transaction{},
	}
}

func (m *Mempool) AddTx(tx Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.transactions = append(m.transactions, tx)
	log.Debugf("Transaction %s -> %s (%d) added to the mempool\n", tx.Sender, tx.Recipient, tx.Amount)
}

// DrainAll returns every pending transaction and empties the pool in one step.
func (m *Mempool) DrainAll() []Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	txs := m.transactions
	m.transactions = []Transaction{}
	return txs
}

// Pending returns a copy of the pending transactions.
func (m *Mempool) Pending() []Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	txs := make([]Transaction, len(m.transactions))
	copy(txs, m.transactions)
	return txs
}

func (m *Mempool) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.transactions)
}
