package blockchain

import (
	"fmt"
	"sync"
	"time"
)

type Options struct {
	// StrictAmounts rejects unparseable or negative submitted amounts with
	// ErrInvalidAmount instead of coercing them to 0.
	StrictAmounts bool
	// Events, when set, receives a BlockEvent for every appended block.
	Events *EventFeed[BlockEvent]
}

// Blockchain is an in-memory, append-only chain of blocks together with the
// pool of transactions waiting for the next block.
type Blockchain struct {
	chain   []*Block
	mempool *Mempool
	opts    Options
	mu      sync.RWMutex
}

// NewBlockchain returns a chain holding only the genesis block.
func NewBlockchain(opts Options) *Blockchain {
	bc := &Blockchain{
		mempool: NewMempool(),
		opts:    opts,
	}
	bc.NewBlock(GenesisProof, GenesisPreviousHash)
	return bc
}

func (bc *Blockchain) Mempool() *Mempool {
	return bc.mempool
}

// tip must be called with bc.mu held.
func (bc *Blockchain) tip() *Block {
	if len(bc.chain) == 0 {
		panic(ErrEmptyChain)
	}
	return bc.chain[len(bc.chain)-1]
}

// appendBlock drains the mempool into a new block and appends it. It must be
// called with bc.mu held for writing and is the only place the chain grows.
func (bc *Blockchain) appendBlock(proof uint64, previousHash string) *Block {
	if previousHash == "" {
		previousHash = HashBlock(bc.tip())
	}
	b := newBlock(uint64(len(bc.chain)+1), bc.mempool.DrainAll(), proof, previousHash)
	bc.chain = append(bc.chain, b)
	return b
}

func (bc *Blockchain) publish(b Block, miningTime time.Duration) {
	if bc.opts.Events != nil {
		bc.opts.Events.Send(BlockEvent{Block: b, MiningTime: miningTime})
	}
}

// NewBlock appends a block carrying every pending transaction. An empty
// previousHash links the block to the current last block.
func (bc *Blockchain) NewBlock(proof uint64, previousHash string) Block {
	bc.mu.Lock()
	b := bc.appendBlock(proof, previousHash).clone()
	bc.mu.Unlock()

	bc.publish(b, 0)
	return b
}

// LastBlock returns the most recently appended block.
func (bc *Blockchain) LastBlock() Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.tip().clone()
}

func (bc *Blockchain) Len() int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return len(bc.chain)
}

// Chain returns a copy of every block in order.
func (bc *Blockchain) Chain() []Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	blocks := make([]Block, 0, len(bc.chain))
	for _, b := range bc.chain {
		blocks = append(blocks, b.clone())
	}
	return blocks
}

// NewTransaction pools a transfer if the sender's committed balance covers it
// and returns the index of the block it will be included in.
func (bc *Blockchain) NewTransaction(sender, recipient string, amount int64) (uint64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrInvalidAmount, amount)
	}

	bc.mu.Lock()
	defer bc.mu.Unlock()

	if balance := bc.balance(sender); amount > balance {
		return 0, fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientBalance, sender, balance, amount)
	}

	bc.mempool.AddTx(Transaction{Sender: sender, Recipient: recipient, Amount: amount})
	return uint64(len(bc.chain) + 1), nil
}

// SubmitTransaction validates a raw submission and hands it to NewTransaction.
// Unless StrictAmounts is set, an amount that does not parse is treated as 0.
// Addresses are opaque, so empty sender or recipient strings are accepted.
func (bc *Blockchain) SubmitTransaction(sender, recipient string, rawAmount interface{}) (uint64, error) {
	if rawAmount == nil {
		return 0, fmt.Errorf("%w: amount", ErrMissingField)
	}

	amount, err := ParseAmount(rawAmount)
	if err != nil {
		if bc.opts.StrictAmounts {
			return 0, err
		}
		log.Warnf("Coercing amount to 0: %v\n", err)
		amount = 0
	}

	return bc.NewTransaction(sender, recipient, amount)
}

// GetBalance replays the whole chain for address.
func (bc *Blockchain) GetBalance(address string) int64 {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.balance(address)
}

// balance must be called with bc.mu held.
func (bc *Blockchain) balance(address string) int64 {
	var total int64
	for _, b := range bc.chain {
		total += blockDelta(b, address)
	}
	return total
}

// Balance is the net of credits minus debits for address across blocks.
func Balance(blocks []Block, address string) int64 {
	var total int64
	for i := range blocks {
		total += blockDelta(&blocks[i], address)
	}
	return total
}

func blockDelta(b *Block, address string) int64 {
	var delta int64
	for _, tx := range b.Transactions {
		if tx.Sender == address {
			delta -= tx.Amount
		}
		if tx.Recipient == address {
			delta += tx.Amount
		}
	}
	return delta
}

// Mine searches a proof for the current last block, then credits
// rewardRecipient and appends the new block. The search runs without holding
// the chain lock; if another block landed in the meantime the search restarts
// against the new last block.
func (bc *Blockchain) Mine(rewardRecipient string) Block {
	for {
		bc.mu.RLock()
		last := bc.tip()
		bc.mu.RUnlock()

		log.Debugf("Mining on top of block %d\n", last.Index)
		start := time.Now()
		proof := ProofOfWork(last.Proof)
		elapsed := time.Since(start)

		bc.mu.Lock()
		if bc.tip() != last {
			bc.mu.Unlock()
			log.Infof("Block %d was superseded while mining, retrying\n", last.Index)
			continue
		}
		bc.mempool.AddTx(Transaction{Sender: RewardSender, Recipient: rewardRecipient, Amount: MiningReward})
		b := bc.appendBlock(proof, HashBlock(last)).clone()
		bc.mu.Unlock()

		log.Infof("Block:[%d] forged with proof %d in %s\n", b.Index, b.Proof, elapsed)
		bc.publish(b, elapsed)
		return b
	}
}

// Validate walks the chain and reports the first broken link, index or proof.
func (bc *Blockchain) Validate() error {
	return ValidateChain(bc.Chain())
}

// ValidateChain checks the genesis block and, for every later block, that it
// follows its predecessor by index, hash and proof of work.
func ValidateChain(blocks []Block) error {
	if len(blocks) == 0 {
		return ErrEmptyChain
	}

	genesis := blocks[0]
	if genesis.Index != 1 || genesis.PreviousHash != GenesisPreviousHash || genesis.Proof != GenesisProof {
		return fmt.Errorf("%w: malformed genesis block", ErrInvalidChain)
	}

	for i := 1; i < len(blocks); i++ {
		prev, cur := &blocks[i-1], &blocks[i]
		if cur.Index != prev.Index+1 {
			return fmt.Errorf("%w: block %d follows block %d", ErrInvalidChain, cur.Index, prev.Index)
		}
		if cur.PreviousHash != HashBlock(prev) {
			return fmt.Errorf("%w: block %d previous hash mismatch", ErrInvalidChain, cur.Index)
		}
		if !ValidProof(prev.Proof, cur.Proof) {
			return fmt.Errorf("%w: block %d has an invalid proof", ErrInvalidChain, cur.Index)
		}
	}
	return nil
}
