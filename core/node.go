package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shu8h0-null/boarcoin/core/api"
	blkchn "github.com/shu8h0-null/boarcoin/core/blockchain"
	"github.com/shu8h0-null/boarcoin/core/config"
	"github.com/shu8h0-null/boarcoin/core/logger"
	"github.com/shu8h0-null/boarcoin/core/metrics"
	"github.com/shu8h0-null/boarcoin/core/rpc"
	"golang.org/x/sync/errgroup"
)

const eventSubscriber = "node"

var log = logger.NewLogger()

// Node owns the ledger for the lifetime of the process and serves it over
// HTTP and JSON-RPC.
type Node struct {
	cfg        *config.Config
	address    string
	blockchain *blkchn.Blockchain
	events     *blkchn.EventFeed[blkchn.BlockEvent]
	blockCh    chan blkchn.BlockEvent
	metrics    *metrics.Metrics
}

func NewNode(cfg *config.Config) (*Node, error) {
	if cfg == nil {
		return nil, errors.New("Config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	address := cfg.NodeAddress
	if address == "" {
		address = config.NewNodeAddress()
	}

	n := &Node{
		cfg:     cfg,
		address: address,
		events:  blkchn.NewEventFeed[blkchn.BlockEvent](),
		blockCh: make(chan blkchn.BlockEvent, 64),
	}
	if cfg.Metrics {
		n.metrics = metrics.New()
	}

	// subscribe before the chain exists so the genesis event is not missed
	if err := n.events.Subscribe(eventSubscriber, n.blockCh); err != nil {
		return nil, err
	}
	n.blockchain = blkchn.NewBlockchain(blkchn.Options{
		StrictAmounts: cfg.StrictAmounts,
		Events:        n.events,
	})

	return n, nil
}

func (n *Node) Address() string {
	return n.address
}

func (n *Node) Blockchain() *blkchn.Blockchain {
	return n.blockchain
}

// Mine forges a block rewarding the node's own address.
func (n *Node) Mine() blkchn.Block {
	log.Infof("Mining for new Block:[%d]\n", n.blockchain.Len()+1)
	return n.blockchain.Mine(n.address)
}

func (n *Node) SubmitTransaction(sender, recipient string, amount interface{}) (uint64, error) {
	index, err := n.blockchain.SubmitTransaction(sender, recipient, amount)

	result := metrics.ResultAccepted
	switch {
	case err == nil:
		log.Infof("Transaction %s -> %s will be added to Block:[%d]\n", sender, recipient, index)
	case errors.Is(err, blkchn.ErrInsufficientBalance):
		result = metrics.ResultInsufficient
		log.Warnf("Transaction rejected: %v\n", err)
	default:
		result = metrics.ResultInvalid
		log.Warnf("Transaction rejected: %v\n", err)
	}

	if n.metrics != nil {
		n.metrics.ObserveSubmission(result)
		n.metrics.SetPending(n.blockchain.Mempool().Len())
	}
	return index, err
}

func (n *Node) Chain() []blkchn.Block {
	return n.blockchain.Chain()
}

func (n *Node) Balance(address string) int64 {
	return n.blockchain.GetBalance(address)
}

func (n *Node) Validate() error {
	return n.blockchain.Validate()
}

// Handler returns the node's HTTP surface: ledger endpoints, JSON-RPC and,
// when enabled, metrics.
func (n *Node) Handler() http.Handler {
	mux := http.NewServeMux()
	api.Register(mux, n)
	mux.Handle(rpc.Path, rpc.NewServer(rpc.NewRPCHandler(n)))
	if n.metrics != nil {
		mux.Handle("GET /metrics", n.metrics.Handler())
	}
	return api.WithLogging(mux)
}

// BlockReader consumes block events until ctx is done.
func (n *Node) BlockReader(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-n.blockCh:
			log.Infof("Block:[%d] appended, %d transaction(s)\n", ev.Block.Index, len(ev.Block.Transactions))
			if n.metrics != nil {
				n.metrics.ObserveBlock(n.blockchain.Len(), ev.MiningTime)
				n.metrics.SetPending(n.blockchain.Mempool().Len())
			}
		}
	}
}

// Run serves the node until ctx is cancelled or SIGINT/SIGTERM is received.
func (n *Node) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	listenForQuitSignal(ctx, cancel)

	srv := &http.Server{
		Addr:              n.cfg.ListenAddr,
		Handler:           n.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n.BlockReader(gctx)
		return nil
	})
	g.Go(func() error {
		log.Infof("Node::%s listening on %s\n", n.address, n.cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Cleaning Up...")
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	n.events.UnSubscribe(eventSubscriber)
	return err
}

func listenForQuitSignal(ctx context.Context, cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			log.Infof("Received signal: %s, shutting down...", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
}
