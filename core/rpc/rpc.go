package rpc

import (
	"context"
	"net/http"

	"github.com/filecoin-project/go-jsonrpc"
	"github.com/shu8h0-null/boarcoin/core/api"
)

const (
	Namespace = "NodeRPC"
	Path      = "/rpc/v0"
)

// server is the node surface exposed over JSON-RPC.
type server interface {
	api.Service
	Validate() error
}

type RPCHandler struct {
	rpcServer server
}

func NewRPCHandler(s server) *RPCHandler {
	return &RPCHandler{
		rpcServer: s,
	}
}

func (h *RPCHandler) Mine(ctx context.Context) (*api.MineResponse, error) {
	return api.NewMineResponse(h.rpcServer.Mine()), nil
}

func (h *RPCHandler) SubmitTransaction(ctx context.Context, req api.TransactionRequest) (uint64, error) {
	return h.rpcServer.SubmitTransaction(req.Sender, req.Recipient, req.Amount)
}

func (h *RPCHandler) Chain(ctx context.Context) (*api.ChainResponse, error) {
	blocks := h.rpcServer.Chain()
	return &api.ChainResponse{Chain: blocks, Length: len(blocks)}, nil
}

// Balance returns the balance of address, or of the node when address is empty.
func (h *RPCHandler) Balance(ctx context.Context, address string) (*api.BalanceResponse, error) {
	if address == "" {
		address = h.rpcServer.Address()
	}
	return &api.BalanceResponse{Address: address, Balance: h.rpcServer.Balance(address)}, nil
}

func (h *RPCHandler) Validate(ctx context.Context) error {
	return h.rpcServer.Validate()
}

// NewServer returns an http.Handler serving handler under Namespace.
func NewServer(handler *RPCHandler) http.Handler {
	rpcServer := jsonrpc.NewServer()
	rpcServer.Register(Namespace, handler)
	return rpcServer
}

// Client mirrors RPCHandler for jsonrpc.NewClient.
type Client struct {
	Mine              func(ctx context.Context) (*api.MineResponse, error)
	SubmitTransaction func(ctx context.Context, req api.TransactionRequest) (uint64, error)
	Chain             func(ctx context.Context) (*api.ChainResponse, error)
	Balance           func(ctx context.Context, address string) (*api.BalanceResponse, error)
	Validate          func(ctx context.Context) error
}

// Dial connects to a node's JSON-RPC endpoint, e.g. http://localhost:5000/rpc/v0.
func Dial(ctx context.Context, addr string) (*Client, jsonrpc.ClientCloser, error) {
	var client Client
	closer, err := jsonrpc.NewClient(ctx, addr, Namespace, &client, nil)
	if err != nil {
		return nil, nil, err
	}
	return &client, closer, nil
}
