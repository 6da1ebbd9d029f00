package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shu8h0-null/boarcoin/core/api"
	"github.com/shu8h0-null/boarcoin/core/blockchain"
	"github.com/shu8h0-null/boarcoin/core/jsonx"
)

// Client talks to a node's HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// mining has no upper bound, keep the timeout generous
		http: &http.Client{Timeout: 2 * time.Minute},
	}
}

func (c *Client) Mine(ctx context.Context) (*api.MineResponse, error) {
	var resp api.MineResponse
	if err := c.do(ctx, http.MethodGet, "/mine", nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitTransaction returns the message reported by the node on success.
// Insufficient funds are reported as blockchain.ErrInsufficientBalance.
func (c *Client) SubmitTransaction(ctx context.Context, req api.TransactionRequest) (string, error) {
	body, err := jsonx.Marshal(req)
	if err != nil {
		return "", err
	}

	var resp api.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/transactions/new", body, http.StatusCreated, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) Chain(ctx context.Context) (*api.ChainResponse, error) {
	var resp api.ChainResponse
	if err := c.do(ctx, http.MethodGet, "/chain", nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Balance queries address, or the node's own address when empty.
func (c *Client) Balance(ctx context.Context, address string) (*api.BalanceResponse, error) {
	path := "/balance"
	if address != "" {
		path += "?address=" + url.QueryEscape(address)
	}

	var resp api.BalanceResponse
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, want int, out interface{}) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	switch resp.StatusCode {
	case want:
		return jsonx.Unmarshal(data, out)
	case http.StatusForbidden:
		return blockchain.ErrInsufficientBalance
	default:
		var msg api.MessageResponse
		if jsonx.Unmarshal(data, &msg) != nil || msg.Message == "" {
			msg.Message = strings.TrimSpace(string(data))
		}
		return fmt.Errorf("%s %s: %s (%d)", method, path, msg.Message, resp.StatusCode)
	}
}
