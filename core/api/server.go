package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shu8h0-null/boarcoin/core/blockchain"
	"github.com/shu8h0-null/boarcoin/core/jsonx"
	"github.com/shu8h0-null/boarcoin/core/logger"
)

var log = logger.NewLogger()

// MaxBodyBytes caps the size of a transaction submission.
const MaxBodyBytes = 1 << 20

// Service is what the HTTP front end needs from a node.
type Service interface {
	Address() string
	Mine() blockchain.Block
	SubmitTransaction(sender, recipient string, amount interface{}) (uint64, error)
	Chain() []blockchain.Block
	Balance(address string) int64
}

type handler struct {
	svc Service
}

// Register mounts the ledger endpoints on mux.
func Register(mux *http.ServeMux, svc Service) {
	h := handler{svc: svc}
	mux.HandleFunc("GET /mine", h.mine)
	mux.HandleFunc("POST /transactions/new", h.newTransaction)
	mux.HandleFunc("GET /chain", h.chain)
	mux.HandleFunc("GET /balance", h.balance)
}

func (h handler) mine(w http.ResponseWriter, r *http.Request) {
	block := h.svc.Mine()
	writeJSON(w, http.StatusOK, NewMineResponse(block))
}

func (h handler) newTransaction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, MessageResponse{Message: "Request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Could not read request body"})
		return
	}

	var values map[string]interface{}
	dec := jsonx.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&values); err != nil {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Request body must be a JSON object"})
		return
	}

	for _, k := range []string{"sender", "recipient", "amount"} {
		if _, ok := values[k]; !ok {
			http.Error(w, MsgMissingValues, http.StatusBadRequest)
			return
		}
	}

	sender, okS := values["sender"].(string)
	recipient, okR := values["recipient"].(string)
	if !okS || !okR {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "sender and recipient must be strings"})
		return
	}

	index, err := h.svc.SubmitTransaction(sender, recipient, values["amount"])
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, MessageResponse{
			Message: fmt.Sprintf("Transaction will be added to Block %d", index),
		})
	case errors.Is(err, blockchain.ErrInsufficientBalance):
		writeJSON(w, http.StatusForbidden, MessageResponse{Message: MsgInsufficientFunds})
	case errors.Is(err, blockchain.ErrMissingField):
		http.Error(w, MsgMissingValues, http.StatusBadRequest)
	case errors.Is(err, blockchain.ErrInvalidAmount):
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: err.Error()})
	default:
		log.Errorf("Unexpected error submitting transaction: %v\n", err)
		writeJSON(w, http.StatusInternalServerError, MessageResponse{Message: "internal error"})
	}
}

func (h handler) chain(w http.ResponseWriter, r *http.Request) {
	blocks := h.svc.Chain()
	writeJSON(w, http.StatusOK, ChainResponse{Chain: blocks, Length: len(blocks)})
}

func (h handler) balance(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		address = h.svc.Address()
	}
	writeJSON(w, http.StatusOK, BalanceResponse{Address: address, Balance: h.svc.Balance(address)})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := jsonx.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Error encoding response: %v\n", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// WithLogging logs every request at debug level.
func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debugf("%s %s %d %s\n", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
