package blockchain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RewardSender marks a transaction issued by the system as a mining reward.
const RewardSender = "0"

// MiningReward is credited to the miner of every block.
const MiningReward int64 = 1

type Transaction struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}

func (tx Transaction) IsReward() bool {
	return tx.Sender == RewardSender
}

// ParseAmount converts a decoded JSON amount (number or numeric string) into a
// non-negative integer. Floats are truncated toward zero. Positive values too
// large for int64 saturate at math.MaxInt64, which no balance can cover.
func ParseAmount(raw interface{}) (int64, error) {
	var amount int64
	switch v := raw.(type) {
	case nil:
		return 0, fmt.Errorf("%w: amount is missing", ErrInvalidAmount)
	case int:
		amount = int64(v)
	case int64:
		amount = v
	case uint64:
		if v > math.MaxInt64 {
			return math.MaxInt64, nil
		}
		amount = int64(v)
	case float64:
		switch {
		case math.IsNaN(v), math.IsInf(v, -1), v < math.MinInt64:
			return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, v)
		case v >= math.MaxInt64:
			return math.MaxInt64, nil
		}
		amount = int64(v)
	case json.Number:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err == nil || errors.Is(err, strconv.ErrRange) {
			return checkAmount(n)
		}
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, v)
		}
		return ParseAmount(f)
	case string:
		// ParseInt clamps out of range input to MaxInt64/MinInt64
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidAmount, v)
		}
		amount = n
	case fmt.Stringer:
		return ParseAmount(json.Number(v.String()))
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidAmount, raw)
	}

	return checkAmount(amount)
}

func checkAmount(amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrInvalidAmount, amount)
	}
	return amount, nil
}
