package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shu8h0-null/boarcoin/core/blockchain"
)

func Centered(content string, w, h int) string {
	return lipgloss.Place(
		w, h,
		lipgloss.Center, lipgloss.Center,
		boxStyle.Render(content),
		lipgloss.WithWhitespaceChars(" "),
	)
}

func requiredValidator(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("All fields are required")
	}
	return nil
}

func amountValidator(input string) error {
	if err := requiredValidator(input); err != nil {
		return err
	}
	if v, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64); err != nil || v < 0 {
		return errors.New("Invalid amount: Amount should be a whole number of BRC")
	}
	return nil
}

// renderChain lists every block with its transactions, one block per paragraph.
func renderChain(blocks []blockchain.Block, length int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Chain Length: %d\n", length)
	for _, b := range blocks {
		fmt.Fprintf(&sb, "\n%s  proof %d  %s\n",
			inputStyle.Render(fmt.Sprintf("Block %d", b.Index)), b.Proof, helpStyle.Render(b.Time().Format("2006-01-02 15:04:05")))
		if len(b.Transactions) == 0 {
			sb.WriteString("  (no transactions)\n")
		}
		for _, tx := range b.Transactions {
			sender := tx.Sender
			if tx.IsReward() {
				sender = "reward"
			}
			fmt.Fprintf(&sb, "  %s -> %s: %d BRC\n", sender, tx.Recipient, tx.Amount)
		}
	}
	return sb.String()
}
