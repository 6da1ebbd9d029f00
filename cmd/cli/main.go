package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pterm/pterm"
	"github.com/shu8h0-null/boarcoin/core/api"
	"github.com/shu8h0-null/boarcoin/core/blockchain"
	"github.com/shu8h0-null/boarcoin/core/rpc"
	"github.com/urfave/cli/v3"
)

const defaultNode = "http://localhost:5000" + rpc.Path

func main() {
	cmd := &cli.Command{
		Name:  "brc",
		Usage: "talk to a boarcoin node",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "node",
				Value: defaultNode,
				Usage: "JSON-RPC endpoint of the node",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "mine",
				Usage:  "mine a new block",
				Action: mine,
			},
			{
				Name:  "send",
				Usage: "submit a transaction",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "sender address", Required: true},
					&cli.StringFlag{Name: "to", Usage: "recipient address", Required: true},
					&cli.StringFlag{Name: "amount", Usage: "amount to transfer", Required: true},
				},
				Action: send,
			},
			{
				Name:  "chain",
				Usage: "print the full chain",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "raw", Usage: "dump the blocks instead of a table"},
				},
				Action: chain,
			},
			{
				Name:  "balance",
				Usage: "show the balance of an address (the node's own by default)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "address", Usage: "address to query"},
				},
				Action: balance,
			},
			{
				Name:   "validate",
				Usage:  "verify hash links and proofs of the node's chain",
				Action: validate,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func dial(ctx context.Context, cmd *cli.Command) (*rpc.Client, func(), error) {
	client, closer, err := rpc.Dial(ctx, cmd.String("node"))
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to %s: %w", cmd.String("node"), err)
	}
	return client, closer, nil
}

func mine(ctx context.Context, cmd *cli.Command) error {
	client, closer, err := dial(ctx, cmd)
	if err != nil {
		return err
	}
	defer closer()

	spinner, _ := pterm.DefaultSpinner.Start("Searching for a proof of work...")
	block, err := client.Mine(ctx)
	if err != nil {
		spinner.Fail("Mining failed")
		return err
	}
	spinner.Success(fmt.Sprintf("%s: block %d, proof %d", block.Message, block.Index, block.Proof))
	return nil
}

func send(ctx context.Context, cmd *cli.Command) error {
	client, closer, err := dial(ctx, cmd)
	if err != nil {
		return err
	}
	defer closer()

	next, err := client.SubmitTransaction(ctx, api.TransactionRequest{
		Sender:    cmd.String("from"),
		Recipient: cmd.String("to"),
		Amount:    cmd.String("amount"),
	})
	if err != nil {
		return err
	}
	pterm.Success.Printfln("Transaction will be added to Block %d", next)
	return nil
}

func chain(ctx context.Context, cmd *cli.Command) error {
	client, closer, err := dial(ctx, cmd)
	if err != nil {
		return err
	}
	defer closer()

	resp, err := client.Chain(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("raw") {
		spew.Dump(resp.Chain)
		return nil
	}

	data := pterm.TableData{{"Index", "Time", "Txs", "Proof", "Previous hash"}}
	for _, b := range resp.Chain {
		data = append(data, []string{
			strconv.FormatUint(b.Index, 10),
			b.Time().Format(time.DateTime),
			strconv.Itoa(len(b.Transactions)),
			strconv.FormatUint(b.Proof, 10),
			shorten(b.PreviousHash),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	pterm.Info.Printfln("Chain length: %d", resp.Length)
	return nil
}

func balance(ctx context.Context, cmd *cli.Command) error {
	client, closer, err := dial(ctx, cmd)
	if err != nil {
		return err
	}
	defer closer()

	resp, err := client.Balance(ctx, cmd.String("address"))
	if err != nil {
		return err
	}
	pterm.Info.Printfln("Address: %s", resp.Address)
	pterm.Info.Printfln("Balance: %d BRC", resp.Balance)
	return nil
}

func validate(ctx context.Context, cmd *cli.Command) error {
	client, closer, err := dial(ctx, cmd)
	if err != nil {
		return err
	}
	defer closer()

	if err := client.Validate(ctx); err != nil {
		return err
	}
	pterm.Success.Println("Chain is valid")
	return nil
}

func shorten(hash string) string {
	if hash == blockchain.GenesisPreviousHash || len(hash) <= 16 {
		return hash
	}
	return hash[:8] + "…" + hash[len(hash)-8:]
}
