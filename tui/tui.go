package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shu8h0-null/boarcoin/core/api"
	"github.com/shu8h0-null/boarcoin/core/blockchain"
)

const (
	modeMenu = iota
	modeChain
	modeTransaction
	modeWallet
)

const (
	optMine = iota
	optChain
	optTransaction
	optWallet
)

const requestTimeout = 2 * time.Minute

// Backend is the node API the client drives.
type Backend interface {
	Mine(ctx context.Context) (*api.MineResponse, error)
	SubmitTransaction(ctx context.Context, req api.TransactionRequest) (string, error)
	Chain(ctx context.Context) (*api.ChainResponse, error)
	Balance(ctx context.Context, address string) (*api.BalanceResponse, error)
}

type (
	minedMsg struct {
		resp *api.MineResponse
		err  error
	}
	chainMsg struct {
		resp *api.ChainResponse
		err  error
	}
	txResultMsg struct {
		msg string
		err error
	}
	walletMsg struct {
		resp *api.BalanceResponse
		err  error
	}
)

type model struct {
	backend       Backend
	mode          int
	selectedIndex int
	options       []string

	busy    bool
	spinner spinner.Model
	status  string
	err     error

	chainView viewport.Model
	form      txForm
	wallet    *api.BalanceResponse

	width, height int
	copyFn        func(string) error
}

func newModel(backend Backend) model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return model{
		backend:   backend,
		mode:      modeMenu,
		options:   []string{"Mine block", "View Chain", "New Transaction", "My Wallet"},
		spinner:   s,
		chainView: viewport.New(72, 20),
		copyFn:    clipboard.WriteAll,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) call(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return fn(ctx)
	}
}

func (m model) mineCmd() tea.Cmd {
	return m.call(func(ctx context.Context) tea.Msg {
		resp, err := m.backend.Mine(ctx)
		return minedMsg{resp: resp, err: err}
	})
}

func (m model) chainCmd() tea.Cmd {
	return m.call(func(ctx context.Context) tea.Msg {
		resp, err := m.backend.Chain(ctx)
		return chainMsg{resp: resp, err: err}
	})
}

func (m model) walletCmd() tea.Cmd {
	return m.call(func(ctx context.Context) tea.Msg {
		resp, err := m.backend.Balance(ctx, "")
		return walletMsg{resp: resp, err: err}
	})
}

func (m model) submitCmd(req api.TransactionRequest) tea.Cmd {
	return m.call(func(ctx context.Context) tea.Msg {
		msg, err := m.backend.SubmitTransaction(ctx, req)
		return txResultMsg{msg: msg, err: err}
	})
}

func (m model) startRequest(cmd tea.Cmd) (model, tea.Cmd) {
	m.busy = true
	m.status = ""
	m.err = nil
	return m, tea.Batch(cmd, m.spinner.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case minedMsg:
		m.busy = false
		if msg.err != nil {
			m.err = fmt.Errorf("Failed to mine block: %w", msg.err)
		} else {
			m.status = fmt.Sprintf("%s: block %d", msg.resp.Message, msg.resp.Index)
		}
		return m, nil

	case chainMsg:
		m.busy = false
		if msg.err != nil {
			m.err = fmt.Errorf("Failed to retrieve blockchain: %w", msg.err)
			return m, nil
		}
		m.mode = modeChain
		m.chainView.SetContent(renderChain(msg.resp.Chain, msg.resp.Length))
		m.chainView.GotoTop()
		return m, nil

	case walletMsg:
		m.busy = false
		if msg.err != nil {
			m.err = fmt.Errorf("Failed to retrieve wallet information: %w", msg.err)
			return m, nil
		}
		m.mode = modeWallet
		m.wallet = msg.resp
		return m, nil

	case submitTxMsg:
		return m.startRequest(m.submitCmd(msg.req))

	case txResultMsg:
		m.busy = false
		switch {
		case msg.err == nil:
			m.mode = modeMenu
			m.status = msg.msg
		case errors.Is(msg.err, blockchain.ErrInsufficientBalance):
			m.mode = modeMenu
			m.err = errors.New(api.MsgInsufficientFunds)
		default:
			m.err = fmt.Errorf("Failed to create transaction: %w", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		if m.mode == modeMenu {
			return m.updateMenu(msg)
		}
		if msg.String() == "esc" {
			m.mode = modeMenu
			m.err = nil
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeChain:
		m.chainView, cmd = m.chainView.Update(msg)
	case modeTransaction:
		m.form, cmd = m.form.Update(msg)
	case modeWallet:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "c":
				if err := m.copyFn(m.wallet.Address); err != nil {
					m.err = fmt.Errorf("Failed to copy address: %w", err)
				} else {
					m.status = "Wallet address copied to clipboard"
				}
			case "r":
				return m.startRequest(m.walletCmd())
			}
		}
	}
	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return m, tea.Quit
	case "down", "j":
		if m.selectedIndex < len(m.options)-1 {
			m.selectedIndex++
		}
	case "up", "k":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case "enter":
		switch m.selectedIndex {
		case optMine:
			return m.startRequest(m.mineCmd())
		case optChain:
			return m.startRequest(m.chainCmd())
		case optTransaction:
			sender := ""
			if m.wallet != nil {
				sender = m.wallet.Address
			}
			m.form = newTxForm(sender)
			m.mode = modeTransaction
			m.status, m.err = "", nil
		case optWallet:
			return m.startRequest(m.walletCmd())
		}
	}
	return m, nil
}

func (m model) statusLine() string {
	switch {
	case m.busy:
		return m.spinner.View() + " working..."
	case m.err != nil:
		return errorStyle.Render(m.err.Error())
	case m.status != "":
		return successStyle.Render(m.status)
	}
	return ""
}

func (m model) View() string {
	var content string

	switch m.mode {
	case modeMenu:
		content = titleStyle.Render("Boar Coin (BRC)") + "\n\n"
		for i, option := range m.options {
			if i == m.selectedIndex {
				content += "=> " + selectedStyle.Render(option) + "\n\n"
			} else {
				content += "=> " + unSelectedStyle.Render(option) + "\n\n"
			}
		}
		content += m.statusLine() + "\n"
		content += helpStyle.Render("\nPress Esc to quit.")

	case modeChain:
		content = titleStyle.Render("~~ Blockchain ~~") + "\n\n" +
			m.chainView.View() + "\n" +
			helpStyle.Render("↑/↓ to scroll, Esc to go back.")

	case modeTransaction:
		content = m.form.View() + "\n" + m.statusLine()

	case modeWallet:
		content = fmt.Sprintf("%s\n\nAddress: %s\nBalance: %d BRC\n\n%s\n%s",
			titleStyle.Render("~~ Wallet Info ~~"),
			inputStyle.Render(m.wallet.Address),
			m.wallet.Balance,
			m.statusLine(),
			helpStyle.Render("c to copy the address, r to refresh, Esc to go back."),
		)
	}

	return Centered(content, m.width, m.height)
}

// Run starts the interactive client against backend.
func Run(backend Backend) error {
	p := tea.NewProgram(newModel(backend), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
