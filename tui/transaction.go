package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shu8h0-null/boarcoin/core/api"
)

const (
	senderAddr = iota
	recipientAddr
	amount
	send
)

// submitTxMsg is emitted by the form when the user presses Send with valid input.
type submitTxMsg struct {
	req api.TransactionRequest
}

type txForm struct {
	txtInputs  []textinput.Model
	focusIndex int
	err        error
}

func newTxForm(defaultSender string) txForm {
	inputs := make([]textinput.Model, 3)

	inputs[senderAddr] = textinput.New()
	inputs[senderAddr].Prompt = "-> "
	inputs[senderAddr].Placeholder = "Address sending the BRC"
	inputs[senderAddr].Width = 60
	inputs[senderAddr].Validate = requiredValidator
	inputs[senderAddr].SetValue(defaultSender)
	inputs[senderAddr].Focus()

	inputs[recipientAddr] = textinput.New()
	inputs[recipientAddr].Prompt = "-> "
	inputs[recipientAddr].Placeholder = "Address of the wallet to send BRC to"
	inputs[recipientAddr].Width = 60
	inputs[recipientAddr].Validate = requiredValidator

	inputs[amount] = textinput.New()
	inputs[amount].Prompt = "-> "
	inputs[amount].Placeholder = "Amount of BRC to send"
	inputs[amount].Width = 30
	inputs[amount].Validate = amountValidator

	return txForm{txtInputs: inputs}
}

func (f txForm) Update(msg tea.Msg) (txForm, tea.Cmd) {
	var cmds []tea.Cmd

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "down", "tab":
			if f.focusIndex < send {
				f.focusIndex++
			}
		case "up", "shift+tab":
			if f.focusIndex > 0 {
				f.focusIndex--
			}
		case "enter":
			if f.focusIndex < send {
				f.focusIndex++
				break
			}
			if err := f.validate(); err != nil {
				f.err = err
				return f, nil
			}
			req := f.request()
			return f, func() tea.Msg { return submitTxMsg{req: req} }
		}
	}

	for i := range f.txtInputs {
		if i == f.focusIndex {
			cmds = append(cmds, f.txtInputs[i].Focus())
		} else {
			f.txtInputs[i].Blur()
		}
		var cmd tea.Cmd
		f.txtInputs[i], cmd = f.txtInputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}

	f.err = nil
	for i, in := range f.txtInputs {
		if i != f.focusIndex && in.Err != nil && in.Value() != "" {
			f.err = in.Err
		}
	}

	return f, tea.Batch(cmds...)
}

func (f txForm) validate() error {
	if err := requiredValidator(f.txtInputs[senderAddr].Value()); err != nil {
		return err
	}
	if err := requiredValidator(f.txtInputs[recipientAddr].Value()); err != nil {
		return err
	}
	return amountValidator(f.txtInputs[amount].Value())
}

func (f txForm) request() api.TransactionRequest {
	return api.TransactionRequest{
		Sender:    strings.TrimSpace(f.txtInputs[senderAddr].Value()),
		Recipient: strings.TrimSpace(f.txtInputs[recipientAddr].Value()),
		Amount:    strings.TrimSpace(f.txtInputs[amount].Value()),
	}
}

func (f txForm) View() string {
	sendButton := " Submit "
	if f.focusIndex == send {
		sendButton = buttonFocusedStyle.Render(sendButton)
	} else {
		sendButton = buttonStyle.Render(sendButton)
	}

	errMsg := ""
	if f.err != nil {
		errMsg = errorStyle.Render(f.err.Error())
	}

	return fmt.Sprintf(
		`%s
%s

%s
%s

%s
%s

%s
%s

%s

%s`,
		titleStyle.Render("~~ New Transaction ~~"),
		errMsg,
		inputStyle.Render("Sender"),
		f.txtInputs[senderAddr].View(),
		inputStyle.Render("Recipient"),
		f.txtInputs[recipientAddr].View(),
		inputStyle.Render("Amount"),
		f.txtInputs[amount].View(),
		sendButton,
		helpStyle.Render("↑/↓ to move, Enter to submit, Esc to go back."),
	)
}
