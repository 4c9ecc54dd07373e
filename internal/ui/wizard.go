package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"
)

// WizardResult holds answers collected by the profile wizard.
type WizardResult struct {
	Name        string
	Symbol      string
	MaxSupply   uint64
	Payment     string
	Beneficiary string
	Network     string
	Testnet     bool
	Owner       string
	Cancelled   bool
}

// --- Bubble Tea model ---

type wizardStep int

const (
	stepName wizardStep = iota
	stepSymbol
	stepSupply
	stepPayment
	stepBeneficiary
	stepNetwork
	stepMode
	stepOwner
	stepDone
)

type wizardModel struct {
	step      wizardStep
	result    WizardResult
	cursor    int
	choices   []string
	input     string
	inputMode bool
	problem   string
}

var networks = []string{
	"ethereum", "base", "polygon", "arbitrum", "optimism",
	"bnb", "avalanche", "linea", "zksync", "scroll",
}

var (
	modes        = []string{"mainnet", "testnet"}
	paymentModes = []string{"refund", "forward"}
)

func initialWizard() wizardModel {
	return wizardModel{step: stepName, inputMode: true}
}

func (m wizardModel) Init() tea.Cmd { return nil }

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.result.Cancelled = true
			return m, tea.Quit

		case "up":
			if !m.inputMode && m.cursor > 0 {
				m.cursor--
			}

		case "down":
			if !m.inputMode && m.cursor < len(m.choices)-1 {
				m.cursor++
			}

		case "enter":
			var ok bool
			if m.inputMode {
				ok = m.applyInput()
			} else {
				ok = m.applyChoice()
			}
			if ok {
				m.advance()
			}

		case "backspace":
			if m.inputMode && len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}

		default:
			if m.inputMode && msg.Type == tea.KeyRunes {
				m.input += string(msg.Runes)
			}
		}
	}

	if m.step == stepDone {
		return m, tea.Quit
	}
	return m, nil
}

// advance moves to the next step. The beneficiary is only asked for in forward mode.
func (m *wizardModel) advance() {
	m.step++
	if m.step == stepBeneficiary && m.result.Payment != "forward" {
		m.step++
	}
	m.cursor, m.input, m.problem = 0, "", ""
	switch m.step {
	case stepPayment:
		m.choices, m.inputMode = paymentModes, false
	case stepNetwork:
		m.choices, m.inputMode = networks, false
	case stepMode:
		m.choices, m.inputMode = modes, false
	default:
		m.choices, m.inputMode = nil, true
	}
}

func (m *wizardModel) applyChoice() bool {
	if m.cursor >= len(m.choices) {
		return false
	}
	choice := m.choices[m.cursor]
	switch m.step {
	case stepPayment:
		m.result.Payment = choice
	case stepNetwork:
		m.result.Network = choice
	case stepMode:
		m.result.Testnet = choice == "testnet"
	}
	return true
}

// applyInput validates the typed answer. On failure it records the problem and stays on the step.
func (m *wizardModel) applyInput() bool {
	// Strip whitespace and accidental brackets from paste.
	in := strings.Trim(strings.TrimSpace(m.input), "[]")
	switch m.step {
	case stepName:
		if in == "" {
			m.problem = "name is required"
			return false
		}
		m.result.Name = in
	case stepSymbol:
		m.result.Symbol = strings.ToUpper(in)
	case stepSupply:
		n, err := strconv.ParseUint(in, 10, 64)
		if err != nil || n == 0 {
			m.problem = "max supply must be a positive integer"
			return false
		}
		m.result.MaxSupply = n
	case stepBeneficiary, stepOwner:
		if !common.IsHexAddress(in) {
			m.problem = "not a valid address"
			return false
		}
		addr := common.HexToAddress(in).Hex()
		if m.step == stepOwner {
			m.result.Owner = addr
		} else {
			m.result.Beneficiary = addr
		}
	}
	return true
}

var prompts = map[wizardStep]string{
	stepName:        "Collection name:",
	stepSymbol:      "Token symbol (optional):",
	stepSupply:      "Maximum supply:",
	stepBeneficiary: "Beneficiary address (receives every payment):",
	stepOwner:       "Operator address:",
}

func (m wizardModel) View() string {
	var s string

	switch m.step {
	case stepPayment:
		s = renderMenu("What happens to mint payments?", m.choices, m.cursor)
	case stepNetwork:
		s = renderMenu("Select network:", m.choices, m.cursor)
	case stepMode:
		s = renderMenu("Select network mode:", m.choices, m.cursor)
	case stepDone:
		s = Success("Profile complete!") + "\n"
	default:
		s = StyleTitle.Render(prompts[m.step]) + "\n"
		s += "> " + StyleAddress.Render(m.input) + "█\n"
		if m.problem != "" {
			s += Err(m.problem) + "\n"
		}
	}

	return StyleBorder.Render(s) + "\n"
}

func renderMenu(title string, items []string, cursor int) string {
	s := StyleTitle.Render(title) + "\n\n"
	for i, item := range items {
		icon := "  "
		style := lipgloss.NewStyle().Foreground(ColorValue)
		if i == cursor {
			icon = "▸ "
			style = StyleSelected
		}
		s += icon + style.Render(item) + "\n"
	}
	s += "\n" + StyleMeta.Render("↑/↓ navigate · Enter select · Esc quit")
	return s
}

// RunWizard launches the interactive profile wizard and returns the answers.
func RunWizard() (*WizardResult, error) {
	p := tea.NewProgram(initialWizard())
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("wizard error: %w", err)
	}
	result := final.(wizardModel).result
	return &result, nil
}
