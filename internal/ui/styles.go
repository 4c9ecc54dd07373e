package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/holiman/uint256"

	"github.com/Mohsinsiddi/mintgate/internal/chain"
)

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // green: minted, success
	ColorWarning   = lipgloss.Color("#FFB800") // yellow: warning
	ColorError     = lipgloss.Color("#FF4444") // red: rejected, danger
	ColorAddress   = lipgloss.Color("#00B4D8") // cyan: addresses, hashes
	ColorValue     = lipgloss.Color("#FFFFFF") // white bold: amounts
	ColorMeta      = lipgloss.Color("#555555") // dim gray: metadata
	ColorBorder    = lipgloss.Color("#1E3A5F") // dark blue: UI chrome
	ColorChannel   = lipgloss.Color("#9B5DE5") // purple: channel and chain names
	ColorHighlight = lipgloss.Color("#F15BB5") // pink: selected rows
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleChannel = lipgloss.NewStyle().Foreground(ColorChannel).Bold(true)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleSelected = lipgloss.NewStyle().
			Background(ColorHighlight).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorChannel).
			Bold(true).
			MarginBottom(1)
)

// Version is printed in the banner and by --version.
const Version = "0.3.0"

// Banner returns the mintgate banner.
func Banner() string {
	art := `
  ┌┬┐┬┌┐┌┌┬┐┌─┐┌─┐┌┬┐┌─┐
  │││││││ │ │ ┬├─┤ │ ├┤
  ┴ ┴┴┘└┘ ┴ └─┘┴ ┴ ┴ └─┘`

	tagline := StyleMeta.Render("  NFT issuance gating  ·  v" + Version)
	return StyleChannel.Render(art) + "\n" + tagline + "\n"
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Info formats a neutral note.
func Info(msg string) string { return StyleAddress.Render("ℹ " + msg) }

// Hint formats a suggestion, usually the next command to run.
func Hint(msg string) string { return StyleMeta.Render("→ " + msg) }

// Addr formats an address.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// Channel formats a channel or chain name.
func Channel(c string) string { return StyleChannel.Render(c) }

// Ether renders a wei amount as "<n> ETH".
func Ether(wei *uint256.Int) string {
	if wei == nil {
		return "0 ETH"
	}
	s := chain.WeiToETH(wei)
	if s == "" {
		s = "0"
	}
	return s + " ETH"
}

// TruncateAddr shortens an address for display: 0x1234…5678.
func TruncateAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
