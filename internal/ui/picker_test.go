package ui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickerStartsOnCurrent(t *testing.T) {
	m := newPicker("Wallets", []PickerItem{
		{Label: "a", Value: "a"},
		{Label: "b", Value: "b", Current: true},
	})
	assert.Equal(t, 1, m.cursor)
	assert.Contains(t, m.View(), "•")
}

func TestPickerSelects(t *testing.T) {
	m := newPicker("Profiles", []PickerItem{{Label: "x", Value: "vx"}, {Label: "y", Value: "vy"}})
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})

	pm := next.(pickerModel)
	require.NotNil(t, pm.selected)
	assert.Equal(t, "vy", pm.selected.Value)
	assert.NotNil(t, cmd)
}

func TestPickItemEmpty(t *testing.T) {
	_, err := PickItem("none", nil)
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// ConfirmFrom
// ---------------------------------------------------------------------------

func TestConfirmFrom(t *testing.T) {
	tests := map[string]bool{
		"y\n":   true,
		"YES\n": true,
		"n\n":   false,
		"\n":    false,
		"":      false,
	}
	for in, want := range tests {
		var out bytes.Buffer
		assert.Equal(t, want, ConfirmFrom(strings.NewReader(in), &out, "remove?"), "%q", in)
		assert.Contains(t, out.String(), "[y/N]")
	}
}
