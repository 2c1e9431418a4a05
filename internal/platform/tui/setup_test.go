package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/catch-bash/internal/config"
)

func TestMapKeyToMenuAction(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")}, MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeySpace}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, MenuActionQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, MenuActionQuit},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, MenuActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			require.Equal(t, tt.want, MapKeyToMenuAction(tt.msg))
		})
	}
}

func sendSetup(m SetupModel, msgs ...tea.Msg) SetupModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(SetupModel)
	}
	return m
}

func TestSetupWorldIsFirst(t *testing.T) {
	m := NewSetupModel("Catch Bash", []string{"Africa", "Europe"}, 80, 24)
	require.Nil(t, m.Selected())

	m = sendSetup(m, enterKey, enterKey)
	sel := m.Selected()
	require.NotNil(t, sel)
	require.Empty(t, sel.Region)
	require.Equal(t, config.DifficultyNormal, sel.Difficulty)
}

func TestSetupRegionAndDifficulty(t *testing.T) {
	m := NewSetupModel("Catch Bash", []string{"Africa", "Europe"}, 80, 24)

	m = sendSetup(m, downKey, downKey, enterKey)
	require.Contains(t, m.View(), "Region: Europe")

	m = sendSetup(m, tea.KeyMsg{Type: tea.KeyUp}, enterKey)
	sel := m.Selected()
	require.NotNil(t, sel)
	require.Equal(t, "Europe", sel.Region)
	require.Equal(t, config.Presets[presetIndex(config.DifficultyNormal)-1], sel.Difficulty)
}

func TestSetupBack(t *testing.T) {
	m := NewSetupModel("Catch Bash", nil, 80, 24)

	m = sendSetup(m, enterKey, escKey)
	require.False(t, m.WantsBack(), "esc on the difficulty list returns to regions")
	require.Contains(t, m.View(), "Where is Bash hiding?")

	m = sendSetup(m, escKey)
	require.True(t, m.WantsBack())
	require.Nil(t, m.Selected())
}
