package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/catch-bash/internal/config"
)

// worldRegion is the label for playing on every country.
const worldRegion = "World"

// ChaseSelection holds the user's choices for a new chase.
type ChaseSelection struct {
	Region     string // empty for the whole world
	Difficulty config.DifficultyPreset
}

// SetupModel lets users choose the region and then the difficulty.
type SetupModel struct {
	title        string
	regions      []string
	cursor       int
	diffCursor   int
	inDifficulty bool
	width        int
	height       int
	selection    ChaseSelection
	choosing     bool
	quitting     bool
	back         bool
}

// NewSetupModel creates a setup screen for the given regions. "World" is
// always offered first.
func NewSetupModel(title string, regions []string, width, height int) SetupModel {
	all := append([]string{worldRegion}, regions...)
	return SetupModel{
		title:      title,
		regions:    all,
		diffCursor: presetIndex(config.DifficultyNormal),
		width:      width,
		height:     height,
		choosing:   true,
	}
}

func presetIndex(p config.DifficultyPreset) int {
	for i, q := range config.Presets {
		if q == p {
			return i
		}
	}
	return 0
}

// Init initializes the model.
func (m SetupModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		action := MapKeyToMenuAction(msg)
		if m.inDifficulty {
			return m.handleDifficultyKey(action)
		}
		return m.handleRegionKey(action)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m SetupModel) handleRegionKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.regions)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		m.inDifficulty = true
	case MenuActionBack:
		m.back = true
	}
	return m, nil
}

func (m SetupModel) handleDifficultyKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
	case MenuActionUp:
		if m.diffCursor > 0 {
			m.diffCursor--
		}
	case MenuActionDown:
		if m.diffCursor < len(config.Presets)-1 {
			m.diffCursor++
		}
	case MenuActionSelect:
		region := m.regions[m.cursor]
		if region == worldRegion {
			region = ""
		}
		m.choosing = false
		m.selection = ChaseSelection{
			Region:     region,
			Difficulty: config.Presets[m.diffCursor],
		}
	case MenuActionBack:
		m.inDifficulty = false
	}
	return m, nil
}

var presetBlurbs = map[config.DifficultyPreset]string{
	config.DifficultyEasy:   "Bash rests longer between hops",
	config.DifficultyNormal: "Bash speeds up as it runs",
	config.DifficultyHard:   "Bash starts fast and gets faster",
	config.DifficultyFixed:  "Bash keeps a steady pace",
}

// View renders the region or difficulty list.
func (m SetupModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render(strings.ToUpper(m.title)), m.width))
	b.WriteString("\n\n")

	if m.inDifficulty {
		b.WriteString(centerText(fmt.Sprintf("Region: %s  -  select difficulty:", m.regions[m.cursor]), m.width))
		b.WriteString("\n\n")
		for i, p := range config.Presets {
			line := fmt.Sprintf("  %-7s %s", p, presetBlurbs[p])
			if i == m.diffCursor {
				line = menuActiveStyle.Render("> " + strings.TrimPrefix(line, "  "))
			}
			b.WriteString(centerText(line, m.width))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(centerText("Where is Bash hiding?", m.width))
		b.WriteString("\n\n")
		for i, r := range m.regions {
			line := "  " + r
			if i == m.cursor {
				line = menuActiveStyle.Render("> " + r)
			}
			b.WriteString(centerText(line, m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(centerText(hintStyle.Render("Enter: Select  |  Esc: Back  |  Q: Quit"), m.width))
	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m SetupModel) Selected() *ChaseSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m SetupModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back on the region list.
func (m SetupModel) WantsBack() bool {
	return m.back
}
