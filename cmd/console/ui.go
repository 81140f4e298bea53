package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Ji-Haitang/char-card-1/pkg/gamestate"
	"github.com/Ji-Haitang/char-card-1/pkg/parser"
	"github.com/Ji-Haitang/char-card-1/pkg/reconcile"
	"github.com/Ji-Haitang/char-card-1/pkg/turn"
)

const PlaceHolderText = "Paste a narrator turn here..."

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	gameState    *gamestate.GameState
	pageViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// Current turn being paged through
	pages         []parser.Page
	pageIndex     int
	prose         string
	notifications []string

	showQuitModal bool
	statusLine    string
	progressTick  int
}

type turnResponseMsg struct {
	response *turn.Response
	err      error
}

type gameStateMsg struct {
	gameState *gamestate.GameState
	err       error
}

type progressTickMsg struct{}

var (
	pagePanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	directiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	proseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, gs *gamestate.GameState) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 20000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	pageVp := viewport.New(50, 20)
	pageVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:       cfg,
		client:       client,
		gameState:    gs,
		textarea:     ta,
		pageViewport: pageVp,
		metaViewport: metaVp,
	}
}

func (m *ConsoleUI) writeMetadata() string {
	gs := m.gameState
	var content strings.Builder
	content.WriteString(titleStyle.Render("游戏状态") + "\n\n")

	content.WriteString("Session:\n")
	content.WriteString(gs.ID.String()[:8] + "...\n\n")

	date := gs.Date()
	content.WriteString(fmt.Sprintf("第%d年第%d月第%d周 · %s\n", date.Year, date.Month, date.Week, gs.SeasonName()))
	content.WriteString(fmt.Sprintf("行动点: %d  心情: %d\n", gs.ActionPoints, gs.PlayerMood))
	content.WriteString(fmt.Sprintf("地点: %s\n\n", gamestate.LocationNames[gs.UserLocation]))

	content.WriteString("天赋:\n")
	for _, name := range []string{"根骨", "悟性", "心性", "魅力"} {
		content.WriteString(fmt.Sprintf("• %s %d\n", name, gs.PlayerTalents[name]))
	}
	content.WriteString("\n属性:\n")
	for _, name := range []string{"武学", "学识", "声望", "金钱"} {
		content.WriteString(fmt.Sprintf("• %s %d\n", name, gs.PlayerStats[name]))
	}
	content.WriteString(fmt.Sprintf("\n攻击 %d / 生命 %d\n\n", gs.CombatStats["攻击力"], gs.CombatStats["生命值"]))

	content.WriteString("好感度:\n")
	for _, id := range gamestate.NPCIDs() {
		if !gs.NPCVisibility[id] {
			continue
		}
		content.WriteString(fmt.Sprintf("• %s %d\n", gamestate.NPCs[id].Name, gs.NPCFavorability[id]))
	}

	content.WriteString("\nCommands:\n")
	content.WriteString("• Enter: Send turn\n")
	content.WriteString("• ←/→: Flip pages\n")
	content.WriteString("• Ctrl+Y: Copy session ID\n")
	content.WriteString("• 1/2/3: Event choice\n")
	content.WriteString("• Ctrl+C: Quit\n")

	return content.String()
}

// writePageContent renders the current page (or classic prose) into the
// main viewport.
func (m *ConsoleUI) writePageContent() {
	width := m.pageViewport.Width - 6
	if width < 10 {
		width = 10
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("天山派往事") + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	switch {
	case len(m.pages) > 0:
		page := m.pages[m.pageIndex]
		header := fmt.Sprintf("第 %d/%d 页", m.pageIndex+1, len(m.pages))
		directives := fmt.Sprintf("人物:%s  场景:%s  情绪:%s  CG:%s", page.NPC, page.Scene, page.Emotion, page.CG)
		content.WriteString(directiveStyle.Render(header) + "  " + promptStyle.Render(directives) + "\n\n")
		content.WriteString(proseStyle.Render(wordwrap.String(page.Text, width)) + "\n\n")

	case m.prose != "":
		content.WriteString(proseStyle.Render(wordwrap.String(m.prose, width)) + "\n\n")

	default:
		content.WriteString("Paste a narrator turn below and press Enter.\n\n")
	}

	for _, note := range m.notifications {
		content.WriteString(noteStyle.Render("· "+note) + "\n")
	}

	if m.gameState != nil && !m.gameState.InputEnabled {
		if pending := reconcile.PendingEvent(m.gameState); pending != nil {
			content.WriteString("\n" + directiveStyle.Render("事件: ") + wordwrap.String(pending.Description, width) + "\n")
			for i, opt := range pending.Options() {
				content.WriteString(fmt.Sprintf("  %d. %s (成功率 %s)\n", i+1, opt.Description, opt.SuccessRate))
			}
			content.WriteString(promptStyle.Render("Press 1/2/3 to choose") + "\n")
		}
	}

	if m.err != nil {
		content.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}
	if m.statusLine != "" {
		content.WriteString("\n" + promptStyle.Render(m.statusLine) + "\n")
	}
	if m.loading {
		content.WriteString("\n" + m.renderProgressBar() + "\n")
	}

	m.pageViewport.SetContent(content.String())
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.pageViewport, vpCmd = m.pageViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		pageWidth := int(float64(m.width)*0.72) - 4
		metaWidth := m.width - pageWidth - 6

		m.pageViewport.Width = pageWidth - 2
		m.pageViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(pageWidth - 4)

		m.ready = true
		m.writePageContent()
		m.metaViewport.SetContent(m.writeMetadata())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil

		case tea.KeyLeft:
			if m.pageIndex > 0 {
				m.pageIndex--
				m.writePageContent()
			}
			return m, nil

		case tea.KeyRight:
			if m.pageIndex < len(m.pages)-1 {
				m.pageIndex++
				m.writePageContent()
			}
			return m, nil

		case tea.KeyCtrlY:
			if err := clipboard.WriteAll(m.gameState.ID.String()); err != nil {
				m.statusLine = "clipboard unavailable"
			} else {
				m.statusLine = "session ID copied"
			}
			m.writePageContent()
			return m, nil

		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			// A pending event locks free input until a choice resolves it
			if !m.gameState.InputEnabled {
				m.statusLine = "等待事件选择 (1/2/3)"
				m.writePageContent()
				return m, nil
			}

			m.textarea.Reset()
			m.loading = true
			m.err = nil
			m.statusLine = ""
			m.progressTick = 0
			m.writePageContent()
			return m, tea.Batch(m.sendTurn(input), progressTick())
		}

		if !m.gameState.InputEnabled && !m.loading {
			switch msg.String() {
			case "1", "2", "3":
				option := int(msg.String()[0] - '0')
				m.loading = true
				m.err = nil
				m.progressTick = 0
				m.writePageContent()
				return m, tea.Batch(m.sendChoice(option), progressTick())
			}
		}

	case turnResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.pages = msg.response.Pages
			m.pageIndex = 0
			m.prose = msg.response.Prose
			m.notifications = msg.response.Notifications
			if msg.response.UserMessage != "" {
				m.statusLine = msg.response.UserMessage
			}
			if msg.response.GameState != nil {
				m.gameState = msg.response.GameState
				m.metaViewport.SetContent(m.writeMetadata())
			}
		}
		m.writePageContent()
		return m, m.refreshGameState()

	case gameStateMsg:
		if msg.err == nil && msg.gameState != nil {
			m.gameState = msg.gameState
			m.metaViewport.SetContent(m.writeMetadata())
		}

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writePageContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.pageViewport, vpCmd = m.pageViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m ConsoleUI) sendTurn(raw string) tea.Cmd {
	return func() tea.Msg {
		resp, err := postTurn(m.client, m.config.APIBaseURL, &turn.Request{
			GameStateID: m.gameState.ID,
			Raw:         raw,
		})
		return turnResponseMsg{resp, err}
	}
}

func (m ConsoleUI) sendChoice(option int) tea.Cmd {
	return func() tea.Msg {
		resp, err := postChoice(m.client, m.config.APIBaseURL, &turn.ChoiceRequest{
			GameStateID: m.gameState.ID,
			Option:      option,
		})
		return turnResponseMsg{resp, err}
	}
}

func (m ConsoleUI) refreshGameState() tea.Cmd {
	return func() tea.Msg {
		gs, err := getGameState(m.client, m.config.APIBaseURL, m.gameState.ID)
		return gameStateMsg{gs, err}
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Leave this session? The game state stays saved on the server.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	pageWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - pageWidth - 6

	pagePanel := pagePanelStyle.Width(pageWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.pageViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", pageWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, pagePanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.pageViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
