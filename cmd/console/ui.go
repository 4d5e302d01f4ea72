package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/zenquest/pkg/quest"
)

const (
	AgentName       = "Quest"
	PlaceHolderText = "What do you do?"
)

// transcriptEntry is one line group in the chat panel. Quest entries
// may carry a numbered choice menu.
type transcriptEntry struct {
	role    string // "player", "quest", "notice", "error"
	text    string
	choices []string
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	sessionID    string
	status       *quest.Status
	transcript   []transcriptEntry
	lastChoices  []string
	lastScene    string
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	nameInput    textinput.Model
	spin         spinner.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool
	ended        bool

	// Start modal state
	showStartModal bool
	starting       bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int

	// Server-sent events feed
	eventChan chan SSEEvent
	lastEvent string
}

type replyMsg struct {
	reply *quest.Reply
	err   error
}

type questStartedMsg struct {
	reply *quest.Reply
	err   error
}

type statusMsg struct {
	status *quest.Status
	err    error
}

type sseEventMsg SSEEvent

type sseClosedMsg struct{}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
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

	questStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")) // purple

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

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
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	ni := textinput.New()
	ni.Placeholder = "Player"
	ni.CharLimit = 40
	ni.Width = 30
	ni.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:         cfg,
		client:         client,
		textarea:       ta,
		nameInput:      ni,
		spin:           sp,
		chatViewport:   chatVp,
		metaViewport:   metaVp,
		ready:          false,
		showStartModal: true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return textinput.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle start modal first
	if m.showStartModal {
		return m.updateStartModal(msg)
	}

	// Handle quit modal second
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
		// Pass mouse events to the chat viewport for scrolling; the
		// component ignores events outside its bounds.
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.writeChatContent()
		m.writeMetadata()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.ended {
				return m, tea.Quit
			}
			m.showQuitModal = true
			return m, nil

		case tea.KeyCtrlY:
			if m.lastScene == "" {
				return m, nil
			}
			if err := clipboard.WriteAll(m.lastScene); err != nil {
				m.transcript = append(m.transcript, transcriptEntry{role: "error", text: "Copy failed: " + err.Error()})
			} else {
				m.transcript = append(m.transcript, transcriptEntry{role: "notice", text: "Scene copied to clipboard."})
			}
			m.writeChatContent()
			return m, nil

		case tea.KeyEnter:
			if m.loading || m.ended {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			input = m.translateChoice(input)
			m.textarea.Reset()
			m.loading = true
			m.progressTick = 0

			m.transcript = append(m.transcript, transcriptEntry{role: "player", text: input})
			m.writeChatContent()

			return m, tea.Batch(m.sendAction(input), progressTick())
		}

	case replyMsg:
		m = m.applyReply(msg.reply, msg.err)
		return m, m.refreshStatus()

	case statusMsg:
		if msg.err == nil && msg.status != nil {
			m.status = msg.status
			m.writeMetadata()
		}

	case sseEventMsg:
		m.lastEvent = msg.Type
		m.writeMetadata()
		return m, m.waitForEvent()

	case sseClosedMsg:
		m.lastEvent = "stream closed"
		m.writeMetadata()

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	// Update components for non-mouse events
	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

// resize recomputes panel dimensions from the window size.
func (m *ConsoleUI) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
	m.ready = true
}

// applyReply folds a quest reply into the transcript.
func (m ConsoleUI) applyReply(reply *quest.Reply, err error) ConsoleUI {
	m.loading = false
	if err != nil {
		m.err = err
		m.transcript = append(m.transcript, transcriptEntry{role: "error", text: err.Error()})
		m.writeChatContent()
		return m
	}

	m.transcript = append(m.transcript, transcriptEntry{role: "quest", text: reply.Text, choices: reply.Choices})
	m.lastScene = reply.Text
	m.lastChoices = reply.Choices
	for _, notice := range reply.Notices {
		m.transcript = append(m.transcript, transcriptEntry{role: "notice", text: notice})
	}

	if reply.Ended {
		m.ended = true
		m.transcript = append(m.transcript, transcriptEntry{role: "notice", text: endedBanner(reply)})
	}

	m.writeChatContent()
	return m
}

func endedBanner(reply *quest.Reply) string {
	var label string
	switch reply.Outcome {
	case quest.OutcomeVictory:
		label = "Quest complete!"
	case quest.OutcomeDefeat:
		label = "Quest failed."
	default:
		label = "Quest over."
	}
	if reply.Points > 0 {
		return fmt.Sprintf("%s Zen points earned: %d. Press Ctrl+C to exit.", label, reply.Points)
	}
	return label + " Press Ctrl+C to exit."
}

// translateChoice substitutes a bare menu number with its choice text.
func (m *ConsoleUI) translateChoice(input string) string {
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(m.lastChoices) {
		return input
	}
	return m.lastChoices[n-1]
}

// writeChatContent rebuilds the chat panel from the transcript for the
// current viewport width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for panel padding
	if chatWidth < 20 {
		chatWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("ZENQUEST") + "\n\n")
	content.WriteString("Walk the path. Type your actions below, or pick a choice by number.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", chatWidth-6)) + "\n\n")

	for _, entry := range m.transcript {
		switch entry.role {
		case "player":
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(entry.text, chatWidth-6) + "\n\n")
		case "quest":
			content.WriteString(formatQuestText(entry.text, chatWidth) + "\n")
			for i, choice := range entry.choices {
				content.WriteString(choiceStyle.Render(fmt.Sprintf("  %d. %s", i+1, choice)) + "\n")
			}
			content.WriteString("\n")
		case "notice":
			content.WriteString(noticeStyle.Render(wordwrap.String(entry.text, chatWidth)) + "\n\n")
		case "error":
			content.WriteString(errorStyle.Render("Error: "+wordwrap.String(entry.text, chatWidth-7)) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

// formatQuestText prefixes and wraps one narrative block.
func formatQuestText(text string, width int) string {
	prefix := AgentName + ": "
	wrapped := wordwrap.String(text, width-len(prefix))
	return questStyle.Render(prefix) + wrapped
}

// writeMetadata rebuilds the quest state panel.
func (m *ConsoleUI) writeMetadata() {
	width := m.metaViewport.Width
	if width < 16 {
		width = 16
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("QUEST STATE") + "\n\n")

	if m.sessionID != "" {
		content.WriteString("Session:\n")
		content.WriteString(shortID(m.sessionID) + "\n\n")
	}

	if m.status == nil {
		content.WriteString("Awaiting first status...\n\n")
	} else {
		s := m.status
		content.WriteString("Seeker:\n")
		content.WriteString(fmt.Sprintf("%s (%s)\n\n", s.Name, s.Level))

		content.WriteString("Goal:\n")
		content.WriteString(wordwrap.String(s.Goal, width-2) + "\n\n")

		content.WriteString("Progress:\n")
		content.WriteString(fmt.Sprintf("Stage %d of %d (%.0f%%)\n\n", s.Stage, s.TotalStages, s.ProgressPct))

		content.WriteString(fmt.Sprintf("HP: %d/%d\n", s.HP, quest.MaxHP))
		content.WriteString(fmt.Sprintf("Karma: %d/%d\n", s.Karma, quest.MaxKarma))
		content.WriteString(fmt.Sprintf("Zen points: %d\n", s.ZenPoints))
		content.WriteString(fmt.Sprintf("State: %s\n", s.State))
		if s.InCombat {
			content.WriteString(errorStyle.Render("In combat!") + "\n")
		}
		content.WriteString("\n")
	}

	if m.lastEvent != "" {
		content.WriteString("Last event:\n")
		content.WriteString(m.lastEvent + "\n\n")
	}

	content.WriteString("Commands:\n")
	content.WriteString("• /meditate: Rest\n")
	content.WriteString("• /status: Details\n")
	content.WriteString("• /quit: Give up\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• Ctrl+Y: Copy scene\n")
	content.WriteString("• Ctrl+C: Quit\n")

	m.metaViewport.SetContent(content.String())
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.TrimSpace(input))
	m.textarea.Reset()

	switch cmd {
	case "/help":
		helpText := `
Commands:
• /meditate - Pause to restore some HP and karma
• /status - Show a detailed quest summary
• /quit - Abandon the quest
• Ctrl+Y - Copy the last scene to the clipboard
• Ctrl+C - Quit the console

How to play:
• Type your actions and press Enter
• Enter a number to pick one of the offered choices
• Actions have consequences; choose with care
`
		m.transcript = append(m.transcript, transcriptEntry{role: "notice", text: strings.TrimSpace(helpText)})
		m.writeChatContent()
		return m, nil

	case "/status":
		if m.status != nil {
			s := m.status
			statusText := fmt.Sprintf(
				"Seeker %s, level %s. Stage %d of %d (%.0f%% of the way). HP %d, karma %d, %d zen points. State: %s.",
				s.Name, s.Level, s.Stage, s.TotalStages, s.ProgressPct, s.HP, s.Karma, s.ZenPoints, s.State)
			m.transcript = append(m.transcript, transcriptEntry{role: "notice", text: statusText})
			m.writeChatContent()
		}
		return m, m.refreshStatus()

	case "/meditate":
		if m.loading || m.ended {
			return m, nil
		}
		m.loading = true
		m.progressTick = 0
		m.transcript = append(m.transcript, transcriptEntry{role: "player", text: "(meditates)"})
		m.writeChatContent()
		return m, tea.Batch(m.meditate(), progressTick())

	case "/quit":
		if m.ended {
			return m, tea.Quit
		}
		m.loading = true
		return m, m.interrupt()
	}

	m.transcript = append(m.transcript, transcriptEntry{role: "notice", text: "Unknown command. Try /help."})
	m.writeChatContent()
	return m, nil
}

func (m ConsoleUI) sendAction(input string) tea.Cmd {
	return func() tea.Msg {
		reply, err := sendAction(m.client, m.config.APIBaseURL, m.sessionID, input)
		return replyMsg{reply, err}
	}
}

func (m ConsoleUI) meditate() tea.Cmd {
	return func() tea.Msg {
		reply, err := meditate(m.client, m.config.APIBaseURL, m.sessionID)
		return replyMsg{reply, err}
	}
}

func (m ConsoleUI) interrupt() tea.Cmd {
	return func() tea.Msg {
		reply, err := interruptQuest(m.client, m.config.APIBaseURL, m.sessionID)
		return replyMsg{reply, err}
	}
}

func (m ConsoleUI) refreshStatus() tea.Cmd {
	if m.ended {
		return nil
	}
	return func() tea.Msg {
		status, err := getStatus(m.client, m.config.APIBaseURL, m.sessionID)
		return statusMsg{status, err}
	}
}

func (m ConsoleUI) startQuest(name string) tea.Cmd {
	return func() tea.Msg {
		reply, err := startQuest(m.client, m.config.APIBaseURL, name)
		return questStartedMsg{reply, err}
	}
}

// waitForEvent yields the next server-sent event as a message.
func (m ConsoleUI) waitForEvent() tea.Cmd {
	ch := m.eventChan
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return sseClosedMsg{}
		}
		return sseEventMsg(ev)
	}
}

func (m ConsoleUI) updateStartModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		if m.starting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}

	case questStartedMsg:
		m.starting = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		reply := msg.reply
		if reply.Player != nil {
			m.sessionID = reply.Player.ID
		}
		m.transcript = append(m.transcript, transcriptEntry{role: "quest", text: reply.Text, choices: reply.Choices})
		m.lastScene = reply.Text
		m.lastChoices = reply.Choices
		m.showStartModal = false
		m.resize()
		m.writeChatContent()
		m.writeMetadata()
		m.textarea.Focus()

		// Pump quest events into the UI for the rest of the session.
		ch := make(chan SSEEvent, 16)
		m.eventChan = ch
		ctx := context.Background()
		baseURL := m.config.APIBaseURL
		sessionID := m.sessionID
		go func() {
			defer close(ch)
			_ = listenToSSE(ctx, baseURL, sessionID, ch)
		}()

		return m, tea.Batch(textarea.Blink, m.refreshStatus(), m.waitForEvent())

	case tea.KeyMsg:
		if m.starting {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			m.err = nil
			m.starting = true
			return m, tea.Batch(m.startQuest(strings.TrimSpace(m.nameInput.Value())), m.spin.Tick)
		}
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
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

func (m ConsoleUI) renderStartModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.starting {
		content.WriteString(modalTitleStyle.Render("Setting Out..."))
		content.WriteString("\n\n")
		content.WriteString(m.spin.View() + loadingStyle.Render(" A quest is taking shape for you..."))
	} else if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to start quest: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString(promptStyle.Render("Press Enter to retry, or Ctrl+C to exit"))
	} else {
		content.WriteString(modalTitleStyle.Render("Begin Your Zen Quest"))
		content.WriteString("\n\n")
		content.WriteString("What is your name, seeker?\n\n")
		content.WriteString(m.nameInput.View())
		content.WriteString("\n\n")
		content.WriteString(promptStyle.Render("Press Enter to begin, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave Your Quest?"))
	content.WriteString("\n\n")
	content.WriteString("The path will remain, but this session will end.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showStartModal {
		return m.renderStartModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", chatWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
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
			bar.WriteString("▓") // Blinking effect at the progress point
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
