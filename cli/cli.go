// cli/cli.go
// Package cli provides the interactive terminal interface for the bookshelf
// application.
package cli

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/bookshelf/internal/api"
	"github.com/mwiater/bookshelf/internal/api/archive"
	"github.com/mwiater/bookshelf/internal/api/library"
	"github.com/mwiater/bookshelf/internal/appconfig"
	"github.com/mwiater/bookshelf/internal/logging"
	"github.com/mwiater/bookshelf/internal/query"
	"github.com/mwiater/bookshelf/internal/session"
)

// Config represents the shared application configuration for the CLI.
type Config = appconfig.Config

// viewState represents the current view or screen of the application.
type viewState int

const (
	// viewChat is the state where the user is submitting queries.
	viewChat viewState = iota
	// viewConfirm is the state where a pending deletion awaits a y/n answer.
	viewConfirm
)

// transcriptEntry is one exchange in the session transcript.
type transcriptEntry struct {
	prompt  string
	body    string
	failed  bool
	elapsed time.Duration
}

// model is the main application model for the Bubble Tea UI.
type model struct {
	ctx              context.Context
	config           *Config
	qc               *query.Client
	userID           string
	state            viewState
	isLoading        bool
	err              error
	textArea         textarea.Model
	viewport         viewport.Model
	spinner          spinner.Model
	transcript       []transcriptEntry
	pendingPrompt    string
	pendingConfirm   *confirmRequest
	archiveHealth    healthStatus
	indexedVectors   int
	width, height    int
	program          *tea.Program
	requestStartTime time.Time
}

// confirmRequest carries a deletion awaiting user approval. The query
// goroutine blocks on resp until the UI answers.
type confirmRequest struct {
	book api.Book
	resp chan bool
}

// queryDoneMsg is a message sent when a query has settled into an outcome.
type queryDoneMsg struct{ outcome query.Outcome }

// confirmRequestMsg is a message sent when a deletion needs confirmation.
type confirmRequestMsg struct{ req *confirmRequest }

// healthMsg is a message sent when the archive health probe returns.
type healthMsg struct {
	status  healthStatus
	vectors int
}

// tickMsg is a message sent at regular intervals, used for animations and timed updates.
type tickMsg time.Time

// initialModel creates and initializes a new model with default values.
func initialModel(ctx context.Context, cfg *Config, qc *query.Client, userID string) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ta := textarea.New()
	ta.Placeholder = "Ask about your books..."
	ta.Focus()
	ta.Prompt = "Ask Anything: "
	ta.ShowLineNumbers = false
	ta.CharLimit = -1
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetEnabled(false)

	vp := viewport.New(100, 5)

	return &model{
		ctx:           ctx,
		config:        cfg,
		qc:            qc,
		userID:        userID,
		state:         viewChat,
		spinner:       s,
		textArea:      ta,
		viewport:      vp,
		archiveHealth: healthUnknown,
	}
}

// runQueryCmd creates a Bubble Tea command that executes one query off the
// UI goroutine and reports the outcome back to the program.
func runQueryCmd(ctx context.Context, p *tea.Program, qc *query.Client, q query.Query) tea.Cmd {
	return func() tea.Msg {
		log.Printf("[bookshelf -> library] Outgoing query: '%s'", q.Text)
		go func() {
			outcome := qc.Execute(ctx, q)
			p.Send(queryDoneMsg{outcome: outcome})
		}()
		return nil
	}
}

// tickCmd creates a Bubble Tea command that sends a tickMsg at a regular interval.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init initializes the Bubble Tea model and returns a command to start the spinner animation.
func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update is the central update function for the Bubble Tea model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == viewConfirm {
			return m.updateConfirm(msg)
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textArea.SetWidth(msg.Width - 3)
		headerHeight := 3
		footerHeight := 4
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerHeight - footerHeight

	case confirmRequestMsg:
		m.state = viewConfirm
		m.pendingConfirm = msg.req
		return m, nil

	case queryDoneMsg:
		m.isLoading = false
		m.transcript = append(m.transcript, transcriptEntry{
			prompt:  m.pendingPrompt,
			body:    renderOutcome(msg.outcome),
			failed:  msg.outcome.Kind == query.KindError,
			elapsed: time.Since(m.requestStartTime),
		})
		m.pendingPrompt = ""
		m.textArea.Focus()
		m.viewport.GotoBottom()
		return m, nil

	case healthMsg:
		m.archiveHealth = msg.status
		m.indexedVectors = msg.vectors
		return m, nil

	case tickMsg:
		if m.isLoading {
			return m, tickCmd()
		}
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	m.textArea, cmd = m.textArea.Update(msg)
	cmds = append(cmds, cmd)

	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" && !m.isLoading {
		userInput := strings.TrimSpace(m.textArea.Value())
		if userInput != "" {
			m.pendingPrompt = userInput
			m.requestStartTime = time.Now()
			m.textArea.Reset()
			m.isLoading = true
			m.err = nil

			q := query.Query{Text: userInput, UserID: m.userID}
			cmds = append(cmds, m.spinner.Tick, runQueryCmd(m.ctx, m.program, m.qc, q), tickCmd())
		}
	}

	if m.isLoading {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// updateConfirm handles keys while a deletion awaits approval. Any key other
// than y/Y declines.
func (m *model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pendingConfirm == nil {
		m.state = viewChat
		return m, nil
	}
	approved := msg.String() == "y" || msg.String() == "Y"
	m.pendingConfirm.resp <- approved
	m.pendingConfirm = nil
	m.state = viewChat
	return m, nil
}

// View renders the application's UI based on the current state of the model.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	if m.err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	return m.chatView()
}

// chatView renders the transcript, the pending confirmation prompt if any,
// and the input text area.
func (m *model) chatView() string {
	var builder strings.Builder

	headerStyle := lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	labelStyle := lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("255")).Padding(0, 1)

	libraryInfo := fmt.Sprintf("Library: %s", m.config.LibraryBaseURL())
	healthBadge := renderHealthBadge(m.archiveHealth, m.indexedVectors)

	status := lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render("bookshelf"),
		headerStyle.Render(libraryInfo),
		healthBadge,
	)
	help := lipgloss.NewStyle().Render(" (esc to quit)")
	builder.WriteString(status + help + "\n\n")

	var historyBuilder strings.Builder
	userStyle := lipgloss.NewStyle().Bold(true)
	assistantStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	failedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	for _, entry := range m.transcript {
		role := userStyle.Render("You: ")
		wrappedPrompt := lipgloss.NewStyle().Width(m.width - lipgloss.Width(role) - 2).Render(entry.prompt)
		historyBuilder.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, role, wrappedPrompt) + "\n")

		role = assistantStyle.Render("Shelf: ")
		body := entry.body
		if entry.failed {
			body = failedStyle.Render(body)
		}
		wrappedBody := lipgloss.NewStyle().Width(m.width - lipgloss.Width(role) - 2).Render(body)
		historyBuilder.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, role, wrappedBody) + "\n")
	}

	m.viewport.SetContent(historyBuilder.String())
	builder.WriteString(m.viewport.View())

	if m.state == viewConfirm && m.pendingConfirm != nil {
		promptStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
		book := m.pendingConfirm.book
		builder.WriteString("\n" + promptStyle.Render(fmt.Sprintf("Delete %q by %s? [y/N]", book.Title, book.Author)))
		return builder.String()
	}

	if m.isLoading {
		timer := fmt.Sprintf("%.1f", time.Since(m.requestStartTime).Seconds())
		builder.WriteString("\n" + m.spinner.View() + fmt.Sprintf(" Checking the shelf... %ss", timer))
	} else {
		builder.WriteString("\n" + m.textArea.View())
	}

	return builder.String()
}

// renderOutcome formats a query outcome as a transcript block.
func renderOutcome(outcome query.Outcome) string {
	var builder strings.Builder

	switch outcome.Kind {
	case query.KindAnswer:
		builder.WriteString(outcome.Result.Answer)
		if len(outcome.Result.Snippets) > 0 {
			builder.WriteString("\n\nContext:")
			for _, snippet := range outcome.Result.Snippets {
				builder.WriteString("\n  " + snippet)
			}
		}
		if len(outcome.Result.Sources) > 0 {
			builder.WriteString("\n\nSources:")
			for _, source := range outcome.Result.Sources {
				builder.WriteString("\n  - " + source)
			}
		}
	default:
		builder.WriteString(outcome.Message)
	}

	return builder.String()
}

// StartGUI initializes and runs the interactive query session.
func StartGUI(ctx context.Context, cfg *appconfig.Config, cancel context.CancelFunc) {
	if cfg == nil {
		log.Fatalf("Failed to start: configuration is not loaded")
	}

	f, err := tea.LogToFile(cfg.LogFilePath(), "debug")
	if err != nil {
		log.Fatalf("could not open log file: %v", err)
	}
	defer f.Close()
	defer func() {
		log.Println("Cancelling all running requests...")
		cancel()
	}()

	libClient := library.New(cfg)
	arcClient := archive.New(cfg)

	var userID string
	if sess, err := session.NewStore(cfg.SessionFilePath()).Load(); err == nil {
		userID = sess.UserID
	}

	var p *tea.Program
	confirm := func(book api.Book) bool {
		req := &confirmRequest{book: book, resp: make(chan bool, 1)}
		p.Send(confirmRequestMsg{req: req})
		select {
		case approved := <-req.resp:
			return approved
		case <-ctx.Done():
			return false
		}
	}

	qc := query.New(libClient, libClient,
		query.WithResultCount(cfg.ResultCount()),
		query.WithConfirm(confirm),
	)

	m := initialModel(ctx, cfg, qc, userID)

	p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	m.program = p

	go func() {
		health, err := arcClient.Health(ctx)
		if err != nil {
			logging.LogEvent("archive health probe failed: %v", err)
			p.Send(healthMsg{status: healthDown})
			return
		}
		p.Send(healthMsg{status: deriveHealthStatus(health), vectors: health.IndexedVectors})
	}()

	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
