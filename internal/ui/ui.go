package ui

import (
	"context"
	"fmt"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/models"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/schedule"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/shared"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/tasks"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/tracking"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PendingListView ViewState = iota
	ConfirmView
	UploadView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.UploadEngine
	store        *tracking.Store
	config       *shared.Config
	plan         *schedule.Plan
	platforms    []string
	width        int
	height       int
	pendingList  list.Model
	pending      []models.VideoAsset
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.RunResult
	err          error
	help         help.Model
	keys         keyMap
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	yes     key.Binding
	no      key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.yes, k.no},
		{k.restart, k.quit},
	}
}

var _ list.Item = videoItem{}

// videoItem wraps [models.VideoAsset] to implement [list.Item].
type videoItem struct {
	asset     models.VideoAsset
	publishAt string
}

func (i videoItem) FilterValue() string { return i.asset.Filename }
func (i videoItem) Title() string       { return i.asset.Filename }
func (i videoItem) Description() string {
	return fmt.Sprintf("%s • publishes %s", shared.FormatByteSize(i.asset.SizeBytes), i.publishAt)
}

type pendingFetchedMsg struct {
	pending []models.VideoAsset
	err     error
}

type progressUpdateMsg tasks.ProgressUpdate

type runCompleteMsg struct {
	result *tasks.RunResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *tasks.UploadEngine, store *tracking.Store, config *shared.Config, plan *schedule.Plan, platforms []string) *Model {
	return &Model{
		ctx:       ctx,
		view:      PendingListView,
		engine:    engine,
		store:     store,
		config:    config,
		plan:      plan,
		platforms: platforms,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by scanning the clips directory.
func (m *Model) Init() tea.Cmd {
	return m.fetchPending()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.pendingList.Width() == 0 {
			m.pendingList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PendingListView:
			return m.handlePendingListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case pendingFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.pending = msg.pending
		items := make([]list.Item, len(msg.pending))
		for i, asset := range msg.pending {
			items[i] = videoItem{
				asset:     asset,
				publishAt: m.plan.PublishTime(i).Format("2006-01-02 15:04"),
			}
		}
		m.pendingList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.pendingList.Title = "Pending Videos"
		m.pendingList.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PendingListView:
		return m.renderPendingList()
	case ConfirmView:
		return m.renderConfirm()
	case UploadView:
		return m.renderUpload()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePendingListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if len(m.pending) > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.pendingList, cmd = m.pendingList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = PendingListView
		return m, nil
	case "y":
		m.view = UploadView
		return m, m.startRun()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = PendingListView
		m.result = nil
		m.err = nil
		return m, m.fetchPending()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == PendingListView {
		m.pendingList, cmd = m.pendingList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPending() tea.Cmd {
	return func() tea.Msg {
		pending, err := m.store.PendingVideos(m.config.Paths().ClipsDir, m.platforms, m.config.VideoExtensions)
		return pendingFetchedMsg{pending: pending, err: err}
	}
}

func (m *Model) startRun() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progressChan := m.progressChan

	go func() {
		result, err := m.engine.Run(m.ctx, tasks.RunOpts{Plan: m.plan}, progressChan)
		m.result = result
		m.err = err
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return runCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return runCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderPendingList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.pendingList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	var total int64
	for _, asset := range m.pending {
		total += asset.SizeBytes
	}

	title := styles.title.Render(fmt.Sprintf("Upload %d video(s) to %d platform(s)?", len(m.pending), len(m.platforms)))
	info := fmt.Sprintf("\nVideos: %d\nTotal size: %s\n", len(m.pending), shared.FormatByteSize(total))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderUpload() string {
	title := styles.title.Render("Uploading Videos")

	var phase string
	switch m.progress.Phase {
	case tasks.Authenticate:
		phase = "Authenticating..."
	case tasks.UploadStart, tasks.UploadDone:
		phase = fmt.Sprintf("Uploading (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.UploadChunk:
		if cp, ok := m.progress.Data.(tasks.ChunkProgress); ok && cp.Total > 0 {
			phase = fmt.Sprintf("Uploading (%d/%d) - %.0f%%", m.progress.Step, m.progress.Total, float64(cp.Sent)/float64(cp.Total)*100)
		} else {
			phase = fmt.Sprintf("Uploading (%d/%d)", m.progress.Step, m.progress.Total)
		}
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Run failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render("✓ Run Complete!")
	info := fmt.Sprintf(
		"\nUploaded: %d\nFailed: %d\nSkipped: %d\nMoved to sent: %d\nTransferred: %s in %s",
		m.result.Uploaded,
		m.result.Failed,
		m.result.Skipped,
		m.result.Relocated,
		shared.FormatByteSize(m.result.TotalBytes),
		shared.FormatDuration(m.result.Elapsed),
	)

	var failed string
	if m.result.Failed > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("%d upload(s) failed, see the history log for details", m.result.Failed)))
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
