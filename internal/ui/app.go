package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/wayfarer/internal/destination"
	"github.com/five82/wayfarer/internal/enrich"
	"github.com/five82/wayfarer/internal/prefs"
	"github.com/five82/wayfarer/internal/state"
	"github.com/five82/wayfarer/internal/storage"
)

// view is the active screen.
type view int

const (
	viewList view = iota
	viewDetail
	viewForm
	viewLogs
)

// Options configures the UI.
type Options struct {
	Context context.Context
	Store   *state.Store
	// Lookup enables geocoding, image and weather lookups. Leave nil to
	// disable them.
	Lookup enrich.Lookup
	// Prefs is where theme and filter changes are saved. Nil disables saving.
	Prefs  storage.KV
	Theme  string
	Filter string
	Logger *slog.Logger
	// LogPath is the JSON log shown by the log view.
	LogPath string
	Now     func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx     context.Context
	store   *state.Store
	lookup  enrich.Lookup
	prefsKV storage.KV
	log     *slog.Logger
	logPath string
	now     func() time.Time
	keys    keyMap

	// Store subscription
	changes     <-chan struct{}
	unsubscribe func()

	// UI state
	theme    Theme
	current  view
	width    int
	height   int
	ready    bool
	showHelp bool
	spinner  spinner.Model
	status   string

	// Data state
	snapshot state.Snapshot

	// List state
	filter        string
	selectedRow   int
	selectedID    string
	pendingDelete string

	// Detail state
	detail detailState

	// Form state
	form       formState
	formReturn view

	// Log view state
	logs logsState
}

// New creates a new Bubble Tea model subscribed to opts.Store.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	theme := GetTheme(opts.Theme)
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))

	filter := opts.Filter
	switch filter {
	case prefs.FilterAll, prefs.FilterPlanned, prefs.FilterVisited:
	default:
		filter = prefs.FilterAll
	}

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		lookup:      opts.Lookup,
		prefsKV:     opts.Prefs,
		log:         log,
		logPath:     opts.LogPath,
		now:         now,
		keys:        defaultKeyMap(),
		theme:       theme,
		spinner:     sp,
		filter:      filter,
		unsubscribe: func() {},
		snapshot:    state.Snapshot{Loading: true},
	}
	if opts.Store != nil {
		m.changes, m.unsubscribe = opts.Store.Subscribe()
		m.snapshot = opts.Store.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		tickCmd(clockTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store), waitForChange(m.changes))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initDetailViewport()
		}
		m.ready = true
		m.updateDetailViewport()
		m.updateLogsViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.updateDetailViewport()
		return m, cmd

	case tickMsg:
		m.updateDetailViewport()
		return m, tickCmd(clockTick)

	case changedMsg:
		return m, tea.Batch(fetchSnapshotCmd(m.store), waitForChange(m.changes))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.reselect()
		m.updateDetailViewport()
		return m, nil

	case mutationMsg:
		return m.handleMutation(msg)

	case lookupMsg:
		if msg.err != nil {
			m.log.Debug("destination lookup failed", "id", msg.id, "error", msg.err)
			return m, nil
		}
		return m, fillCmd(m.ctx, m.store, msg)

	case weatherMsg:
		if msg.id != m.detail.id {
			return m, nil
		}
		m.detail.weatherLoading = false
		if msg.err != nil {
			m.log.Debug("weather lookup failed", "id", msg.id, "error", msg.err)
			m.detail.weatherErr = msg.err
		} else {
			cond := msg.cond
			m.detail.weather = &cond
		}
		m.updateDetailViewport()
		return m, nil

	case logsMsg:
		m.logs.entries = msg.entries
		m.logs.err = msg.err
		m.updateLogsViewport()
		m.logs.viewport.GotoBottom()
		return m, nil

	case prefsSavedMsg:
		if msg.err != nil {
			m.log.Warn("save preferences failed", "error", msg.err)
		}
		return m, nil
	}

	if m.current == viewForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(fitHeight(m.renderContent(), m.contentHeight()))
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.current {
	case viewDetail:
		return m.renderDetail()
	case viewForm:
		return m.renderForm()
	case viewLogs:
		return m.renderLogs()
	}
	if m.snapshot.Loading {
		return m.renderTitledBox(m.spinner.View()+" Loading your bucket list…", m.width)
	}
	return m.renderList(m.contentHeight())
}

func (m Model) busy() bool {
	return m.snapshot.Loading || m.detail.weatherLoading
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	m.status = ""

	if m.current == viewForm {
		return m.handleFormKey(msg)
	}

	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.pendingDelete != "" {
		id := m.pendingDelete
		m.pendingDelete = ""
		if key.Matches(msg, m.keys.ConfirmDelete) {
			return m, deleteCmd(m.ctx, m.store, id)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
		m.updateDetailViewport()
		m.updateLogsViewport()
		return m, m.savePrefs()
	}

	switch m.current {
	case viewLogs:
		return m.handleLogsKey(msg)
	case viewDetail:
		if key.Matches(msg, m.keys.Logs) {
			return m.openLogs()
		}
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

// handleListKey processes keyboard input for the list view.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Add):
		return m.openForm(newForm(m.theme), viewList)

	case key.Matches(msg, m.keys.CycleFilter):
		m.filter = nextFilter(m.filter)
		m.reselect()
		return m, m.savePrefs()

	case key.Matches(msg, m.keys.Logs):
		return m.openLogs()
	}

	selected, ok := m.selectedItem()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(m.selectedRow + 1)
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(m.selectedRow - 1)
	case key.Matches(msg, m.keys.Top):
		m.moveSelection(0)
	case key.Matches(msg, m.keys.Bottom):
		m.moveSelection(len(m.visibleItems()) - 1)
	case key.Matches(msg, m.keys.ToggleVisited):
		return m, toggleCmd(m.ctx, m.store, selected.ID)
	case key.Matches(msg, m.keys.Delete):
		m.pendingDelete = selected.ID
	case key.Matches(msg, m.keys.Open):
		cmd := m.openDetail(selected)
		return m, cmd
	case key.Matches(msg, m.keys.Edit):
		return m.openForm(newEditForm(m.theme, selected), viewList)
	}
	return m, nil
}

// handleDetailKey processes keyboard input for the detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.current = viewList
		return m, nil
	case key.Matches(msg, m.keys.ToggleVisited):
		return m, toggleCmd(m.ctx, m.store, m.detail.id)
	case key.Matches(msg, m.keys.Edit):
		if d, ok := m.detailItem(); ok {
			return m.openForm(newEditForm(m.theme, d), viewDetail)
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.detail.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.detail.viewport.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.detail.viewport, cmd = m.detail.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) openForm(f formState, from view) (tea.Model, tea.Cmd) {
	m.form = f
	m.formReturn = from
	m.current = viewForm
	return m, textinput.Blink
}

func (m Model) closeForm() Model {
	m.current = m.formReturn
	m.form = formState{}
	if m.current == viewDetail {
		if _, ok := m.detailItem(); !ok {
			m.current = viewList
		}
	}
	m.updateDetailViewport()
	return m
}

// handleFormKey processes keyboard input while the form is open.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.form.saving {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		return m.closeForm(), nil
	case key.Matches(msg, m.keys.Submit):
		return m.submitForm()
	case msg.String() == "enter":
		if m.form.onLastField() {
			return m.submitForm()
		}
		m.form.setFocus(m.form.focus + 1)
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		m.form.setFocus(m.form.focus + 1)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.form.setFocus(m.form.focus - 1)
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	in, errs := m.form.parse()
	if len(errs) > 0 {
		m.form.errs = errs
		m.form.err = ""
		for i, f := range formFields {
			if _, bad := errs[f.key]; bad {
				m.form.setFocus(i)
				break
			}
		}
		return m, nil
	}

	m.form.errs = map[string]string{}
	m.form.err = ""
	m.form.saving = true
	if m.form.editingID == "" {
		return m, addCmd(m.ctx, m.store, in)
	}
	return m, updateCmd(m.ctx, m.store, m.form.editingID, patchFromInput(in))
}

// handleMutation applies the outcome of a store call.
func (m Model) handleMutation(msg mutationMsg) (tea.Model, tea.Cmd) {
	persistFailed := errors.Is(msg.err, state.ErrPersistence)

	if msg.err != nil && !persistFailed {
		switch {
		case errors.Is(msg.err, destination.ErrNotFound):
			// The destination vanished underneath us; nothing to show.
			if msg.op == opAdd || msg.op == opUpdate {
				return m.closeForm(), nil
			}
			return m, nil
		case msg.op == opAdd || msg.op == opUpdate:
			m.form.saving = false
			m.form.setError(msg.err)
			return m, nil
		case errors.Is(msg.err, state.ErrNotReady):
			m.status = "Still loading, try again in a moment"
			return m, nil
		case errors.Is(msg.err, state.ErrReadOnly):
			m.status = "Saved list could not be read, changes are disabled"
			return m, nil
		default:
			m.log.Warn("destination change failed", "op", msg.op.String(), "error", msg.err)
			m.status = msg.err.Error()
			return m, nil
		}
	}

	var cmds []tea.Cmd
	switch msg.op {
	case opAdd:
		m = m.closeForm()
		m.selectedID = msg.dest.ID
		cmds = append(cmds, enrichCmds(m.ctx, m.lookup, msg.dest)...)
	case opUpdate:
		m = m.closeForm()
	case opDelete:
		if m.current == viewDetail && m.detail.id == msg.dest.ID {
			m.current = viewList
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) savePrefs() tea.Cmd {
	if m.prefsKV == nil {
		return nil
	}
	return savePrefsCmd(m.ctx, m.prefsKV, prefs.Prefs{Theme: m.theme.Name, Filter: m.filter})
}

// Messages

type tickMsg time.Time

type changedMsg struct{}

type snapshotMsg state.Snapshot

type prefsSavedMsg struct{ err error }

type mutationOp int

const (
	opAdd mutationOp = iota
	opUpdate
	opToggle
	opDelete
	opEnrich
)

func (o mutationOp) String() string {
	switch o {
	case opAdd:
		return "add"
	case opUpdate:
		return "update"
	case opToggle:
		return "toggle"
	case opDelete:
		return "delete"
	case opEnrich:
		return "enrich"
	default:
		return "unknown"
	}
}

type mutationMsg struct {
	op   mutationOp
	dest destination.Destination
	err  error
}

// Commands

const clockTick = 15 * time.Second

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// waitForChange blocks until the store signals a change. It returns nil
// once the subscription is cancelled.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func addCmd(ctx context.Context, store *state.Store, in destination.Input) tea.Cmd {
	return func() tea.Msg {
		d, err := store.Add(ctx, in)
		return mutationMsg{op: opAdd, dest: d, err: err}
	}
}

func updateCmd(ctx context.Context, store *state.Store, id string, patch destination.Patch) tea.Cmd {
	return func() tea.Msg {
		d, err := store.Update(ctx, id, patch)
		return mutationMsg{op: opUpdate, dest: d, err: err}
	}
}

func toggleCmd(ctx context.Context, store *state.Store, id string) tea.Cmd {
	return func() tea.Msg {
		d, err := store.ToggleVisited(ctx, id)
		return mutationMsg{op: opToggle, dest: d, err: err}
	}
}

func deleteCmd(ctx context.Context, store *state.Store, id string) tea.Cmd {
	return func() tea.Msg {
		err := store.Delete(ctx, id)
		return mutationMsg{op: opDelete, dest: destination.Destination{ID: id}, err: err}
	}
}

// fillCmd writes a lookup result into fields the destination still lacks.
// The patch is computed from the stored value under the store's lock.
func fillCmd(ctx context.Context, store *state.Store, res lookupMsg) tea.Cmd {
	return func() tea.Msg {
		d, changed, err := store.UpdateWith(ctx, res.id, func(current destination.Destination) (destination.Patch, bool) {
			return fillPatch(current, res)
		})
		if err == nil && !changed {
			return nil
		}
		return mutationMsg{op: opEnrich, dest: d, err: err}
	}
}

func savePrefsCmd(ctx context.Context, kv storage.KV, p prefs.Prefs) tea.Cmd {
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.Save(ctx, kv, p)}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(opts Options) error {
	m := New(opts)
	defer m.unsubscribe()

	ctx := m.ctx
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
