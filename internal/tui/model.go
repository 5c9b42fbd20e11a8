// Package tui терминальный интерфейс матрицы поверх manager.Controller.
package tui

import (
	"context"
	"errors"
	"time"

	"eisenhower-app/internal/logger"
	"eisenhower-app/internal/manager"
	"eisenhower-app/internal/models"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// NoticeTimeout через сколько уведомление скрывается само
const NoticeTimeout = 4 * time.Second

type mode int

const (
	modeBrowse mode = iota
	modeForm
)

// Результаты операций контроллера
type (
	loadedMsg  struct{ err error }
	createdMsg struct {
		task models.Task
		err  error
	}
	deletedMsg struct {
		id  models.TaskID
		err error
	}
	dismissMsg struct{ seq int }
)

type Model struct {
	ctx  context.Context
	ctrl *manager.Controller

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	form    form
	mode    mode

	cursor    int
	width     int
	noticeSeq int
	quitting  bool
}

func New(ctx context.Context, ctrl *manager.Controller) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = mutedStyle

	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: s,
		form:    newForm(),
		width:   80,
	}
}

// Run запускает интерфейс и блокируется до выхода
func Run(ctx context.Context, ctrl *manager.Controller) error {
	p := tea.NewProgram(New(ctx, ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init запускает первую загрузку. Спиннер тикает постоянно, чтобы View
// перечитывал состояние контроллера, пока запрос в полете.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		m.clampCursor()
		return m, m.noticeCmd(msg.err)

	case createdMsg:
		return m, m.noticeCmd(msg.err)

	case deletedMsg:
		m.clampCursor()
		return m, m.noticeCmd(msg.err)

	case dismissMsg:
		if msg.seq == m.noticeSeq {
			m.ctrl.Dismiss()
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeForm {
			return m.updateForm(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.ctrl.Snapshot()
	busy := st.Loading || st.Blocking

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Dismiss):
		m.ctrl.Dismiss()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(st.Tasks)-1 {
			m.cursor++
		}
		return m, nil
	}

	if busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.New):
		m.mode = modeForm
		return m, m.form.open()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadCmd()
	case key.Matches(msg, m.keys.Delete):
		tasks := st.Matrix.Flatten()
		if m.cursor < 0 || m.cursor >= len(tasks) {
			return m, nil
		}
		return m, m.deleteCmd(tasks[m.cursor].ID)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.form.reset()
		m.mode = modeBrowse
		return m, nil
	case key.Matches(msg, m.keys.Next):
		return m, m.form.move(1)
	case key.Matches(msg, m.keys.Prev):
		return m, m.form.move(-1)
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Toggle) && m.form.toggle():
		return m, nil
	}

	if m.form.focus != fieldTitle {
		return m, nil
	}
	var cmd tea.Cmd
	m.form.title, cmd = m.form.title.Update(msg)
	m.form.err = ""
	return m, cmd
}

// submit отправляет задачу и сбрасывает форму независимо от результата
func (m Model) submit() (tea.Model, tea.Cmd) {
	if !m.form.validate() {
		return m, nil
	}
	if st := m.ctrl.Snapshot(); st.Loading || st.Blocking {
		return m, nil
	}

	title, urgent, important := m.form.title.Value(), m.form.urgent, m.form.important
	m.form.reset()
	m.mode = modeBrowse
	return m, m.createCmd(title, urgent, important)
}

func (m Model) loadCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return loadedMsg{err: ctrl.Load(ctx)}
	}
}

func (m Model) createCmd(title string, urgent, important bool) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		task, err := ctrl.CreateTask(ctx, title, urgent, important)
		return createdMsg{task: task, err: err}
	}
}

func (m Model) deleteCmd(id models.TaskID) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return deletedMsg{id: id, err: ctrl.DeleteTask(ctx, id)}
	}
}

// noticeCmd планирует скрытие уведомления, выставленного завершившейся операцией
func (m *Model) noticeCmd(err error) tea.Cmd {
	if errors.Is(err, manager.ErrBusy) {
		logger.Debug(m.ctx, "Операция отклонена, контроллер занят")
		return nil
	}
	if m.ctrl.Snapshot().Notification == nil {
		return nil
	}
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(NoticeTimeout, func(time.Time) tea.Msg {
		return dismissMsg{seq: seq}
	})
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.Snapshot().Tasks)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
