package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// FormErrEmptyTitle ошибка формы при пустом заголовке
const FormErrEmptyTitle = "please enter a task title"

const (
	fieldTitle = iota
	fieldUrgent
	fieldImportant
	fieldCount
)

// form форма добавления задачи: заголовок и два флага
type form struct {
	title     textinput.Model
	urgent    bool
	important bool
	focus     int
	err       string
}

func newForm() form {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.Prompt = "Title: "
	ti.CharLimit = 1000
	ti.Width = 40
	return form{title: ti}
}

func (f *form) open() tea.Cmd {
	f.focus = fieldTitle
	return f.title.Focus()
}

// reset очищает заголовок и снимает оба флага
func (f *form) reset() {
	f.title.Reset()
	f.title.Blur()
	f.urgent = false
	f.important = false
	f.focus = fieldTitle
	f.err = ""
}

func (f *form) move(delta int) tea.Cmd {
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	if f.focus == fieldTitle {
		return f.title.Focus()
	}
	f.title.Blur()
	return nil
}

// toggle переключает флаг под фокусом; false, если фокус на заголовке
func (f *form) toggle() bool {
	switch f.focus {
	case fieldUrgent:
		f.urgent = !f.urgent
	case fieldImportant:
		f.important = !f.important
	default:
		return false
	}
	return true
}

// validate возвращает false и выставляет ошибку для пустого заголовка
func (f *form) validate() bool {
	if strings.TrimSpace(f.title.Value()) == "" {
		f.err = FormErrEmptyTitle
		return false
	}
	f.err = ""
	return true
}

func (f form) view() string {
	var b strings.Builder
	b.WriteString(f.title.View())
	b.WriteString("\n")
	b.WriteString(checkbox("Urgent", f.urgent, f.focus == fieldUrgent))
	b.WriteString("   ")
	b.WriteString(checkbox("Important", f.important, f.focus == fieldImportant))
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(f.err))
	}
	return formStyle.Render(b.String())
}

func checkbox(label string, checked, focused bool) string {
	box := "[ ]"
	if checked {
		box = "[x]"
	}
	s := box + " " + label
	if focused {
		return cursorStyle.Render(s)
	}
	return s
}
