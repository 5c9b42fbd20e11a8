package tui

import (
	"fmt"
	"strings"

	"eisenhower-app/internal/manager"
	"eisenhower-app/internal/matrix"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.ctrl.Snapshot()

	var sections []string
	sections = append(sections, titleStyle.Render("Eisenhower Matrix"))

	if m.mode == modeForm {
		sections = append(sections, m.form.view())
	}

	if st.Loading {
		sections = append(sections, m.spinner.View()+" Loading tasks...")
	} else {
		sections = append(sections, m.grid(st.Matrix))
	}

	if st.Blocking {
		sections = append(sections, overlayStyle.Render(m.spinner.View()+" Please wait..."))
	}

	if n := st.Notification; n != nil {
		sections = append(sections, notice(n))
	}

	if m.mode == modeForm {
		sections = append(sections, m.help.View(formKeys{m.keys}))
	} else {
		sections = append(sections, m.help.View(m.keys))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// grid рисует квадранты 2x2: сверху важные, слева срочные
func (m Model) grid(mx matrix.Matrix) string {
	width := (m.width - 6) / 2
	if width < 24 {
		width = 24
	}

	start := make(map[matrix.Quadrant]int, len(matrix.Quadrants))
	num := 0
	for _, q := range matrix.Quadrants {
		start[q] = num
		num += len(mx.Tasks(q))
	}

	row := func(left, right matrix.Quadrant) string {
		height := max(len(mx.Tasks(left)), len(mx.Tasks(right)), 1) + 1
		return lipgloss.JoinHorizontal(lipgloss.Top,
			m.quadrant(left, mx, start[left], width, height),
			m.quadrant(right, mx, start[right], width, height),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		row(matrix.DoNow, matrix.Schedule),
		row(matrix.Delegate, matrix.Eliminate),
	)
}

func (m Model) quadrant(q matrix.Quadrant, mx matrix.Matrix, offset, width, height int) string {
	lines := []string{quadrantHeader(q)}

	tasks := mx.Tasks(q)
	if len(tasks) == 0 {
		lines = append(lines, mutedStyle.Render("No tasks"))
	}
	for i, task := range tasks {
		n := offset + i
		line := truncate(fmt.Sprintf("%2d. %s", n+1, matrix.NormalizeTitle(task.Title)), width-2)
		if n == m.cursor {
			line = cursorStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return quadrantStyle(q, width, height).Render(strings.Join(lines, "\n"))
}

func notice(n *manager.Notification) string {
	bg := colorSuccess
	icon := "✓"
	if n.Level == manager.LevelError {
		bg = colorError
		icon = "✗"
	}
	return noticeStyle.Background(bg).Render(icon + " " + n.Text)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 1 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
