package matrix

import (
	"fmt"
	"io"
	"strings"
)

// Separator линия между секциями квадрантов в текстовом выводе
const Separator = "------------"

// Fprint печатает матрицу секциями в порядке отображения.
// Задачи нумеруются сквозной нумерацией с 1, как в Flatten.
func Fprint(w io.Writer, m Matrix) {
	num := 1
	for _, q := range Quadrants {
		fmt.Fprintln(w, Separator)
		fmt.Fprintf(w, "%s (%s)\n", q.Title(), q.Description())
		fmt.Fprintln(w, Separator)

		tasks := m.Tasks(q)
		if len(tasks) == 0 {
			fmt.Fprintln(w, "      (empty)")
			continue
		}
		for _, task := range tasks {
			fmt.Fprintf(w, "%4d  %s\n", num, NormalizeTitle(task.Title))
			num++
		}
	}
}

// NormalizeTitle убирает переводы строк из заголовка для однострочного вывода
func NormalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
