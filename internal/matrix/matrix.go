// Package matrix раскладывает задачи по квадрантам матрицы Эйзенхауэра.
package matrix

import "eisenhower-app/internal/models"

type Quadrant int

const (
	DoNow Quadrant = iota
	Schedule
	Delegate
	Eliminate
)

// Quadrants порядок отображения: верхний ряд DoNow | Schedule, нижний Delegate | Eliminate
var Quadrants = [4]Quadrant{DoNow, Schedule, Delegate, Eliminate}

type quadrantInfo struct {
	title       string
	description string
	color       string
}

var info = [4]quadrantInfo{
	DoNow:     {"Do now", "Do immediately", "#FF6347"},
	Schedule:  {"Schedule", "Plan time for it", "#FFD700"},
	Delegate:  {"Delegate", "Hand it to someone else", "#87CEFA"},
	Eliminate: {"Eliminate", "Drop it", "#90EE90"},
}

func (q Quadrant) Title() string       { return info[q].title }
func (q Quadrant) Description() string { return info[q].description }

// Color акцентный цвет квадранта в hex
func (q Quadrant) Color() string { return info[q].color }

func (q Quadrant) String() string { return q.Title() }

// Urgent и Important флаги, которые задают квадрант
func (q Quadrant) Urgent() bool    { return q == DoNow || q == Delegate }
func (q Quadrant) Important() bool { return q == DoNow || q == Schedule }

// Of определяет квадрант задачи только по двум флагам
func Of(task models.Task) Quadrant {
	switch {
	case task.Urgent && task.Important:
		return DoNow
	case task.Important:
		return Schedule
	case task.Urgent:
		return Delegate
	default:
		return Eliminate
	}
}

// Matrix четыре непересекающиеся группы задач
type Matrix struct {
	groups [4][]models.Task
}

// Categorize фильтрует задачи по квадрантам, сохраняя исходный порядок внутри группы.
// Функция чистая и определена для любого входа, включая nil.
func Categorize(tasks []models.Task) Matrix {
	var m Matrix
	for _, task := range tasks {
		q := Of(task)
		m.groups[q] = append(m.groups[q], task)
	}
	return m
}

// Tasks возвращает задачи квадранта; результат нельзя изменять
func (m Matrix) Tasks(q Quadrant) []models.Task {
	return m.groups[q]
}

func (m Matrix) Len() int {
	n := 0
	for _, g := range m.groups {
		n += len(g)
	}
	return n
}

// Flatten задачи в порядке отображения; индекс+1 дает номер задачи для CLI и бота
func (m Matrix) Flatten() []models.Task {
	out := make([]models.Task, 0, m.Len())
	for _, q := range Quadrants {
		out = append(out, m.groups[q]...)
	}
	return out
}

// Contains проверяет, есть ли задача с таким id в каком-либо квадранте
func (m Matrix) Contains(id models.TaskID) bool {
	for _, g := range m.groups {
		for _, task := range g {
			if task.ID == id {
				return true
			}
		}
	}
	return false
}
