package matrix

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"eisenhower-app/internal/models"
)

func task(id string, urgent, important bool) models.Task {
	return models.Task{ID: models.TaskID(id), Title: "task " + id, Urgent: urgent, Important: important}
}

func TestOf(t *testing.T) {
	tests := []struct {
		urgent, important bool
		want              Quadrant
	}{
		{true, true, DoNow},
		{false, true, Schedule},
		{true, false, Delegate},
		{false, false, Eliminate},
	}

	for _, tt := range tests {
		got := Of(models.Task{Urgent: tt.urgent, Important: tt.important})
		if got != tt.want {
			t.Errorf("Of(urgent=%v, important=%v) = %s, ожидалось %s", tt.urgent, tt.important, got, tt.want)
		}
		if got.Urgent() != tt.urgent || got.Important() != tt.important {
			t.Errorf("Флаги квадранта %s не совпадают с входом", got)
		}
	}
}

func TestCategorizePartition(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		n := rng.Intn(40)
		tasks := make([]models.Task, n)
		for i := range tasks {
			tasks[i] = task(fmt.Sprintf("%d-%d", round, i), rng.Intn(2) == 0, rng.Intn(2) == 0)
		}

		m := Categorize(tasks)

		if m.Len() != len(tasks) {
			t.Fatalf("Сумма групп %d, ожидалось %d", m.Len(), len(tasks))
		}

		seen := make(map[models.TaskID]int)
		for _, q := range Quadrants {
			for _, tk := range m.Tasks(q) {
				seen[tk.ID]++
				if Of(tk) != q {
					t.Errorf("Задача %s попала в %s вместо %s", tk.ID, q, Of(tk))
				}
			}
		}
		for _, tk := range tasks {
			if seen[tk.ID] != 1 {
				t.Errorf("Задача %s встречается %d раз", tk.ID, seen[tk.ID])
			}
		}
	}
}

func TestCategorizePreservesOrder(t *testing.T) {
	tasks := []models.Task{
		task("a", true, true),
		task("b", false, false),
		task("c", true, true),
		task("d", false, false),
		task("e", true, true),
	}

	m := Categorize(tasks)

	var doNow []string
	for _, tk := range m.Tasks(DoNow) {
		doNow = append(doNow, string(tk.ID))
	}
	if got := strings.Join(doNow, ","); got != "a,c,e" {
		t.Errorf("Порядок DoNow %q, ожидалось a,c,e", got)
	}

	var eliminate []string
	for _, tk := range m.Tasks(Eliminate) {
		eliminate = append(eliminate, string(tk.ID))
	}
	if got := strings.Join(eliminate, ","); got != "b,d" {
		t.Errorf("Порядок Eliminate %q, ожидалось b,d", got)
	}
}

func TestCategorizeEmpty(t *testing.T) {
	m := Categorize(nil)
	if m.Len() != 0 {
		t.Errorf("Ожидалась пустая матрица, получено %d", m.Len())
	}
	for _, q := range Quadrants {
		if len(m.Tasks(q)) != 0 {
			t.Errorf("Квадрант %s не пуст", q)
		}
	}
}

func TestBuyMilkGoesToDelegate(t *testing.T) {
	m := Categorize([]models.Task{{ID: "7", Title: "Buy milk", Urgent: true, Important: false}})

	got := m.Tasks(Delegate)
	if len(got) != 1 || got[0].ID != "7" {
		t.Fatalf("Ожидалась задача 7 в Delegate, получено %+v", got)
	}
	if !m.Contains("7") {
		t.Error("Contains(7) = false")
	}
}

func TestFlattenDisplayOrder(t *testing.T) {
	m := Categorize([]models.Task{
		task("elim", false, false),
		task("deleg", true, false),
		task("sched", false, true),
		task("now", true, true),
	})

	var ids []string
	for _, tk := range m.Flatten() {
		ids = append(ids, string(tk.ID))
	}
	if got := strings.Join(ids, ","); got != "now,sched,deleg,elim" {
		t.Errorf("Flatten = %q", got)
	}
}

func TestFprint(t *testing.T) {
	m := Categorize([]models.Task{
		{ID: "1", Title: "Pay rent", Urgent: true, Important: true},
		{ID: "2", Title: "Call\nmom", Urgent: true},
	})

	var buf bytes.Buffer
	Fprint(&buf, m)

	want := strings.Join([]string{
		Separator, "Do now (Do immediately)", Separator,
		"   1  Pay rent",
		Separator, "Schedule (Plan time for it)", Separator,
		"      (empty)",
		Separator, "Delegate (Hand it to someone else)", Separator,
		"   2  Call mom",
		Separator, "Eliminate (Drop it)", Separator,
		"      (empty)",
	}, "\n") + "\n"

	if buf.String() != want {
		t.Errorf("Неверный вывод:\n%s\nожидалось:\n%s", buf.String(), want)
	}
}
