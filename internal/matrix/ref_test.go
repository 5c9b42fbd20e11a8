package matrix

import (
	"errors"
	"testing"

	"eisenhower-app/internal/models"
)

func TestResolve(t *testing.T) {
	m := Categorize([]models.Task{
		task("e1", false, false),
		task("d1", true, true),
		task("s1", false, true),
	})

	tests := []struct {
		ref  string
		want models.TaskID
	}{
		{"1", "d1"},
		{" 2 ", "s1"},
		{"3", "e1"},
		{"4", "4"},
		{"0", "0"},
		{"s1", "s1"},
		{"7f3c-uuid", "7f3c-uuid"},
		{"id:1", "1"},
		{"id:7", "7"},
		{" id: 3 ", "3"},
		{"id:s1", "s1"},
	}

	for _, tt := range tests {
		got, err := m.Resolve(tt.ref)
		if err != nil {
			t.Errorf("Resolve(%q): %v", tt.ref, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %q, ожидалось %q", tt.ref, got, tt.want)
		}
	}

	for _, ref := range []string{"  ", "id:", "id:  "} {
		if _, err := m.Resolve(ref); !errors.Is(err, ErrRefRequired) {
			t.Errorf("Resolve(%q): ожидалась ErrRefRequired, получено %v", ref, err)
		}
	}
}
