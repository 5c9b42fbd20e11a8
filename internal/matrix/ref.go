package matrix

import (
	"errors"
	"strconv"
	"strings"

	"eisenhower-app/internal/models"
)

// ErrRefRequired ссылка на задачу не указана
var ErrRefRequired = errors.New("task reference required")

// IDPrefix явно помечает ссылку как id, чтобы числовой id не читался как позиция
const IDPrefix = "id:"

// Resolve переводит ссылку пользователя в id задачи.
// Ссылка с префиксом IDPrefix всегда id. Число от 1 до Len() означает
// позицию в порядке Flatten, как в Fprint; все остальное считается id как есть.
func (m Matrix) Resolve(ref string) (models.TaskID, error) {
	ref = strings.TrimSpace(ref)
	if id, ok := strings.CutPrefix(ref, IDPrefix); ok {
		id = strings.TrimSpace(id)
		if id == "" {
			return "", ErrRefRequired
		}
		return models.TaskID(id), nil
	}
	if ref == "" {
		return "", ErrRefRequired
	}

	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= m.Len() {
		return m.Flatten()[n-1].ID, nil
	}
	return models.TaskID(ref), nil
}
