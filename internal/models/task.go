package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TaskID непрозрачный идентификатор задачи, выдается хранилищем.
// На проводе может прийти строкой или числом.
type TaskID string

func (id TaskID) String() string { return string(id) }

func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id must be a string or a number: %s", data)
	}
	*id = TaskID(n.String())
	return nil
}

type Task struct {
	ID        TaskID `json:"id"`
	Title     string `json:"title"`
	Urgent    bool   `json:"urgent"`
	Important bool   `json:"important"`
}

// CreateTaskResponse ответ хранилища на POST /tasks
type CreateTaskResponse struct {
	Status string `json:"status"`
	Task   Task   `json:"task"`
}

// StatusResponse ответ на DELETE /tasks/{id}
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Detail string `json:"detail"`
}
