package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskChanges_Apply(t *testing.T) {
	title := "new title"
	description := "new description"
	empty := ""

	tests := []struct {
		name    string
		changes TaskChanges
		want    Task
	}{
		{
			name:    "no fields keeps everything",
			changes: TaskChanges{},
			want:    Task{Title: "buy milk", Description: "2 litres"},
		},
		{
			name:    "title only",
			changes: TaskChanges{Title: &title},
			want:    Task{Title: title, Description: "2 litres"},
		},
		{
			name:    "description only",
			changes: TaskChanges{Description: &description},
			want:    Task{Title: "buy milk", Description: description},
		},
		{
			name:    "description cleared",
			changes: TaskChanges{Description: &empty},
			want:    Task{Title: "buy milk", Description: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{Title: "buy milk", Description: "2 litres"}
			tt.changes.Apply(&task)
			assert.Equal(t, tt.want, task)
		})
	}
}
