package models

import "time"

// Todo is a task owned by exactly one user.
type Todo struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"-"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TodoPatch carries a partial update. Nil fields are left unchanged.
type TodoPatch struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

// Apply mutates t according to p, stamping now on completion.
func (p TodoPatch) Apply(t *Todo, now time.Time) {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
		if t.Completed {
			if t.CompletedAt == nil {
				ts := now
				t.CompletedAt = &ts
			}
		} else {
			t.CompletedAt = nil
		}
	}
	t.UpdatedAt = now
}
