package models

import "time"

// Reminder не хранит userid — владелец всегда выводится через Task.
type Reminder struct {
	ID       int64     `json:"id" db:"id"`
	TaskID   int64     `json:"task_id" db:"taskid"`
	Type     string    `json:"type" db:"type"`
	NotifyAt time.Time `json:"notify_at" db:"notifyat"` // хранится в UTC
}
