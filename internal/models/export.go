package models

import "time"

type Export struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"userid"`
	TaskID      int64     `json:"task_id" db:"taskid"`
	Format      string    `json:"format" db:"format"`
	RequestedAt time.Time `json:"requested_at" db:"requestedat"`
}
