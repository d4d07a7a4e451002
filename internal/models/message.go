package models

import "time"

type Message struct {
	ID              int64     `json:"id" db:"id"`
	CollaborationID int64     `json:"collaboration_id" db:"collaborationid"`
	UserID          int64     `json:"user_id" db:"userid"`
	Content         string    `json:"content" db:"content"`
	SentAt          time.Time `json:"sent_at" db:"sentat"`
}
