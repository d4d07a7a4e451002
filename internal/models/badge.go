package models

import "time"

// Badge — статический справочник наград.
type Badge struct {
	ID          int64  `json:"id" db:"id"`
	Type        string `json:"type" db:"type"`
	Description string `json:"description" db:"description"`
}

// UserBadge — append-only мостовая строка: однажды выданная награда
// никогда не удаляется и не обновляется.
type UserBadge struct {
	UserID     int64     `json:"user_id" db:"userid"`
	BadgeID    int64     `json:"badge_id" db:"badgeid"`
	DateEarned time.Time `json:"date_earned" db:"dateearned"`
}
