package models

// Collaboration — корневой агрегат для групповой работы над задачей.
type Collaboration struct {
	ID          int64  `json:"id" db:"id"`
	TaskID      int64  `json:"task_id" db:"taskid"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description,omitempty" db:"description"`
	JoinToken   string `json:"join_token" db:"jointoken"`
}

// UserCollaboration — мостовая строка many-to-many, без суррогатного ключа.
// Идентичность составная: (userid, collaborationid).
type UserCollaboration struct {
	UserID          int64  `json:"user_id" db:"userid"`
	CollaborationID int64  `json:"collaboration_id" db:"collaborationid"`
	Role            string `json:"role" db:"role"`
}
