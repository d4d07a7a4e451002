package dto

import (
	"time"

	"taskhub/internal/models"
)

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
}

type ResetRequest struct {
	Email string `json:"email"`
}

type ResetConfirmRequest struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type CreateTaskRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DueDate     time.Time       `json:"due_date"`
	Priority    models.Priority `json:"priority"`
}

type CreateReminderRequest struct {
	Type     string    `json:"type"`
	NotifyAt time.Time `json:"notify_at"`
}

type CreateExportRequest struct {
	Format string `json:"format"`
}

type CreateCollaborationRequest struct {
	TaskID      int64  `json:"task_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type JoinCollaborationRequest struct {
	JoinToken string `json:"join_token"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type PostMessageRequest struct {
	Content string `json:"content"`
}
