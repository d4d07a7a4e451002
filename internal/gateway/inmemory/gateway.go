package inmemory

import (
	"taskhub/internal/gateway"
	"taskhub/internal/models"
)

// NewGateway собирает полный набор таблиц в памяти.
func NewGateway() *gateway.Gateway {
	return &gateway.Gateway{
		Users:              NewTable[models.User](),
		Tasks:              NewTable[models.Task](),
		Reminders:          NewTable[models.Reminder](),
		Collaborations:     NewTable[models.Collaboration](),
		UserCollaborations: NewTable[models.UserCollaboration](),
		Badges:             NewTable[models.Badge](),
		UserBadges:         NewTable[models.UserBadge](),
		Exports:            NewTable[models.Export](),
		Messages:           NewTable[models.Message](),
	}
}
