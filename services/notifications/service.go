// Package notifications persists dashboard notifications and pushes
// them through the events hub. DB write is the source of truth; the
// push is best-effort.
package notifications

import (
	"errors"

	"unifiedweb_go/database"
	"unifiedweb_go/models"
	"unifiedweb_go/services/events"

	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	hub *events.Hub
}

func NewService(hub *events.Hub) *Service {
	return &Service{db: database.GetDB(), hub: hub}
}

// Notify writes one notification per user and pushes each over the hub.
func (s *Service) Notify(userIDs []uint, title, message, typ string) error {
	if len(userIDs) == 0 {
		return errors.New("no user ids")
	}

	notifs := make([]models.Notification, 0, len(userIDs))
	for _, uid := range userIDs {
		notifs = append(notifs, models.Notification{
			UserID:  uid,
			Title:   title,
			Message: message,
			Type:    typ,
			Read:    false,
		})
	}
	if err := s.db.Create(&notifs).Error; err != nil {
		return err
	}

	if s.hub != nil {
		for _, n := range notifs {
			s.hub.PublishToUser(n.UserID, events.EventNotification, n)
		}
	}
	return nil
}
