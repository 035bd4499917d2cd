// Package notify is the notification sink. Engines publish fire-and-forget
// events onto an in-process queue; a subscriber drains the queue and
// persists notification rows. Publishing never fails the caller's request,
// and delivery problems stay observable in the log.
package notify

import (
	"context"
	"encoding/json"

	"github.com/alaazayood/viatica-backend/internal/database"
	"github.com/alaazayood/viatica-backend/internal/models"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const topic = "notifications"

type event struct {
	RecipientID uint   `json:"recipient_id"`
	Title       string `json:"title"`
	Message     string `json:"message"`
}

// Store persists delivered events.
type Store interface {
	Save(ctx context.Context, n *models.Notification) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Save(ctx context.Context, n *models.Notification) error {
	return database.FromContext(ctx, s.db).Create(n).Error
}

type Service struct {
	pubSub *gochannel.GoChannel
	store  Store
	log    *zap.SugaredLogger
}

func NewService(store Store, log *zap.SugaredLogger) *Service {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		newWatermillLogger(log),
	)
	return &Service{pubSub: pubSub, store: store, log: log}
}

// Notify enqueues a notification. Failures are logged, never returned: the
// caller's request has already succeeded by the time this runs.
func (s *Service) Notify(recipientID uint, title, messageText string) {
	payload, err := json.Marshal(event{
		RecipientID: recipientID,
		Title:       title,
		Message:     messageText,
	})
	if err != nil {
		s.log.Errorw("cannot encode notification", "recipient", recipientID, "error", err)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(topic, msg); err != nil {
		s.log.Errorw("cannot publish notification", "recipient", recipientID, "error", err)
	}
}

// Start runs the subscriber loop until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var ev event
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				s.log.Errorw("cannot decode notification event", "uuid", msg.UUID, "error", err)
				msg.Ack()
				continue
			}

			n := &models.Notification{
				UserID:  ev.RecipientID,
				Title:   ev.Title,
				Message: ev.Message,
			}
			if err := s.store.Save(ctx, n); err != nil {
				s.log.Errorw("cannot persist notification", "recipient", ev.RecipientID, "error", err)
			}
			msg.Ack()
		}
	}()

	return nil
}

// Close shuts the queue down; pending messages are dropped.
func (s *Service) Close() error {
	return s.pubSub.Close()
}
