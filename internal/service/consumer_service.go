package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"research-link-be/internal/dto"
	"research-link-be/internal/model"
	"research-link-be/internal/pkg/mailer"
	"research-link-be/internal/repository"
	"research-link-be/internal/repository/specification"
	"research-link-be/internal/repository/unitofwork"
	"research-link-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process notification queue: each message is
// persisted to the recipient's inbox, pushed over WebSocket, and optionally
// mirrored to email.
type consumerService struct {
	pubSub           *gochannel.GoChannel
	topicName        string
	uowFactory       unitofwork.RepositoryFactory
	notificationRepo repository.NotificationRepository
	delivery         NotificationDelivery
	emailService     mailer.IEmailService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	notificationRepo repository.NotificationRepository,
	delivery NotificationDelivery,
	emailService mailer.IEmailService,
) IConsumerService {
	return &consumerService{
		pubSub:           pubSub,
		topicName:        topicName,
		uowFactory:       uowFactory,
		notificationRepo: notificationRepo,
		delivery:         delivery,
		emailService:     emailService,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.OutboundNotificationMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal notification message: %v", err)
		msg.Ack() // malformed messages must not loop forever
		return
	}

	if payload.RecipientUserId == uuid.Nil {
		log.Printf("[ERROR] Notification message without recipient, type=%s", payload.TypeCode)
		msg.Ack()
		return
	}

	metaJSON, _ := json.Marshal(payload.Metadata)
	notif := model.Notification{
		ID:         uuid.New(),
		UserID:     payload.RecipientUserId,
		TypeCode:   payload.TypeCode,
		Title:      payload.Title,
		Message:    payload.Message,
		Metadata:   datatypes.JSON(metaJSON),
		EntityType: payload.EntityType,
		EntityID:   payload.EntityId,
		CreatedAt:  time.Now(),
		IsRead:     false,
	}

	if err := cs.notificationRepo.CreateNotification(ctx, &notif); err != nil {
		log.Printf("[ERROR] Failed to save notification for user %s: %v", payload.RecipientUserId, err)
		msg.Nack()
		return
	}

	if cs.delivery != nil {
		cs.delivery.Send(payload.RecipientUserId, notif)
	}

	cs.sendEmail(ctx, &payload)
	msg.Ack()
}

// sendEmail mirrors submission notifications to the professor's inbox.
// Failures are logged and dropped, the inbox row already exists.
func (cs *consumerService) sendEmail(ctx context.Context, payload *dto.OutboundNotificationMessage) {
	if cs.emailService == nil || payload.TypeCode != events.TypeApplicationSubmitted {
		return
	}

	toEmail := payload.EmailTo
	if toEmail == "" {
		uow := cs.uowFactory.NewUnitOfWork(ctx)
		user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: payload.RecipientUserId})
		if err != nil || user == nil {
			log.Printf("[WARN] Cannot resolve email for user %s", payload.RecipientUserId)
			return
		}
		toEmail = user.Email
	}

	studentName := "A student"
	if name, ok := payload.Metadata["student_name"].(string); ok && name != "" {
		studentName = name
	}
	projectTitle := fmt.Sprintf("%v", payload.Metadata["project_title"])

	if err := cs.emailService.SendApplicationReceived(toEmail, studentName, projectTitle); err != nil {
		log.Printf("[WARN] Failed to send application email to %s: %v", toEmail, err)
	}
}
