package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"research-link-be/internal/dto"
	"research-link-be/internal/entity"
	"research-link-be/internal/model"
	"research-link-be/internal/pkg/apperror"
	"research-link-be/internal/repository"
	"research-link-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationRepo struct {
	mu            sync.Mutex
	types         map[string]*model.NotificationType
	notifications []model.Notification
	createErr     error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{types: make(map[string]*model.NotificationType)}
}

func (r *fakeNotificationRepo) CreateNotification(ctx context.Context, notification *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *fakeNotificationRepo) GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, notif := range r.notifications {
		if notif.UserID == userID && !notif.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ID == notificationID && r.notifications[i].UserID == userID {
			r.notifications[i].IsRead = true
			return nil
		}
	}
	return repository.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].UserID == userID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) GetNotificationTypeByCode(ctx context.Context, code string) (*model.NotificationType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.types[code]; ok {
		return t, nil
	}
	return nil, errors.New("record not found")
}

func (r *fakeNotificationRepo) stored() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

type fakeDelivery struct {
	mu        sync.Mutex
	sent      []model.Notification
	broadcast []model.Notification
}

func (d *fakeDelivery) Send(userID uuid.UUID, notification model.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, notification)
}

func (d *fakeDelivery) Broadcast(notification model.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.broadcast = append(d.broadcast, notification)
}

func (d *fakeDelivery) sentCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent)
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

func TestHandleEvent(t *testing.T) {
	newService := func(repo *fakeNotificationRepo, delivery *fakeDelivery) *NotificationService {
		return NewNotificationService(repo, nil, delivery, noopLogger{})
	}

	t.Run("unregistered event code is dropped without redelivery", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		svc := newService(repo, &fakeDelivery{})
		err := svc.handleEvent(context.Background(), events.BaseEvent{Type: "events.UNKNOWN", Data: map[string]interface{}{}})
		require.NoError(t, err)
		assert.Empty(t, repo.stored())
	})

	t.Run("inactive type is skipped", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		repo.types[events.TypeUserLogin] = &model.NotificationType{
			Code: events.TypeUserLogin, TargetType: "SELF", IsActive: false,
		}
		svc := newService(repo, &fakeDelivery{})
		err := svc.handleEvent(context.Background(), events.BaseEvent{
			Type: "events." + events.TypeUserLogin,
			Data: map[string]interface{}{"user_id": uuid.New().String()},
		})
		require.NoError(t, err)
		assert.Empty(t, repo.stored())
	})

	t.Run("templated notification is persisted and pushed", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		repo.types[events.TypeApplicationStatusChanged] = &model.NotificationType{
			Code:        events.TypeApplicationStatusChanged,
			DisplayName: "Application Update",
			Template:    "Your application status changed to {new_status}",
			TargetType:  "SELF",
			IsActive:    true,
		}
		delivery := &fakeDelivery{}
		svc := newService(repo, delivery)

		userID := uuid.New()
		appID := uuid.New()
		err := svc.handleEvent(context.Background(), events.BaseEvent{
			Type: "events." + events.TypeApplicationStatusChanged,
			Data: map[string]interface{}{
				"user_id":     userID.String(),
				"new_status":  "shortlisted",
				"entity_type": "application",
				"entity_id":   appID.String(),
			},
		})
		require.NoError(t, err)

		stored := repo.stored()
		require.Len(t, stored, 1)
		assert.Equal(t, userID, stored[0].UserID)
		assert.Equal(t, "Your application status changed to shortlisted", stored[0].Message)
		assert.Equal(t, "Application Update", stored[0].Title)

		var meta map[string]interface{}
		require.NoError(t, json.Unmarshal(stored[0].Metadata, &meta))
		assert.Equal(t, "/applications/"+appID.String(), meta["action_url"])

		require.Equal(t, 1, delivery.sentCount())
	})

	t.Run("broadcast is push-only", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		repo.types["MAINTENANCE"] = &model.NotificationType{
			Code: "MAINTENANCE", DisplayName: "Maintenance", Template: "Back at {eta}",
			TargetType: "BROADCAST", IsActive: true,
		}
		delivery := &fakeDelivery{}
		svc := newService(repo, delivery)

		err := svc.handleEvent(context.Background(), events.BaseEvent{
			Type: "events.MAINTENANCE",
			Data: map[string]interface{}{"eta": "02:00 IST"},
		})
		require.NoError(t, err)
		assert.Empty(t, repo.stored())
		require.Len(t, delivery.broadcast, 1)
		assert.Equal(t, "Back at 02:00 IST", delivery.broadcast[0].Message)
	})

	t.Run("persistence failure asks for redelivery", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		repo.types[events.TypeUserLogin] = &model.NotificationType{
			Code: events.TypeUserLogin, DisplayName: "Login", Template: "New login",
			TargetType: "SELF", IsActive: true,
		}
		repo.createErr = errors.New("db down")
		svc := newService(repo, &fakeDelivery{})

		err := svc.handleEvent(context.Background(), events.BaseEvent{
			Type: "events." + events.TypeUserLogin,
			Data: map[string]interface{}{"user_id": uuid.New().String()},
		})
		require.Error(t, err)
	})
}

// captureMailer records application emails sent by the consumer.
type captureMailer struct {
	mu           sync.Mutex
	recipients   []string
	studentNames []string
}

func (m *captureMailer) SendOTP(toEmail, otp string) error { return nil }

func (m *captureMailer) SendResetToken(toEmail, token string) error { return nil }

func (m *captureMailer) SendApplicationReceived(toEmail, studentName, projectTitle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recipients = append(m.recipients, toEmail)
	m.studentNames = append(m.studentNames, studentName)
	return nil
}

func (m *captureMailer) sentTo() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.recipients))
	copy(out, m.recipients)
	return out
}

const consumerTestTopic = "notifications.outbound"

func TestMarkAsRead(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	notifID := uuid.New()

	newService := func() (*NotificationService, *fakeNotificationRepo) {
		repo := newFakeNotificationRepo()
		repo.notifications = append(repo.notifications, model.Notification{ID: notifID, UserID: owner})
		return NewNotificationService(repo, nil, &fakeDelivery{}, noopLogger{}), repo
	}

	t.Run("owner can mark their notification", func(t *testing.T) {
		svc, repo := newService()
		require.NoError(t, svc.MarkAsRead(context.Background(), owner, notifID))
		assert.True(t, repo.stored()[0].IsRead)
	})

	t.Run("someone else's notification reads as not found", func(t *testing.T) {
		svc, repo := newService()
		appErr := requireAppError(t, svc.MarkAsRead(context.Background(), stranger, notifID), apperror.KindNotFound)
		assert.Equal(t, "NOTIFICATION_NOT_FOUND", appErr.Code)
		assert.False(t, repo.stored()[0].IsRead)
	})
}

func startConsumer(t *testing.T, store *fakeStore, repo *fakeNotificationRepo, delivery *fakeDelivery, mail *captureMailer) IPublisherService {
	t.Helper()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	consumer := NewConsumerService(pubSub, consumerTestTopic, newFakeFactory(store), repo, delivery, mail)
	require.NoError(t, consumer.Consume(context.Background()))

	return NewPublisherService(consumerTestTopic, pubSub)
}

func TestConsumerPipeline(t *testing.T) {
	t.Run("submission message lands in the inbox and mirrors to email", func(t *testing.T) {
		store := &fakeStore{}
		professor := &entity.User{Id: uuid.New(), Email: "prof@iitd.ac.in", Role: entity.UserRoleProfessor}
		store.users = []*entity.User{professor}

		repo := newFakeNotificationRepo()
		delivery := &fakeDelivery{}
		mail := &captureMailer{}
		publisher := startConsumer(t, store, repo, delivery, mail)

		payload, err := json.Marshal(dto.OutboundNotificationMessage{
			RecipientUserId: professor.Id,
			TypeCode:        events.TypeApplicationSubmitted,
			Title:           "New Application",
			Message:         "A student applied to your project \"Edge ML\"",
			Metadata: map[string]interface{}{
				"student_name":  "Asha Verma",
				"project_title": "Edge ML",
			},
		})
		require.NoError(t, err)
		require.NoError(t, publisher.Publish(context.Background(), payload))

		require.Eventually(t, func() bool {
			return len(repo.stored()) == 1
		}, 2*time.Second, 10*time.Millisecond)

		stored := repo.stored()
		assert.Equal(t, professor.Id, stored[0].UserID)
		assert.Equal(t, events.TypeApplicationSubmitted, stored[0].TypeCode)
		assert.False(t, stored[0].IsRead)

		require.Eventually(t, func() bool {
			return len(mail.sentTo()) == 1
		}, 2*time.Second, 10*time.Millisecond)
		assert.Equal(t, []string{"prof@iitd.ac.in"}, mail.sentTo())
		assert.Equal(t, 1, delivery.sentCount())
	})

	t.Run("status change messages stay off email", func(t *testing.T) {
		store := &fakeStore{}
		student := &entity.User{Id: uuid.New(), Email: "asha@iitd.ac.in", Role: entity.UserRoleStudent}
		store.users = []*entity.User{student}

		repo := newFakeNotificationRepo()
		mail := &captureMailer{}
		publisher := startConsumer(t, store, repo, &fakeDelivery{}, mail)

		payload, err := json.Marshal(dto.OutboundNotificationMessage{
			RecipientUserId: student.Id,
			TypeCode:        events.TypeApplicationStatusChanged,
			Title:           "Application Update",
			Message:         "Your application to \"Edge ML\" is now shortlisted",
		})
		require.NoError(t, err)
		require.NoError(t, publisher.Publish(context.Background(), payload))

		require.Eventually(t, func() bool {
			return len(repo.stored()) == 1
		}, 2*time.Second, 10*time.Millisecond)
		assert.Empty(t, mail.sentTo())
	})

	t.Run("message without a recipient is dropped", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		publisher := startConsumer(t, &fakeStore{}, repo, &fakeDelivery{}, &captureMailer{})

		payload, err := json.Marshal(dto.OutboundNotificationMessage{
			TypeCode: events.TypeApplicationSubmitted,
			Title:    "New Application",
		})
		require.NoError(t, err)
		require.NoError(t, publisher.Publish(context.Background(), payload))

		// Malformed traffic is acked, never persisted.
		require.NoError(t, publisher.Publish(context.Background(), []byte("not json")))

		time.Sleep(200 * time.Millisecond)
		assert.Empty(t, repo.stored())
	})
}
