package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"testing"
	"time"

	"research-link-be/internal/dto"
	"research-link-be/internal/entity"
	"research-link-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServerKey = "SB-Mid-server-test-key"

type paymentFixture struct {
	store   *fakeStore
	access  *fakeAccessService
	service IPaymentService
	userId  uuid.UUID
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	f := &paymentFixture{
		store:  &fakeStore{},
		userId: uuid.New(),
	}
	collegeId := uuid.New()
	f.store.colleges = []*entity.College{{Id: collegeId, Name: "IIT Delhi"}}
	f.store.users = []*entity.User{
		{Id: f.userId, Email: "student@iitd.ac.in", Role: entity.UserRoleStudent, CollegeId: collegeId},
	}
	f.access = &fakeAccessService{
		access: &entity.CollegeAccess{
			OwnCollegeId:  collegeId,
			CollegeIds:    []uuid.UUID{collegeId},
			PlanByCollege: map[uuid.UUID]string{},
		},
	}
	f.service = NewPaymentService(newFakeFactory(f.store), f.access, nil)
	return f
}

func (f *paymentFixture) addPlan(name string, cycle entity.BillingCycle, price float64, sortOrder int) *entity.Plan {
	plan := &entity.Plan{
		Id:           uuid.New(),
		Name:         name,
		Slug:         name,
		Price:        price,
		TaxRate:      0.18,
		BillingCycle: cycle,
		IsActive:     true,
		SortOrder:    sortOrder,
	}
	f.store.plans = append(f.store.plans, plan)
	return plan
}

func signedWebhook(orderId, status string) *dto.MidtransWebhookRequest {
	req := &dto.MidtransWebhookRequest{
		TransactionStatus: status,
		OrderId:           orderId,
		StatusCode:        "200",
		GrossAmount:       "352.82",
	}
	input := req.OrderId + req.StatusCode + req.GrossAmount + testServerKey
	req.SignatureKey = fmt.Sprintf("%x", sha512.Sum512([]byte(input)))
	return req
}

func TestPeriodEnd(t *testing.T) {
	from := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, from.AddDate(0, 1, 0), periodEnd(from, entity.BillingCycleMonthly))
	assert.Equal(t, from.AddDate(1, 0, 0), periodEnd(from, entity.BillingCycleYearly))
	assert.Equal(t, from.AddDate(100, 0, 0), periodEnd(from, entity.BillingCycleFree))
}

func TestGetPlans(t *testing.T) {
	f := newPaymentFixture(t)
	f.addPlan("National Access", entity.BillingCycleYearly, 2499, 3)
	f.addPlan("Free", entity.BillingCycleFree, 0, 1)
	f.addPlan("Campus Plus", entity.BillingCycleMonthly, 299, 2)
	inactive := f.addPlan("Legacy", entity.BillingCycleMonthly, 199, 0)
	inactive.IsActive = false

	plans, err := f.service.GetPlans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, "Free", plans[0].Name)
	assert.Equal(t, "Campus Plus", plans[1].Name)
	assert.Equal(t, "National Access", plans[2].Name)
}

func TestGetOrderSummary(t *testing.T) {
	t.Run("missing plan", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, err := f.service.GetOrderSummary(context.Background(), uuid.New())
		requireAppError(t, err, apperror.KindNotFound)
	})

	t.Run("monthly plan with tax", func(t *testing.T) {
		f := newPaymentFixture(t)
		plan := f.addPlan("Campus Plus", entity.BillingCycleMonthly, 299, 1)

		res, err := f.service.GetOrderSummary(context.Background(), plan.Id)
		require.NoError(t, err)
		assert.Equal(t, "month", res.BillingPeriod)
		assert.Equal(t, "INR", res.Currency)
		assert.InDelta(t, 299.0, res.Subtotal, 0.001)
		assert.InDelta(t, 53.82, res.Tax, 0.001)
		assert.InDelta(t, 352.82, res.Total, 0.001)
	})

	t.Run("free plan bills forever", func(t *testing.T) {
		f := newPaymentFixture(t)
		plan := f.addPlan("Free", entity.BillingCycleFree, 0, 1)
		res, err := f.service.GetOrderSummary(context.Background(), plan.Id)
		require.NoError(t, err)
		assert.Equal(t, "forever", res.BillingPeriod)
	})
}

func TestCheckoutFreePlan(t *testing.T) {
	f := newPaymentFixture(t)
	plan := f.addPlan("Free", entity.BillingCycleFree, 0, 1)

	res, err := f.service.Checkout(context.Background(), f.userId, &dto.CheckoutRequest{PlanId: plan.Id})
	require.NoError(t, err)
	assert.True(t, res.Activated)
	assert.Empty(t, res.SnapToken)

	require.Len(t, f.store.subscriptions, 1)
	sub := f.store.subscriptions[0]
	assert.Equal(t, entity.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, entity.PaymentStatusPaid, sub.PaymentStatus)
	assert.True(t, sub.EndsAt.After(time.Now().AddDate(99, 0, 0)))
	assert.Equal(t, []uuid.UUID{f.userId}, f.access.invalidated)
}

func TestCheckoutUnknownPlan(t *testing.T) {
	f := newPaymentFixture(t)
	inactive := f.addPlan("Legacy", entity.BillingCycleMonthly, 199, 0)
	inactive.IsActive = false

	_, err := f.service.Checkout(context.Background(), f.userId, &dto.CheckoutRequest{PlanId: uuid.New()})
	requireAppError(t, err, apperror.KindNotFound)

	_, err = f.service.Checkout(context.Background(), f.userId, &dto.CheckoutRequest{PlanId: inactive.Id})
	requireAppError(t, err, apperror.KindNotFound)
}

func TestHandleNotification(t *testing.T) {
	newPendingSub := func(f *paymentFixture, cycle entity.BillingCycle) *entity.Subscription {
		plan := f.addPlan("Campus Plus", cycle, 299, 1)
		sub := &entity.Subscription{
			Id:            uuid.New(),
			UserId:        f.userId,
			PlanId:        plan.Id,
			Status:        entity.SubscriptionStatusInactive,
			PaymentStatus: entity.PaymentStatusPending,
			CreatedAt:     time.Now(),
		}
		f.store.subscriptions = append(f.store.subscriptions, sub)
		return sub
	}

	t.Run("bad signature is rejected", func(t *testing.T) {
		t.Setenv("MIDTRANS_SERVER_KEY", testServerKey)
		f := newPaymentFixture(t)
		sub := newPendingSub(f, entity.BillingCycleMonthly)

		req := signedWebhook(sub.Id.String(), "settlement")
		req.SignatureKey = "forged"
		err := f.service.HandleNotification(context.Background(), req)
		requireAppError(t, err, apperror.KindAuthentication)
		assert.Equal(t, entity.SubscriptionStatusInactive, sub.Status)
	})

	t.Run("unknown order id", func(t *testing.T) {
		t.Setenv("MIDTRANS_SERVER_KEY", testServerKey)
		f := newPaymentFixture(t)
		err := f.service.HandleNotification(context.Background(), signedWebhook(uuid.New().String(), "settlement"))
		requireAppError(t, err, apperror.KindNotFound)
	})

	t.Run("settlement activates and stamps the billing period", func(t *testing.T) {
		t.Setenv("MIDTRANS_SERVER_KEY", testServerKey)
		f := newPaymentFixture(t)
		sub := newPendingSub(f, entity.BillingCycleMonthly)

		before := time.Now()
		err := f.service.HandleNotification(context.Background(), signedWebhook(sub.Id.String(), "settlement"))
		require.NoError(t, err)

		assert.Equal(t, entity.SubscriptionStatusActive, sub.Status)
		assert.Equal(t, entity.PaymentStatusPaid, sub.PaymentStatus)
		require.NotNil(t, sub.MidtransTransactionId)
		// The period runs one month from settlement time.
		assert.WithinDuration(t, before.AddDate(0, 1, 0), sub.EndsAt, 5*time.Second)
		assert.Equal(t, []uuid.UUID{f.userId}, f.access.invalidated)
	})

	t.Run("duplicate settlement is idempotent", func(t *testing.T) {
		t.Setenv("MIDTRANS_SERVER_KEY", testServerKey)
		f := newPaymentFixture(t)
		sub := newPendingSub(f, entity.BillingCycleMonthly)

		require.NoError(t, f.service.HandleNotification(context.Background(), signedWebhook(sub.Id.String(), "settlement")))
		firstEnd := sub.EndsAt
		require.NoError(t, f.service.HandleNotification(context.Background(), signedWebhook(sub.Id.String(), "settlement")))
		assert.Equal(t, firstEnd, sub.EndsAt)
		assert.Len(t, f.access.invalidated, 1)
	})

	t.Run("failed payment marks the subscription inactive", func(t *testing.T) {
		for _, status := range []string{"deny", "cancel", "expire"} {
			t.Run(status, func(t *testing.T) {
				t.Setenv("MIDTRANS_SERVER_KEY", testServerKey)
				f := newPaymentFixture(t)
				sub := newPendingSub(f, entity.BillingCycleMonthly)

				require.NoError(t, f.service.HandleNotification(context.Background(), signedWebhook(sub.Id.String(), status)))
				assert.Equal(t, entity.SubscriptionStatusInactive, sub.Status)
				assert.Equal(t, entity.PaymentStatusFailed, sub.PaymentStatus)
			})
		}
	})

	t.Run("pending leaves the subscription untouched", func(t *testing.T) {
		t.Setenv("MIDTRANS_SERVER_KEY", testServerKey)
		f := newPaymentFixture(t)
		sub := newPendingSub(f, entity.BillingCycleMonthly)

		require.NoError(t, f.service.HandleNotification(context.Background(), signedWebhook(sub.Id.String(), "pending")))
		assert.Equal(t, entity.SubscriptionStatusInactive, sub.Status)
		assert.Equal(t, entity.PaymentStatusPending, sub.PaymentStatus)
		assert.Empty(t, f.access.invalidated)
	})
}

func TestGetSubscriptionStatus(t *testing.T) {
	t.Run("no subscription falls back to free", func(t *testing.T) {
		f := newPaymentFixture(t)
		res, err := f.service.GetSubscriptionStatus(context.Background(), f.userId)
		require.NoError(t, err)
		assert.Equal(t, "Free", res.PlanName)
		assert.False(t, res.IsActive)
		assert.Equal(t, []string{"IIT Delhi"}, res.AccessibleColleges)
	})

	t.Run("newest effectively active subscription wins", func(t *testing.T) {
		f := newPaymentFixture(t)
		oldPlan := f.addPlan("Campus Plus", entity.BillingCycleMonthly, 299, 1)
		newPlan := f.addPlan("National Access", entity.BillingCycleYearly, 2499, 2)
		f.store.subscriptions = []*entity.Subscription{
			{Id: uuid.New(), UserId: f.userId, PlanId: oldPlan.Id, Status: entity.SubscriptionStatusActive, EndsAt: time.Now().Add(24 * time.Hour), CreatedAt: time.Now().Add(-48 * time.Hour)},
			{Id: uuid.New(), UserId: f.userId, PlanId: newPlan.Id, Status: entity.SubscriptionStatusActive, EndsAt: time.Now().Add(300 * 24 * time.Hour), CreatedAt: time.Now()},
		}

		res, err := f.service.GetSubscriptionStatus(context.Background(), f.userId)
		require.NoError(t, err)
		assert.True(t, res.IsActive)
		assert.Equal(t, "National Access", res.PlanName)
	})

	t.Run("expired active rows are skipped", func(t *testing.T) {
		f := newPaymentFixture(t)
		plan := f.addPlan("Campus Plus", entity.BillingCycleMonthly, 299, 1)
		f.store.subscriptions = []*entity.Subscription{
			{Id: uuid.New(), UserId: f.userId, PlanId: plan.Id, Status: entity.SubscriptionStatusActive, EndsAt: time.Now().Add(-time.Hour), CreatedAt: time.Now()},
		}

		res, err := f.service.GetSubscriptionStatus(context.Background(), f.userId)
		require.NoError(t, err)
		assert.False(t, res.IsActive)
		assert.Equal(t, "Free", res.PlanName)
	})
}

func TestCancelSubscription(t *testing.T) {
	t.Run("nothing to cancel", func(t *testing.T) {
		f := newPaymentFixture(t)
		err := f.service.CancelSubscription(context.Background(), f.userId)
		requireAppError(t, err, apperror.KindNotFound)
	})

	t.Run("cancels the active subscription and drops the cache", func(t *testing.T) {
		f := newPaymentFixture(t)
		plan := f.addPlan("Campus Plus", entity.BillingCycleMonthly, 299, 1)
		sub := &entity.Subscription{
			Id:        uuid.New(),
			UserId:    f.userId,
			PlanId:    plan.Id,
			Status:    entity.SubscriptionStatusActive,
			EndsAt:    time.Now().Add(24 * time.Hour),
			CreatedAt: time.Now(),
		}
		f.store.subscriptions = []*entity.Subscription{sub}

		require.NoError(t, f.service.CancelSubscription(context.Background(), f.userId))
		assert.Equal(t, entity.SubscriptionStatusCanceled, sub.Status)
		assert.Equal(t, []uuid.UUID{f.userId}, f.access.invalidated)
	})
}
