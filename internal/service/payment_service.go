package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"os"
	"time"

	"research-link-be/internal/dto"
	"research-link-be/internal/entity"
	"research-link-be/internal/pkg/apperror"
	"research-link-be/internal/repository/specification"
	"research-link-be/internal/repository/unitofwork"
	"research-link-be/pkg/events"
	pktNats "research-link-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

type IPaymentService interface {
	GetPlans(ctx context.Context) ([]*dto.PlanResponse, error)
	GetOrderSummary(ctx context.Context, planId uuid.UUID) (*dto.OrderSummaryResponse, error)
	Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error
	GetSubscriptionStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error)
	CancelSubscription(ctx context.Context, userId uuid.UUID) error
}

type paymentService struct {
	uowFactory     unitofwork.RepositoryFactory
	accessService  IAccessService
	eventPublisher *pktNats.Publisher
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	accessService IAccessService,
	eventPublisher *pktNats.Publisher,
) IPaymentService {
	return &paymentService{
		uowFactory:     uowFactory,
		accessService:  accessService,
		eventPublisher: eventPublisher,
	}
}

func (s *paymentService) GetPlans(ctx context.Context) ([]*dto.PlanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plans, err := uow.SubscriptionRepository().FindAllPlans(ctx,
		specification.ActivePlansOnly{},
		specification.OrderBy{Field: "sort_order", Desc: false},
	)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	res := make([]*dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		colleges := make([]string, 0, len(p.Colleges))
		for _, c := range p.Colleges {
			colleges = append(colleges, c.Name)
		}
		res = append(res, &dto.PlanResponse{
			Id:            p.Id,
			Name:          p.Name,
			Slug:          p.Slug,
			Price:         p.Price,
			BillingCycle:  string(p.BillingCycle),
			Description:   p.Description,
			IsMostPopular: p.IsMostPopular,
			Colleges:      colleges,
		})
	}
	return res, nil
}

func (s *paymentService) GetOrderSummary(ctx context.Context, planId uuid.UUID) (*dto.OrderSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: planId})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if plan == nil {
		return nil, apperror.NotFound("PLAN_NOT_FOUND", "Plan not found")
	}

	subtotal := plan.Price
	tax := subtotal * plan.TaxRate
	total := subtotal + tax

	billingPeriod := "month"
	switch plan.BillingCycle {
	case entity.BillingCycleYearly:
		billingPeriod = "year"
	case entity.BillingCycleFree:
		billingPeriod = "forever"
	}

	return &dto.OrderSummaryResponse{
		PlanName:      plan.Name,
		BillingPeriod: billingPeriod,
		PricePerUnit:  fmt.Sprintf("₹%.2f/%s", plan.Price, billingPeriod),
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		Currency:      "INR",
	}, nil
}

func (s *paymentService) Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: req.PlanId})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if plan == nil || !plan.IsActive {
		return nil, apperror.NotFound("PLAN_NOT_FOUND", "Plan not found")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.NotFound("NOT_FOUND", "User not found")
	}

	now := time.Now()
	sub := &entity.Subscription{
		Id:            uuid.New(),
		UserId:        userId,
		PlanId:        plan.Id,
		Status:        entity.SubscriptionStatusInactive,
		PaymentStatus: entity.PaymentStatusPending,
		StartedAt:     now,
		EndsAt:        periodEnd(now, plan.BillingCycle),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// Free plans never touch the gateway: the subscription activates on the
	// spot and the proper end date is stamped here, not by a webhook.
	if !plan.IsPaid() {
		sub.Status = entity.SubscriptionStatusActive
		sub.PaymentStatus = entity.PaymentStatusPaid
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	if err := uow.SubscriptionRepository().CreateSubscription(ctx, sub); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	if !plan.IsPaid() {
		s.accessService.Invalidate(userId)
		s.publishActivated(ctx, sub, plan)
		return &dto.CheckoutResponse{
			SubscriptionId: sub.Id,
			Activated:      true,
		}, nil
	}

	var sClient snap.Client
	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_IS_PRODUCTION") == "true" {
		env = midtrans.Production
	}
	sClient.New(os.Getenv("MIDTRANS_SERVER_KEY"), env)

	finishRedirectURL := fmt.Sprintf("%s/subscription?payment=success", os.Getenv("FRONTEND_URL"))
	finalAmount := int64(plan.Price + (plan.Price * plan.TaxRate))

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  sub.Id.String(),
			GrossAmt: finalAmount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: finishRedirectURL,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.FirstName,
			LName: req.LastName,
			Email: req.Email,
			Phone: req.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    plan.Id.String(),
				Price: finalAmount,
				Qty:   1,
				Name:  plan.Name,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, apperror.Internal(fmt.Errorf("midtrans error: %v", midErr.GetMessage()))
	}

	return &dto.CheckoutResponse{
		SubscriptionId:  sub.Id,
		SnapToken:       snapResp.Token,
		SnapRedirectUrl: snapResp.RedirectURL,
	}, nil
}

func (s *paymentService) HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		return apperror.Internal(fmt.Errorf("MIDTRANS_SERVER_KEY not configured"))
	}

	// Midtrans signature = SHA512(order_id + status_code + gross_amount + server_key)
	signatureInput := req.OrderId + req.StatusCode + req.GrossAmount + serverKey
	expectedSignature := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))
	if req.SignatureKey != expectedSignature {
		return apperror.Authentication("Invalid webhook signature")
	}

	subId, err := uuid.Parse(req.OrderId)
	if err != nil {
		return apperror.InvalidRequest("INVALID_ORDER_ID", "Invalid order id format")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return apperror.Internal(err)
	}
	defer uow.Rollback()

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByID{ID: subId})
	if err != nil {
		return apperror.Internal(err)
	}
	if sub == nil {
		return apperror.NotFound("SUBSCRIPTION_NOT_FOUND", "Subscription not found")
	}

	activated := false
	switch req.TransactionStatus {
	case "capture", "settlement":
		if sub.Status == entity.SubscriptionStatusActive && sub.PaymentStatus == entity.PaymentStatusPaid {
			return nil
		}
		now := time.Now()
		sub.Status = entity.SubscriptionStatusActive
		sub.PaymentStatus = entity.PaymentStatusPaid
		sub.StartedAt = now
		if sub.Plan != nil {
			// The billing period starts at settlement, not at checkout.
			sub.EndsAt = periodEnd(now, sub.Plan.BillingCycle)
		}
		activated = true
	case "deny", "cancel", "expire":
		sub.Status = entity.SubscriptionStatusInactive
		sub.PaymentStatus = entity.PaymentStatusFailed
	case "pending":
		return nil
	default:
		return nil
	}

	transactionId := req.OrderId
	sub.MidtransTransactionId = &transactionId
	sub.UpdatedAt = time.Now()

	if err := uow.SubscriptionRepository().UpdateSubscription(ctx, sub); err != nil {
		return apperror.Internal(err)
	}

	if err := uow.Commit(); err != nil {
		return apperror.Internal(err)
	}

	s.accessService.Invalidate(sub.UserId)
	if activated {
		s.publishActivated(ctx, sub, sub.Plan)
	}
	return nil
}

func (s *paymentService) GetSubscriptionStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	access, err := s.accessService.ResolveAccessibleColleges(ctx, userId)
	if err != nil {
		return nil, err
	}

	colleges, err := uow.CollegeRepository().FindAll(ctx, specification.ByIDs{IDs: access.CollegeIds})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	collegeNames := make([]string, 0, len(colleges))
	for _, c := range colleges {
		collegeNames = append(collegeNames, c.Name)
	}

	res := &dto.SubscriptionStatusResponse{
		PlanName:                  "Free",
		Status:                    "inactive",
		IsActive:                  false,
		HasActivePaidSubscription: access.HasActivePaidSubscription,
		AccessibleColleges:        collegeNames,
	}

	subs, err := uow.SubscriptionRepository().FindAllSubscriptions(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := time.Now()
	for _, sub := range subs {
		if sub.EffectivelyActive(now) {
			res.SubscriptionId = sub.Id
			res.Status = string(sub.Status)
			res.EndsAt = sub.EndsAt
			res.IsActive = true
			if sub.Plan != nil {
				res.PlanName = sub.Plan.Name
			}
			break
		}
	}

	return res, nil
}

func (s *paymentService) CancelSubscription(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	subs, err := uow.SubscriptionRepository().FindAllSubscriptions(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return apperror.Internal(err)
	}

	now := time.Now()
	var activeSub *entity.Subscription
	for _, sub := range subs {
		if sub.EffectivelyActive(now) {
			activeSub = sub
			break
		}
	}
	if activeSub == nil {
		return apperror.NotFound("SUBSCRIPTION_NOT_FOUND", "No active subscription found")
	}

	activeSub.Status = entity.SubscriptionStatusCanceled
	activeSub.UpdatedAt = now
	if err := uow.SubscriptionRepository().UpdateSubscription(ctx, activeSub); err != nil {
		return apperror.Internal(err)
	}

	s.accessService.Invalidate(userId)
	return nil
}

func (s *paymentService) publishActivated(ctx context.Context, sub *entity.Subscription, plan *entity.Plan) {
	if s.eventPublisher == nil {
		return
	}
	data := map[string]interface{}{
		"subscription_id": sub.Id.String(),
		"user_id":         sub.UserId.String(),
		"plan_id":         sub.PlanId.String(),
		"ends_at":         sub.EndsAt,
	}
	if plan != nil {
		data["plan_name"] = plan.Name
	}
	if err := s.eventPublisher.Publish(ctx, events.NewSubscriptionActivated(data)); err != nil {
		fmt.Printf("[WARN] Failed to publish SUBSCRIPTION_ACTIVATED event: %v\n", err)
	}
}

// periodEnd computes the subscription end date for a billing cycle. Free
// plans get a far-future date so EffectivelyActive never ages them out.
func periodEnd(from time.Time, cycle entity.BillingCycle) time.Time {
	switch cycle {
	case entity.BillingCycleYearly:
		return from.AddDate(1, 0, 0)
	case entity.BillingCycleFree:
		return from.AddDate(100, 0, 0)
	default:
		return from.AddDate(0, 1, 0)
	}
}
