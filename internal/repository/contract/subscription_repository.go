package contract

import (
	"context"

	"research-link-be/internal/entity"
	"research-link-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SubscriptionRepository interface {
	// Plans
	CreatePlan(ctx context.Context, plan *entity.Plan) error
	UpdatePlan(ctx context.Context, plan *entity.Plan) error
	FindOnePlan(ctx context.Context, specs ...specification.Specification) (*entity.Plan, error)
	FindAllPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.Plan, error)
	AddCollegeToPlan(ctx context.Context, planId uuid.UUID, collegeId uuid.UUID) error
	RemoveCollegeFromPlan(ctx context.Context, planId uuid.UUID, collegeId uuid.UUID) error

	// Subscriptions. Find* preload the plan and its college grants so the
	// accessibility resolver gets everything in one round trip.
	CreateSubscription(ctx context.Context, sub *entity.Subscription) error
	UpdateSubscription(ctx context.Context, sub *entity.Subscription) error
	FindOneSubscription(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)
	FindAllSubscriptions(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error)
}
