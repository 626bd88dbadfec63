package service

import (
	"context"
	"time"

	"research-link-be/internal/entity"
	"research-link-be/internal/pkg/apperror"
	"research-link-be/internal/repository/specification"
	"research-link-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// accessCacheTTL is short on purpose: resolver output decays as ends_at
// passes, so a stale grant can outlive the subscription by at most the TTL.
const accessCacheTTL = 30 * time.Second

type IAccessService interface {
	ResolveAccessibleColleges(ctx context.Context, userId uuid.UUID) (*entity.CollegeAccess, error)
	Invalidate(userId uuid.UUID)
}

type accessService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *gocache.Cache
}

func NewAccessService(uowFactory unitofwork.RepositoryFactory) IAccessService {
	return &accessService{
		uowFactory: uowFactory,
		cache:      gocache.New(accessCacheTTL, time.Minute),
	}
}

func (s *accessService) ResolveAccessibleColleges(ctx context.Context, userId uuid.UUID) (*entity.CollegeAccess, error) {
	if cached, ok := s.cache.Get(userId.String()); ok {
		return cached.(*entity.CollegeAccess), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.NotFound("NOT_FOUND", "User not found")
	}

	now := time.Now()
	subs, err := uow.SubscriptionRepository().FindAllSubscriptions(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.EffectivelyActive{Now: now},
	)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	access := &entity.CollegeAccess{
		OwnCollegeId:  user.CollegeId,
		CollegeIds:    []uuid.UUID{user.CollegeId},
		PlanByCollege: make(map[uuid.UUID]string),
	}

	seen := map[uuid.UUID]bool{user.CollegeId: true}
	for _, sub := range subs {
		// Only paid plans grant cross-college access. FREE plans never do.
		if sub.Plan == nil || !sub.Plan.IsPaid() || !sub.EffectivelyActive(now) {
			continue
		}
		access.HasActivePaidSubscription = true
		access.ActivePlans = append(access.ActivePlans, entity.ActivePlan{
			PlanName: sub.Plan.Name,
			EndsAt:   sub.EndsAt,
		})
		for _, college := range sub.Plan.Colleges {
			if !seen[college.Id] {
				seen[college.Id] = true
				access.CollegeIds = append(access.CollegeIds, college.Id)
				access.PlanByCollege[college.Id] = sub.Plan.Name
			}
		}
	}

	s.cache.Set(userId.String(), access, accessCacheTTL)
	return access, nil
}

// Invalidate drops the cached resolution, used when a subscription is
// activated or canceled so new grants show up immediately.
func (s *accessService) Invalidate(userId uuid.UUID) {
	s.cache.Delete(userId.String())
}
