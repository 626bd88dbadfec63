package unitofwork

import (
	"context"

	"research-link-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	CollegeRepository() contract.CollegeRepository
	ProfileRepository() contract.ProfileRepository
	SubscriptionRepository() contract.SubscriptionRepository
	ProjectRepository() contract.ProjectRepository
	ApplicationRepository() contract.ApplicationRepository
}
