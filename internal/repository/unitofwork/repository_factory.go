package unitofwork

import "context"

// RepositoryFactory hands out units of work. Services hold the factory,
// not a *gorm.DB, which keeps them testable against in-memory fakes.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
