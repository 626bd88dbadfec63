package unitofwork

import (
	"context"
	"errors"

	"research-link-be/internal/repository/contract"
	"research-link-be/internal/repository/implementation"

	"gorm.io/gorm"
)

var (
	errTxOpen = errors.New("transaction already open")
	errNoTx   = errors.New("no open transaction")
)

type unitOfWork struct {
	db *gorm.DB
	tx *gorm.DB // nil outside a transaction
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &unitOfWork{db: db}
}

// conn returns the open transaction when there is one, so repositories
// created mid-transaction see its uncommitted writes.
func (u *unitOfWork) conn() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return errTxOpen
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return errNoTx
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

// Rollback is a no-op error after Commit, which lets services defer it
// unconditionally once Begin succeeds.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return errNoTx
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

func (u *unitOfWork) UserRepository() contract.UserRepository {
	return implementation.NewUserRepository(u.conn())
}

func (u *unitOfWork) CollegeRepository() contract.CollegeRepository {
	return implementation.NewCollegeRepository(u.conn())
}

func (u *unitOfWork) ProfileRepository() contract.ProfileRepository {
	return implementation.NewProfileRepository(u.conn())
}

func (u *unitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return implementation.NewSubscriptionRepository(u.conn())
}

func (u *unitOfWork) ProjectRepository() contract.ProjectRepository {
	return implementation.NewProjectRepository(u.conn())
}

func (u *unitOfWork) ApplicationRepository() contract.ApplicationRepository {
	return implementation.NewApplicationRepository(u.conn())
}
