package uow

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

type RepositoryName string
type Repository any
type RepositoryFactory func(db *gorm.DB) Repository

type UnitOfWork struct {
	db           *gorm.DB
	mu           sync.RWMutex
	repositories map[RepositoryName]RepositoryFactory
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{
		db:           db,
		repositories: make(map[RepositoryName]RepositoryFactory),
	}
}

// Register adds a repository factory. Registering the same name twice returns
// ErrRepositoryAlreadyRegistered.
func (u *UnitOfWork) Register(name RepositoryName, factory RepositoryFactory) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, ok := u.repositories[name]; ok {
		return ErrRepositoryAlreadyRegistered
	}
	u.repositories[name] = factory
	return nil
}

// Do runs fn inside one database transaction. A non-nil error from fn, or a
// panic, rolls back every write made through tx.
func (u *UnitOfWork) Do(ctx context.Context, fn func(context.Context, TX) error) error {
	u.mu.RLock()
	repos := make(map[RepositoryName]RepositoryFactory, len(u.repositories))
	for name, factory := range u.repositories {
		repos[name] = factory
	}
	u.mu.RUnlock()

	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewTransaction(tx, repos))
	})
}

// GetRepository returns the named repository bound to the pool, outside any transaction.
func (u *UnitOfWork) GetRepository(name RepositoryName) (Repository, error) {
	u.mu.RLock()
	factory, ok := u.repositories[name]
	u.mu.RUnlock()

	if !ok {
		return nil, ErrRepositoryNotRegistered
	}
	return factory(u.db), nil
}

// GetRepositoryAs returns the named pool-bound repository asserted to T.
func GetRepositoryAs[T any](u UOW, name RepositoryName) (T, error) {
	var res T
	repo, err := u.GetRepository(name)
	if err != nil {
		return res, err
	}
	r, ok := repo.(T)
	if !ok {
		return res, ErrInvalidRepositoryType
	}
	return r, nil
}
