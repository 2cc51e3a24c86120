package uow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/frahmantamala/bengkelku/pkg/uow"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUnitOfWork(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Unit Of Work Suite")
}

type counter struct {
	ID    int64 `gorm:"primaryKey"`
	Value int
}

type counterRepository struct {
	db *gorm.DB
}

func (r *counterRepository) Create(ctx context.Context, value int) error {
	return r.db.WithContext(ctx).Create(&counter{Value: value}).Error
}

func (r *counterRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&counter{}).Count(&n).Error
	return n, err
}

const counterRepo uow.RepositoryName = "counter"

var _ = Describe("UnitOfWork", func() {
	var (
		db  *gorm.DB
		u   *uow.UnitOfWork
		ctx context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&counter{})).To(Succeed())

		ctx = context.Background()
		u = uow.NewUnitOfWork(db)
		Expect(u.Register(counterRepo, func(db *gorm.DB) uow.Repository {
			return &counterRepository{db: db}
		})).To(Succeed())
	})

	It("rejects duplicate registration", func() {
		err := u.Register(counterRepo, func(db *gorm.DB) uow.Repository { return nil })
		Expect(err).To(MatchError(uow.ErrRepositoryAlreadyRegistered))
	})

	It("commits writes when fn succeeds", func() {
		err := u.Do(ctx, func(ctx context.Context, tx uow.TX) error {
			repo, err := uow.GetAs[*counterRepository](tx, counterRepo)
			if err != nil {
				return err
			}
			return repo.Create(ctx, 1)
		})
		Expect(err).NotTo(HaveOccurred())

		repo, err := uow.GetRepositoryAs[*counterRepository](u, counterRepo)
		Expect(err).NotTo(HaveOccurred())
		Expect(repo.Count(ctx)).To(BeEquivalentTo(1))
	})

	It("rolls back every write when fn fails", func() {
		boom := errors.New("boom")
		err := u.Do(ctx, func(ctx context.Context, tx uow.TX) error {
			repo, err := uow.GetAs[*counterRepository](tx, counterRepo)
			if err != nil {
				return err
			}
			if err := repo.Create(ctx, 1); err != nil {
				return err
			}
			if err := repo.Create(ctx, 2); err != nil {
				return err
			}
			return boom
		})
		Expect(err).To(MatchError(boom))

		repo, err := uow.GetRepositoryAs[*counterRepository](u, counterRepo)
		Expect(err).NotTo(HaveOccurred())
		Expect(repo.Count(ctx)).To(BeZero())
	})

	It("reports unknown and mistyped repositories", func() {
		_, err := u.GetRepository("missing")
		Expect(err).To(MatchError(uow.ErrRepositoryNotRegistered))

		_, err = uow.GetRepositoryAs[*gorm.DB](u, counterRepo)
		Expect(err).To(MatchError(uow.ErrInvalidRepositoryType))
	})
})
