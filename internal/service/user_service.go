package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"user-directory/internal/domain"
	"user-directory/internal/repository"
)

// DefaultMaxSeedCount bounds a single SeedFake call when no limit is configured.
const DefaultMaxSeedCount = 10000

// UserDirectory describes the CRUD operations over user records.
type UserDirectory interface {
	Create(ctx context.Context, fields domain.UserFields) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, fields domain.UserFields) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	SeedFake(ctx context.Context, count int) (int, error)
}

// DirectoryOptions tunes a UserDirectory.
type DirectoryOptions struct {
	MaxSeedCount int
	Now          func() time.Time
	Logger       logrus.FieldLogger
}

type userDirectory struct {
	users        repository.UserRepository
	maxSeedCount int
	now          func() time.Time
	logger       logrus.FieldLogger
}

func NewUserDirectory(users repository.UserRepository, opts DirectoryOptions) UserDirectory {
	d := &userDirectory{
		users:        users,
		maxSeedCount: opts.MaxSeedCount,
		now:          opts.Now,
		logger:       opts.Logger,
	}
	if d.maxSeedCount <= 0 {
		d.maxSeedCount = DefaultMaxSeedCount
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.logger == nil {
		d.logger = logrus.StandardLogger()
	}
	return d
}

func (d *userDirectory) Create(ctx context.Context, fields domain.UserFields) (*domain.User, error) {
	user, err := domain.NewUser(fields)
	if err != nil {
		return nil, err
	}

	if _, err := d.users.Create(ctx, user); err != nil {
		return nil, err
	}
	d.logger.WithField("user_id", user.ID).Debug("user created")
	return user, nil
}

func (d *userDirectory) List(ctx context.Context) ([]domain.User, error) {
	return d.users.List(ctx)
}

func (d *userDirectory) Get(ctx context.Context, id int64) (*domain.User, error) {
	return d.users.GetByID(ctx, id)
}

func (d *userDirectory) Update(ctx context.Context, id int64, fields domain.UserFields) (*domain.User, error) {
	user, err := domain.NewUser(fields)
	if err != nil {
		return nil, err
	}
	user.ID = id

	if err := d.users.Update(ctx, user); err != nil {
		return nil, err
	}
	d.logger.WithField("user_id", id).Debug("user updated")
	return user, nil
}

func (d *userDirectory) Delete(ctx context.Context, id int64) error {
	if err := d.users.Delete(ctx, id); err != nil {
		return err
	}
	d.logger.WithField("user_id", id).Debug("user deleted")
	return nil
}

// SeedFake inserts count placeholder users numbered from 1.
func (d *userDirectory) SeedFake(ctx context.Context, count int) (int, error) {
	if count < 0 {
		return 0, domain.NewValidationError("count", "must not be negative")
	}
	if count > d.maxSeedCount {
		return 0, domain.NewValidationError("count", fmt.Sprintf("must be at most %d", d.maxSeedCount))
	}

	today := domain.Today(d.now())
	users := make([]domain.User, count)
	for i := range users {
		n := i + 1
		users[i] = domain.User{
			GivenName:  fmt.Sprintf("user%d", n),
			FamilyName: fmt.Sprintf("surname_user%d", n),
			BirthDate:  today,
			Email:      fmt.Sprintf("mail%d@mail.ru", n),
			Address:    fmt.Sprintf("city%d", n),
		}
	}

	inserted, err := d.users.CreateBatch(ctx, users)
	if err != nil {
		return 0, fmt.Errorf("seed fake users: %w", err)
	}
	d.logger.WithField("count", inserted).Info("fake users seeded")
	return inserted, nil
}
