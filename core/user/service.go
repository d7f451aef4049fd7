package user

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		// GetUserByEmail returns the first user registered with email.
		GetUserByEmail(ctx context.Context, email string) (User, error)
		CountUsers(ctx context.Context) (total int, byRole map[Role]int, err error)
	}

	Service interface {
		// Login resolves the user registered with the credentials' email.
		// The password is only checked when password verification is enabled.
		Login(ctx context.Context, cred Credentials) (User, error)
		// Register always creates a new user, even if the email is already taken.
		Register(ctx context.Context, nu NewUser) (User, error)
		GetByID(ctx context.Context, id string) (User, error)
		QueryAll(ctx context.Context) ([]User, error)
		Count(ctx context.Context) (int, map[Role]int, error)
	}

	service struct {
		repo            Repository
		latency         core.Latency
		verifyPasswords bool
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, latency core.Latency, verifyPasswords bool) Service {
	return &service{
		repo:            repo,
		latency:         latency,
		verifyPasswords: verifyPasswords,
	}
}

func (svc *service) Login(ctx context.Context, cred Credentials) (User, error) {
	if err := svc.latency.Wait(ctx); err != nil {
		return User{}, err
	}
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(cred.Email, true /* lower */))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if svc.verifyPasswords {
		if len(usr.PasswordHash) == 0 || usr.CheckPassword(cred.Password) != nil {
			return User{}, ErrInvalidCredentials
		}
	}
	return usr, nil
}

func (svc *service) Register(ctx context.Context, nu NewUser) (User, error) {
	if err := svc.latency.Wait(ctx); err != nil {
		return User{}, err
	}
	usr := User{
		ID:        uuid.NewString(),
		Email:     core.CleanString(nu.Email, true /* lower */),
		Role:      nu.Role,
		Name:      core.CleanString(nu.Name),
		CreatedAt: time.Now().UTC(),
	}
	if nu.Password != "" {
		if err := usr.SetPassword(nu.Password); err != nil {
			return User{}, errors.Wrap(err, "hashing password")
		}
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	if err := svc.latency.Wait(ctx); err != nil {
		return User{}, err
	}
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *service) QueryAll(ctx context.Context) ([]User, error) {
	if err := svc.latency.Wait(ctx); err != nil {
		return nil, err
	}
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *service) Count(ctx context.Context) (int, map[Role]int, error) {
	return svc.repo.CountUsers(ctx)
}
