// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	deliverycontext "tasktracker/internal/delivery/context"
	"tasktracker/internal/domain/entity"
	domainerrors "tasktracker/internal/domain/errors"
	"tasktracker/internal/domain/repository"
	"tasktracker/internal/domain/service"
	"tasktracker/internal/errors"
	"tasktracker/internal/infra/metrics"
	"tasktracker/internal/usecase"
)

const (
	eventRegister = "register"
	eventLogin    = "login"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		metrics:      params.Metrics,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates an account for a username that is not taken yet.
// The existence check and the insert are not serialised; a concurrent insert of
// the same username is rejected by the unique index and reported the same way.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (out *usecase.RegisterOutput, err error) {
	defer func() { srv.metrics.RecordAccountEvent(eventRegister, err) }()

	if input.Username == "" || input.Password == "" {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("username and password are required"))
	}

	srv.log(ctx).Info("Starting registration", slog.String("username", input.Username))

	_, err = srv.userRepo.FindByUsername(ctx, input.Username)
	switch {
	case err == nil:
		srv.log(ctx).Warn("Registration rejected, username taken", slog.String("username", input.Username))

		return nil, errors.Wrap(domainerrors.ErrUserAlreadyExists, "registration failed")
	case !errors.Is(err, repository.ErrUserNotFound):
		srv.log(ctx).Error("Failed to look up username", slog.String("username", input.Username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to look up username")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Warn("Failed to hash password during registration", slog.String("username", input.Username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	newUser := &entity.User{
		Username:     input.Username,
		PasswordHash: hashedPassword,
	}
	if err = srv.userRepo.Create(ctx, newUser); err != nil {
		srv.log(ctx).Warn("Failed to create user", slog.String("username", input.Username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create user during registration")
	}

	srv.log(ctx).Info("User registered", slog.String("username", newUser.Username), slog.Uint64("userID", uint64(newUser.ID)))

	return &usecase.RegisterOutput{User: newUser}, nil
}

// Login verifies the password of an existing user and issues an access token.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (out *usecase.LoginOutput, err error) {
	defer func() { srv.metrics.RecordAccountEvent(eventLogin, err) }()

	if input.Username == "" || input.Password == "" {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("username and password are required"))
	}

	srv.log(ctx).Debug("Starting login", slog.String("username", input.Username))

	user, err := srv.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed, unknown user", slog.String("username", input.Username))

			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "login failed")
		}
		srv.log(ctx).Error("Failed to load user for login", slog.String("username", input.Username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find user for login")
	}

	// bcrypt is CPU-bound and runs outside of any transaction.
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed, wrong password", slog.String("username", input.Username))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	accessToken, err := srv.tokenService.Issue(user.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to issue access token", slog.Uint64("userID", uint64(user.ID)), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrTokenIssueFailed, err.Error())
	}

	srv.log(ctx).Info("User logged in", slog.String("username", user.Username), slog.Uint64("userID", uint64(user.ID)))

	return &usecase.LoginOutput{
		AccessToken: accessToken,
		Username:    user.Username,
	}, nil
}
