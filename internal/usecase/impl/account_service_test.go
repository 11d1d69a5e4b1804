package impl

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tasktracker/internal/domain/entity"
	domainerrors "tasktracker/internal/domain/errors"
	"tasktracker/internal/domain/repository"
	"tasktracker/internal/infra/metrics"
	mockRepo "tasktracker/internal/mocks/repository"
	mockSvc "tasktracker/internal/mocks/service"
	"tasktracker/internal/usecase"
)

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service      usecase.AccountUsecase
	userRepo     *mockRepo.MockUserRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
	metrics      *metrics.Metrics
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)
	m := metrics.New()

	service := NewAccountService(AccountServiceParams{
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Metrics:      m,
		Logger:       newDiscardLogger(),
	})

	return accountServiceFixtures{
		service:      service,
		userRepo:     userRepo,
		hasher:       hasher,
		tokenService: tokenService,
		metrics:      m,
	}
}

func TestAccountService_Register_Success(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	input := &usecase.RegisterInput{Username: "alice", Password: "secret123"}

	fx.userRepo.EXPECT().FindByUsername(ctx, "alice").Return(nil, repository.ErrUserNotFound)
	fx.hasher.EXPECT().Hash("secret123").Return("hashed_password", nil)
	fx.userRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.User")).
		Run(func(_ context.Context, user *entity.User) {
			user.ID = 1
		}).
		Return(nil)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, uint(1), output.User.ID)
	assert.Equal(t, "alice", output.User.Username)
	assert.Equal(t, "hashed_password", output.User.PasswordHash)
	assert.InDelta(t, 1, testutil.ToFloat64(fx.metrics.AccountEvents.WithLabelValues("register", metrics.OutcomeSuccess)), 0)
}

func TestAccountService_Register_UsernameTaken(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().
		FindByUsername(ctx, "alice").
		Return(&entity.User{ID: 1, Username: "alice"}, nil)

	output, err := fx.service.Register(ctx, &usecase.RegisterInput{Username: "alice", Password: "other"})

	assert.Nil(t, output)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
	assert.InDelta(t, 1, testutil.ToFloat64(fx.metrics.AccountEvents.WithLabelValues("register", metrics.OutcomeFailure)), 0)
}

func TestAccountService_Register_LosesInsertRace(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByUsername(ctx, "alice").Return(nil, repository.ErrUserNotFound)
	fx.hasher.EXPECT().Hash("pw").Return("hashed", nil)
	fx.userRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.User")).
		Return(domainerrors.ErrUserAlreadyExists.WrapMessage("username already exists"))

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{Username: "alice", Password: "pw"})

	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
}

func TestAccountService_Register_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		input *usecase.RegisterInput
	}{
		{name: "missing username", input: &usecase.RegisterInput{Password: "pw"}},
		{name: "missing password", input: &usecase.RegisterInput{Username: "alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAccountService(t)

			_, err := fx.service.Register(context.Background(), tt.input)

			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
		})
	}
}

func TestAccountService_Register_LookupFails(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	dbErr := errors.New("connection refused")

	fx.userRepo.EXPECT().FindByUsername(ctx, "alice").Return(nil, dbErr)

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{Username: "alice", Password: "pw"})

	assert.True(t, errors.Is(err, dbErr))
}

func TestAccountService_Register_HashFails(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByUsername(ctx, "alice").Return(nil, repository.ErrUserNotFound)
	fx.hasher.EXPECT().Hash("pw").Return("", domainerrors.ErrValidationFailed.WithDetails("password must not exceed 72 bytes"))

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{Username: "alice", Password: "pw"})

	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestAccountService_Login_Success(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	user := &entity.User{ID: 7, Username: "alice", PasswordHash: "hashed"}

	fx.userRepo.EXPECT().FindByUsername(ctx, "alice").Return(user, nil)
	fx.hasher.EXPECT().Check("secret123", "hashed").Return(true)
	fx.tokenService.EXPECT().Issue(uint(7)).Return("signed.jwt.token", nil)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "secret123"})

	require.NoError(t, err)
	assert.Equal(t, "signed.jwt.token", output.AccessToken)
	assert.Equal(t, "alice", output.Username)
	assert.InDelta(t, 1, testutil.ToFloat64(fx.metrics.AccountEvents.WithLabelValues("login", metrics.OutcomeSuccess)), 0)
}

func TestAccountService_Login_UnknownUser(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByUsername(ctx, "ghost").Return(nil, repository.ErrUserNotFound)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "ghost", Password: "x"})

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().
		FindByUsername(ctx, "alice").
		Return(&entity.User{ID: 7, Username: "alice", PasswordHash: "hashed"}, nil)
	fx.hasher.EXPECT().Check("wrong", "hashed").Return(false)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "wrong"})

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	assert.InDelta(t, 1, testutil.ToFloat64(fx.metrics.AccountEvents.WithLabelValues("login", metrics.OutcomeFailure)), 0)
}

func TestAccountService_Login_TokenIssueFails(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().
		FindByUsername(ctx, "alice").
		Return(&entity.User{ID: 7, Username: "alice", PasswordHash: "hashed"}, nil)
	fx.hasher.EXPECT().Check("pw", "hashed").Return(true)
	fx.tokenService.EXPECT().Issue(uint(7)).Return("", errors.New("signing failed"))

	_, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "pw"})

	assert.True(t, errors.Is(err, domainerrors.ErrTokenIssueFailed))
}
