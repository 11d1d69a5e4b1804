package middleware

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	deliverycontext "tasktracker/internal/delivery/context"
	domainerrors "tasktracker/internal/domain/errors"
	"tasktracker/internal/domain/service"
	"tasktracker/internal/errors"
	"tasktracker/internal/infra/metrics"
)

const (
	headerAuthorization = "Authorization"
	bearerPrefix        = "Bearer "
)

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	TokenService service.TokenService
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
}

// AuthMiddleware guards routes that require a valid access token.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{
		tokenSvc: params.TokenService,
		metrics:  params.Metrics,
		logger:   params.Logger,
	}
}

// Authenticate verifies the Authorization header and binds the token's user ID
// to the request before calling next. The "Bearer " prefix is optional.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)

		token := strings.TrimSpace(strings.TrimPrefix(c.Request().Header.Get(headerAuthorization), bearerPrefix))
		if token == "" {
			return m.reject(logger, metrics.ReasonMissing, errors.WithStack(domainerrors.ErrTokenMissing))
		}

		claims, err := m.tokenSvc.Verify(token)
		if err != nil {
			if errors.Is(err, service.ErrTokenExpired) {
				return m.reject(logger, metrics.ReasonExpired, errors.Wrap(domainerrors.ErrTokenExpired, err.Error()))
			}

			return m.reject(logger, metrics.ReasonInvalid, errors.Wrap(domainerrors.ErrTokenInvalid, err.Error()))
		}

		deliverycontext.SetUserID(c, claims.UserID)
		logger.Debug("Request authenticated", slog.Uint64("userID", uint64(claims.UserID)))

		return next(c)
	}
}

func (m *AuthMiddleware) reject(logger *slog.Logger, reason string, err error) error {
	m.metrics.RecordAuthFailure(reason)
	logger.Warn("Request rejected by access guard", slog.String("reason", reason), slog.Any("error", err))

	return err
}
