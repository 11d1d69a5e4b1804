package handler

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"tasktracker/internal/delivery/api/validator"
	deliverycontext "tasktracker/internal/delivery/context"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validator.New()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func newAuthedContext(method, target, body string, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newTestContext(method, target, body)
	deliverycontext.SetUserID(c, userID)

	return c, rec
}

