package sqlstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tasktracker/config"
	deliverycontext "tasktracker/internal/delivery/context"
)

func sqlAndRows() (string, int64) {
	return `SELECT * FROM "tasks" WHERE user_id = 7`, 2
}

func TestGormSlogLogger_TraceUsesRequestLogger(t *testing.T) {
	var base, scoped bytes.Buffer
	l := newGormSlogLogger(slog.New(slog.NewJSONHandler(&base, nil)), &config.Config{})

	ctx := deliverycontext.WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&scoped, nil)).With(slog.String("request_id", "req-9")))
	ctx = deliverycontext.WithUserID(ctx, 7)
	l.Trace(ctx, time.Now(), sqlAndRows, errors.New("disk I/O error"))

	assert.Empty(t, base.String())

	var record map[string]any
	require.NoError(t, json.Unmarshal(scoped.Bytes(), &record))
	assert.Equal(t, "GORM query failed", record["msg"])
	assert.Equal(t, "req-9", record["request_id"])
	assert.EqualValues(t, 7, record["user_id"])
	assert.EqualValues(t, 2, record["rows"])
	assert.Equal(t, "disk I/O error", record["error"])
}

func TestGormSlogLogger_TraceSkipsRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	l := newGormSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)), &config.Config{})

	l.Trace(context.Background(), time.Now(), sqlAndRows, gorm.ErrRecordNotFound)

	assert.Empty(t, buf.String())
}

func TestGormSlogLogger_TraceWithoutUser(t *testing.T) {
	var buf bytes.Buffer
	l := newGormSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)), &config.Config{})

	l.Trace(context.Background(), time.Now(), sqlAndRows, errors.New("boom"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.NotContains(t, record, "user_id")
}
