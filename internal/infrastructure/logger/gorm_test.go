package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogger_Trace(t *testing.T) {
	sqlFn := func() (string, int64) { return "SELECT * FROM memory_cards", 1 }

	t.Run("logs errors", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn)

		l.Trace(context.Background(), time.Now(), sqlFn, errors.New("syntax error"))

		assert.Equal(t, 1, logs.FilterMessage("SQL Error").Len())
	})

	t.Run("ignores record not found", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn)

		l.Trace(context.Background(), time.Now(), sqlFn, gormlogger.ErrRecordNotFound)

		assert.Equal(t, 0, logs.Len())
	})

	t.Run("warns on slow queries", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(time.Millisecond))

		l.Trace(context.Background(), time.Now().Add(-time.Second), sqlFn, nil)

		entries := logs.FilterMessage("Slow SQL").All()
		if assert.Len(t, entries, 1) {
			assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		}
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Info).LogMode(gormlogger.Silent)

		l.Trace(context.Background(), time.Now(), sqlFn, errors.New("x"))

		assert.Equal(t, 0, logs.Len())
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("unknown"))
}
