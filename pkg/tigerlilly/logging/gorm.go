package logging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// GormLogger routes GORM output through zerolog.
type GormLogger struct {
	level logger.LogLevel
}

// NewGormLogger returns a GORM logger. With traceSQL every statement is
// logged at debug level; otherwise only errors and slow queries are.
func NewGormLogger(traceSQL bool) *GormLogger {
	if traceSQL {
		return &GormLogger{level: logger.Info}
	}
	return &GormLogger{level: logger.Warn}
}

func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &GormLogger{level: level}
}

func (l *GormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Info {
		log.Info().Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Warn {
		log.Warn().Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Error {
		log.Error().Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	var evt *zerolog.Event
	switch {
	// Not-found lookups are expected and reported by the caller.
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		evt = log.Error().Err(err)
	case elapsed > slowQueryThreshold && l.level >= logger.Warn:
		evt = log.Warn().Str("slow", elapsed.String())
	case l.level >= logger.Info:
		evt = log.Debug()
	default:
		return
	}

	sql, rows := fc()
	evt.Str("sql", sql).Int64("rows", rows).Dur("elapsed", elapsed).Msg("gorm")
}
