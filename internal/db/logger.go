package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// zapLogger sends gorm output to zap. Statements are logged with placeholders
// only, so bound values such as emails and password hashes never reach the logs.
type zapLogger struct {
	log   *zap.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

var (
	_ gormlogger.Interface = (*zapLogger)(nil)
	_ gorm.ParamsFilter    = (*zapLogger)(nil)
)

func newZapLogger(log *zap.Logger, level gormlogger.LogLevel) *zapLogger {
	if log == nil {
		log = zap.NewNop()
	}
	return &zapLogger{log: log.Named("gorm"), level: level, slow: slowQueryThreshold}
}

func (l *zapLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *zapLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.log.Info(fmt.Sprintf(msg, args...))
	}
}

func (l *zapLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.log.Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *zapLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.log.Error(fmt.Sprintf(msg, args...))
	}
}

// Trace logs failed and slow statements. Missing rows and unique violations
// are handled by callers and stay at debug.
func (l *zapLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && (errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, gorm.ErrDuplicatedKey)):
		if ce := l.log.Check(zap.DebugLevel, "query"); ce != nil {
			sql, rows := fc()
			ce.Write(zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed), zap.Error(err))
		}
	case err != nil && l.level >= gormlogger.Error:
		sql, rows := fc()
		l.log.Error("query failed", zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed), zap.Error(err))
	case elapsed > l.slow && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.log.Warn("slow query", zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed))
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.log.Debug("query", zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed))
	}
}

// ParamsFilter drops bound values before gorm renders the statement.
func (l *zapLogger) ParamsFilter(_ context.Context, sql string, _ ...interface{}) (string, []interface{}) {
	return sql, nil
}
