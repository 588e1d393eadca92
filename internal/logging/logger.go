package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"shopify-pricer/internal/config"
)

type LoggerService interface {
	Log(value string)
	LogError(value string, err error)
	LogWarning(value string)
	LogSuccess(value string)
}

// Logger writes structured lines through zap and mirrors every message to
// Telegram when bot credentials are configured.
type Logger struct {
	zap      *zap.Logger
	telegram *telegramNotifier
}

func NewLogger(cfg config.LoggerConfig, bot config.TelegramBotConfig) (*Logger, error) {
	level := zapcore.InfoLevel
	if strings.TrimSpace(cfg.Level) != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
			return nil, err
		}
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.Encoding = "console"
	if cfg.Encoding == "json" {
		zapCfg.Encoding = "json"
	}
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.DisableStacktrace = true

	base, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	notifier := newTelegramNotifier(bot)
	if notifier == nil {
		base.Warn("telegram credentials missing, notifications disabled")
	}
	return &Logger{zap: base, telegram: notifier}, nil
}

// NewNop discards everything; used by tests and by callers that pass no logger.
func NewNop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

func (l *Logger) Sync() {
	if l == nil {
		return
	}
	_ = l.zap.Sync()
}

func (l *Logger) Log(value string) {
	if l == nil {
		return
	}
	l.zap.Info(value)
	l.notify(iconInfo, "INFO", value)
}

func (l *Logger) LogError(value string, err error) {
	if l == nil {
		return
	}
	l.zap.Error(value, zap.Error(err))
	if err != nil {
		value = value + ": " + err.Error()
	}
	l.notify(iconError, "ERROR", value)
}

func (l *Logger) LogWarning(value string) {
	if l == nil {
		return
	}
	l.zap.Warn(value)
	l.notify(iconWarning, "WARNING", value)
}

func (l *Logger) LogSuccess(value string) {
	if l == nil {
		return
	}
	l.zap.Info(value, zap.Bool("success", true))
	l.notify(iconSuccess, "SUCCESS", value)
}

func (l *Logger) notify(icon, level, value string) {
	if l.telegram == nil {
		return
	}
	if err := l.telegram.send(formatMessage(icon, level, value)); err != nil {
		l.zap.Warn("telegram notification failed", zap.Error(err))
	}
}
