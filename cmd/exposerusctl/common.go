package main

import (
	"context"
	"fmt"

	config "github.com/NordCoder/Exposerus/internal/config/notifier"
	"github.com/NordCoder/Exposerus/internal/obs"
	"go.uber.org/zap"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	lc := cfg.AsLoggerConfig()
	lc.App = "exposerus/ctl"
	l, err := obs.NewLogger(lc)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return l, nil
}

// stdoutSender prints messages instead of delivering them.
type stdoutSender struct {
	print func(format string, a ...any)
}

func (s stdoutSender) Send(_ context.Context, chatID, text string) error {
	s.print("--- to %s ---\n%s\n", chatID, text)
	return nil
}
