package main

import (
	"fmt"

	"github.com/NordCoder/Exposerus/internal/repository/telegram"
	"github.com/spf13/cobra"
)

const testMessage = "<b>Test Message</b>\nMy message"

func sendTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send-test",
		Short: "Send a test message to the admin chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireToken(); err != nil {
				return err
			}
			if cfg.Telegram.AdminChatID == "" {
				return fmt.Errorf("telegram.adminChatId is empty")
			}
			l, err := newLogger(cfg)
			if err != nil {
				return err
			}
			tg, err := telegram.New(cfg.Telegram.Token, cfg.Telegram.ServerURL, l)
			if err != nil {
				return err
			}
			if err := tg.Send(cmd.Context(), cfg.Telegram.AdminChatID, testMessage); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent test message to %s\n", cfg.Telegram.AdminChatID)
			return nil
		},
	}
}
