package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/vocabtrainer/internal/bot"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot and the reminder scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		be, err := openBackend(cfg)
		if err != nil {
			return err
		}
		defer be.Close()

		b, err := bot.New(cfg, be)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Println("Bot started. Press Ctrl+C to stop.")
		err = b.Start(ctx)
		b.Stop()
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		log.Println("Bot stopped successfully")
		return nil
	},
}
