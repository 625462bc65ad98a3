package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tourdesk/cmd/client/cmd/types"
	"tourdesk/internal/domain/session"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти из панели",
	Long:  `Завершает сессию на сервере. Локальная сессия удаляется в любом случае.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		err = app.Auth().SignOut(ctx)
		if errors.Is(err, session.ErrNoSession) {
			fmt.Println("Сессия не активна")
			return nil
		}
		if err != nil {
			return fmt.Errorf("ошибка выхода на сервере, локальная сессия удалена: %w", err)
		}
		return nil
	},
}
