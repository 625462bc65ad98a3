package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tourdesk/cmd/client/cmd/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Фоновая проверка сессии и push-канал",
	Long: `Держит соединение с push-каналом и раз в REVALIDATE_INTERVAL_MINUTES
сверяет текущую сессию с сервером. Уведомления печатаются по мере появления.
Завершается по Ctrl+C.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		fmt.Printf("Проверка сессии каждые %s, Ctrl+C для выхода\n", app.Config().Revalidate())
		return app.Run(cmd.Context())
	},
}
