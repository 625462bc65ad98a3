package auth

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tourdesk/cmd/client/cmd/types"
)

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Состояние сессии",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		store := app.Session()
		if !store.Authorized() {
			fmt.Println("Сессия не активна. Выполните: tourdesk auth login")
			return nil
		}

		fmt.Println("Сессия активна")
		if admin, ok := store.CurrentUser(); ok {
			fmt.Printf("  Администратор: %s <%s>\n", admin.Name, admin.Email)
			if admin.JobTitle != "" {
				fmt.Printf("  Должность:     %s\n", admin.JobTitle)
			}
			fmt.Printf("  Права:         %s\n", admin.Permission())
		}
		if exp, ok := store.Expiry(); ok {
			left := time.Until(exp).Round(time.Minute)
			fmt.Printf("  Токен до:      %s (осталось %s)\n", exp.Local().Format("2006-01-02 15:04"), left)
		}
		return nil
	},
}
