package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tourdesk/cmd/client/cmd/types"
	"tourdesk/internal/domain/session"
)

var (
	profileName     string
	profileEmail    string
	profilePassword bool
)

var ProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Профиль администратора",
	Long: `Без флагов показывает профиль. С флагами --name, --email или --password
обновляет его на сервере.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AuthorizedApp(cmd)
		if err != nil {
			return err
		}

		admin, ok := app.Session().CurrentUser()
		if !ok {
			return session.ErrNoSession
		}

		if profileName == "" && profileEmail == "" && !profilePassword {
			fmt.Printf("Имя:     %s\n", admin.Name)
			fmt.Printf("Email:   %s\n", admin.Email)
			fmt.Printf("Роль:    %s\n", admin.Permission())
			if !admin.CreatedAt.IsZero() {
				fmt.Printf("Создан:  %s\n", admin.CreatedAt.Local().Format("2006-01-02"))
			}
			return nil
		}

		upd := session.ProfileUpdate{Name: admin.Name, Email: admin.Email}
		if profileName != "" {
			upd.Name = profileName
		}
		if profileEmail != "" {
			upd.Email = profileEmail
		}
		if profilePassword {
			if upd.OldPassword, err = readPassword("Текущий пароль: "); err != nil {
				return err
			}
			if upd.NewPassword, err = readPassword("Новый пароль: "); err != nil {
				return err
			}
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if _, err := app.Auth().UpdateProfile(ctx, upd); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	ProfileCmd.Flags().StringVar(&profileName, "name", "", "новое имя")
	ProfileCmd.Flags().StringVar(&profileEmail, "email", "", "новый email")
	ProfileCmd.Flags().BoolVar(&profilePassword, "password", false, "сменить пароль")
}
