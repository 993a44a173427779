package cmd

import (
	"errors"

	"blog-cms/app"
	"blog-cms/models"
	"blog-cms/services"

	"github.com/spf13/cobra"
)

func createAdminCmd(rt *runtime) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			if len(password) < 6 {
				return errors.New("password must be at least 6 characters")
			}

			a, err := app.NewStore(rt.cfg, rt.log)
			if err != nil {
				return err
			}
			defer a.Close()

			tokens := services.NewTokenService(rt.cfg.JWTSecret, rt.cfg.JWTExpiration)
			auth := services.NewAuthService(a.Repos.Users, tokens, rt.cfg.BcryptCost, rt.log)
			user, err := auth.SignupAdmin(cmd.Context(), models.SignupRequest{
				Name:     name,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			cmd.Printf("admin %s created with id %s\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Admin", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "login password")
	return cmd
}
