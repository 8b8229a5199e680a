package cli

import (
	"fmt"

	"room-booking-backend/internal/config"
	"room-booking-backend/internal/database"
	"room-booking-backend/internal/models"
	"room-booking-backend/internal/repository"
	"room-booking-backend/pkg/utils"

	"github.com/spf13/cobra"
)

func NewCreateAdminCmd() *cobra.Command {
	var username, email, password string
	c := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a staff user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			db := database.Connect(cfg)
			database.Migrate(db)

			users := repository.NewUserRepo(db)

			passwordHash, err := utils.HashPassword(password)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			user := &models.User{
				Username:     username,
				Email:        email,
				PasswordHash: passwordHash,
				IsStaff:      true,
			}
			if err := users.CreateUser(user); err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}
			fmt.Println("created staff user:", user.Username)
			return nil
		},
	}
	c.Flags().StringVar(&username, "username", "", "username")
	c.Flags().StringVar(&email, "email", "", "email address")
	c.Flags().StringVar(&password, "password", "", "password")
	_ = c.MarkFlagRequired("username")
	_ = c.MarkFlagRequired("password")
	return c
}
