package cli

import (
	"github.com/spf13/cobra"
)

func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roombooking",
		Short: "Room reservation backend",
	}
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewSendRemindersCmd())
	cmd.AddCommand(NewCreateAdminCmd())
	return cmd
}
