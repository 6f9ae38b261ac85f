package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/backissue/pkg/types"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create [username]",
	Short: "Create a user account",
	Long: `Create adds a user account. Imports name an acting user and an editor by
username; both must exist before an import runs.`,
	Args: cobra.ExactArgs(1),
	RunE: runUserCreate,
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	u := &types.User{Username: args[0], Email: email}
	if err := s.CreateUser(cmd.Context(), u); err != nil {
		return err
	}
	fmt.Printf("Created user %s (id %d)\n", u.Username, u.ID)
	return nil
}

func init() {
	userCreateCmd.Flags().String("email", "", "contact address for the account")

	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}
