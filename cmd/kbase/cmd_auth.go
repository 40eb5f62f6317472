package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// loginCmd authenticates against the user directory and stores a session
var loginCmd = &cobra.Command{
	Use:   "login <username> <password>",
	Short: "Authenticate and start a session",
	Long: `Authenticate against the local user directory and persist a signed
session. While the directory is empty the bootstrap credential
admin/admin123 is accepted.`,
	Args: cobra.ExactArgs(2),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	RunE:  runLogout,
}

func runLogin(cmd *cobra.Command, args []string) error {
	user, _, err := application.Login(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", user.Username, user.Role)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := application.Session.Logout(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}
