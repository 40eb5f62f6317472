package main

import (
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/spf13/cobra"
)

var userRole string

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage the user directory",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username> <password>",
	Short: "Add a user",
	Long: `Add a user to the directory. Adding the first real user disables
the bootstrap admin/admin123 credential.`,
	Args: cobra.ExactArgs(2),
	RunE: runUserAdd,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE:  runUserList,
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserDelete,
}

func init() {
	userAddCmd.Flags().StringVar(&userRole, "role", "", "User role: admin or editor (default editor)")
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	u, err := application.Users.Add(cmd.Context(), args[0], args[1], userRole)
	if err != nil {
		return err
	}
	fmt.Printf("Added user %s (%s), id %s\n", u.Username, u.Role, u.ID)
	return nil
}

func runUserList(cmd *cobra.Command, args []string) error {
	users := application.Users.List()
	if len(users) == 0 {
		fmt.Println("No users configured; bootstrap credential is active.")
		return nil
	}
	for _, u := range users {
		fmt.Printf("%s  %s (%s)\n", u.ID, u.Username, u.Role)
	}
	return nil
}

func runUserDelete(cmd *cobra.Command, args []string) error {
	id, err := uuid.FromString(args[0])
	if err != nil {
		return fmt.Errorf("invalid user id %q", args[0])
	}
	if !confirm(fmt.Sprintf("Delete user %s?", id)) {
		fmt.Println("Aborted.")
		return nil
	}
	ok, err := application.Users.Delete(cmd.Context(), id)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("User not found.")
		return nil
	}
	fmt.Println("User deleted.")
	return nil
}
