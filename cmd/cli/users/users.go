package users

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pawbase/pawbase/cmd/cli/client"
	"github.com/pawbase/pawbase/cmd/cli/output"
	"github.com/spf13/cobra"
)

type user struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type pet struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	UserID int    `json:"user_id"`
}

// ==========================
// CLI Command Init
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
	}

	usersCmd.AddCommand(
		listUsersCmd(),
		getUserCmd(),
		createUserCmd(),
		deleteUserCmd(),
		userPetsCmd(),
	)

	rootCmd.AddCommand(usersCmd)
}

// ==========================
// LIST
// ==========================
func listUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			var users []user
			if err := client.Do("GET", "/api/users", nil, &users); err != nil {
				return loginHint(err)
			}

			rows := make([][]interface{}, 0, len(users))
			for _, u := range users {
				rows = append(rows, []interface{}{u.ID, u.Name, u.Username})
			}
			output.RenderTable([]string{"ID", "Name", "Username"}, rows)
			return nil
		},
	}
}

// ==========================
// GET
// ==========================
func getUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u user
			if err := client.Do("GET", "/api/users/"+args[0], nil, &u); err != nil {
				return loginHint(err)
			}
			output.RenderTable([]string{"ID", "Name", "Username"},
				[][]interface{}{{u.ID, u.Name, u.Username}})
			return nil
		},
	}
}

// ==========================
// CREATE
// ==========================
func createUserCmd() *cobra.Command {
	var name, username, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{
				"name":     name,
				"username": username,
				"password": password,
			}
			var u user
			if err := client.Do("POST", "/api/users", payload, &u); err != nil {
				return loginHint(err)
			}
			fmt.Printf("Created user %d (%s)\n", u.ID, u.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&username, "username", "", "Login name")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")

	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Do("DELETE", "/api/users/"+args[0], nil, nil); err != nil {
				return loginHint(err)
			}
			fmt.Println("User deleted.")
			return nil
		},
	}
}

// ==========================
// PETS
// ==========================
func userPetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pets <id>",
		Short: "List a user's pets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("id must be a number")
			}
			var pets []pet
			if err := client.Do("GET", "/api/users/"+args[0]+"/pets", nil, &pets); err != nil {
				return loginHint(err)
			}

			rows := make([][]interface{}, 0, len(pets))
			for _, p := range pets {
				rows = append(rows, []interface{}{p.ID, p.Name, p.Age})
			}
			output.RenderTable([]string{"ID", "Name", "Age"}, rows)
			return nil
		},
	}
}

func loginHint(err error) error {
	if errors.Is(err, client.ErrNotLoggedIn) {
		return fmt.Errorf("please login first: paw login --username <name>")
	}
	return err
}
