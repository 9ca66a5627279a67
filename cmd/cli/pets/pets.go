package pets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pawbase/pawbase/cmd/cli/client"
	"github.com/pawbase/pawbase/cmd/cli/output"
	"github.com/spf13/cobra"
)

type pet struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	UserID int    `json:"user_id"`
}

type category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type syncResult struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// ==========================
// CLI Command Init
// ==========================
func InitPets(rootCmd *cobra.Command) {
	petsCmd := &cobra.Command{
		Use:   "pets",
		Short: "Manage pets",
	}

	petsCmd.AddCommand(
		listPetsCmd(),
		getPetCmd(),
		createPetCmd(),
		deletePetCmd(),
		petCategoriesCmd(),
		syncCategoriesCmd(),
	)

	rootCmd.AddCommand(petsCmd)
}

// ==========================
// LIST
// ==========================
func listPetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pets",
		RunE: func(cmd *cobra.Command, args []string) error {
			var pets []pet
			if err := client.Do("GET", "/api/pets", nil, &pets); err != nil {
				return loginHint(err)
			}

			rows := make([][]interface{}, 0, len(pets))
			for _, p := range pets {
				rows = append(rows, []interface{}{p.ID, p.Name, p.Age, p.UserID})
			}
			output.RenderTable([]string{"ID", "Name", "Age", "Owner ID"}, rows)
			return nil
		},
	}
}

// ==========================
// GET
// ==========================
func getPetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single pet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p pet
			if err := client.Do("GET", "/api/pets/"+args[0], nil, &p); err != nil {
				return loginHint(err)
			}
			output.RenderTable([]string{"ID", "Name", "Age", "Owner ID"},
				[][]interface{}{{p.ID, p.Name, p.Age, p.UserID}})
			return nil
		},
	}
}

// ==========================
// CREATE
// ==========================
func createPetCmd() *cobra.Command {
	var name string
	var age int
	var userID int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pet",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{
				"name":    name,
				"age":     age,
				"user_id": userID,
			}
			var p pet
			if err := client.Do("POST", "/api/pets", payload, &p); err != nil {
				return loginHint(err)
			}
			fmt.Printf("Created pet %d (%s)\n", p.ID, p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Pet name")
	cmd.Flags().IntVar(&age, "age", 0, "Pet age")
	cmd.Flags().IntVar(&userID, "user", 0, "Owner user id (defaults to the logged-in user)")
	cmd.MarkFlagRequired("name")

	return cmd
}

// ==========================
// DELETE
// ==========================
func deletePetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a pet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Do("DELETE", "/api/pets/"+args[0], nil, nil); err != nil {
				return loginHint(err)
			}
			fmt.Println("Pet deleted.")
			return nil
		},
	}
}

// ==========================
// CATEGORIES
// ==========================
func petCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories <id>",
		Short: "List a pet's categories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var categories []category
			if err := client.Do("GET", "/api/pets/"+args[0]+"/categories", nil, &categories); err != nil {
				return loginHint(err)
			}

			rows := make([][]interface{}, 0, len(categories))
			for _, c := range categories {
				rows = append(rows, []interface{}{c.ID, c.Name})
			}
			output.RenderTable([]string{"ID", "Name"}, rows)
			return nil
		},
	}
}

// syncCategoriesCmd replaces a pet's category set with the given names.
func syncCategoriesCmd() *cobra.Command {
	var names string

	cmd := &cobra.Command{
		Use:   "sync <id>",
		Short: "Replace a pet's categories",
		Long:  "Replace a pet's category set with a comma-separated list of names. Missing categories are created.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []string
			for _, part := range strings.Split(names, ",") {
				if n := strings.TrimSpace(part); n != "" {
					list = append(list, n)
				}
			}

			payload := map[string]interface{}{"categories": list}
			var result syncResult
			if err := client.Do("PUT", "/api/pets/"+args[0]+"/categories", payload, &result); err != nil {
				return loginHint(err)
			}

			fmt.Printf("Added: %s\n", strings.Join(result.Added, ", "))
			fmt.Printf("Removed: %s\n", strings.Join(result.Removed, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&names, "categories", "", "Comma-separated category names")
	cmd.MarkFlagRequired("categories")

	return cmd
}

func loginHint(err error) error {
	if errors.Is(err, client.ErrNotLoggedIn) {
		return fmt.Errorf("please login first: paw login --username <name>")
	}
	return err
}
