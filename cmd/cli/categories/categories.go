package categories

import (
	"errors"
	"fmt"

	"github.com/pawbase/pawbase/cmd/cli/client"
	"github.com/pawbase/pawbase/cmd/cli/output"
	"github.com/spf13/cobra"
)

type category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
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
func InitCategories(rootCmd *cobra.Command) {
	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
	}

	categoriesCmd.AddCommand(
		listCategoriesCmd(),
		createCategoryCmd(),
		categoryPetsCmd(),
	)

	rootCmd.AddCommand(categoriesCmd)
}

// ==========================
// LIST
// ==========================
func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			var categories []category
			if err := client.Do("GET", "/api/categories", nil, &categories); err != nil {
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

// ==========================
// CREATE
// ==========================
func createCategoryCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			var c category
			if err := client.Do("POST", "/api/categories", map[string]string{"name": name}, &c); err != nil {
				return loginHint(err)
			}
			fmt.Printf("Created category %d (%s)\n", c.ID, c.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Category name")
	cmd.MarkFlagRequired("name")

	return cmd
}

// ==========================
// PETS
// ==========================
func categoryPetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pets <id>",
		Short: "List pets in a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pets []pet
			if err := client.Do("GET", "/api/categories/"+args[0]+"/pets", nil, &pets); err != nil {
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

func loginHint(err error) error {
	if errors.Is(err, client.ErrNotLoggedIn) {
		return fmt.Errorf("please login first: paw login --username <name>")
	}
	return err
}
