package main

import (
	"fmt"
	"os"

	"github.com/pawbase/pawbase/cmd/cli/auth"
	"github.com/pawbase/pawbase/cmd/cli/categories"
	"github.com/pawbase/pawbase/cmd/cli/pets"
	"github.com/pawbase/pawbase/cmd/cli/root"
	"github.com/pawbase/pawbase/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()

	auth.InitAuth(rootCmd)
	users.InitUsers(rootCmd)
	pets.InitPets(rootCmd)
	categories.InitCategories(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
