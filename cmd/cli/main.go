package main

import (
	"fmt"
	"os"

	"github.com/crucial707/notehub/cmd/cli/auth"
	"github.com/crucial707/notehub/cmd/cli/notes"
	"github.com/crucial707/notehub/cmd/cli/root"
	"github.com/crucial707/notehub/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	users.InitUsers(rootCmd)
	notes.InitNotes(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
