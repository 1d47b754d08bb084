package main

import (
	"fmt"
	"github.com/joho/godotenv"
	"github.com/myrjola/hotseat/cmd/cli/bundle"
	"github.com/myrjola/hotseat/cmd/cli/prep"
	"github.com/myrjola/hotseat/cmd/cli/questions"
	"github.com/spf13/cobra"
	"os"
)

func init() {
	// A missing .env file is fine, the environment may come from elsewhere.
	_ = godotenv.Load()

	rootCmd.AddGroup(prep.Group)
	rootCmd.AddCommand(prep.Cmd)
	rootCmd.AddGroup(questions.Group)
	rootCmd.AddCommand(questions.Cmd)
	rootCmd.AddGroup(bundle.Group)
	rootCmd.AddCommand(bundle.Cmd)
}

var rootCmd = &cobra.Command{
	Use:  "hotseat-cli",
	Long: `Command line utilities for Hotseat https://github.com/myrjola/hotseat`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
