// Package questions manages the question bank files on disk.
package questions

import (
	"fmt"
	"os"

	"github.com/myrjola/hotseat/internal/errors"
	qbank "github.com/myrjola/hotseat/internal/questions"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "questions",
	Title: "Question banks",
}

var Cmd = &cobra.Command{
	Use:     "questions",
	GroupID: "questions",
	Short:   "Manage the interview question banks",
}

var (
	dir   string
	force bool
)

func init() {
	seedCmd.Flags().StringVar(&dir, "dir", "", "directory for the bank files (default $HOTSEAT_QUESTIONS_DIR or ./data/questions)")
	seedCmd.Flags().BoolVar(&force, "force", false, "overwrite banks that already exist")

	Cmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the built-in question banks to disk for editing",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if dir == "" {
			var ok bool
			if dir, ok = os.LookupEnv("HOTSEAT_QUESTIONS_DIR"); !ok {
				dir = "./data/questions"
			}
		}

		if err := qbank.NewStore(dir).Seed(force); err != nil {
			return errors.Wrap(err, "seed question banks")
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Question banks seeded in %s\n", dir)

		return nil
	},
}
