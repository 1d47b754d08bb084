// Package bundle combines generated preparation files into one document,
// handy for printing or for loading into a reader before an interview.
package bundle

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/myrjola/hotseat/internal/errors"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "artifacts",
	Title: "Generated files",
}

var Cmd = &cobra.Command{
	Use:     "artifacts",
	GroupID: "artifacts",
	Short:   "Work with the generated preparation files",
}

var (
	dir string
	out string
)

func init() {
	bundleCmd.Flags().StringVar(&dir, "dir", "", "directory holding the generated files (default $HOTSEAT_OUTPUT_DIR or ./output)")
	bundleCmd.Flags().StringVar(&out, "out", "", "path of the combined document (default <dir>/bundle.md)")

	Cmd.AddCommand(bundleCmd)
}

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Combine the Markdown files in the output directory into one document",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if dir == "" {
			var ok bool
			if dir, ok = os.LookupEnv("HOTSEAT_OUTPUT_DIR"); !ok {
				dir = "./output"
			}
		}
		if out == "" {
			out = filepath.Join(dir, "bundle.md")
		}

		combined, count, err := Combine(dir, filepath.Base(out))
		if err != nil {
			return err
		}
		if count == 0 {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No Markdown files found in %s\n", dir)
			return nil
		}

		if err = os.WriteFile(out, combined, 0o600); err != nil {
			return errors.Wrap(err, "write bundle")
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Bundled %d files into %s\n", count, out)

		return nil
	},
}

// Combine concatenates the Markdown files in dir in name order, each prefixed
// with a heading naming its source file. A file called skip is left out so
// that rebundling does not fold the previous bundle into the next one.
func Combine(dir string, skip string) ([]byte, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, errors.Wrap(err, "read output directory")
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") || name == skip {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, 0, errors.Wrap(err, "read generated file")
		}
		_, _ = fmt.Fprintf(&buf, "# %s\n\n", strings.TrimSuffix(name, ".md"))
		buf.Write(bytes.TrimSpace(content))
		buf.WriteString("\n\n---\n\n")
	}

	return buf.Bytes(), len(names), nil
}
