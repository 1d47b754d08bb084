// Package questions manages the interview question banks. A bank is a plain
// text file named <job_role>.txt with one question per line. Roles without a
// bank fall back to generic questions interpolated with the industry and role.
package questions

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/myrjola/hotseat/internal/catalog"
	"github.com/myrjola/hotseat/internal/errors"
)

//go:embed banks/*.txt
var bankFS embed.FS

// Store reads question banks from a directory on disk.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads the bank for jobRole, skipping blank lines. A missing bank is
// reported with an error matching fs.ErrNotExist so that callers can fall
// back to generic questions.
func (s *Store) Load(jobRole string) ([]string, error) {
	bankPath := filepath.Join(s.dir, jobRole+".txt")

	data, err := os.ReadFile(bankPath)
	if err != nil {
		return nil, errors.Wrap(err, "read question bank", slog.String("path", bankPath))
	}

	var questions []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		questions = append(questions, line)
	}

	return questions, nil
}

// Pick selects the first n questions from the job role's bank. When the bank
// is missing or comes up short, generic questions fill the remainder so an
// interview always starts with the requested count when possible.
func (s *Store) Pick(industry, jobRole string, n int) ([]string, error) {
	if n < 1 {
		return nil, errors.New("question count must be positive", slog.Int("count", n))
	}

	questions, err := s.Load(jobRole)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if len(questions) > n {
		questions = questions[:n]
	}

	for _, generic := range Generic(industry, jobRole) {
		if len(questions) >= n {
			break
		}
		questions = append(questions, generic)
	}

	return questions, nil
}

// Generic returns fallback questions for roles without a curated bank. The
// industry and job role are interpolated into the question text.
func Generic(industry, jobRole string) []string {
	industryName := catalog.DisplayName(industry)
	roleName := catalog.DisplayName(jobRole)

	return []string{
		fmt.Sprintf("Tell me about your experience in the %s industry and how it relates to this %s position.", industryName, roleName),
		fmt.Sprintf("What are the most important skills for a %s in the %s industry?", roleName, industryName),
		fmt.Sprintf("Describe a challenging project you worked on that demonstrates your qualifications for this %s position.", roleName),
		fmt.Sprintf("How do you stay updated with the latest trends and technologies in the %s industry?", industryName),
		fmt.Sprintf("What approach do you use to solve complex problems as a %s?", roleName),
		"Describe a situation where you had to work under pressure to meet a deadline. How did you handle it?",
		"How do you collaborate with team members to achieve project goals?",
		fmt.Sprintf("What is your greatest professional achievement as a %s?", roleName),
		"How do you handle constructive criticism of your work?",
		"Where do you see yourself professionally in the next 5 years?",
	}
}

// Seed writes the built-in sample banks into the store directory so a fresh
// deployment has curated questions to work with. Existing files are left
// untouched unless force is set.
func (s *Store) Seed(force bool) error {
	var err error
	if err = os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "create question directory", slog.String("dir", s.dir))
	}

	var banks []fs.DirEntry
	if banks, err = fs.ReadDir(bankFS, "banks"); err != nil {
		return errors.Wrap(err, "read embedded banks")
	}

	for _, entry := range banks {
		target := filepath.Join(s.dir, entry.Name())

		if !force {
			if _, err = os.Stat(target); err == nil {
				continue
			} else if !errors.Is(err, fs.ErrNotExist) {
				return errors.Wrap(err, "stat question bank", slog.String("path", target))
			}
		}

		var data []byte
		if data, err = fs.ReadFile(bankFS, path.Join("banks", entry.Name())); err != nil {
			return errors.Wrap(err, "read embedded bank", slog.String("name", entry.Name()))
		}

		if err = os.WriteFile(target, data, 0o644); err != nil {
			return errors.Wrap(err, "write question bank", slog.String("path", target))
		}
	}

	return nil
}
