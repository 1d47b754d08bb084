// Package catalog defines the industries, job roles, and question count
// bounds offered on the interview setup form. Deployments can override the
// built-in catalog with a YAML file.
package catalog

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/myrjola/hotseat/internal/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultYAML []byte

// Option is a selectable catalog entry. Slug is the stable identifier
// persisted with interviews, Label is what the form shows.
type Option struct {
	Slug  string `yaml:"slug"`
	Label string `yaml:"label"`
}

// Bounds limits how many questions an interview may have.
type Bounds struct {
	Min     int `yaml:"min"`
	Max     int `yaml:"max"`
	Default int `yaml:"default"`
}

type Catalog struct {
	Industries []Option `yaml:"industries"`
	JobRoles   []Option `yaml:"job_roles"`
	Questions  Bounds   `yaml:"questions"`
}

// Default returns the catalog compiled into the binary. The embedded file is
// validated by tests so a parse failure here means a broken build.
func Default() Catalog {
	c, err := parse(defaultYAML)
	if err != nil {
		panic(err)
	}

	return c
}

// Load reads and validates a catalog override from path.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, errors.Wrap(err, "read catalog", slog.String("path", path))
	}

	c, err := parse(data)
	if err != nil {
		return Catalog{}, errors.Wrap(err, "load catalog", slog.String("path", path))
	}

	return c, nil
}

func parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, errors.Wrap(err, "parse catalog")
	}

	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}

	return c, nil
}

// Validate checks that the catalog can back the setup form: at least one
// option per list, no duplicate slugs, and sane question bounds.
func (c Catalog) Validate() error {
	if len(c.Industries) == 0 {
		return errors.New("catalog has no industries")
	}

	if len(c.JobRoles) == 0 {
		return errors.New("catalog has no job roles")
	}

	if err := validateOptions("industry", c.Industries); err != nil {
		return err
	}

	if err := validateOptions("job role", c.JobRoles); err != nil {
		return err
	}

	bounds := c.Questions
	if bounds.Min < 1 || bounds.Max < bounds.Min || bounds.Default < bounds.Min || bounds.Default > bounds.Max {
		return errors.New("catalog has invalid question bounds",
			slog.Int("min", bounds.Min),
			slog.Int("max", bounds.Max),
			slog.Int("default", bounds.Default))
	}

	return nil
}

func validateOptions(kind string, options []Option) error {
	seen := make(map[string]struct{}, len(options))
	for _, option := range options {
		if option.Slug == "" {
			return errors.New(fmt.Sprintf("catalog has %s without slug", kind))
		}

		if option.Label == "" {
			return errors.New(fmt.Sprintf("catalog has %s without label", kind), slog.String("slug", option.Slug))
		}

		if _, ok := seen[option.Slug]; ok {
			return errors.New(fmt.Sprintf("catalog has duplicate %s", kind), slog.String("slug", option.Slug))
		}

		seen[option.Slug] = struct{}{}
	}

	return nil
}

func (c Catalog) ValidIndustry(slug string) bool {
	return containsSlug(c.Industries, slug)
}

func (c Catalog) ValidJobRole(slug string) bool {
	return containsSlug(c.JobRoles, slug)
}

func (c Catalog) ValidQuestionCount(n int) bool {
	return n >= c.Questions.Min && n <= c.Questions.Max
}

func containsSlug(options []Option, slug string) bool {
	for _, option := range options {
		if option.Slug == slug {
			return true
		}
	}

	return false
}

// IndustryLabel returns the label for an industry slug. Unknown slugs fall
// back to DisplayName so interviews stored before a catalog edit keep working.
func (c Catalog) IndustryLabel(slug string) string {
	return optionLabel(c.Industries, slug)
}

// JobRoleLabel returns the label for a job role slug.
func (c Catalog) JobRoleLabel(slug string) string {
	return optionLabel(c.JobRoles, slug)
}

func optionLabel(options []Option, slug string) string {
	for _, option := range options {
		if option.Slug == slug {
			return option.Label
		}
	}

	return DisplayName(slug)
}

var titleCaser = cases.Title(language.English)

// DisplayName turns a slug like "software_engineer" into "Software Engineer".
// Labels from the catalog are preferred when available; this is the fallback
// for free-form values such as prep assistant job roles.
func DisplayName(slug string) string {
	return titleCaser.String(strings.ReplaceAll(slug, "_", " "))
}
