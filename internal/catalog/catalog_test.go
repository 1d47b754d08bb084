package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/myrjola/hotseat/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	c := catalog.Default()

	require.NoError(t, c.Validate())
	assert.True(t, c.ValidIndustry("tech"))
	assert.True(t, c.ValidJobRole("software_engineer"))
	assert.Equal(t, 3, c.Questions.Min)
	assert.Equal(t, 10, c.Questions.Max)
	assert.Equal(t, 5, c.Questions.Default)
	assert.False(t, c.ValidIndustry("astrology"))
	assert.False(t, c.ValidQuestionCount(2))
	assert.False(t, c.ValidQuestionCount(11))
	assert.True(t, c.ValidQuestionCount(5))
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "valid override",
			yaml: `industries:
  - slug: gaming
    label: Gaming
job_roles:
  - slug: level_designer
    label: Level Designer
questions:
  min: 2
  max: 6
  default: 4
`,
		},
		{
			name: "duplicate slug",
			yaml: `industries:
  - slug: tech
    label: Technology
  - slug: tech
    label: Tech again
job_roles:
  - slug: teacher
    label: Teacher
questions:
  min: 3
  max: 10
  default: 5
`,
			wantErr: "duplicate industry",
		},
		{
			name: "missing label",
			yaml: `industries:
  - slug: tech
job_roles:
  - slug: teacher
    label: Teacher
questions:
  min: 3
  max: 10
  default: 5
`,
			wantErr: "without label",
		},
		{
			name: "no job roles",
			yaml: `industries:
  - slug: tech
    label: Technology
job_roles: []
questions:
  min: 3
  max: 10
  default: 5
`,
			wantErr: "no job roles",
		},
		{
			name: "default outside bounds",
			yaml: `industries:
  - slug: tech
    label: Technology
job_roles:
  - slug: teacher
    label: Teacher
questions:
  min: 3
  max: 10
  default: 12
`,
			wantErr: "invalid question bounds",
		},
		{
			name:    "not yaml",
			yaml:    "{{nope",
			wantErr: "parse catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "catalog.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))

			c, err := catalog.Load(path)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, c.Industries)
			assert.NotEmpty(t, c.JobRoles)
		})
	}
}

func TestLoad_missingFile(t *testing.T) {
	t.Parallel()

	_, err := catalog.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorContains(t, err, "read catalog")
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Software Engineer", catalog.DisplayName("software_engineer"))
	assert.Equal(t, "Tech", catalog.DisplayName("tech"))
	assert.Equal(t, "Data Scientist", catalog.DisplayName("data scientist"))
}

func TestLabels(t *testing.T) {
	t.Parallel()

	c := catalog.Default()

	assert.Equal(t, "Technology", c.IndustryLabel("tech"))
	assert.Equal(t, "Software Engineer", c.JobRoleLabel("software_engineer"))

	// Slugs stored before a catalog edit fall back to a titlecased name.
	assert.Equal(t, "Retired Industry", c.IndustryLabel("retired_industry"))
	assert.Equal(t, "Stunt Double", c.JobRoleLabel("stunt_double"))
}
