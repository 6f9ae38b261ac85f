// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/backissue/pkg/types"
)

func validJob(t *testing.T) *types.ImportJob {
	t.Helper()
	return &types.ImportJob{
		Journal: "vetmed",
		User:    "admin",
		Editor:  "editor",
		Email:   "archives@example.com",
		Path:    t.TempDir(),
		Formats: []string{"stub"},
	}
}

func TestNewConfiguration(t *testing.T) {
	spy := newSpyRepo()
	job := validJob(t)
	job.Section = "Back Issues"
	job.ImageExtensions = []string{".TIF", "png"}
	job.CoverBasename = "portada"

	cfg, err := NewConfiguration(context.Background(), spy, job)
	require.NoError(t, err)

	assert.Equal(t, int64(1), cfg.Journal.ID)
	assert.Equal(t, "admin", cfg.User.Username)
	assert.Equal(t, "editor", cfg.Editor.Username)
	assert.Equal(t, types.RoleEditor, cfg.EditorGroup.Role)
	assert.Equal(t, types.RoleAuthor, cfg.AuthorGroup.Role)
	assert.Equal(t, types.GenreSubmission, cfg.SubmissionGenre.Key)
	assert.Equal(t, "Back Issues", cfg.SectionTitle)
	assert.Equal(t, []string{"tif", "png"}, cfg.ImageExtensions)
	assert.Equal(t, "portada", cfg.CoverBasename)
	assert.Equal(t, []string{"stub"}, cfg.ParserNames)
	assert.Equal(t, "fr_CA", cfg.Locales.Default())
}

func TestNewConfigurationDefaults(t *testing.T) {
	spy := newSpyRepo()
	job := validJob(t)
	job.Formats = nil // all registered variants

	cfg, err := NewConfiguration(context.Background(), spy, job)
	require.NoError(t, err)

	assert.Equal(t, DefaultSectionTitle, cfg.SectionTitle)
	assert.Equal(t, DefaultImageExtensions, cfg.ImageExtensions)
	assert.Equal(t, DefaultCoverBasename, cfg.CoverBasename)
	assert.Contains(t, cfg.ParserNames, "stub")
}

func TestNewConfigurationRejectsInvalidJobs(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(job *types.ImportJob)
		setting string
	}{
		{"unknown journal", func(j *types.ImportJob) { j.Journal = "ghost" }, "journal"},
		{"unknown user", func(j *types.ImportJob) { j.User = "ghost" }, "user"},
		{"unknown editor", func(j *types.ImportJob) { j.Editor = "ghost" }, "editor"},
		{"malformed email", func(j *types.ImportJob) { j.Email = "not-an-address" }, "email"},
		{"missing path", func(j *types.ImportJob) { j.Path = "/no/such/tree" }, "path"},
		{"unknown parser", func(j *types.ImportJob) { j.Formats = []string{"telex"} }, "formats"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spy := newSpyRepo()
			job := validJob(t)
			tc.mutate(job)

			cfg, err := NewConfiguration(context.Background(), spy, job)
			assert.Nil(t, cfg, "no partial configuration may be retained")

			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tc.setting, cerr.Setting)
		})
	}
}

func TestNewConfigurationMissingEditorGroup(t *testing.T) {
	spy := newSpyRepo()
	delete(spy.groups, types.RoleEditor)

	cfg, err := NewConfiguration(context.Background(), spy, validJob(t))
	assert.Nil(t, cfg)

	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "editor group", cerr.Setting)
}
