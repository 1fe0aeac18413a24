package toml

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whosinhq/whosin/internal/domain"
)

func newTestRepository(t *testing.T) (*Repository, string) {
	t.Helper()

	settingsPath := filepath.Join(t.TempDir(), "settings.toml")
	config := viper.New()
	config.Set("settings.path", settingsPath)

	repo, err := NewRepository(config)
	require.NoError(t, err)
	return repo, settingsPath
}

func TestRepositoryLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)

	settings, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.LocationUnknown, settings.PreferredLocation)
	assert.Empty(t, settings.HiddenPeople)
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo, settingsPath := newTestRepository(t)

	in := domain.Settings{
		PreferredLocation: domain.LocationOffice,
		HiddenPeople:      []string{"zoe@example.com", "ana@example.com"},
	}
	require.NoError(t, repo.Save(context.Background(), in))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.LocationOffice, got.PreferredLocation)
	assert.Equal(t, []string{"ana@example.com", "zoe@example.com"}, got.HiddenPeople)

	info, err := os.Stat(settingsPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRepositoryLoadUnknownLocationToken(t *testing.T) {
	t.Parallel()

	repo, settingsPath := newTestRepository(t)

	document := "version = 1\npreferred_location = \"moonbase\"\nhidden_people = []\n"
	require.NoError(t, os.WriteFile(settingsPath, []byte(document), 0o600))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.LocationUnknown, got.PreferredLocation)
}

func TestRepositoryLoadRejectsNewerSchema(t *testing.T) {
	t.Parallel()

	repo, settingsPath := newTestRepository(t)

	document := "version = 99\npreferred_location = \"homeOffice\"\n"
	require.NoError(t, os.WriteFile(settingsPath, []byte(document), 0o600))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported settings schema version")
}

func TestRepositoryLoadMalformedDocument(t *testing.T) {
	t.Parallel()

	repo, settingsPath := newTestRepository(t)

	require.NoError(t, os.WriteFile(settingsPath, []byte("version = [not toml"), 0o600))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode settings file")
}

func TestRepositorySaveCancelledContext(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Save(ctx, domain.Settings{PreferredLocation: domain.LocationHome})
	require.ErrorIs(t, err, context.Canceled)
}
