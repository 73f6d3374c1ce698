package dotenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentEnv(t *testing.T) {
	t.Setenv(EnvKey, "")
	assert.Equal(t, DevEnv, CurrentEnv())
	assert.False(t, IsProdEnv())

	t.Setenv(EnvKey, ProdEnv)
	assert.Equal(t, ProdEnv, CurrentEnv())
	assert.True(t, IsProdEnv())
}

func TestLoadDotEnvsPriority(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvKey, TestEnv)
	os.Unsetenv("DOTENV_PRIORITY_PROBE")
	t.Cleanup(func() { os.Unsetenv("DOTENV_PRIORITY_PROBE") })

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOTENV_PRIORITY_PROBE=shared\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test.local"), []byte("DOTENV_PRIORITY_PROBE=local\n"), 0o644))

	loadDotEnvs(dir + string(filepath.Separator))
	assert.Equal(t, "local", os.Getenv("DOTENV_PRIORITY_PROBE"))
}
