package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	t.Setenv("OILST_TEST_STR", "value")
	t.Setenv("OILST_TEST_INT", "42")
	t.Setenv("OILST_TEST_BAD_INT", "forty-two")
	t.Setenv("OILST_TEST_BOOL", "true")
	t.Setenv("OILST_TEST_FLOAT", "2.5")
	t.Setenv("OILST_TEST_BAD_FLOAT", "two")

	assert.Equal(t, "value", GetString("OILST_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", GetString("OILST_TEST_MISSING", "fallback"))
	assert.Equal(t, 42, GetInt("OILST_TEST_INT", 1))
	assert.Equal(t, 1, GetInt("OILST_TEST_BAD_INT", 1))
	assert.True(t, GetBool("OILST_TEST_BOOL", false))
	assert.True(t, GetBool("OILST_TEST_MISSING", true))
	assert.Equal(t, 2.5, GetFloat("OILST_TEST_FLOAT", 3))
	assert.Equal(t, 3.0, GetFloat("OILST_TEST_BAD_FLOAT", 3))
	assert.Equal(t, 3.0, GetFloat("OILST_TEST_MISSING", 3))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("OILST_DOTENV_VALUE=from-file\nOILST_DOTENV_PRESET=from-file\n"), 0o600))

	t.Setenv("OILST_DOTENV_PRESET", "from-env")
	t.Cleanup(func() { os.Unsetenv("OILST_DOTENV_VALUE") })

	require.NoError(t, Load(path, filepath.Join(dir, "missing.env")))

	assert.Equal(t, "from-file", GetString("OILST_DOTENV_VALUE", ""))
	assert.Equal(t, "from-env", GetString("OILST_DOTENV_PRESET", ""))
}
