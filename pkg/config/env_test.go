package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvLoader_Load(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := `# Comment
DOUBLES_LOG_LEVEL=debug
export DOUBLES_FAIL_EXCEPTION="CheckError"
EMPTY=
SINGLE_QUOTE='single'
not a pair
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0644))

	l := NewEnvLoader()
	require.NoError(t, l.Load(envFile))

	assert.True(t, l.Loaded())
	assert.Equal(t, "debug", l.vars["DOUBLES_LOG_LEVEL"])
	assert.Equal(t, "CheckError", l.vars["DOUBLES_FAIL_EXCEPTION"])
	assert.Equal(t, "", l.vars["EMPTY"])
	assert.Equal(t, "single", l.vars["SINGLE_QUOTE"])
	assert.Len(t, l.vars, 4)
}

func TestEnvLoader_Load_FileNotFound(t *testing.T) {
	err := NewEnvLoader().Load("/nonexistent/.env")
	assert.Error(t, err)
}

func TestEnvLoader_Get(t *testing.T) {
	l := NewEnvLoader()
	l.Set("DOUBLES_TEST_KEY", "from_file")

	assert.Equal(t, "from_file", l.Get("DOUBLES_TEST_KEY"))

	t.Setenv("DOUBLES_TEST_KEY", "from_os")
	assert.Equal(t, "from_os", l.Get("DOUBLES_TEST_KEY"))

	assert.Equal(t, "", l.Get("DOUBLES_NONEXISTENT"))
	assert.Equal(t, "fallback", l.GetWithDefault("DOUBLES_NONEXISTENT", "fallback"))
}

func TestEnvLoader_All(t *testing.T) {
	l := NewEnvLoader()
	l.Set("A", "1")
	l.Set("B", "2")

	all := l.All()
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, all)

	all["C"] = "3"
	assert.Empty(t, l.Get("C"))
}
