package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantEnv map[string]string
	}{
		{
			name: "plain pairs with comments",
			content: `
# Comment line
TASKPOOL_ENV_A=value1
TASKPOOL_ENV_B = value2

TASKPOOL_ENV_C=value with spaces
`,
			wantEnv: map[string]string{
				"TASKPOOL_ENV_A": "value1",
				"TASKPOOL_ENV_B": "value2",
				"TASKPOOL_ENV_C": "value with spaces",
			},
		},
		{
			name: "export prefix and quotes",
			content: `export TASKPOOL_ENV_D="quoted value"
TASKPOOL_ENV_E='single'
TASKPOOL_ENV_F=a=b`,
			wantEnv: map[string]string{
				"TASKPOOL_ENV_D": "quoted value",
				"TASKPOOL_ENV_E": "single",
				"TASKPOOL_ENV_F": "a=b",
			},
		},
		{
			name:    "lines without separator are skipped",
			content: "NOT_A_PAIR\n=novalue\n",
			wantEnv: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key := range tt.wantEnv {
				t.Setenv(key, "")
			}
			path := filepath.Join(t.TempDir(), ".env")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			require.NoError(t, LoadEnv(path))

			for key, want := range tt.wantEnv {
				assert.Equal(t, want, os.Getenv(key), key)
			}
		})
	}
}

func TestLoadEnv_MissingFile(t *testing.T) {
	err := LoadEnv(filepath.Join(t.TempDir(), ".env"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoadEnvOptional(t *testing.T) {
	t.Run("missing file is not an error", func(t *testing.T) {
		assert.NoError(t, LoadEnvOptional(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("existing file is loaded", func(t *testing.T) {
		t.Setenv("TASKPOOL_ENV_OPTIONAL", "")
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("TASKPOOL_ENV_OPTIONAL=yes\n"), 0o644))

		require.NoError(t, LoadEnvOptional(path))
		assert.Equal(t, "yes", os.Getenv("TASKPOOL_ENV_OPTIONAL"))
	})
}
