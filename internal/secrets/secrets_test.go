// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		env    map[string]string
		want   map[string]string
		errMsg string
	}{
		{
			name: "reads dotenv entries and trims whitespace",
			setup: func(t *testing.T) string {
				return writeEnvFile(t, "OPENAI_API_KEY=  sk-abc123  \nARCHIVE_NOTE=journal\n")
			},
			want: map[string]string{
				"OPENAI_API_KEY": "sk-abc123",
				"ARCHIVE_NOTE":   "journal",
			},
		},
		{
			name: "missing file is not an error",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist.env")
			},
			want: map[string]string{},
		},
		{
			name: "environment overrides file entries",
			setup: func(t *testing.T) string {
				return writeEnvFile(t, "OPENAI_API_KEY=sk-from-file\n")
			},
			env:  map[string]string{"OPENAI_API_KEY": "sk-from-env"},
			want: map[string]string{"OPENAI_API_KEY": "sk-from-env"},
		},
		{
			name: "environment alone suffices",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.env")
			},
			env:  map[string]string{"OPENAI_API_KEY": "sk-env-only"},
			want: map[string]string{"OPENAI_API_KEY": "sk-env-only"},
		},
		{
			name: "skips empty values",
			setup: func(t *testing.T) string {
				return writeEnvFile(t, "OPENAI_API_KEY=sk-valid\nEMPTY_KEY=\nBLANK_KEY=   \n")
			},
			want: map[string]string{"OPENAI_API_KEY": "sk-valid"},
		},
		{
			name: "malformed file returns an error",
			setup: func(t *testing.T) string {
				return writeEnvFile(t, "not a dotenv line at all\n")
			},
			errMsg: "reading credentials file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(APIKeyVar, "") // isolate from the developer's environment
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := tt.setup(t)
			got, err := Load(path)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAPIKey(t *testing.T) {
	key, err := APIKey(map[string]string{"OPENAI_API_KEY": "sk-123"})
	require.NoError(t, err)
	assert.Equal(t, "sk-123", key)

	_, err = APIKey(map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
