package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "Abc123!xyz-Abc123!xyz-Abc123!xyz"

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("PSDIR_SESSION_SECRET", "")

	_, err := Load()
	assert.Error(t, err, "Load should fail without a session secret")
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("PSDIR_SESSION_SECRET", "too-short")

	_, err := Load()
	assert.Error(t, err, "Load should reject a short session secret")
}

func TestLoadRejectsWeakSecret(t *testing.T) {
	t.Setenv("PSDIR_SESSION_SECRET", "change-me-to-32-byte-secret-key!")

	_, err := Load()
	assert.Error(t, err, "Load should reject a known weak secret")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PSDIR_SESSION_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "localhost:8080", cfg.ServerAddr())
	assert.False(t, cfg.EmailEnabled(), "email should be disabled without an API key")
	assert.False(t, cfg.UseRedisCache(), "redis cache should be disabled without a URL")
	assert.Equal(t, 7, cfg.DigestHour)
}

func TestLoadRejectsBadDigestHour(t *testing.T) {
	t.Setenv("PSDIR_SESSION_SECRET", testSecret)
	t.Setenv("PSDIR_DIGEST_HOUR", "24")

	_, err := Load()
	assert.Error(t, err, "Load should reject an out-of-range digest hour")
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"Abc123!xyz", true},
		{"alllowercaseletters", false},
		{"lower123UPPER", true},
		{"1234567890", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, hasMinimumEntropy(tt.secret), "secret %q", tt.secret)
	}
}
