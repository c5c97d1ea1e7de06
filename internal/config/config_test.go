package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePairs(t *testing.T) {
	tests := []struct {
		in   string
		want map[string]string
	}{
		{"", map[string]string{}},
		{"mensal=price_1", map[string]string{"mensal": "price_1"}},
		{" mensal = a , anual=b,broken, =x", map[string]string{"mensal": "a", "anual": "b"}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, parsePairs(tc.in), tc.in)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "zsul-test")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("DOCSTORE_RETRY_ATTEMPTS", "nope")

	cfg := Load()
	assert.Equal(t, "zsul-test", cfg.ProjectID)
	assert.Equal(t, "zsul-test.appspot.com", cfg.StorageBucket)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 4, cfg.RetryMaxAttempts)
	assert.True(t, cfg.FirebaseEnabled)
	assert.False(t, cfg.IsProduction())
}
