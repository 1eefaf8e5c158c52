package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePopulatesKnownKeywords(t *testing.T) {
	cfg, err := Parse("host=db.example.com port=6543 dbname=app user=app password=secret sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, "db.example.com", cfg.Host)
	assert.Equal(t, uint16(6543), cfg.Port)
	assert.Equal(t, "app", cfg.Database)
	assert.Equal(t, "app", cfg.User)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "disable", cfg.SSLMode)
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse("dbname=app")
	require.NoError(t, err)
	assert.Equal(t, uint16(5432), cfg.Port)
	assert.Equal(t, "prefer", cfg.SSLMode)
	assert.NotEmpty(t, cfg.ApplicationName)
}

func TestParseRejectsUnknownKeyword(t *testing.T) {
	_, err := Parse("not_a_real_keyword=1")
	assert.Error(t, err)
}

func TestParseHandlesQuotedValuesWithSpaces(t *testing.T) {
	cfg, err := Parse(`application_name='my app' dbname=app`)
	require.NoError(t, err)
	assert.Equal(t, "my app", cfg.ApplicationName)
}

func TestParseRejectsInvalidPort(t *testing.T) {
	_, err := Parse("port=notanumber")
	assert.Error(t, err)
}
