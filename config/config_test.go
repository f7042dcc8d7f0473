package config

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-best-conversion/domain"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BESTRATE_CONFIG", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("CURRENCY_CONVERSION_API_ENDPOINT", "")

	c, err := Load()

	require.NoError(t, err)
	assert.Equal(t, domain.Source{Code: "CAD", Name: "Canada Dollar", Amount: 100}, c.HomeSource())
	assert.Equal(t, "optimal_conversions.csv", c.Output.File)
	assert.Equal(t, 1_000_000, c.Engine.MaxSettles)
	assert.False(t, c.Develop())
	assert.Error(t, c.Validate(), "remote mode without endpoint")
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("BESTRATE_CONFIG", "")
	t.Setenv("APP_ENV", "develop")
	t.Setenv("CURRENCY_CONVERSION_API_ENDPOINT", "https://rates.example.com/api")
	t.Setenv("CURRENCY_CONVERSION_API_SEED", "1234")
	t.Setenv("SOURCE_AMOUNT", "250.5")
	t.Setenv("MAX_SETTLES", "42")
	t.Setenv("RUN_TIMEOUT", "3s")
	t.Setenv("CACHE_TTL", "bogus")

	c, err := Load()

	require.NoError(t, err)
	assert.True(t, c.Develop())
	assert.Equal(t, "https://rates.example.com/api", c.Rates.Endpoint)
	assert.Equal(t, "1234", c.Rates.Seed)
	assert.Equal(t, 250.5, c.Source.Amount)
	assert.Equal(t, 42, c.Engine.MaxSettles)
	assert.Equal(t, 3*time.Second, c.Engine.RunTimeout)
	assert.Equal(t, time.Minute, c.Cache.TTL, "unparseable values keep the default")
	assert.NoError(t, c.Validate())
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bestrate.yaml")
	body := `
rates:
  endpoint: https://yaml.example.com
  timeout: 2s
source:
  code: USD
  name: United States Dollar
  amount: 10
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("BESTRATE_CONFIG", path)
	t.Setenv("APP_ENV", "")
	t.Setenv("CURRENCY_CONVERSION_API_ENDPOINT", "")
	t.Setenv("SOURCE_CODE", "EUR")

	c, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://yaml.example.com", c.Rates.Endpoint)
	assert.Equal(t, 2*time.Second, c.Rates.Timeout)
	assert.Equal(t, "EUR", c.Source.Code, "environment wins over the file")
	assert.Equal(t, "United States Dollar", c.Source.Name)
	assert.Equal(t, 10.0, c.Source.Amount)
	assert.Equal(t, ":8080", c.Server.Addr, "unset keys keep their default")
}

func TestLoad_YAMLMissing(t *testing.T) {
	t.Setenv("BESTRATE_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := defaultConfig()
	c.Env = DevelopEnv
	assert.NoError(t, c.Validate())

	c.Source.Amount = 0
	assert.Error(t, c.Validate())

	c.Source.Amount = math.Inf(1)
	assert.Error(t, c.Validate())

	c.Source.Amount = 1
	c.Source.Code = ""
	assert.Error(t, c.Validate())
}
