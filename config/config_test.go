package config

import (
	// Go Internal Packages
	"testing"

	// External Packages
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDefaults(t *testing.T) Config {
	t.Helper()
	k := koanf.New(".")
	require.NoError(t, k.Load(rawbytes.Provider(DefaultConfig), yaml.Parser()))

	cfg := Config{}
	require.NoError(t, k.Unmarshal("", &cfg))
	return cfg
}

func TestDefaultConfigUnmarshals(t *testing.T) {
	cfg := loadDefaults(t)

	assert.Equal(t, "anchor-engine", cfg.Application)
	assert.Equal(t, "deposit-settlements", cfg.Kafka.Topic)
	assert.Equal(t, "40", cfg.Stellar.StartingBalance)
	assert.Equal(t, 60, cfg.Reconciler.IntervalSeconds)
}

func TestValidateRequiresDistributionSeed(t *testing.T) {
	cfg := loadDefaults(t)

	// The embedded defaults deliberately ship without a seed.
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stellar.distribution_seed")

	cfg.Stellar.DistributionSeed = "SCZANGBA5YHTNYVVV4C3U252E2B6P6F5T3U6MM63WBSBZATAQI3EBTQ4"
	require.NoError(t, cfg.Validate())
}

func TestValidateCatchesBadValues(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.Stellar.DistributionSeed = "SCZANGBA5YHTNYVVV4C3U252E2B6P6F5T3U6MM63WBSBZATAQI3EBTQ4"

	cfg.Kafka.Brokers = nil
	cfg.Kafka.Workers = 0
	cfg.Reconciler.IntervalSeconds = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka.brokers")
	assert.Contains(t, err.Error(), "kafka.workers")
	assert.Contains(t, err.Error(), "reconciler.interval_seconds")
}
