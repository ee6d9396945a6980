package config

import (
	// Local Packages
	errors "anchor-engine/errors"
)

var DefaultConfig = []byte(`
application: "anchor-engine"

logger:
  level: "debug"

is_prod_mode: false

mongo:
  uri: "mongodb://localhost:27017"

redis:
  uri: "localhost:6379"
  password: ""

kafka:
  brokers:
    - "localhost:9092"
  topic: "deposit-settlements"
  records_per_poll: 500
  consumer_name: "anchor-settler"
  workers: 8

stellar:
  horizon_url: "https://horizon-testnet.stellar.org"
  network_passphrase: "Test SDF Network ; September 2015"
  distribution_seed: ""
  starting_balance: "40"
  base_fee: 100
  timeout_seconds: 30

reconciler:
  interval_seconds: 60
`)

type Config struct {
	Application string     `koanf:"application"`
	Logger      Logger     `koanf:"logger"`
	IsProdMode  bool       `koanf:"is_prod_mode"`
	Mongo       Mongo      `koanf:"mongo"`
	Redis       Redis      `koanf:"redis"`
	Kafka       Kafka      `koanf:"kafka"`
	Stellar     Stellar    `koanf:"stellar"`
	Reconciler  Reconciler `koanf:"reconciler"`
}

type Logger struct {
	Level string `koanf:"level"`
}

type Mongo struct {
	URI string `koanf:"uri"`
}

type Redis struct {
	URI      string `koanf:"uri"`
	Password string `koanf:"password"`
}

type Kafka struct {
	Brokers        []string `koanf:"brokers"`
	Topic          string   `koanf:"topic"`
	RecordsPerPoll int      `koanf:"records_per_poll"`
	ConsumerName   string   `koanf:"consumer_name"`
	Workers        int      `koanf:"workers"`
}

type Stellar struct {
	HorizonURL        string `koanf:"horizon_url"`
	NetworkPassphrase string `koanf:"network_passphrase"`
	DistributionSeed  string `koanf:"distribution_seed"`
	StartingBalance   string `koanf:"starting_balance"`
	BaseFee           int64  `koanf:"base_fee"`
	TimeoutSeconds    int    `koanf:"timeout_seconds"`
}

type Reconciler struct {
	IntervalSeconds int `koanf:"interval_seconds"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	ve := errors.ValidationErrs()

	if c.Application == "" {
		ve.Add("application", "cannot be empty")
	}
	if c.Logger.Level == "" {
		ve.Add("logger.level", "cannot be empty")
	}
	if c.Mongo.URI == "" {
		ve.Add("mongo.uri", "cannot be empty")
	}
	if c.Redis.URI == "" {
		ve.Add("redis.uri", "cannot be empty")
	}
	if len(c.Kafka.Brokers) == 0 {
		ve.Add("kafka.brokers", "cannot be empty")
	}
	if c.Kafka.Topic == "" {
		ve.Add("kafka.topic", "cannot be empty")
	}
	if c.Kafka.Workers <= 0 {
		ve.Add("kafka.workers", "must be positive")
	}
	if c.Stellar.HorizonURL == "" {
		ve.Add("stellar.horizon_url", "cannot be empty")
	}
	if c.Stellar.NetworkPassphrase == "" {
		ve.Add("stellar.network_passphrase", "cannot be empty")
	}
	if c.Stellar.DistributionSeed == "" {
		ve.Add("stellar.distribution_seed", "cannot be empty")
	}
	if c.Stellar.StartingBalance == "" {
		ve.Add("stellar.starting_balance", "cannot be empty")
	}
	if c.Stellar.BaseFee <= 0 {
		ve.Add("stellar.base_fee", "must be positive")
	}
	if c.Stellar.TimeoutSeconds <= 0 {
		ve.Add("stellar.timeout_seconds", "must be positive")
	}
	if c.Reconciler.IntervalSeconds <= 0 {
		ve.Add("reconciler.interval_seconds", "must be positive")
	}

	return ve.Err()
}
