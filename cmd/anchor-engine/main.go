package main

import (
	// Go Internal Packages
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Local Packages
	config "anchor-engine/config"
	kafka "anchor-engine/kafka"
	mongodb "anchor-engine/repositories/mongodb"
	redis "anchor-engine/repositories/redis"
	reconciler "anchor-engine/services/reconciler"
	settlement "anchor-engine/services/settlement"
	stellar "anchor-engine/stellar"

	// External Packages
	"github.com/alecthomas/kingpin/v2"
	_ "github.com/jsternberg/zap-logfmt"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.uber.org/zap"
)

// LoadConfig loads the default configuration and overrides it with the config file
// specified by the path defined in the config flag
func LoadConfig() *koanf.Koanf {
	configPathMsg := "Path to the application config file"
	configPath := kingpin.Flag("config", configPathMsg).Short('c').Default("config.yml").String()

	kingpin.Parse()
	k := koanf.New(".")
	_ = k.Load(rawbytes.Provider(config.DefaultConfig), yaml.Parser())
	if *configPath != "" {
		_ = k.Load(file.Provider(*configPath), yaml.Parser())
	}
	return k
}

func main() {
	k := LoadConfig()
	appKonf := config.Config{}

	// Unmarshalling config into struct
	err := k.Unmarshal("", &appKonf)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Validate the config loaded
	if err = appKonf.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if !appKonf.IsProdMode {
		k.Print()
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "logfmt"
	_ = cfg.Level.UnmarshalText([]byte(k.String("logger.level")))
	cfg.InitialFields = make(map[string]any)
	cfg.InitialFields["host"], _ = os.Hostname()
	cfg.InitialFields["service"] = appKonf.Application
	cfg.OutputPaths = []string{"stdout"}
	logger, _ := cfg.Build()
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Mongo Connection
	mongoClient, err := mongodb.Connect(ctx, appKonf.Mongo.URI)
	if err != nil {
		logger.Fatal("cannot create mongo client", zap.Error(err))
	}

	// Redis Connection
	redisClient, err := redis.Connect(ctx, appKonf.Redis.URI, appKonf.Redis.Password)
	if err != nil {
		logger.Fatal("cannot create redis client", zap.Error(err))
	}

	// Ledger client, built from explicit config rather than ambient state
	ledger, err := stellar.NewClient(stellar.ClientConfig{
		HorizonURL:        appKonf.Stellar.HorizonURL,
		NetworkPassphrase: appKonf.Stellar.NetworkPassphrase,
		DistributionSeed:  appKonf.Stellar.DistributionSeed,
		Timeout:           time.Duration(appKonf.Stellar.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		logger.Fatal("cannot create ledger client", zap.Error(err))
	}

	builder := stellar.NewBuilder(ledger.Distribution(), stellar.BuilderConfig{
		NetworkPassphrase: appKonf.Stellar.NetworkPassphrase,
		StartingBalance:   appKonf.Stellar.StartingBalance,
		BaseFee:           appKonf.Stellar.BaseFee,
	})

	txRepo := mongodb.NewTxRepository(mongoClient)
	dlQueue := redis.NewDeadLetterQueue(redisClient, logger)
	processor := settlement.NewProcessor(logger, txRepo, ledger, builder, dlQueue)

	interval := time.Duration(appKonf.Reconciler.IntervalSeconds) * time.Second
	trustChecker := reconciler.NewReconciler(logger, txRepo, ledger, processor, interval)
	go trustChecker.Run(ctx)

	metrics := kprom.NewMetrics("anchor")
	conf := &kafka.ConsumerConfig{
		Brokers:        appKonf.Kafka.Brokers,
		Name:           appKonf.Kafka.ConsumerName,
		Topic:          appKonf.Kafka.Topic,
		RecordsPerPoll: appKonf.Kafka.RecordsPerPoll,
		Workers:        appKonf.Kafka.Workers,
	}

	settleConsumer, err := kafka.NewSettleConsumer(conf, logger, processor, dlQueue, metrics)
	if err != nil {
		logger.Fatal("cannot create settle consumer", zap.Error(err))
	}

	err = settleConsumer.Poll(ctx)
	if err != nil {
		logger.Fatal("cannot poll records from topic", zap.Error(err))
	}
}
