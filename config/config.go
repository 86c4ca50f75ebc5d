package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "STOREFRONT_CONFIG_FILE"

type checkout struct {
	LockTimeout   time.Duration `mapstructure:"lock_timeout"`
	CommitRetries int           `mapstructure:"commit_retries"`
}

type broker struct {
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	OrdersTopic        string   `mapstructure:"orders_topic"`
	ReceiptsSaverGroup string   `mapstructure:"receipts_saver_group"`
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	SQLDB          string     `mapstructure:"sql_db"`
	Checkout       checkout   `mapstructure:"checkout"`
	Broker         broker     `mapstructure:"broker"`
}

func Load() Config {
	viper.SetConfigFile(getConfigFilepath())

	err := viper.ReadInConfig()
	if err != nil {
		die(err)
	}

	var cfg Config
	err = viper.UnmarshalExact(&cfg)
	if err != nil {
		die(err)
	}

	cfg.normalize()

	return cfg
}

func (c *Config) normalize() {
	if c.Checkout.LockTimeout <= 0 {
		c.Checkout.LockTimeout = 5 * time.Second
	}
	if c.Checkout.CommitRetries < 0 {
		c.Checkout.CommitRetries = 0
	}
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	SQLDB=%q

	Checkout:
	LockTimeout=%q
	CommitRetries=%d

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	OrdersTopic=%q
	ReceiptsSaverGroup=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.SQLDB,
		c.Checkout.LockTimeout,
		c.Checkout.CommitRetries,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.OrdersTopic,
		c.Broker.ReceiptsSaverGroup,
	)
}
