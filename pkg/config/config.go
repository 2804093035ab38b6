package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/flaboy/aira-catalog/pkg/errors"
)

type CatalogConfig struct {
	Stripe struct {
		SecretKey string `mapstructure:"secret_key"`
		// 测试环境可覆盖API地址
		APIBase   string `mapstructure:"api_base"`
		FilesBase string `mapstructure:"files_base"`
	} `mapstructure:"stripe"`

	Catalog struct {
		ImageDir    string `mapstructure:"image_dir"`
		Currency    string `mapstructure:"currency"`
		JournalPath string `mapstructure:"journal_path"`
	} `mapstructure:"catalog"`

	// 同步事件通知配置
	SQS struct {
		Enabled      bool   `mapstructure:"enabled"`
		QueueURL     string `mapstructure:"queue_url"`
		AWSRegion    string `mapstructure:"aws_region"`
		AWSAccessKey string `mapstructure:"aws_access_key"`
		AWSSecret    string `mapstructure:"aws_secret"`
	} `mapstructure:"sqs"`

	LogLevel string `mapstructure:"log_level"`
}

var Config *CatalogConfig

// Load reads catalog-sync.yaml (optional) and the environment into the
// package-global Config. Environment keys use CATALOG_ prefix with
// underscores, e.g. CATALOG_STRIPE_SECRET_KEY.
func Load() (*CatalogConfig, error) {
	v := viper.New()
	v.SetConfigName("catalog-sync")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("stripe.api_base", "https://api.stripe.com")
	v.SetDefault("stripe.files_base", "https://files.stripe.com")
	v.SetDefault("catalog.image_dir", "productImages")
	v.SetDefault("catalog.currency", "usd")
	v.SetDefault("catalog.journal_path", "catalog-sync.db")
	v.SetDefault("log_level", "info")

	// 配置文件不存在时仅使用环境变量
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// viper的AutomaticEnv对Unmarshal不生效，逐个绑定
	for _, key := range []string{
		"stripe.secret_key", "stripe.api_base", "stripe.files_base",
		"catalog.image_dir", "catalog.currency", "catalog.journal_path",
		"sqs.enabled", "sqs.queue_url", "sqs.aws_region",
		"sqs.aws_access_key", "sqs.aws_secret",
		"log_level",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg CatalogConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Stripe.SecretKey == "" {
		return nil, errors.Wrap(errors.ConfigError, errors.ErrSecretKeyMissing, "missing credentials")
	}

	Config = &cfg
	return &cfg, nil
}
