package config

import (
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAPIVersion     = "2024-04"
	defaultTimeout        = 30 * time.Second
	defaultRetryBaseDelay = 2 * time.Second
)

// Load reads .env (when present) and the process environment into a Config.
// Shop domain, token and API version are mandatory.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// LoadLocal is Load for jobs that only touch local files; shop credentials
// are not required.
func LoadLocal() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv(false)
}

func FromEnv() (*Config, error) {
	return fromEnv(true)
}

func fromEnv(requireShopify bool) (*Config, error) {
	var shopify ShopifyConfig
	if requireShopify {
		loaded, err := loadShopify()
		if err != nil {
			return nil, err
		}
		shopify = loaded
	}

	transport, err := oneOf("SYNC_TRANSPORT", TransportREST, TransportREST, TransportBulk)
	if err != nil {
		return nil, err
	}
	eligibility, err := oneOf("SYNC_ELIGIBILITY", EligibilityTagged, EligibilityTagged, EligibilityAll)
	if err != nil {
		return nil, err
	}

	dryRun, err := boolWithDefault("ADJUST_DRY_RUN", false)
	if err != nil {
		return nil, err
	}

	jobTimeout, err := durationWithDefault("JOB_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}

	mysqlPort, err := intWithDefault("MYSQL_PORT", 3306)
	if err != nil {
		return nil, err
	}

	return &Config{
		Shopify: shopify,
		Sync: SyncConfig{
			Transport:   transport,
			Eligibility: eligibility,
		},
		Files: FilesConfig{
			VariantPrices: stringWithDefault("VARIANT_PRICE_FILE", "variant_prices.json"),
			Backup:        stringWithDefault("BACKUP_FILE", "base_price_backup.json"),
			BackupXLSX:    stringWithDefault("BACKUP_XLSX_FILE", ""),
			BulkPayload:   stringWithDefault("BULK_PAYLOAD_FILE", "bulk_variant_prices.jsonl"),
		},
		Adjust: AdjustConfig{
			Percentage: stringWithDefault("ADJUST_PERCENTAGE", ""),
			DryRun:     dryRun,
		},
		Mysql: MysqlConfig{
			Host:     stringWithDefault("MYSQL_HOST", ""),
			Port:     mysqlPort,
			Username: stringWithDefault("MYSQL_USER", ""),
			Password: stringWithDefault("MYSQL_PASSWORD", ""),
			Database: stringWithDefault("MYSQL_DATABASE", ""),
		},
		TelegramBot: TelegramBotConfig{
			ChatId: stringWithDefault("TELEGRAM_CHAT_ID", ""),
			Token:  stringWithDefault("TELEGRAM_BOT_TOKEN", ""),
		},
		Logger: LoggerConfig{
			Level:    stringWithDefault("LOGGER_LEVEL", "info"),
			Encoding: stringWithDefault("LOGGER_ENCODING", "console"),
		},
		JobTimeout: jobTimeout,
	}, nil
}

func loadShopify() (ShopifyConfig, error) {
	domain, err := requriedString("SHOP_DOMAIN")
	if err != nil {
		return ShopifyConfig{}, err
	}
	token, err := requriedString("API_TOKEN")
	if err != nil {
		return ShopifyConfig{}, err
	}
	timeout, err := durationWithDefault("SHOPIFY_TIMEOUT", defaultTimeout)
	if err != nil {
		return ShopifyConfig{}, err
	}
	baseDelay, err := durationWithDefault("SHOPIFY_RETRY_BASE_DELAY", defaultRetryBaseDelay)
	if err != nil {
		return ShopifyConfig{}, err
	}
	pace, err := durationWithDefault("SHOPIFY_PACE_DELAY", 0)
	if err != nil {
		return ShopifyConfig{}, err
	}

	cfg := ShopifyConfig{
		ShopDomain:     domain,
		Token:          token,
		APIVer:         stringWithDefault("API_VERSION", defaultAPIVersion),
		Timeout:        timeout,
		RetryBaseDelay: baseDelay,
		PaceDelay:      pace,
	}
	return cfg, cfg.Validate()
}

// Validate is also called by the shopify client so a hand-built config
// fails the same way as one read from the environment.
func (c ShopifyConfig) Validate() error {
	switch {
	case c.ShopDomain == "":
		return &ConfigError{Key: "SHOP_DOMAIN"}
	case c.Token == "":
		return &ConfigError{Key: "API_TOKEN"}
	case c.APIVer == "":
		return &ConfigError{Key: "API_VERSION"}
	}
	return nil
}
