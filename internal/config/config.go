package config

import "time"

type Config struct {
	Shopify     ShopifyConfig
	Sync        SyncConfig
	Files       FilesConfig
	Adjust      AdjustConfig
	Mysql       MysqlConfig
	TelegramBot TelegramBotConfig
	Logger      LoggerConfig
	// JobTimeout bounds a whole job run; zero means no limit.
	JobTimeout time.Duration
}

type ShopifyConfig struct {
	ShopDomain     string
	Token          string
	APIVer         string
	Timeout        time.Duration
	RetryBaseDelay time.Duration
	PaceDelay      time.Duration
}

// SyncConfig selects the sync driver. Transport is "rest" or "bulk",
// Eligibility is "tagged" (chaine_update only) or "all".
type SyncConfig struct {
	Transport   string
	Eligibility string
}

type FilesConfig struct {
	VariantPrices string
	Backup        string
	BackupXLSX    string
	BulkPayload   string
}

type AdjustConfig struct {
	Percentage string
	DryRun     bool
}

type MysqlConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
}

func (c MysqlConfig) Enabled() bool {
	return c.Host != ""
}

type TelegramBotConfig struct {
	ChatId string
	Token  string
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

const (
	TransportREST = "rest"
	TransportBulk = "bulk"

	EligibilityTagged = "tagged"
	EligibilityAll    = "all"
)
