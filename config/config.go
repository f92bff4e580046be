package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Cache    CacheConfig    `yaml:"cache"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	Mail     MailConfig     `yaml:"mail"`
	Receipts ReceiptsConfig `yaml:"receipts"`
	Auth     AuthConfig     `yaml:"auth"`
	Property PropertyConfig `yaml:"property"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
	// PublicURL is the externally reachable base URL, used for receipt
	// download links and gateway callback URLs.
	PublicURL string `yaml:"public_url"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	ConfirmationsTopic string   `yaml:"confirmations_topic"`
	GroupID            string   `yaml:"group_id"`
}

type CacheConfig struct {
	RoomTTLSeconds int `yaml:"room_ttl_seconds"`
}

type GatewayConfig struct {
	ProcessURL  string `yaml:"process_url"`
	MerchantID  string `yaml:"merchant_id"`
	MerchantKey string `yaml:"merchant_key"`
	Passphrase  string `yaml:"passphrase"`
	ReturnURL   string `yaml:"return_url"`
	CancelURL   string `yaml:"cancel_url"`
	NotifyURL   string `yaml:"notify_url"`
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type ReceiptsConfig struct {
	Dir string `yaml:"dir"`
}

type AuthConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

type PropertyConfig struct {
	Name string `yaml:"name"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
