package config

import (
	"fmt"
	"os"
	"time"

	"github.com/farellandr/givingate/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
	}, nil
}

// GatewayConfig is the eGHL merchant integration: endpoints, credentials and
// the URLs the gateway sends the donor (and its callback) back to.
type GatewayConfig struct {
	PaymentURL  string
	QueryURL    string
	ServiceID   string
	Password    string
	ReturnURL   string
	CallbackURL string
	Currency    string
}

func LoadGatewayConfig() (*GatewayConfig, error) {
	cfg := &GatewayConfig{
		PaymentURL:  os.Getenv("EGHL_PAYMENT_URL"),
		QueryURL:    os.Getenv("EGHL_QUERY_URL"),
		ServiceID:   os.Getenv("EGHL_SERVICE_ID"),
		Password:    os.Getenv("EGHL_PASSWORD"),
		ReturnURL:   os.Getenv("EGHL_RETURN_URL"),
		CallbackURL: os.Getenv("EGHL_CALLBACK_URL"),
		Currency:    getEnv("EGHL_CURRENCY", "MYR"),
	}
	if cfg.ServiceID == "" || cfg.Password == "" {
		return nil, fmt.Errorf("EGHL_SERVICE_ID and EGHL_PASSWORD are required")
	}
	return cfg, nil
}

// ReconcileConfig holds the sweep thresholds and triggers. The defaults are
// derived from the gateway's documented 30-minute transaction timeout;
// redeploy with different values if the gateway contract changes.
type ReconcileConfig struct {
	GraceWindow    time.Duration
	Lookback       time.Duration
	NotFoundCutoff time.Duration
	CronSpec       string
	Secret         string
}

func LoadReconcileConfig() (*ReconcileConfig, error) {
	cfg := &ReconcileConfig{
		GraceWindow:    getDuration("RECON_GRACE_WINDOW", 15*time.Minute),
		Lookback:       getDuration("RECON_LOOKBACK", 168*time.Hour),
		NotFoundCutoff: getDuration("RECON_NOT_FOUND_CUTOFF", 30*time.Minute),
		CronSpec:       os.Getenv("RECON_CRON_SPEC"),
		Secret:         os.Getenv("RECON_SECRET"),
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("RECON_SECRET is required")
	}
	return cfg, nil
}

// WebConfig is where the return endpoint sends the donor's browser, plus the
// secret used to validate session tokens minted by the auth service.
type WebConfig struct {
	ReceiptURL string
	ErrorURL   string
	JWTSecret  string
}

func LoadWebConfig() (*WebConfig, error) {
	cfg := &WebConfig{
		ReceiptURL: os.Getenv("WEB_RECEIPT_URL"),
		ErrorURL:   os.Getenv("WEB_ERROR_URL"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&models.User{}, &models.Transaction{}, &models.Payment{}, &models.SavedPaymentMethod{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
