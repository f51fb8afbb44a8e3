package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Server       ServerConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Registration RegistrationConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

type RegistrationConfig struct {
	// VIPPrice and RegularPrice are the canonical unit prices captured into
	// each registration at order time.
	VIPPrice     decimal.Decimal
	RegularPrice decimal.Decimal
	TxTimeout    time.Duration
	RateLimit    int
	RateWindow   time.Duration
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverHost := os.Getenv("SERVER_HOST")
	if serverHost == "" {
		serverHost = "localhost"
	}

	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080"
	}

	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid SERVER_PORT: %w", op, err)
	}

	serverCfg := ServerConfig{
		Host: serverHost,
		Port: serverPort,
	}

	postgresHost := os.Getenv("POSTGRES_HOST")
	if postgresHost == "" {
		postgresHost = "localhost"
	}

	postgresPortStr := os.Getenv("POSTGRES_PORT")
	if postgresPortStr == "" {
		postgresPortStr = "5432"
	}

	postgresPort, err := strconv.Atoi(postgresPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid POSTGRES_PORT: %w", op, err)
	}

	postgresUser := os.Getenv("POSTGRES_USER")
	if postgresUser == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_USER", op)
	}

	postgresPassword := os.Getenv("POSTGRES_PASSWORD")
	if postgresPassword == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_PASSWORD", op)
	}

	postgresDB := os.Getenv("POSTGRES_DB")
	if postgresDB == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_DB", op)
	}

	postgresSSLMode := os.Getenv("POSTGRES_SSLMODE")
	if postgresSSLMode == "" {
		postgresSSLMode = "disable"
	}

	postgresCfg := PostgresConfig{
		User:     postgresUser,
		Password: postgresPassword,
		Name:     postgresDB,
		Host:     postgresHost,
		Port:     postgresPort,
		SSLMode:  postgresSSLMode,
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisCfg := RedisConfig{
		Addr:     redisAddr,
		Password: "",
		DB:       0,
	}

	registrationCfg, err := newRegistrationConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:       serverCfg,
		Postgres:     postgresCfg,
		Redis:        redisCfg,
		Registration: registrationCfg,
	}, nil
}

func newRegistrationConfig() (RegistrationConfig, error) {
	const op = "config.newRegistrationConfig"

	vipPrice, err := priceFromEnv("REGISTRATION_VIP_PRICE", "800")
	if err != nil {
		return RegistrationConfig{}, fmt.Errorf("%s: %w", op, err)
	}

	regularPrice, err := priceFromEnv("REGISTRATION_REGULAR_PRICE", "500")
	if err != nil {
		return RegistrationConfig{}, fmt.Errorf("%s: %w", op, err)
	}

	txTimeoutStr := os.Getenv("REGISTRATION_TX_TIMEOUT_SECONDS")
	if txTimeoutStr == "" {
		txTimeoutStr = "10"
	}

	txTimeoutSec, err := strconv.Atoi(txTimeoutStr)
	if err != nil || txTimeoutSec <= 0 {
		return RegistrationConfig{}, fmt.Errorf("%s: invalid REGISTRATION_TX_TIMEOUT_SECONDS", op)
	}

	rateLimitStr := os.Getenv("REGISTRATION_RATE_LIMIT")
	if rateLimitStr == "" {
		rateLimitStr = "10"
	}

	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil || rateLimit <= 0 {
		return RegistrationConfig{}, fmt.Errorf("%s: invalid REGISTRATION_RATE_LIMIT", op)
	}

	rateWindowStr := os.Getenv("REGISTRATION_RATE_WINDOW_SECONDS")
	if rateWindowStr == "" {
		rateWindowStr = "60"
	}

	rateWindowSec, err := strconv.Atoi(rateWindowStr)
	if err != nil || rateWindowSec <= 0 {
		return RegistrationConfig{}, fmt.Errorf("%s: invalid REGISTRATION_RATE_WINDOW_SECONDS", op)
	}

	return RegistrationConfig{
		VIPPrice:     vipPrice,
		RegularPrice: regularPrice,
		TxTimeout:    time.Duration(txTimeoutSec) * time.Second,
		RateLimit:    rateLimit,
		RateWindow:   time.Duration(rateWindowSec) * time.Second,
	}, nil
}

func priceFromEnv(name, def string) (decimal.Decimal, error) {
	s := os.Getenv(name)
	if s == "" {
		s = def
	}

	price, err := decimal.NewFromString(s)
	if err != nil || price.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid %s", name)
	}

	return price, nil
}
