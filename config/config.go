package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type PostgresConfig struct {
	URL           string `env:"POSTGRES_URL" env-required:"true"`
	MigrationsDir string `env:"MIGRATIONS_DIR" env-default:"migrations"`
}

type RedisConfig struct {
	ServerAddr     string        `env:"REDIS_SERVER_ADDRESS" env-required:"true"`
	ConnCounterTTL time.Duration `env:"REDIS_CONN_COUNTER_TTL" env-default:"24h"`
}

// HandshakeKeys — статические ключи Layer-1 и app-токен для Phase 1.
// Все ключи приходят в base64, длины проверяются при создании CipherEngine.
type HandshakeKeys struct {
	Aes1KeyB64   string `env:"HANDSHAKE_AES1_KEY_B64" env-required:"true"`
	Xor1KeyB64   string `env:"HANDSHAKE_XOR1_KEY_B64" env-required:"true"`
	Xor2KeyB64   string `env:"HANDSHAKE_XOR2_KEY_B64" env-required:"true"`
	AppAuthToken string `env:"HANDSHAKE_APP_AUTH_TOKEN" env-required:"true"`
}

type JWTConfig struct {
	Secret string `env:"JWT_ADMIN_SECRET" env-required:"true"`
}

type HTTPServConfig struct {
	ServerAddr string `env:"HTTP_SERVER_ADDRESS" env-required:"true"`
}

type HandShakeLimiter struct {
	RPC   float64       `env:"HANDSHAKE_LIMITER_RPC" env-default:"5"`
	Burst int           `env:"HANDSHAKE_LIMITER_BURST" env-default:"10"`
	TTL   time.Duration `env:"HANDSHAKE_LIMITER_EXP_TTL" env-default:"1h"`
}

type SecureLimiter struct {
	RPC   float64       `env:"SECURE_LIMITER_RPC" env-default:"20"`
	Burst int           `env:"SECURE_LIMITER_BURST" env-default:"40"`
	TTL   time.Duration `env:"SECURE_LIMITER_EXP_TTL" env-default:"1h"`
}

type Config struct {
	Postgres   PostgresConfig
	Redis      RedisConfig
	HSKeys     HandshakeKeys
	JWT        JWTConfig
	HTTPServ   HTTPServConfig
	HSLimiter  HandShakeLimiter
	SecLimiter SecureLimiter
}

func MustLoad() *Config {
	path := getConfigPath()

	if path == "" {
		panic("config path is empty")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		panic("config file does not exists" + path)
	}

	err := godotenv.Load(path)
	if err != nil {
		panic(fmt.Sprintf("No .env file found at %s, relying on environment variables", path))
	}

	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic(fmt.Sprintf("Failed to load environment variables: %v", err))
	}

	return &cfg
}

func getConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	return res
}
