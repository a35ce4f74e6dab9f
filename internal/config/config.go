package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"

	devJWTSecret = "dev-insecure-secret-change-me"
)

type Config struct {
	Port           string
	StorageBackend string

	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string
	MigrateOnStart   bool

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	OperatorWorkers int
	DevSeed         bool
	LogLevel        string
}

// PostgresURL builds the connection string shared by the server and the
// migration script.
func (c *Config) PostgresURL() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}

func ProcessEnvironmentVariables() (*Config, error) {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		Port:             "9446",
		StorageBackend:   BackendPostgres,
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",
		MigrateOnStart:   true,
		JWTSecret:        devJWTSecret,
		TokenTTL:         24 * time.Hour,
		BcryptCost:       10,
		OperatorWorkers:  1,
		LogLevel:         "info",
	}

	setString(&env.Port, "PORT")
	setString(&env.StorageBackend, "STORAGE_BACKEND")
	setString(&env.PostgresAddress, "POSTGRES_ADDRESS")
	setString(&env.PostgresPort, "POSTGRES_PORT")
	setString(&env.PostgresDB, "POSTGRES_DB")
	setString(&env.PostgresUsername, "POSTGRES_USERNAME")
	setString(&env.PostgresPassword, "POSTGRES_PASSWORD")
	setString(&env.JWTSecret, "JWT_SECRET")
	setString(&env.LogLevel, "LOG_LEVEL")

	var err error
	if env.MigrateOnStart, err = parseBool("MIGRATE_ON_START", env.MigrateOnStart); err != nil {
		return nil, err
	}
	if env.DevSeed, err = parseBool("DEV_SEED", env.DevSeed); err != nil {
		return nil, err
	}
	if env.BcryptCost, err = parseInt("BCRYPT_COST", env.BcryptCost); err != nil {
		return nil, err
	}
	if env.OperatorWorkers, err = parseInt("OPERATOR_WORKERS", env.OperatorWorkers); err != nil {
		return nil, err
	}
	if v := os.Getenv("TOKEN_TTL"); len(v) != 0 {
		ttl, parseErr := time.ParseDuration(v)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q: %w", v, parseErr)
		}
		env.TokenTTL = ttl
	}

	return &env, nil
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.StorageBackend {
	case BackendPostgres, BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("invalid storage backend '%s': must be %s or %s", c.StorageBackend, BackendPostgres, BackendMemory))
	}

	if c.JWTSecret == "" {
		problems = append(problems, "JWT secret cannot be empty")
	} else if c.JWTSecret == devJWTSecret && c.StorageBackend == BackendPostgres && !c.DevSeed {
		problems = append(problems, "JWT_SECRET must be set when running against postgres outside dev mode")
	}

	if c.TokenTTL <= 0 {
		problems = append(problems, "token TTL must be positive")
	}

	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		problems = append(problems, fmt.Sprintf("invalid bcrypt cost %d: must be between 4 and 31", c.BcryptCost))
	}

	if c.OperatorWorkers < 1 {
		problems = append(problems, "operator workers must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func setString(target *string, key string) {
	if v := os.Getenv(key); len(v) != 0 {
		*target = v
	}
}

func parseBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if len(v) == 0 {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func parseInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if len(v) == 0 {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return i, nil
}
