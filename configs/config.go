package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	HTTP struct {
		Port string
	}
	GRPC struct {
		Port string
	}
	Auth struct {
		JWTSecret      string
		InternalSecret string
	}
	Storage struct {
		Backend string
	}
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Database string
	}
	SQLite struct {
		Path string
	}
	S3 struct {
		Endpoint     string
		AccessKey    string
		SecretKey    string
		Bucket       string
		Region       string
		ExternalHost string
		UseSSL       bool
	}
	Avatar struct {
		MaxSize   int64
		UploadTTL time.Duration
	}
	Pipeline struct {
		Buffer int
	}
	Seed struct {
		File string
	}
}

func NewConfig() (*Config, error) {
	var cfg Config

	cfg.HTTP.Port = "8080"
	if envPort := os.Getenv("HTTP_PORT"); envPort != "" {
		cfg.HTTP.Port = envPort
	}

	cfg.GRPC.Port = "9090"
	if envGRPCPort := os.Getenv("GRPC_PORT"); envGRPCPort != "" {
		cfg.GRPC.Port = envGRPCPort
	}

	if envJWTSecret := os.Getenv("JWT_SECRET"); envJWTSecret != "" {
		cfg.Auth.JWTSecret = envJWTSecret
	}

	if envInternalSecret := os.Getenv("INTERNAL_SERVICE_SECRET"); envInternalSecret != "" {
		cfg.Auth.InternalSecret = envInternalSecret
	}

	cfg.Storage.Backend = BackendMemory
	if envBackend := os.Getenv("STORAGE_BACKEND"); envBackend != "" {
		switch envBackend {
		case BackendMemory, BackendPostgres, BackendSQLite:
			cfg.Storage.Backend = envBackend
		default:
			return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", envBackend)
		}
	}

	if envDBHost := os.Getenv("POSTGRES_HOST"); envDBHost != "" {
		cfg.DB.Host = envDBHost
	}

	if envDBPort := os.Getenv("POSTGRES_PORT"); envDBPort != "" {
		cfg.DB.Port = envDBPort
	} else {
		cfg.DB.Port = "5432"
	}

	if envDBUser := os.Getenv("POSTGRES_USER"); envDBUser != "" {
		cfg.DB.User = envDBUser
	}

	if envDBPassword := os.Getenv("POSTGRES_PASSWORD"); envDBPassword != "" {
		cfg.DB.Password = envDBPassword
	}

	if envDBDatabase := os.Getenv("POSTGRES_DB"); envDBDatabase != "" {
		cfg.DB.Database = envDBDatabase
	}

	cfg.SQLite.Path = "codex-users.db"
	if envSQLitePath := os.Getenv("SQLITE_PATH"); envSQLitePath != "" {
		cfg.SQLite.Path = envSQLitePath
	}

	cfg.S3.Endpoint = os.Getenv("S3_ENDPOINT")
	cfg.S3.AccessKey = os.Getenv("S3_ACCESS_KEY")
	cfg.S3.SecretKey = os.Getenv("S3_SECRET_KEY")
	cfg.S3.Bucket = os.Getenv("S3_BUCKET")
	cfg.S3.ExternalHost = os.Getenv("S3_EXTERNAL_HOST")

	cfg.S3.Region = "us-east-1"
	if envRegion := os.Getenv("S3_REGION"); envRegion != "" {
		cfg.S3.Region = envRegion
	}

	if envUseSSL := os.Getenv("S3_USE_SSL"); envUseSSL != "" {
		useSSL, err := strconv.ParseBool(envUseSSL)
		if err != nil {
			return nil, fmt.Errorf("invalid S3_USE_SSL: %w", err)
		}
		cfg.S3.UseSSL = useSSL
	}

	cfg.Avatar.MaxSize = 5 * 1024 * 1024
	if envMaxSize := os.Getenv("AVATAR_MAX_SIZE"); envMaxSize != "" {
		maxSize, err := strconv.ParseInt(envMaxSize, 10, 64)
		if err != nil || maxSize <= 0 {
			return nil, fmt.Errorf("invalid AVATAR_MAX_SIZE %q", envMaxSize)
		}
		cfg.Avatar.MaxSize = maxSize
	}

	cfg.Avatar.UploadTTL = 5 * time.Minute
	if envTTL := os.Getenv("AVATAR_UPLOAD_TTL"); envTTL != "" {
		ttl, err := time.ParseDuration(envTTL)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("invalid AVATAR_UPLOAD_TTL %q", envTTL)
		}
		cfg.Avatar.UploadTTL = ttl
	}

	cfg.Pipeline.Buffer = 16
	if envBuffer := os.Getenv("PIPELINE_BUFFER"); envBuffer != "" {
		buffer, err := strconv.Atoi(envBuffer)
		if err != nil || buffer < 0 {
			return nil, fmt.Errorf("invalid PIPELINE_BUFFER %q", envBuffer)
		}
		cfg.Pipeline.Buffer = buffer
	}

	cfg.Seed.File = os.Getenv("SEED_FILE")

	return &cfg, nil
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Database)
}

// AvatarsEnabled reports whether object storage for avatars is configured.
func (c *Config) AvatarsEnabled() bool {
	return c.S3.Endpoint != ""
}
