package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DB      DBConfig
	Storage StorageConfig
	MinIO   MinIOConfig
	Upload  UploadConfig
	JWT     JWTConfig
	Server  ServerConfig
}

type DBConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver   string
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type StorageConfig struct {
	// Driver is "local" or "minio".
	Driver string
	Root   string
	// EncryptionSecret enables at-rest encryption of local blobs when non-empty.
	EncryptionSecret string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type UploadConfig struct {
	MaxBytes          int64
	AllowedExtensions []string
}

type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

type ServerConfig struct {
	Port      string
	ClientURL string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DB: DBConfig{
			Driver:   getEnv("DB_DRIVER", "sqlite"),
			Path:     getEnv("DB_PATH", "data/cloudvault.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "cloudvault"),
			Password: getEnv("DB_PASSWORD", "cloudvault_secret"),
			Name:     getEnv("DB_NAME", "cloudvault"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Storage: StorageConfig{
			Driver:           getEnv("STORAGE_DRIVER", "local"),
			Root:             getEnv("STORAGE_ROOT", "storage"),
			EncryptionSecret: getEnv("STORAGE_ENCRYPTION_SECRET", ""),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "cloudvault"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "cloudvault_secret"),
			Bucket:    getEnv("MINIO_BUCKET", "cloudvault"),
			UseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
		},
		Upload: UploadConfig{
			MaxBytes:          getEnvAsInt64("UPLOAD_MAX_BYTES", 100*1024*1024),
			AllowedExtensions: getEnvAsList("UPLOAD_ALLOWED_EXTENSIONS", ".jpg,.jpeg,.png,.gif,.pdf,.doc,.docx,.txt,.zip,.mp4,.mp3"),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", "change-me-in-production"),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 168),
		},
		Server: ServerConfig{
			Port:      getEnv("SERVER_PORT", "3001"),
			ClientURL: getEnv("CLIENT_URL", "http://localhost:3000"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsList(key string, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, ".") {
			part = "." + part
		}
		values = append(values, part)
	}
	return values
}
