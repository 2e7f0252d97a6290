package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Auth   AuthConfig
	Store  StoreConfig
	Files  FilesConfig
	Events EventsConfig
	Trace  TraceConfig
}

type AppConfig struct {
	Port          string
	Environment   string
	LogFilePath   string
	APIPrefix     string
	AllowedOrigin string
}

type AuthConfig struct {
	JWTSecret       string
	AllowUnverified bool // accept unsigned bearer payloads when no verified claim exists
}

type StoreConfig struct {
	Driver           string // "memory", "postgres", "dynamodb" or "redis"
	Connection       string
	TableName        string
	Region           string
	DynamoDBEndpoint string
	RedisURL         string
}

type FilesConfig struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

type EventsConfig struct {
	Topic   string
	NatsURL string
}

type TraceConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverDynamoDB = "dynamodb"
	DriverRedis    = "redis"
)

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	region := getEnv("AWS_REGION", getEnv("AWS_DEFAULT_REGION", "us-east-1"))

	return &Config{
		App: AppConfig{
			Port:          getEnv("APP_PORT", "3000"),
			Environment:   getEnv("GO_ENV", "development"),
			LogFilePath:   getEnv("LOG_FILE_PATH", "logs/app.log"),
			APIPrefix:     getEnv("API_PREFIX", "/api"),
			AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("AUTH_JWT_SECRET", ""),
			AllowUnverified: getEnvAsBool("AUTH_ALLOW_UNVERIFIED", true),
		},
		Store: StoreConfig{
			Driver:           strings.ToLower(getEnv("NOTE_STORE_DRIVER", DriverMemory)),
			Connection:       getEnv("DB_CONNECTION_STRING", ""),
			TableName:        getEnv("TABLE_NAME", "notes"),
			Region:           region,
			DynamoDBEndpoint: getEnv("DYNAMODB_ENDPOINT", ""),
			RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Files: FilesConfig{
			Bucket:       getEnv("BUCKET_NAME", ""),
			Region:       region,
			Endpoint:     getEnv("S3_ENDPOINT", ""),
			AccessKey:    getEnv("S3_ACCESS_KEY", ""),
			SecretKey:    getEnv("S3_SECRET_KEY", ""),
			UsePathStyle: getEnvAsBool("S3_USE_PATH_STYLE", false),
		},
		Events: EventsConfig{
			Topic:   getEnv("EVENTS_TOPIC", "note-events"),
			NatsURL: getEnv("NATS_URL", ""),
		},
		Trace: TraceConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "cloudnotes-backend"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
