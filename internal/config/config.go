package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	MongoURI       string
	DBName         string
	JWTSecret      string
	AccessTokenTTL time.Duration

	UploadDir         string
	ImageStorage      string
	S3Bucket          string
	AWSRegion         string
	ImageOptimization bool
	ImageThreshold    int64
	ImageMaxDimension int
	ImageJPEGQuality  int

	SendGridAPIKey string
	MailFrom       string
	AdminEmail     string

	SMSAPIURL      string
	SMSAPIKey      string
	SMSPhoneNumber string

	KafkaBrokers    []string
	KafkaOrderTopic string

	CORSOrigins  []string
	NotifyBuffer int
}

// Load reads .env when present and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not loaded", "error", err)
	}
	return fromEnv()
}

func fromEnv() Config {
	return Config{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),

		MongoURI:       getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017/?replicaSet=rs0"),
		DBName:         getEnvOrDefault("DB_NAME", "parfumerie"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL: getDurationEnv("ACCESS_TOKEN_TTL", 60, time.Minute),

		UploadDir:         getEnvOrDefault("UPLOAD_DIR", "uploads"),
		ImageStorage:      getEnvOrDefault("IMAGE_STORAGE", "local"),
		S3Bucket:          getEnvOrDefault("S3_BUCKET", ""),
		AWSRegion:         getEnvOrDefault("AWS_REGION", "eu-west-3"),
		ImageOptimization: getBoolEnv("IMAGE_OPTIMIZATION_ENABLED", true),
		ImageThreshold:    getInt64Env("IMAGE_OPTIMIZATION_THRESHOLD", 2097152),
		ImageMaxDimension: int(getInt64Env("IMAGE_MAX_DIMENSION", 1600)),
		ImageJPEGQuality:  int(getInt64Env("IMAGE_JPEG_QUALITY", 75)),

		SendGridAPIKey: getEnvOrDefault("SENDGRID_API_KEY", ""),
		MailFrom:       getEnvOrDefault("MAIL_FROM", ""),
		AdminEmail:     getEnvOrDefault("ADMIN_EMAIL", ""),

		SMSAPIURL:      getEnvOrDefault("SMS_API_URL", ""),
		SMSAPIKey:      getEnvOrDefault("SMS_API_KEY", ""),
		SMSPhoneNumber: getEnvOrDefault("SMS_PHONE_NUMBER", ""),

		KafkaBrokers:    getListEnv("KAFKA_BROKERS"),
		KafkaOrderTopic: getEnvOrDefault("KAFKA_ORDER_TOPIC", "orders.created"),

		CORSOrigins:  getListEnv("CORS_ORIGINS"),
		NotifyBuffer: int(getInt64Env("NOTIFY_BUFFER", 64)),
	}
}
