package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Env         string
	DatabaseDSN string

	KafkaBroker   string
	KafkaTopic    string
	KafkaGroupID  string
	KafkaUsername string
	KafkaPassword string

	JWTSecret string
	TokenTTL  time.Duration

	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
	BlogBucket  string

	VercelToken   string
	VercelProject string
	BuildsSecret  string
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: env file not found or could not be loaded:", err)
		}
	}

	ttl := 8 * time.Hour
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Println("Warning: invalid TOKEN_TTL, falling back to 8h:", err)
		} else {
			ttl = parsed
		}
	}

	return Config{
		ServerPort:  os.Getenv("SERVER_PORT"),
		Env:         os.Getenv("ENV"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    os.Getenv("KAFKA_TOPIC"),
		KafkaGroupID:  os.Getenv("KAFKA_GROUP_ID"),
		KafkaUsername: os.Getenv("KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("KAFKA_PASSWORD"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  ttl,

		S3Region:    os.Getenv("S3_REGION"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		BlogBucket:  os.Getenv("BLOG_BUCKET"),

		VercelToken:   os.Getenv("VERCEL_TOKEN"),
		VercelProject: os.Getenv("VERCEL_PROJECT"),
		BuildsSecret:  os.Getenv("BUILDS_SECRET"),
	}
}
