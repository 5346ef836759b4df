package config

import (
	"os"
	"time"
)

// parseEnv overlays configuration from RECAPD_* environment variables.
// A .env file, when present, is loaded by main via godotenv before this runs.
func parseEnv(config *Config) {
	setString := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setDuration := func(dst *time.Duration, key string) {
		if v, ok := os.LookupEnv(key); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	setString(&config.EndpointAddr, "RECAPD_ADDR")
	setString(&config.DatabaseDSN, "RECAPD_DATABASE_DSN")
	setString(&config.SecretKey, "RECAPD_SECRET_KEY")
	setDuration(&config.AccessTokenValidityDuration, "RECAPD_ACCESS_TOKEN_TTL")
	setDuration(&config.RefreshTokenValidityDuration, "RECAPD_REFRESH_TOKEN_TTL")
	setString(&config.S3AccessKey, "RECAPD_S3_ACCESS_KEY")
	setString(&config.S3SecretKey, "RECAPD_S3_SECRET_KEY")
	setString(&config.S3Bucket, "RECAPD_S3_BUCKET")
	setString(&config.S3Region, "RECAPD_S3_REGION")
	setString(&config.S3BaseEndpoint, "RECAPD_S3_ENDPOINT")
	setString(&config.TranscriberURL, "RECAPD_TRANSCRIBER_URL")
	setString(&config.TranscriberAPIKey, "RECAPD_TRANSCRIBER_API_KEY")
	setString(&config.TranscriberModel, "RECAPD_TRANSCRIBER_MODEL")
	setString(&config.SummarizerURL, "RECAPD_SUMMARIZER_URL")
	setString(&config.SummarizerAPIKey, "RECAPD_SUMMARIZER_API_KEY")
	setString(&config.SummarizerModel, "RECAPD_SUMMARIZER_MODEL")
	setString(&config.PipelineMode, "RECAPD_PIPELINE_MODE")
}
