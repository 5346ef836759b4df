package config

import (
	"encoding/json"
	"os"

	"github.com/dbelyaev/recapd/internal/flagx"
	"github.com/dbelyaev/recapd/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. Interval fields use timex.Duration, which accepts both string values
// such as "15m" and integer nanoseconds. Absent fields keep their current
// values.
type JsonConfig struct {
	EndpointAddr                 *string         `json:"endpoint_addr"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	SecretKey                    *string         `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	S3AccessKey                  *string         `json:"s3_access_key"`
	S3SecretKey                  *string         `json:"s3_secret_key"`
	S3Bucket                     *string         `json:"s3_bucket"`
	S3Region                     *string         `json:"s3_region"`
	S3BaseEndpoint               *string         `json:"s3_base_endpoint"`
	TranscriberURL               *string         `json:"transcriber_url"`
	TranscriberAPIKey            *string         `json:"transcriber_api_key"`
	TranscriberModel             *string         `json:"transcriber_model"`
	SummarizerURL                *string         `json:"summarizer_url"`
	SummarizerAPIKey             *string         `json:"summarizer_api_key"`
	SummarizerModel              *string         `json:"summarizer_model"`
	PipelineMode                 *string         `json:"pipeline_mode"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags, if any. Unreadable or invalid files panic: a requested
// config file that cannot be applied should stop startup.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	setString(&config.EndpointAddr, c.EndpointAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.TranscriberURL, c.TranscriberURL)
	setString(&config.TranscriberAPIKey, c.TranscriberAPIKey)
	setString(&config.TranscriberModel, c.TranscriberModel)
	setString(&config.SummarizerURL, c.SummarizerURL)
	setString(&config.SummarizerAPIKey, c.SummarizerAPIKey)
	setString(&config.SummarizerModel, c.SummarizerModel)
	setString(&config.PipelineMode, c.PipelineMode)
}
