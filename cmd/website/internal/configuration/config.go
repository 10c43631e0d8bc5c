package configuration

import "github.com/adampresley/configinator"

type Config struct {
	ApiBaseURL        string `flag:"apibaseurl" env:"API_BASE_URL" default:"http://localhost:8000" description:"Base URL of the image API"`
	ApiTimeoutSeconds int    `flag:"apitimeout" env:"API_TIMEOUT_SECONDS" default:"10" description:"Timeout in seconds for calls to the image API"`
	Host              string `flag:"host" env:"HOST" default:"localhost:8080" description:"The address and port to bind the HTTP server to"`
	LogLevel          string `flag:"loglevel" env:"LOG_LEVEL" default:"debug" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxUploadBytes    int    `flag:"maxuploadbytes" env:"MAX_UPLOAD_BYTES" default:"5242880" description:"Largest image, in bytes, the upload form accepts"`
}

func LoadConfig() Config {
	config := Config{}
	configinator.Behold(&config)
	return config
}
