package configuration

import "github.com/adampresley/configinator"

type Config struct {
	AwsEndpointUrl       string `flag:"awsep" env:"AWS_ENDPOINT_URL" default:"http://localhost:4566" description:"AWS endpoint URL"`
	AwsRegion            string `flag:"awsregion" env:"AWS_REGION" default:"us-central-1" description:"AWS region"`
	AwsAccessKeyId       string `flag:"awsaccesskeyid" env:"AWS_ACCESS_KEY_ID" default:"" description:"AWS access key ID"`
	AwsSecretAccessKey   string `flag:"awssecretaccesskey" env:"AWS_SECRET_ACCESS_KEY" default:"" description:"AWS secret access key"`
	AwsBucket            string `flag:"awsbucket" env:"AWS_BUCKET" default:"imagegallery" description:"S3 bucket"`
	DSN                  string `flag:"dsn" env:"DSN" default:"file:./data/imagegallery.db" description:"Data source name"`
	Host                 string `flag:"host" env:"HOST" default:"localhost:8000" description:"The address and port to bind the HTTP server to"`
	ImagesFolder         string `flag:"imagesfolder" env:"IMAGES_FOLDER" default:"images" description:"S3 folder for uploaded images"`
	ImagesPerPage        int    `flag:"perpage" env:"IMAGES_PER_PAGE" default:"12" description:"Number of images on one page of the list endpoint"`
	LogLevel             string `flag:"loglevel" env:"LOG_LEVEL" default:"debug" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxSweepWorkers      int    `flag:"msw" env:"MAX_SWEEP_WORKERS" default:"4" description:"Maximum number of concurrent orphan sweep workers"`
	MaxUploadBytes       int    `flag:"maxuploadbytes" env:"MAX_UPLOAD_BYTES" default:"5242880" description:"Largest accepted upload in bytes"`
	SweepIntervalMinutes int    `flag:"sweepinterval" env:"SWEEP_INTERVAL_MINUTES" default:"60" description:"Minutes between orphaned image sweeps"`
}

func LoadConfig() Config {
	config := Config{}
	configinator.Behold(&config)
	return config
}
