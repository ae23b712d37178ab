// Package config loads service configuration from a YAML file, an optional
// .env file and the process environment using Viper.
//
// # Usage
//
//	var cfg app.Config
//	err := config.LoadConfig("getscript", &cfg)
//
// Every environment variable is bound under several dotted variants, so
// DEEPGRAM_API_KEY populates both deepgram_api_key and deepgram.api_key.
// Values from the environment override values from the file.
package config
