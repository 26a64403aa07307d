// Package config loads typed configuration from the process environment.
//
// It combines github.com/joho/godotenv (an optional .env file, read once),
// github.com/caarlos0/env/v11 (struct tags) and go-playground/validator
// (`validate` tags). Every configuration type is parsed and validated once
// per process and then served from a cache:
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
// Tests that mutate the environment call Reset before loading again.
package config
