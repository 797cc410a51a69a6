// Package config loads env-tagged configuration structs from environment
// variables and an optional .env file.
//
// It is a thin composition of github.com/caarlos0/env for parsing and
// github.com/joho/godotenv for local development overrides. Every
// configurable component in this repository (queue tunables, redis
// connection) declares a struct with `env` tags and loads it through this
// package, so the whole deployment surface is environment variables.
package config
