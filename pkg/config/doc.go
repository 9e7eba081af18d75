// Package config loads env-tagged structs with caarlos0/env and caches one
// instance per type. A .env file in the working directory is read once on
// first use through godotenv.
//
//	var keys secrets.Config
//	config.MustLoad(&keys)
//
// LoadEnv reads additional dotenv files, e.g. per-deployment overrides, and
// invalidates the cache.
package config
