// Package config loads service configuration from YAML files and the
// environment using viper and godotenv.
//
// Lookup order: an explicit file set via WithConfigFile, otherwise
// config.yml in standard locations, then a .env file, then environment
// variables (which always win). Values are unmarshaled into the struct
// the caller provides.
package config
