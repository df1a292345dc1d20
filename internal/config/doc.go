// Package config loads and validates ingestor configuration.
//
// Configuration is a YAML file with ${ENV} expansion for secrets. Loading
// is split into three stages: Load (file + env), LoadWithDefaults (fills
// optional fields), LoadAndValidate (rejects incomplete configs).
package config
