package config

import "os"

func LoadDebugConfigFromEnv(cfg DebugConfig) DebugConfig {
	if os.Getenv("VIAJEIA_DEBUG_LOG_REQUESTS") == "1" {
		cfg.LogRequests = true
	}
	if os.Getenv("VIAJEIA_DEBUG_LOG_RESPONSES") == "1" {
		cfg.LogResponses = true
	}
	if os.Getenv("VIAJEIA_DEBUG_VALIDATE_ROLES") == "0" {
		cfg.ValidateRoles = false
	}
	return cfg
}
