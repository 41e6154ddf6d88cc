package config

import "os"

const (
	apiBaseURLVar = "API_BASE_URL"
	appNameVar    = "APP_NAME"
	folderEnvVar  = "FOLDER"
	logLevelVar   = "LOG_LEVEL"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

// GetAPIBaseURL returns the base URL of the storefront backend
// (e.g. "https://api.solacestudio.dev")
func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "http://localhost:8081")
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Solace")
}

// GetDataFolder returns the folder holding the persisted session database
func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
