package environment

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
)

// Production defines the prod environment
const Production = "prod"

// Staging defines the staging environment
const Staging = "staging"

// Dev defines the dev environment
const Dev = "dev"

// Environment holds the client configuration
type Environment struct {
	Environment          string `mapstructure:"APP_ENV"`
	APIBaseURL           string `mapstructure:"API_BASE_URL"`
	DataDir              string `mapstructure:"DATA_DIR"`
	HTTPTimeoutSeconds   int    `mapstructure:"HTTP_TIMEOUT_SECONDS"`
	NotifyRefreshMinutes int    `mapstructure:"NOTIFY_REFRESH_MINUTES"`
	UnreadCheckSeconds   int    `mapstructure:"UNREAD_CHECK_SECONDS"`
	Verbose              bool   `mapstructure:"VERBOSE"`
}

// Load reads the .env file at path and decodes it into an Environment.
// A missing file is not an error; defaults apply for everything not set.
func Load(path string) (*Environment, error) {
	env := defaults()

	data, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return env, nil
		}
		return nil, err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           env,
	})
	if err != nil {
		return nil, err
	}

	err = decoder.Decode(data)
	if err != nil {
		return nil, err
	}

	return env, nil
}

func defaults() *Environment {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return &Environment{
		Environment:          Dev,
		APIBaseURL:           "http://127.0.0.1:8080/api",
		DataDir:              filepath.Join(home, ".collabhub"),
		HTTPTimeoutSeconds:   15,
		NotifyRefreshMinutes: 5,
		UnreadCheckSeconds:   30,
	}
}

// HTTPTimeout returns the configured request timeout
func (e *Environment) HTTPTimeout() time.Duration {
	return time.Duration(e.HTTPTimeoutSeconds) * time.Second
}

// NotifyRefreshPeriod returns the notification regeneration period
func (e *Environment) NotifyRefreshPeriod() time.Duration {
	return time.Duration(e.NotifyRefreshMinutes) * time.Minute
}

// UnreadCheckPeriod returns the unread check period
func (e *Environment) UnreadCheckPeriod() time.Duration {
	return time.Duration(e.UnreadCheckSeconds) * time.Second
}
