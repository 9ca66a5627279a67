package config

import (
	"os"
	"path/filepath"
)

const (
	defaultAPIURL = "http://localhost:8080"
	tokenFileName = ".paw_token"
)

// APIURL returns the base URL for the Pawbase API.
// It can be overridden with the PAWBASE_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("PAWBASE_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// SaveToken writes the bearer token to ~/.paw_token.
func SaveToken(token string) error {
	return os.WriteFile(tokenPath(), []byte(token), 0600)
}

// LoadToken reads the locally stored bearer token.
func LoadToken() (string, error) {
	data, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ClearToken removes the stored token. Missing file is not an error.
func ClearToken() error {
	err := os.Remove(tokenPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func tokenPath() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, tokenFileName)
}
