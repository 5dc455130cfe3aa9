package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/crucial707/notehub/internal/apiclient"
)

const (
	defaultAPIURL = "http://localhost:3001"
	tokenFileName = ".notehub_token"
)

// ErrNotLoggedIn is returned when no token has been saved.
var ErrNotLoggedIn = errors.New("not logged in; run `notehub login` first")

// APIURL returns the base URL for the NoteHub API.
// It can be overridden with the NOTEHUB_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("NOTEHUB_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// Client returns an API client for APIURL.
func Client() *apiclient.Client {
	return apiclient.New(APIURL())
}

// TokenPath is ~/.notehub_token.
func TokenPath() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(dir, tokenFileName), nil
}

// SaveToken writes the token readable by the current user only.
func SaveToken(token string) error {
	path, err := TokenPath()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0600)
}

func LoadToken() (string, error) {
	path, err := TokenPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotLoggedIn
	}
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNotLoggedIn
	}
	return token, nil
}

// RemoveToken deletes the saved token. It reports whether one existed.
func RemoveToken() (bool, error) {
	path, err := TokenPath()
	if err != nil {
		return false, err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
