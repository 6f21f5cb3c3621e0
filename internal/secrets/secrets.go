// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API credentials from a dotenv-style file.
// The file holds KEY=value pairs (e.g. OPENAI_API_KEY=sk-...); values already
// present in the process environment take precedence, so CI and one-off runs
// can override the file without editing it.
package secrets

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// APIKeyVar is the environment variable carrying the chat-completion API key.
const APIKeyVar = "OPENAI_API_KEY"

// Load reads the dotenv file at path and returns a map of key to value,
// with process environment variables overriding file entries for keys that
// appear in both. A missing file is not an error; Load returns whatever the
// environment provides.
func Load(path string) (map[string]string, error) {
	secrets := map[string]string{}

	if _, err := os.Stat(path); err == nil {
		fromFile, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("reading credentials file %s: %w", path, err)
		}
		for k, v := range fromFile {
			if v = strings.TrimSpace(v); v != "" {
				secrets[k] = v
			}
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("checking credentials file %s: %w", path, err)
	}

	for k := range secrets {
		if env := os.Getenv(k); env != "" {
			secrets[k] = env
		}
	}
	if env := os.Getenv(APIKeyVar); env != "" {
		secrets[APIKeyVar] = env
	}

	return secrets, nil
}

// APIKey returns the chat-completion API key from the loaded secrets, or an
// error naming the variable when it is absent.
func APIKey(secrets map[string]string) (string, error) {
	if v := secrets[APIKeyVar]; v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%s not set: export it or add it to the credentials file", APIKeyVar)
}
