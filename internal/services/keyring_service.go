package services

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const serviceName = "promptforge"

// envKeyNames maps a provider id to the environment variable consulted
// when the OS keyring has no entry, so headless deployments can configure
// keys without a keychain.
var envKeyNames = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
}

type KeyringService struct {
}

func NewKeyringService() *KeyringService {
	return &KeyringService{}
}

func (s *KeyringService) StoreApiKey(provider string, apiKey []byte) error {
	if len(apiKey) == 0 {
		return errors.New("API key is empty")
	}
	if provider == "" {
		return errors.New("provider is required")
	}
	return keyring.Set(serviceName, provider, string(apiKey))
}

// GetApiKey resolves a provider's API key from the OS keyring, falling
// back to the provider's environment variable.
func (s *KeyringService) GetApiKey(provider string) (string, error) {
	if provider == "" {
		return "", errors.New("provider is required")
	}

	apiKey, err := keyring.Get(serviceName, provider)
	if err == nil && strings.TrimSpace(apiKey) != "" {
		return apiKey, nil
	}

	if envName, ok := envKeyNames[provider]; ok {
		if fromEnv := strings.TrimSpace(os.Getenv(envName)); fromEnv != "" {
			return fromEnv, nil
		}
	}
	if err != nil {
		return "", err
	}
	return "", errors.New("API key for " + provider + " is not configured")
}

func (s *KeyringService) DeleteApiKey(provider string) error {
	if provider == "" {
		return errors.New("provider is required")
	}
	return keyring.Delete(serviceName, provider)
}
