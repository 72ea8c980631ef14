package config

import (
	"os"
	"strings"
)

// GetSecretOrEnv reads a sensitive value from a Docker secret file or an
// environment variable. Precedence: the file named by {NAME}_FILE, then the
// {NAME} env var, then the default.
func GetSecretOrEnv(name string, defaultValue string) string {
	filePath := os.Getenv(name + "_FILE")
	if filePath != "" {
		if data, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	if value := os.Getenv(name); value != "" {
		return value
	}
	return defaultValue
}

// SecretDefinition binds one secret name to a config field.
type SecretDefinition struct {
	Name     string
	Target   *string
	Default  string
	Required bool
}

// SecretNotFoundError reports a missing required secret.
type SecretNotFoundError struct {
	Name string
}

func (e *SecretNotFoundError) Error() string {
	return "required secret not found: " + e.Name
}

// LoadConfigWithSecrets loads the YAML config and then injects secrets into
// the bound fields.
func LoadConfigWithSecrets(cfg interface{}, secrets []SecretDefinition, opts ...LoadOptions) error {
	if err := LoadConfig(cfg, opts...); err != nil {
		return err
	}
	for _, s := range secrets {
		value := GetSecretOrEnv(s.Name, s.Default)
		if s.Required && value == "" {
			return &SecretNotFoundError{Name: s.Name}
		}
		if s.Target != nil {
			*s.Target = value
		}
	}
	return nil
}
