package common

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"strings"
)

func IsValidURL(input string) bool {
	_, err := url.ParseRequestURI(input)
	return err == nil
}

func DecodeHex(s string) ([]byte, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}

	return hex.DecodeString(s)
}

// ParseKeyValues parses repeated key=value flag values. Later keys override earlier ones.
func ParseKeyValues(values []string) (map[string]string, error) {
	result := make(map[string]string, len(values))

	for _, x := range values {
		key, value, found := strings.Cut(x, "=")
		key = strings.TrimSpace(key)

		if !found || key == "" {
			return nil, fmt.Errorf("invalid key=value pair: %s", x)
		}

		result[key] = value
	}

	return result, nil
}

// ValueOrEnv returns value when not empty, otherwise the content of the environment variable
func ValueOrEnv(value string, envName string) string {
	if value != "" || envName == "" {
		return value
	}

	return strings.TrimSpace(os.Getenv(envName))
}
