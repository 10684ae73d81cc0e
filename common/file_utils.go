package common

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, os.ModePerm)
	}

	return nil
}

func LoadJson[TReturn any](path string) (*TReturn, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	defer f.Close()

	var value TReturn

	if err := json.NewDecoder(f).Decode(&value); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return &value, nil
}

// LoadConfig loads config from configPath or, when empty, from (prefix)_config.json
// placed next to the executable
func LoadConfig[TReturn any](configPath string, configPrefix string) (*TReturn, error) {
	if configPath == "" {
		ex, err := os.Executable()
		if err != nil {
			return nil, err
		}

		configName := "config.json"
		if strings.TrimSpace(configPrefix) != "" {
			configName = configPrefix + "_config.json"
		}

		configPath = filepath.Join(filepath.Dir(ex), configName)
	}

	return LoadJson[TReturn](configPath)
}
