package common

import (
	"errors"
	"fmt"

	secretsInfra "github.com/Ethernal-Tech/cardano-infrastructure/secrets"
	secretsInfraHelper "github.com/Ethernal-Tech/cardano-infrastructure/secrets/helper"
	secretsInfraLocal "github.com/Ethernal-Tech/cardano-infrastructure/secrets/local"
)

// GetSecretsManager resolves the secrets manager holding owner keys from a secrets config file or
// a local directory. insecureLocalStore defines if the local secrets manager is allowed.
func GetSecretsManager(
	dataPath, configPath string, insecureLocalStore bool,
) (secretsInfra.SecretsManager, error) {
	if configPath != "" {
		secretsConfig, err := secretsInfra.ReadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid secrets configuration: %w", err)
		}

		return secretsInfraHelper.CreateSecretsManager(secretsConfig)
	}

	if dataPath == "" {
		return nil, errors.New("neither secrets directory nor secrets config specified")
	}

	// keys on a local file system are only meant for testnets
	if !insecureLocalStore {
		return nil, errors.New("insecure local storage not supported")
	}

	if err := CreateDirectoryIfNotExists(dataPath); err != nil {
		return nil, fmt.Errorf("failed to create secrets directory: %w", err)
	}

	return secretsInfraLocal.SecretsManagerFactory(&secretsInfra.SecretsManagerConfig{
		Path: dataPath,
		Type: secretsInfra.Local,
	})
}
