// Copyright 2024 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cfg

import "fmt"

func isValidLogRotateConfig(config *LogRotateLoggingConfig) error {
	if config.MaxFileSizeMb <= 0 {
		return fmt.Errorf("max-file-size-mb should be atleast 1")
	}
	if config.BackupFileCount < 0 {
		return fmt.Errorf("backup-file-count should be 0 (to retain all backup files) or a positive value")
	}
	return nil
}

// ValidateConfig returns a non-nil error if the config is invalid.
func ValidateConfig(config *Config) error {
	if config.ServicePort <= 0 || config.ServicePort > 65535 {
		return fmt.Errorf("service-port must be between 1 and 65535, got %d", config.ServicePort)
	}
	if config.RegistrationPort <= 0 || config.RegistrationPort > 65535 {
		return fmt.Errorf("registration-port must be between 1 and 65535, got %d", config.RegistrationPort)
	}
	if config.ServicePort == config.RegistrationPort {
		return fmt.Errorf("service-port and registration-port must differ, both are %d", config.ServicePort)
	}
	if config.ReplicationWorkers < 1 {
		return fmt.Errorf("replication-workers must be at least 1, got %d", config.ReplicationWorkers)
	}
	if config.ReadHotThreshold < 1 {
		return fmt.Errorf("read-hot-threshold must be at least 1, got %d", config.ReadHotThreshold)
	}

	if err := isValidLogRotateConfig(&config.Logging.LogRotate); err != nil {
		return fmt.Errorf("error parsing log-rotate config: %w", err)
	}

	return nil
}
