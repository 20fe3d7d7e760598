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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateConfigAcceptsDefaults(t *testing.T) {
	config := GetDefaultConfig()
	assert.NoError(t, ValidateConfig(&config))
}

func TestValidateConfigRejectsSamePorts(t *testing.T) {
	config := GetDefaultConfig()
	config.RegistrationPort = config.ServicePort
	assert.Error(t, ValidateConfig(&config))
}

func TestValidateConfigRejectsZeroReplicationWorkers(t *testing.T) {
	config := GetDefaultConfig()
	config.ReplicationWorkers = 0
	assert.Error(t, ValidateConfig(&config))
}

func TestValidateConfigRejectsBadLogRotate(t *testing.T) {
	config := GetDefaultConfig()
	config.Logging.LogRotate.MaxFileSizeMb = 0
	assert.Error(t, ValidateConfig(&config))
}
