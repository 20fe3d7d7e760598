// Copyright 2024 Google LLC
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

const (
	// Logging-level constants.

	TRACE   string = "TRACE"
	DEBUG   string = "DEBUG"
	INFO    string = "INFO"
	WARNING string = "WARNING"
	ERROR   string = "ERROR"
	OFF     string = "OFF"
)

const (
	// Default naming-server tuning, mirrored from naming.DefaultConfig
	// (SPEC_FULL.md section 4.8).

	DefaultServicePort        = 8090
	DefaultRegistrationPort   = 8091
	DefaultReplicationWorkers = 8
	DefaultReadHotThreshold   = 20
)

const (
	// Default log-rotate config.

	DefaultLogRotateMaxFileSizeMb   = 512
	DefaultLogRotateBackupFileCount = 10
	DefaultLogRotateCompress       = true
)
