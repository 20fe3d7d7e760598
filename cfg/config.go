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

// Package cfg is the naming server's configuration surface
// (SPEC_FULL.md section 4.8): the well-known ports spec.md section 6
// calls for, the replication/locking tuning knobs, and the ambient
// logging configuration, bound to pflag/viper the way the teacher's
// generated config layer does.
package cfg

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the naming server's top-level configuration.
type Config struct {
	// ServicePort is the well-known port the Service facade (client ->
	// naming) listens on (spec.md section 6).
	ServicePort int `yaml:"service-port" mapstructure:"service-port"`

	// RegistrationPort is the well-known port the Registration facade
	// (storage -> naming) listens on (spec.md section 6).
	RegistrationPort int `yaml:"registration-port" mapstructure:"registration-port"`

	// ReplicationWorkers sizes the bounded replication worker pool
	// (spec.md section 4.5).
	ReplicationWorkers int `yaml:"replication-workers" mapstructure:"replication-workers"`

	// ReadHotThreshold is the cumulative-read-count trigger for
	// replication (spec.md section 4.3, step 3).
	ReadHotThreshold int `yaml:"read-hot-threshold" mapstructure:"read-hot-threshold"`

	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// LoggingConfig configures the slog-based structured logger (SPEC_FULL.md
// "Structured logging"), mirroring the teacher's LoggingConfig shape.
type LoggingConfig struct {
	Severity  LogSeverity            `yaml:"severity" mapstructure:"severity"`
	Format    LogFormat              `yaml:"format" mapstructure:"format"`
	FilePath  string                 `yaml:"file-path" mapstructure:"file-path"`
	LogRotate LogRotateLoggingConfig `yaml:"log-rotate" mapstructure:"log-rotate"`
}

// LogRotateLoggingConfig configures lumberjack.v2's file rotation.
type LogRotateLoggingConfig struct {
	MaxFileSizeMb   int  `yaml:"max-file-size-mb" mapstructure:"max-file-size-mb"`
	BackupFileCount int  `yaml:"backup-file-count" mapstructure:"backup-file-count"`
	Compress        bool `yaml:"compress" mapstructure:"compress"`
}

// BindFlags registers every Config field as a pflag and binds it into
// viper under the matching yaml key, the same flag-then-viper-bind shape
// as the teacher's generated BindFlags.
func BindFlags(flagSet *pflag.FlagSet) error {
	var err error

	flagSet.IntP("service-port", "", DefaultServicePort, "Well-known port for the Service facade (client -> naming).")
	if err = viper.BindPFlag("service-port", flagSet.Lookup("service-port")); err != nil {
		return err
	}

	flagSet.IntP("registration-port", "", DefaultRegistrationPort, "Well-known port for the Registration facade (storage -> naming).")
	if err = viper.BindPFlag("registration-port", flagSet.Lookup("registration-port")); err != nil {
		return err
	}

	flagSet.IntP("replication-workers", "", DefaultReplicationWorkers, "Size of the bounded replication worker pool.")
	if err = viper.BindPFlag("replication-workers", flagSet.Lookup("replication-workers")); err != nil {
		return err
	}

	flagSet.IntP("read-hot-threshold", "", DefaultReadHotThreshold, "Cumulative read-grant count that triggers a replication task.")
	if err = viper.BindPFlag("read-hot-threshold", flagSet.Lookup("read-hot-threshold")); err != nil {
		return err
	}

	flagSet.StringP("log-severity", "", string(InfoLogSeverity), "Logging severity: TRACE, DEBUG, INFO, WARNING, ERROR, OFF.")
	if err = viper.BindPFlag("logging.severity", flagSet.Lookup("log-severity")); err != nil {
		return err
	}

	flagSet.StringP("log-format", "", string(TextLogFormat), "Logging format: text or json.")
	if err = viper.BindPFlag("logging.format", flagSet.Lookup("log-format")); err != nil {
		return err
	}

	flagSet.StringP("log-file", "", "", "Path to a log file; empty means stderr.")
	if err = viper.BindPFlag("logging.file-path", flagSet.Lookup("log-file")); err != nil {
		return err
	}

	flagSet.IntP("log-rotate-max-file-size-mb", "", DefaultLogRotateMaxFileSizeMb, "Log file size, in MB, at which it is rotated.")
	if err = viper.BindPFlag("logging.log-rotate.max-file-size-mb", flagSet.Lookup("log-rotate-max-file-size-mb")); err != nil {
		return err
	}

	flagSet.IntP("log-rotate-backup-file-count", "", DefaultLogRotateBackupFileCount, "Number of rotated log files to retain; 0 retains all.")
	if err = viper.BindPFlag("logging.log-rotate.backup-file-count", flagSet.Lookup("log-rotate-backup-file-count")); err != nil {
		return err
	}

	flagSet.BoolP("log-rotate-compress", "", DefaultLogRotateCompress, "Whether rotated log files are gzip-compressed.")
	if err = viper.BindPFlag("logging.log-rotate.compress", flagSet.Lookup("log-rotate-compress")); err != nil {
		return err
	}

	return nil
}
