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

package cmd

import (
	"testing"

	"github.com/distfs/naming/cfg"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindFlagsPopulatesDefaultConfig(t *testing.T) {
	viper.Reset()
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, cfg.BindFlags(flagSet))
	require.NoError(t, flagSet.Parse(nil))

	var c cfg.Config
	require.NoError(t, viper.Unmarshal(&c, viper.DecodeHook(cfg.DecodeHook())))

	assert.Equal(t, cfg.GetDefaultConfig(), c)
	assert.NoError(t, cfg.ValidateConfig(&c))
}

func TestBindFlagsHonorsOverrides(t *testing.T) {
	viper.Reset()
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, cfg.BindFlags(flagSet))
	require.NoError(t, flagSet.Parse([]string{"--service-port=9000", "--log-severity=DEBUG"}))

	var c cfg.Config
	require.NoError(t, viper.Unmarshal(&c, viper.DecodeHook(cfg.DecodeHook())))

	assert.Equal(t, 9000, c.ServicePort)
	assert.Equal(t, cfg.DebugLogSeverity, c.Logging.Severity)
}
