/*
Copyright © 2022 - 2025 SUSE LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/sanity-io/litter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rancher/elemental-flash/pkg/config"
	"github.com/rancher/elemental-flash/pkg/constants"
	"github.com/rancher/elemental-flash/pkg/types"
)

// setDecoder sets ZeroFields mapstructure attribute to true
func setDecoder(config *mapstructure.DecoderConfig) {
	// Make sure we zero fields before applying them, this is relevant for slices
	// so we do not merge with any already present value and directly apply whatever
	// we got form configs.
	config.ZeroFields = true
}

// decodeHook parses human readable sizes into BlockSize values
func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(blockSizeHook),
	)
}

func blockSizeHook(_ reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	if t != reflect.TypeOf(types.BlockSize(0)) {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return types.ParseBlockSize(v)
	case int:
		return types.BlockSize(v), nil
	default:
		return data, nil
	}
}

// bindGivenFlags binds to viper only passed flags, ignoring any non provided flag
func bindGivenFlags(vp *viper.Viper, flagSet *pflag.FlagSet) {
	if flagSet != nil {
		flagSet.VisitAll(func(f *pflag.Flag) {
			if f.Changed {
				_ = vp.BindPFlag(f.Name, f)
			}
		})
	}
}

// viperReadEnv binds the given keys to environment variables under the
// ELEMENTAL_FLASH prefix, i.e. 'block-size' is read from ELEMENTAL_FLASH_BLOCK_SIZE
func viperReadEnv(vp *viper.Viper, prefix string, keys []string) {
	if prefix == "" {
		prefix = constants.EnvPrefix
	} else {
		prefix = fmt.Sprintf("%s_%s", constants.EnvPrefix, prefix)
	}

	replacer := strings.NewReplacer("-", "_")
	for _, k := range keys {
		_ = vp.BindEnv(k, fmt.Sprintf("%s_%s", prefix, strings.ToUpper(replacer.Replace(k))))
	}
}

// subViper returns the viper instance of the given config file section or an
// empty one if the section is not defined
func subViper(section string) *viper.Viper {
	vp := viper.Sub(section)
	if vp == nil {
		vp = viper.New()
	}
	return vp
}

// DefaultImagePath returns the image path expected by default. When running
// under sudo the image is looked up in the home of the invoking user.
func DefaultImagePath() string {
	home := ""
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
		if u, err := user.Lookup(sudoUser); err == nil {
			home = u.HomeDir
		}
	}
	if home == "" {
		if u, err := user.Current(); err == nil {
			home = u.HomeDir
		}
	}
	if home == "" {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, constants.DefaultImageRel)
}

func ReadConfigRun(configDir string, flags *pflag.FlagSet, mounter types.Mounter) (*types.RunConfig, error) {
	cfg := config.NewRunConfig(
		config.WithLogger(types.NewLogger()),
		config.WithMounter(mounter),
	)

	if configDir == "" {
		configDir = constants.ConfigDir
	}

	// Set debug level
	if viper.GetBool("debug") {
		cfg.Logger.SetLevel(types.DebugLevel())
	}

	// Set formatter so both file and stdout format are equal
	cfg.Logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:      true,
		DisableColors:    false,
		DisableTimestamp: false,
		FullTimestamp:    true,
	})

	// Logfile
	logfile := viper.GetString("logfile")
	if logfile != "" {
		o, err := cfg.Fs.OpenFile(logfile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fs.ModePerm)

		if err != nil {
			cfg.Logger.SetOutput(os.Stdout)
			cfg.Logger.Errorf("Could not open %s for logging to file: %s", logfile, err.Error())
		} else if viper.GetBool("quiet") { // if quiet is set, only set the log to the file
			cfg.Logger.SetOutput(o)
		} else { // else set it to both stdout and the file
			mw := io.MultiWriter(os.Stdout, o)
			cfg.Logger.SetOutput(mw)
		}
	} else { // no logfile
		if viper.GetBool("quiet") { // quiet is enabled so discard all logging
			cfg.Logger.SetOutput(io.Discard)
		} else { // default to stdout
			cfg.Logger.SetOutput(os.Stdout)
		}
	}

	viper.AddConfigPath(configDir)
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	// If a config file is found, read it in.
	_ = viper.MergeInConfig()

	// Load extra config files on configdir/config.d/ so we can override config values
	cfgExtra := filepath.Join(configDir, "config.d")
	if _, err := os.Stat(cfgExtra); err == nil {
		viper.AddConfigPath(cfgExtra)
		_ = filepath.WalkDir(cfgExtra, func(_ string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(d.Name()) == ".yaml" {
				viper.SetConfigName(strings.TrimSuffix(d.Name(), ".yaml"))
				if err := viper.MergeInConfig(); err != nil {
					cfg.Logger.Warnf("Failed merging config file %s: %v", d.Name(), err)
				}
			}
			return nil
		})
	}

	// Bind runconfig flags
	bindGivenFlags(viper.GetViper(), flags)

	err := cfg.Sanitize()
	cfg.Logger.Debugf("Full config loaded: %s", litter.Sdump(cfg))
	return cfg, err
}

// ReadFlashSpec reads the flash options from the 'flash' section of the config
// files, ELEMENTAL_FLASH_* environment variables and the given flags, in
// increasing priority order. The returned spec is not sanitized yet, so the
// caller can still ask for a missing target device.
func ReadFlashSpec(r *types.RunConfig, flags *pflag.FlagSet) (*types.FlashSpec, error) {
	flash := config.NewFlashSpec(r.Config)
	vp := subViper("flash")
	// Bind flash cmd flags
	bindGivenFlags(vp, flags)
	// Bind flash env vars
	viperReadEnv(vp, "", []string{"image", "device", "block-size", "skip-confirm"})

	err := vp.Unmarshal(flash, setDecoder, decodeHook())
	if err != nil {
		r.Logger.Warnf("error unmarshalling FlashSpec: %s", err)
		return nil, err
	}
	if flash.Image == "" {
		flash.Image = DefaultImagePath()
	}
	r.Logger.Debugf("Loaded flash spec: %s", litter.Sdump(flash))
	return flash, nil
}

// ReadExpandSpec reads the expand options from the 'expand' section of the
// config files, ELEMENTAL_FLASH_EXPAND_* environment variables and the given flags
func ReadExpandSpec(r *types.RunConfig, flags *pflag.FlagSet) (*types.ExpandSpec, error) {
	expand := config.NewExpandSpec(r.Config)
	vp := subViper("expand")
	// Bind expand cmd flags
	bindGivenFlags(vp, flags)
	// Bind expand env vars
	viperReadEnv(vp, "EXPAND", []string{"device", "skip-confirm"})

	err := vp.Unmarshal(expand, setDecoder, decodeHook())
	if err != nil {
		r.Logger.Warnf("error unmarshalling ExpandSpec: %s", err)
		return nil, err
	}
	err = expand.Sanitize()
	r.Logger.Debugf("Loaded expand spec: %s", litter.Sdump(expand))
	return expand, err
}
