package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/absfs/filelock"
)

// Config holds the settings of a filelock invocation.
type Config struct {
	Lock     *filelock.Config
	LogLevel uint32
}

// NewDefaultConfig creates a new Config with default settings.
func NewDefaultConfig() *Config {
	return &Config{
		Lock:     filelock.DefaultConfig(),
		LogLevel: uint32(log.WarnLevel),
	}
}

// GetLogLevel converts the level string to its corresponding int value. It
// returns an error if the level is invalid.
func GetLogLevel(level string) (uint32, error) {
	var l uint32
	switch strings.ToLower(level) {
	case "debug":
		l = uint32(log.DebugLevel)
	case "info":
		l = uint32(log.InfoLevel)
	case "warn":
		l = uint32(log.WarnLevel)
	case "error":
		l = uint32(log.ErrorLevel)
	default:
		return 0, fmt.Errorf("invalid log.level setting %q", level)
	}
	return l, nil
}

// NewConfig creates a new Config with default settings and applies any
// settings from the given configuration file. An empty name yields the
// defaults.
func NewConfig(configFile string) (*Config, error) {
	config := NewDefaultConfig()
	if configFile == "" {
		return config, nil
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
	}

	if err := parseLockConfig(config.Lock, v); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	if v.IsSet("log.level") {
		level, err := GetLogLevel(v.GetString("log.level"))
		if err != nil {
			return nil, err
		}
		config.LogLevel = level
	}

	if err := config.Lock.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return config, nil
}

// parseLockConfig applies the cipher, key derivation and vault settings of a
// config file to the given filelock.Config.
func parseLockConfig(config *filelock.Config, v *viper.Viper) error {
	if v.IsSet("cipher") {
		suite, err := filelock.ParseCipherSuite(v.GetString("cipher"))
		if err != nil {
			return err
		}
		config.Cipher = suite
	}

	if v.IsSet("kdf") {
		kdf, err := filelock.ParseKDF(v.GetString("kdf"))
		if err != nil {
			return err
		}
		config.KDF = kdf
	}

	if v.IsSet("argon2id.memory") {
		config.Argon2id.Memory = v.GetUint32("argon2id.memory")
	}
	if v.IsSet("argon2id.iterations") {
		config.Argon2id.Iterations = v.GetUint32("argon2id.iterations")
	}
	if v.IsSet("argon2id.parallelism") {
		p := v.GetUint32("argon2id.parallelism")
		if p > 255 {
			return fmt.Errorf("argon2id.parallelism %d out of range", p)
		}
		config.Argon2id.Parallelism = uint8(p)
	}

	if v.IsSet("pbkdf2.iterations") {
		config.PBKDF2.Iterations = v.GetInt("pbkdf2.iterations")
	}
	if v.IsSet("pbkdf2.hash") {
		switch strings.ToLower(v.GetString("pbkdf2.hash")) {
		case "sha256":
			config.PBKDF2.HashFunc = filelock.SHA256
		case "sha512":
			config.PBKDF2.HashFunc = filelock.SHA512
		default:
			return fmt.Errorf("unknown pbkdf2.hash %q", v.GetString("pbkdf2.hash"))
		}
	}

	if v.IsSet("vault.file") {
		config.VaultFileName = v.GetString("vault.file")
	}
	if v.IsSet("no_clobber") {
		config.NoClobber = v.GetBool("no_clobber")
	}
	return nil
}
