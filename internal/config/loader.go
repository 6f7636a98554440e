package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/isseis/go-lzjd/internal/common"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix starts every environment variable the loader reads.
const EnvPrefix = "LZJD_"

// Load returns the defaults overlaid with the TOML file at path. An empty
// path yields the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	// #nosec G304 - the config path is supplied by the operator
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewIOError("read config", path, err)
	}
	if err := decode(content, cfg); err != nil {
		return nil, &common.Error{Kind: common.ErrUsage, Op: "parse config", Path: path, Err: err}
	}
	return cfg, nil
}

func decode(content []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("unknown keys: %s", strict.String())
		}
		return err
	}
	return nil
}

// ReadEnv collects LZJD_* variables from environ (formatted as KEY=VALUE)
// and, when envFile is non-empty, from that dotenv file. Process variables
// take precedence over the file.
func ReadEnv(environ []string, envFile string) (map[string]string, error) {
	env := map[string]string{}
	if envFile != "" {
		fileEnv, err := godotenv.Read(envFile)
		if err != nil {
			return nil, common.NewIOError("read env file", envFile, err)
		}
		for k, v := range fileEnv {
			if strings.HasPrefix(k, EnvPrefix) {
				env[k] = v
			}
		}
	}
	for _, kv := range environ {
		k, v, ok := common.ParseEnvVariable(kv)
		if ok && strings.HasPrefix(k, EnvPrefix) {
			env[k] = v
		}
	}
	return env, nil
}

// ApplyEnv overlays recognized LZJD_* values onto c.
func (c *Config) ApplyEnv(env map[string]string) error {
	ints := map[string]*int{
		EnvPrefix + "THRESHOLD": &c.Threshold,
		EnvPrefix + "WORKERS":   &c.Workers,
	}
	for key, dst := range ints {
		raw, ok := env[key]
		if !ok {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return &common.Error{Kind: common.ErrUsage, Op: "parse " + key, Err: err}
		}
		*dst = v
	}

	strs := map[string]*string{
		EnvPrefix + "HASH":      &c.Hash,
		EnvPrefix + "FORMAT":    &c.Format,
		EnvPrefix + "LOG_LEVEL": &c.LogLevel,
		EnvPrefix + "LOG_DIR":   &c.LogDir,
	}
	for key, dst := range strs {
		if raw, ok := env[key]; ok {
			*dst = strings.TrimSpace(raw)
		}
	}
	return nil
}
