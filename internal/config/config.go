package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Program   ProgramConfig   `mapstructure:"program"`
	Presets   PresetsConfig   `mapstructure:"presets"`
	Session   SessionConfig   `mapstructure:"session"`
	Server    ServerConfig    `mapstructure:"server"`
	Clipboard ClipboardConfig `mapstructure:"clipboard"`
	LogLevel  string          `mapstructure:"log_level"`
}

type ProgramConfig struct {
	// Command is the interpreter plus script prefix, tokenized with ParseArgv.
	Command string `mapstructure:"command"`
}

type PresetsConfig struct {
	Path     string `mapstructure:"path"`
	Builtins bool   `mapstructure:"builtins"`
}

type SessionConfig struct {
	DefaultMode string `mapstructure:"default_mode"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // seconds
	MaxBodyBytes    int64  `mapstructure:"max_body_bytes"`
}

type ClipboardConfig struct {
	Command string `mapstructure:"command"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		Program: ProgramConfig{
			Command: "python voice_cloning.py",
		},
		Presets: PresetsConfig{
			Path:     "",
			Builtins: true,
		},
		Session: SessionConfig{
			DefaultMode: "tts",
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			ShutdownTimeout: 30,
			MaxBodyBytes:    1 << 20,
		},
		Clipboard: ClipboardConfig{
			Command: "wl-copy",
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("program-command", defaults.Program.Command, "Interpreter and script the command starts with")
	fs.String("presets-path", defaults.Presets.Path, "Presets file (.yaml|.yml|.toml|.json); default $XDG_CONFIG_HOME/rvcgen/presets.yaml")
	fs.Bool("presets-builtins", defaults.Presets.Builtins, "Seed built-in presets while the presets file does not exist")
	fs.String("session-default-mode", defaults.Session.DefaultMode, "Mode a new session starts in (tts|infer|batch)")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("server-shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown timeout in seconds")
	fs.Int64("server-max-body-bytes", defaults.Server.MaxBodyBytes, "Maximum request body size in bytes")
	fs.String("clipboard-command", defaults.Clipboard.Command, "Clipboard program the command is piped into")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	v.SetEnvPrefix("RVCGEN")
	replacer := strings.NewReplacer("-", "_", ".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("rvcgen")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

// ProgramArgv tokenizes Program.Command.
func (c Config) ProgramArgv() ([]string, error) {
	argv, err := ParseArgv(c.Program.Command)
	if err != nil {
		return nil, fmt.Errorf("program.command: %w", err)
	}
	return argv, nil
}

// ClipboardArgv tokenizes Clipboard.Command.
func (c Config) ClipboardArgv() ([]string, error) {
	argv, err := ParseArgv(c.Clipboard.Command)
	if err != nil {
		return nil, fmt.Errorf("clipboard.command: %w", err)
	}
	if len(argv) == 0 {
		return nil, errors.New("clipboard.command is empty")
	}
	return argv, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("program.command", c.Program.Command)
	v.SetDefault("presets.path", c.Presets.Path)
	v.SetDefault("presets.builtins", c.Presets.Builtins)
	v.SetDefault("session.default_mode", c.Session.DefaultMode)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("server.max_body_bytes", c.Server.MaxBodyBytes)
	v.SetDefault("clipboard.command", c.Clipboard.Command)
	v.SetDefault("log_level", c.LogLevel)
}

// flagKeys maps each flag registered by RegisterFlags to its config key.
var flagKeys = map[string]string{
	"program-command":         "program.command",
	"presets-path":            "presets.path",
	"presets-builtins":        "presets.builtins",
	"session-default-mode":    "session.default_mode",
	"server-listen-addr":      "server.listen_addr",
	"server-shutdown-timeout": "server.shutdown_timeout",
	"server-max-body-bytes":   "server.max_body_bytes",
	"clipboard-command":       "clipboard.command",
	"log-level":               "log_level",
}

// bindFlags binds flags to their nested keys so that only flags set on the
// command line outrank the config file and environment.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
