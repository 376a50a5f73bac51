package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/example/rvcgen/internal/command"
	"github.com/example/rvcgen/internal/config"
	"github.com/example/rvcgen/internal/editor"
	"github.com/example/rvcgen/internal/preset"
	"github.com/example/rvcgen/internal/schema"
	"github.com/example/rvcgen/internal/server"
	"github.com/example/rvcgen/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	cfgFile   string
	activeCfg config.Config
	cfgLoaded bool
)

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:           "rvcgen",
		Short:         "Compose voice_cloning.py command lines",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			cfgLoaded = true
			setupLogger(loaded.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newParamsCmd())
	cmd.AddCommand(newPresetCmd())
	cmd.AddCommand(newShellCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newDoctorCmd())

	return cmd
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr string) {
	lvl, err := server.ParseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}

func requireConfig() (config.Config, error) {
	if !cfgLoaded {
		return config.Config{}, errors.New("configuration not loaded")
	}
	return activeCfg, nil
}

// fileSink writes presets back to the presets file and logs each write.
type fileSink struct {
	file preset.File
}

func (s fileSink) Save(r *preset.Registry) error {
	if err := s.file.Save(r); err != nil {
		return err
	}
	slog.Info("presets written", slog.String("path", s.file.Path), slog.Int("count", r.Len()))
	return nil
}

// openEditor assembles a session from cfg: the program prefix, the initial
// mode and the presets file.
func openEditor(cfg config.Config) (*editor.Editor, error) {
	program, err := cfg.ProgramArgv()
	if err != nil {
		return nil, err
	}

	mode := schema.ModeTTS
	if strings.TrimSpace(cfg.Session.DefaultMode) != "" {
		mode, err = schema.ParseMode(cfg.Session.DefaultMode)
		if err != nil {
			return nil, fmt.Errorf("session.default_mode: %w", err)
		}
	}

	path, err := config.ResolvePresetsPath(cfg.Presets.Path)
	if err != nil {
		return nil, err
	}
	file := preset.File{Path: path}

	sc := schema.Default()
	registry, err := file.Registry(sc, cfg.Presets.Builtins)
	if err != nil {
		return nil, err
	}
	slog.Debug("presets opened", slog.String("path", path), slog.Int("count", registry.Len()))

	store := session.New(sc, session.WithInitialMode(mode))
	return editor.New(store, registry, command.NewSerializer(sc, program), editor.WithSink(fileSink{file: file})), nil
}

// sessionFlags are the flags shared by commands that shape a configuration
// before acting on it.
type sessionFlags struct {
	mode    string
	presets []string
	sets    []string
}

func (f *sessionFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.mode, "mode", "", "Mode (tts|infer|batch); applied after presets")
	fs.StringArrayVar(&f.presets, "preset", nil, "Preset to load; repeatable, applied in order")
	fs.StringArrayVarP(&f.sets, "set", "s", nil, "Parameter assignment KEY=VALUE; repeatable, applied last")
}

// apply loads presets, then switches mode, then assigns values.
func (f *sessionFlags) apply(ed *editor.Editor) error {
	for _, name := range f.presets {
		if err := ed.Load(name); err != nil {
			return err
		}
	}
	if f.mode != "" {
		m, err := schema.ParseMode(f.mode)
		if err != nil {
			return err
		}
		if err := ed.SetMode(m); err != nil {
			return err
		}
	}
	for _, assignment := range f.sets {
		key, value, ok := strings.Cut(assignment, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q (want KEY=VALUE)", assignment)
		}
		if err := ed.SetText(strings.TrimSpace(key), value); err != nil {
			return err
		}
	}
	return nil
}
