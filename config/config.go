// Package config resolves the task runner configuration from the host
// environment into an explicit struct.
package config

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"

	"xdao.co/lendingtask/compliance"
	"xdao.co/lendingtask/input"
	"xdao.co/lendingtask/model"
	"xdao.co/lendingtask/policy"
)

const (
	EnvInputDir    = "IEXEC_IN"
	EnvOutputDir   = "IEXEC_OUT"
	EnvEvidenceDir = "LENDING_TASK_EVIDENCE_DIR"
	EnvMode        = "LENDING_TASK_MODE"
	EnvLogLevel    = "LENDING_TASK_LOG_LEVEL"

	DefaultInputDir   = "/iexec_in"
	DefaultOutputDir  = "/iexec_out"
	DefaultOutputFile = "computed.json"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

type Config struct {
	InputDir   string
	InputFile  string
	OutputDir  string
	OutputFile string
	// PolicyPath is fixed at policy.DefaultPath for the host; only tests
	// and embedding callers set it.
	PolicyPath string
	// EvidenceDir enables the evidence store when non-empty.
	EvidenceDir string
	Mode        compliance.Mode
	LogLevel zapcore.Level
}

func Default() Config {
	return Config{
		InputDir:   DefaultInputDir,
		InputFile:  input.DefaultFileName,
		OutputDir:  DefaultOutputDir,
		OutputFile: DefaultOutputFile,
		PolicyPath: policy.DefaultPath,
		Mode:       compliance.Strict,
		LogLevel:   zapcore.InfoLevel,
	}
}

// FromEnv overlays the environment onto Default. Empty values count as unset.
func FromEnv(lookup LookupFunc) (Config, error) {
	cfg := Default()
	if lookup == nil {
		return cfg, nil
	}
	if v, ok := nonEmpty(lookup, EnvInputDir); ok {
		cfg.InputDir = v
	}
	if v, ok := nonEmpty(lookup, EnvOutputDir); ok {
		cfg.OutputDir = v
	}
	if v, ok := nonEmpty(lookup, EnvEvidenceDir); ok {
		cfg.EvidenceDir = v
	}
	if v, ok := nonEmpty(lookup, EnvMode); ok {
		mode, err := compliance.ParseMode(v)
		if err != nil {
			return Config{}, model.WrapError(model.KindConfig, "TASK-CFG-001", "invalid "+EnvMode, err)
		}
		cfg.Mode = mode
	}
	if v, ok := nonEmpty(lookup, EnvLogLevel); ok {
		lvl, err := zapcore.ParseLevel(strings.TrimSpace(v))
		if err != nil {
			return Config{}, model.WrapError(model.KindConfig, "TASK-CFG-003", "invalid "+EnvLogLevel, err)
		}
		cfg.LogLevel = lvl
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.InputDir == "" || c.InputFile == "":
		return model.NewError(model.KindConfig, "TASK-CFG-002", "input directory and file name are required")
	case c.OutputDir == "" || c.OutputFile == "":
		return model.NewError(model.KindConfig, "TASK-CFG-002", "output directory and file name are required")
	case c.PolicyPath == "":
		return model.NewError(model.KindConfig, "TASK-CFG-002", "policy path is required")
	}
	return nil
}

func (c Config) InputPath() string {
	return filepath.Join(c.InputDir, c.InputFile)
}

func (c Config) OutputPath() string {
	return filepath.Join(c.OutputDir, c.OutputFile)
}

func nonEmpty(lookup LookupFunc, key string) (string, bool) {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}
