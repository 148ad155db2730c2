package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"xdao.co/lendingtask/compliance"
	"xdao.co/lendingtask/model"
)

func mapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(mapLookup(nil))
	require.NoError(t, err)

	assert.Equal(t, "/iexec_in/sample_input.json", cfg.InputPath())
	assert.Equal(t, "/iexec_out/computed.json", cfg.OutputPath())
	assert.Equal(t, "/app/main.aleo", cfg.PolicyPath)
	assert.Empty(t, cfg.EvidenceDir)
	assert.Equal(t, compliance.Strict, cfg.Mode)
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel)
}

func TestFromEnv_PolicyPathIgnoresEnvironment(t *testing.T) {
	cfg, err := FromEnv(mapLookup(map[string]string{"LENDING_TASK_POLICY_PATH": "/tmp/other.aleo"}))
	require.NoError(t, err)
	assert.Equal(t, "/app/main.aleo", cfg.PolicyPath)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(mapLookup(map[string]string{
		EnvInputDir:    "/tmp/in",
		EnvOutputDir:   "/tmp/out",
		EnvEvidenceDir: "/tmp/evidence",
		EnvMode:        "permissive",
		EnvLogLevel:    "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/in/sample_input.json", cfg.InputPath())
	assert.Equal(t, "/tmp/out/computed.json", cfg.OutputPath())
	assert.Equal(t, "/app/main.aleo", cfg.PolicyPath)
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "/tmp/evidence", cfg.EvidenceDir)
	assert.Equal(t, compliance.Permissive, cfg.Mode)
}

func TestFromEnv_EmptyValuesAreUnset(t *testing.T) {
	cfg, err := FromEnv(mapLookup(map[string]string{
		EnvInputDir:  "",
		EnvOutputDir: "  ",
	}))
	require.NoError(t, err)
	assert.Equal(t, DefaultInputDir, cfg.InputDir)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
}

func TestFromEnv_InvalidMode(t *testing.T) {
	_, err := FromEnv(mapLookup(map[string]string{EnvMode: "lenient"}))
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindConfig))
	assert.Equal(t, "TASK-CFG-001", model.RuleID(err))
}

func TestFromEnv_InvalidLogLevel(t *testing.T) {
	_, err := FromEnv(mapLookup(map[string]string{EnvLogLevel: "verbose"}))
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindConfig))
	assert.Equal(t, "TASK-CFG-003", model.RuleID(err))
}

func TestFromEnv_ProcessEnvironment(t *testing.T) {
	t.Setenv(EnvInputDir, "/from/process")
	t.Setenv(EnvMode, "")

	cfg, err := FromEnv(os.LookupEnv)
	require.NoError(t, err)
	assert.Equal(t, "/from/process", cfg.InputDir)
	assert.Equal(t, compliance.Strict, cfg.Mode)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.PolicyPath = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, "TASK-CFG-002", model.RuleID(err))
}
