package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLoad_FillsDefaults verifies defaults are applied for optional fields.
func TestLoad_FillsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	contents := "stack_name: minecraft-environment-deployment\nswitched_parameter: ServerEnabled\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), DefaultFilePermissions))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultCounterKeyColumn, cfg.CounterKeyColumn)
	require.Equal(t, DefaultListenAddress, cfg.ListenAddress)
	require.Empty(t, cfg.CounterTable)
}

// TestLoad_MissingStackName verifies validation rejects settings without a stack.
func TestLoad_MissingStackName(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("switched_parameter: ServerEnabled\n"), DefaultFilePermissions))

	_, err := Load(path)
	require.ErrorIs(t, err, errStackNameRequired)
}

// TestSaveLoad_Roundtrip ensures Save followed by Load returns equal settings.
func TestSaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	want := &Config{
		CounterTable:       "MinecraftClientsCounter",
		CounterKeyColumn:   "id",
		JoinedAlarmName:    "minecraft-joined",
		LeftAlarmName:      "minecraft-left",
		StackName:          "minecraft-environment-deployment",
		SwitchedParameter:  "ServerEnabled",
		TaskCountParameter: "ServerTaskCount",
		Capabilities:       []string{"CAPABILITY_NAMED_IAM"},
		ListenAddress:      ":8080",
		LogLevel:           "info",
	}

	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

// TestSave_NilConfig verifies a nil configuration is rejected.
func TestSave_NilConfig(t *testing.T) {
	t.Parallel()
	require.ErrorIs(t, Save(filepath.Join(t.TempDir(), "x.yaml"), nil), errConfigIsNotSet)
}
