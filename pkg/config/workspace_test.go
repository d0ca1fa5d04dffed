package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWorkspaceDefaultsToX86_64(t *testing.T) {
	ws := NewWorkspace(nil)
	require.Equal(t, TargetX86_64, ws.Target)
	require.Equal(t, 8, ws.WordSize)
	require.Equal(t, "x86_64-pc-linux-gnu", ws.TargetTriple)
}

func TestNewWorkspaceMipsel(t *testing.T) {
	ws := NewWorkspace([]string{"--mipsel"})
	require.Equal(t, TargetMIPSEL, ws.Target)
	require.Equal(t, 4, ws.WordSize)
	require.Equal(t, "mipsel", ws.TargetTriple)
}

func TestNewWorkspaceExplicitX86_64(t *testing.T) {
	ws := NewWorkspace([]string{"--x86_64"})
	require.Equal(t, TargetX86_64, ws.Target)
}

func TestWorkspaceHasFlag(t *testing.T) {
	ws := NewWorkspace([]string{"--mipsel", "--dump-ir"})
	require.True(t, ws.HasFlag("--dump-ir"))
	require.False(t, ws.HasFlag("--x86_64"))
}

func TestTargetString(t *testing.T) {
	require.Equal(t, "x86_64", TargetX86_64.String())
	require.Equal(t, "mipsel", TargetMIPSEL.String())
}

func TestLoadDefaultTargetMissingFile(t *testing.T) {
	flag, err := LoadDefaultTarget(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.Equal(t, "", flag)
}

func TestLoadDefaultTargetMipsel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ruc.toml")
	require.NoError(t, os.WriteFile(path, []byte(`target = "mipsel"`), 0o644))

	flag, err := LoadDefaultTarget(path)
	require.NoError(t, err)
	require.Equal(t, "--mipsel", flag)
}

func TestLoadDefaultTargetUnrecognized(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ruc.toml")
	require.NoError(t, os.WriteFile(path, []byte(`target = "arm64"`), 0o644))

	_, err := LoadDefaultTarget(path)
	require.Error(t, err)
}
