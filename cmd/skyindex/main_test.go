package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestCommands(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	dir := t.TempDir()
	cfg := filepath.Join(dir, "skyindex.yaml")

	out := execute(t, "synth", "--out", dir, "--stars", "400", "--deep", "3000", "--seed", "3", "--big-endian")
	assert.Contains(t, out, "400 stars")
	assert.Contains(t, out, "3000 stars")

	out = execute(t, "--config", cfg, "--log-level", "NOOP", "info")
	assert.Contains(t, out, "base")
	assert.Contains(t, out, "resident")
	assert.Contains(t, out, "400 resident stars")

	out = execute(t, "--config", cfg, "--log-level", "NOOP", "region", "--radius", "180", "--mag", "20", "--limit", "5", "--epoch", "2150.5")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 5)

	out = execute(t, "--config", cfg, "--log-level", "NOOP", "nearest", "--ra", "10", "--dec", "10", "--radius", "180", "--epoch", "2350")
	assert.Contains(t, out, "degrees:")

	out = execute(t, "--config", cfg, "--log-level", "NOOP", "xref", "build", "--tier", "deep")
	assert.Contains(t, out, "3000 cross references")

	out = execute(t, "--config", cfg, "--log-level", "NOOP", "lookup", "--name", "STAR 10")
	assert.Contains(t, out, "Star 10")

	out = execute(t, "--config", cfg, "--log-level", "NOOP", "stats", "--mag", "9")
	assert.Contains(t, out, "skyindex_blockcache_loads")
}
