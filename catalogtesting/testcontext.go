package catalogtesting

import (
	"encoding/binary"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-skyindex/mesh"
	"github.com/stretchr/testify/require"
)

type TestContext struct {
	Log  logger.Logger
	T    *testing.T
	Dir  string
	Mesh mesh.Mesh
	Gen  *Generator
}

type TestConfig struct {
	// The generator is seeded from Seed so the catalogs are the same from run
	// to run.
	Seed            int64
	MeshDepth       uint8
	TestLabelPrefix string
	// LogLevel defaults to NOOP
	LogLevel string
}

func NewTestContext(t *testing.T, cfg TestConfig) TestContext {
	level := cfg.LogLevel
	if level == "" {
		level = "NOOP"
	}
	logger.New(level)

	m, err := mesh.New(cfg.MeshDepth)
	require.NoError(t, err)

	return TestContext{
		Log:  logger.Sugar.WithServiceName(cfg.TestLabelPrefix),
		T:    t,
		Dir:  t.TempDir(),
		Mesh: m,
		Gen:  NewGenerator(cfg.Seed),
	}
}

func (c *TestContext) GetLog() logger.Logger { return c.Log }

// WriteTier writes a little endian tier to the context directory.
func (c *TestContext) WriteTier(name string, stars []StarSpec) TierFiles {
	return c.WriteTierOrder(name, binary.LittleEndian, stars)
}

func (c *TestContext) WriteTierOrder(name string, order binary.ByteOrder, stars []StarSpec) TierFiles {
	files, err := WriteTier(c.Dir, name, c.Mesh, order, stars)
	require.NoError(c.T, err)
	return files
}
