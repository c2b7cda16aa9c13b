package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfluidics/fluidroute/geom"
	"github.com/openfluidics/fluidroute/router"
)

const sampleYAML = `
component:
  id: chip
  size: [30, 20, 10]
channel:
  size: [2, 2, 2]
  margin: [1, 1, 1]
subcomponents:
  - id: a
    position: [2, 2, 2]
    size: [4, 4, 4]
    ports:
      - name: out
        type: out
        normal: "+X"
        position: [6, 3, 3]
        size: [0, 2, 2]
  - id: b
    position: [24, 2, 2]
    size: [4, 4, 4]
    ports:
      - name: in
        type: in
        normal: "-X"
        position: [24, 3, 3]
        size: [0, 2, 2]
routes:
  - kind: autoroute
    from: a.out
    to: b.in
    label: supply
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "device.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

// TestLoadConfig_Build decodes, builds and routes the sample device.
func TestLoadConfig_Build(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "chip", cfg.Component.ID)
	require.Len(t, cfg.Subcomponents, 2)

	comp, err := cfg.buildComponent()
	require.NoError(t, err)
	assert.Len(t, comp.Subcomponents(), 2)

	require.NotNil(t, cfg.Channel.Margin)
	r, err := router.New(comp,
		router.WithChannelSize(geom.GridPoint(cfg.Channel.Size)),
		router.WithMargin(geom.GridPoint(*cfg.Channel.Margin)))
	require.NoError(t, err)
	require.NoError(t, cfg.registerRoutes(comp, r))

	report, err := r.Route()
	require.NoError(t, err)
	assert.True(t, report.Ok())
	assert.Equal(t, []string{"a.out__to__b.in"}, report.Resolved)
}

// TestLoadConfig_MarginPresence distinguishes an explicit zero margin
// from an absent key.
func TestLoadConfig_MarginPresence(t *testing.T) {
	zero := `
component:
  id: chip
  size: [30, 20, 10]
channel:
  size: [2, 2, 2]
  margin: [0, 0, 0]
`
	cfg, err := loadConfig(writeConfig(t, zero))
	require.NoError(t, err)
	require.NotNil(t, cfg.Channel.Margin)
	assert.Equal(t, [3]int{0, 0, 0}, *cfg.Channel.Margin)

	absent := `
component:
  id: chip
  size: [30, 20, 10]
channel:
  size: [2, 2, 2]
`
	cfg, err = loadConfig(writeConfig(t, absent))
	require.NoError(t, err)
	assert.Nil(t, cfg.Channel.Margin, "absent margin keeps the router default")
}

// TestLoadConfig_BadPortRef rejects unknown endpoints.
func TestLoadConfig_BadPortRef(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	cfg.Routes[0].To = "b.missing"

	comp, err := cfg.buildComponent()
	require.NoError(t, err)
	r, err := router.New(comp, router.WithChannelSize(geom.GridPoint{2, 2, 2}))
	require.NoError(t, err)
	assert.Error(t, cfg.registerRoutes(comp, r))
}

// TestLookupPort resolves dotted references against the tree.
func TestLookupPort(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	comp, err := cfg.buildComponent()
	require.NoError(t, err)

	p, err := lookupPort(comp, "a.out")
	require.NoError(t, err)
	assert.Equal(t, "a.out", p.Name())

	_, err = lookupPort(comp, "nodots")
	assert.Error(t, err)
	_, err = lookupPort(comp, "ghost.port")
	assert.Error(t, err)
}
