package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flagfile/internal/registry"
	"github.com/vk/flagfile/internal/resolver"
	"github.com/vk/flagfile/internal/schema"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	def := cty.NumberIntVal(8080)
	reg, err := registry.New(
		&schema.Field{Name: "port", Type: cty.Number, Short: "p", Default: &def, Help: "Listen port."},
		&schema.Field{Name: "debug", Type: cty.Bool},
		&schema.Field{Name: "tags", Type: cty.List(cty.String), MultiValue: schema.Extend},
		&schema.Field{Name: "secret", Type: cty.String, Source: schema.ConfigOnly},
	)
	require.NoError(t, err)
	return reg
}

func TestParse_PresenceCapturesOnlyExplicitFlags(t *testing.T) {
	t.Parallel()

	// Arrange
	var out bytes.Buffer
	reg := testRegistry(t)

	// Act
	result, shouldExit, err := Parse([]string{"--port", "9090"}, reg, "tool", &out)

	// Assert
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, resolver.Presence{"port": {"9090"}}, result.Presence)
	_, debugPresent := result.Presence["debug"]
	assert.False(t, debugPresent, "unset flags must not appear in presence")
}

func TestParse_ShortAliasFeedsTheSameField(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	reg := testRegistry(t)

	result, _, err := Parse([]string{"-p", "7070"}, reg, "tool", &out)

	require.NoError(t, err)
	assert.Equal(t, []string{"7070"}, result.Presence["port"])
}

func TestParse_RepeatedScalarKeepsLastValue(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	reg := testRegistry(t)

	result, _, err := Parse([]string{"--port", "1", "--port", "2"}, reg, "tool", &out)

	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, result.Presence["port"])
}

func TestParse_ListFlagAccumulatesOccurrences(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	reg := testRegistry(t)

	result, _, err := Parse([]string{"--tags", "a", "--tags", "b"}, reg, "tool", &out)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, result.Presence["tags"])
}

func TestParse_BoolFlag(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	reg := testRegistry(t)

	result, _, err := Parse([]string{"--debug"}, reg, "tool", &out)

	require.NoError(t, err)
	assert.Equal(t, []string{"true"}, result.Presence["debug"])
}

// A config-only field never becomes a flag; supplying it is an error like
// any other unknown flag.
func TestParse_ConfigOnlyFieldNotRegistered(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	reg := testRegistry(t)

	_, _, err := Parse([]string{"--secret", "x"}, reg, "tool", &out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "flag provided but not defined")
}

func TestParse_EngineFlags(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	reg := testRegistry(t)

	result, _, err := Parse(
		[]string{"--config-file", "/etc/app.yaml", "--no-config", "--config", `{"a":1}`},
		reg, "tool", &out,
	)

	require.NoError(t, err)
	assert.Equal(t, "/etc/app.yaml", result.Engine.ConfigFile)
	assert.True(t, result.Engine.NoConfig)
	assert.Equal(t, `{"a":1}`, result.Engine.RawConfig)
	assert.Empty(t, result.Presence, "engine flags never count as field presence")
}

func TestParse_RestArguments(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	reg := testRegistry(t)

	result, _, err := Parse([]string{"--port", "1", "serve", "--not-a-flag"}, reg, "tool", &out)

	require.NoError(t, err)
	assert.Equal(t, []string{"serve", "--not-a-flag"}, result.Rest)
}

func TestParse_HelpRequested(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	reg := testRegistry(t)

	result, shouldExit, err := Parse([]string{"--help"}, reg, "tool", &out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, result)
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "Listen port. (default 8080)")
}

func TestParse_UnknownFlag(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	reg := testRegistry(t)

	_, _, err := Parse([]string{"--bogus"}, reg, "tool", &out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}
