package decode

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestParse_YAML(t *testing.T) {
	t.Parallel()

	content := []byte("port: 8080\ndebug: true\nname: api\nignored-files:\n  - a.txt\n  - b.txt\n")

	tree, err := Parse(context.Background(), YAML, content)

	require.NoError(t, err)
	require.True(t, tree.Type().IsObjectType())
	assert.True(t, tree.GetAttr("port").RawEquals(cty.NumberIntVal(8080)))
	assert.True(t, tree.GetAttr("debug").RawEquals(cty.True))
	assert.True(t, tree.GetAttr("name").RawEquals(cty.StringVal("api")))
	assert.True(t, tree.GetAttr("ignored-files").RawEquals(
		cty.TupleVal([]cty.Value{cty.StringVal("a.txt"), cty.StringVal("b.txt")})))
}

func TestParse_JSON(t *testing.T) {
	t.Parallel()

	content := []byte(`{"port": 9090, "nested": {"host": "localhost"}, "empty": {}, "list": []}`)

	tree, err := Parse(context.Background(), JSON, content)

	require.NoError(t, err)
	assert.True(t, tree.GetAttr("port").RawEquals(cty.NumberIntVal(9090)))
	assert.True(t, tree.GetAttr("nested").GetAttr("host").RawEquals(cty.StringVal("localhost")))
	assert.True(t, tree.GetAttr("empty").RawEquals(cty.EmptyObjectVal))
	assert.True(t, tree.GetAttr("list").RawEquals(cty.EmptyTupleVal))
}

// Comments and trailing commas are tolerated in JSON documents, matching
// what editors produce for .jsonc files.
func TestParse_JSONWithComments(t *testing.T) {
	t.Parallel()

	content := []byte(`{
		// the listen port
		"port": 8080,
	}`)

	tree, err := Parse(context.Background(), JSON, content)

	require.NoError(t, err)
	assert.True(t, tree.GetAttr("port").RawEquals(cty.NumberIntVal(8080)))
}

func TestParse_TOML(t *testing.T) {
	t.Parallel()

	content := []byte("port = 8080\n\n[database]\nurl = \"postgres://localhost\"\n")

	tree, err := Parse(context.Background(), TOML, content)

	require.NoError(t, err)
	assert.True(t, tree.GetAttr("port").RawEquals(cty.NumberIntVal(8080)))
	assert.True(t, tree.GetAttr("database").GetAttr("url").RawEquals(cty.StringVal("postgres://localhost")))
}

func TestParse_HCL(t *testing.T) {
	t.Parallel()

	content := []byte("port = 8080\nname = \"api\"\n")

	tree, err := Parse(context.Background(), HCL, content)

	require.NoError(t, err)
	assert.True(t, tree.GetAttr("port").RawEquals(cty.NumberIntVal(8080)))
	assert.True(t, tree.GetAttr("name").RawEquals(cty.StringVal("api")))
}

// Explicit nulls survive parsing as typed null values rather than being
// dropped, so the resolver can tell "set to null" from "absent".
func TestParse_ExplicitNull(t *testing.T) {
	t.Parallel()

	tree, err := Parse(context.Background(), YAML, []byte("port: null\n"))

	require.NoError(t, err)
	require.True(t, tree.Type().HasAttribute("port"))
	assert.True(t, tree.GetAttr("port").IsNull())
}

func TestParse_NonMappingTopLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		format  Format
		content string
	}{
		{name: "yaml scalar", format: YAML, content: "just a string"},
		{name: "yaml sequence", format: YAML, content: "- a\n- b\n"},
		{name: "json number", format: JSON, content: "42"},
		{name: "json array", format: JSON, content: `["a", "b"]`},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(context.Background(), tc.format, []byte(tc.content))

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Contains(t, pe.Error(), "top-level document must be a mapping")
		})
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	t.Parallel()

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		_, err := Parse(context.Background(), YAML, []byte("key: [unclosed\n"))

		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, YAML, pe.Format)
	})

	t.Run("malformed json reports byte offset", func(t *testing.T) {
		t.Parallel()

		_, err := Parse(context.Background(), JSON, []byte(`{"port": }`))

		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, JSON, pe.Format)
		assert.Greater(t, pe.Offset, int64(0))
		assert.Contains(t, pe.Error(), "byte offset")
	})

	t.Run("json trailing data rejected", func(t *testing.T) {
		t.Parallel()

		_, err := Parse(context.Background(), JSON, []byte(`{"a": 1} {"b": 2}`))

		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Contains(t, pe.Error(), "trailing data")
	})

	t.Run("malformed toml reports line", func(t *testing.T) {
		t.Parallel()

		_, err := Parse(context.Background(), TOML, []byte("port = \nother = 1\n"))

		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, TOML, pe.Format)
	})
}

func TestParse_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := Parse(context.Background(), Format("ini"), []byte("a=b"))

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Error(), "unsupported config format")
}

// Large integers must survive without float64 rounding.
func TestParse_LargeIntegerPrecision(t *testing.T) {
	t.Parallel()

	tree, err := Parse(context.Background(), JSON, []byte(`{"id": 9007199254740993}`))

	require.NoError(t, err)
	want := cty.MustParseNumberVal("9007199254740993")
	assert.True(t, tree.GetAttr("id").RawEquals(want))
}

func TestParseAuto(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		raw        string
		wantFormat Format
	}{
		{name: "json object", raw: `{"port": 1}`, wantFormat: JSON},
		{name: "yaml mapping", raw: "port: 1\n", wantFormat: YAML},
		{name: "toml table", raw: "port = 1\n", wantFormat: TOML},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tree, format, err := ParseAuto(context.Background(), tc.raw)

			require.NoError(t, err)
			assert.Equal(t, tc.wantFormat, format)
			assert.True(t, tree.GetAttr("port").RawEquals(cty.NumberIntVal(1)))
		})
	}
}

// Detection is deterministic: the same input always commits to the same
// format regardless of how many formats could parse it.
func TestParseAuto_JSONWinsOverYAML(t *testing.T) {
	t.Parallel()

	// Every JSON object is also valid YAML; JSON must win.
	_, format, err := ParseAuto(context.Background(), `{"port": 1}`)

	require.NoError(t, err)
	assert.Equal(t, JSON, format)
}

func TestParseAuto_NothingMatches(t *testing.T) {
	t.Parallel()

	_, _, err := ParseAuto(context.Background(), "just a plain sentence with: [broken")

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Error(), "does not parse as any of")
}

func TestFromExtension(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		ext    string
		want   Format
		wantOK bool
	}{
		{ext: ".yaml", want: YAML, wantOK: true},
		{ext: "yml", want: YAML, wantOK: true},
		{ext: ".JSON", want: JSON, wantOK: true},
		{ext: "jsonc", want: JSON, wantOK: true},
		{ext: ".toml", want: TOML, wantOK: true},
		{ext: ".hcl", want: HCL, wantOK: true},
		{ext: ".ini", wantOK: false},
		{ext: "", wantOK: false},
	}

	for _, tc := range testCases {
		tc := tc
		format, ok := FromExtension(tc.ext)
		assert.Equal(t, tc.wantOK, ok, "extension %q", tc.ext)
		if tc.wantOK {
			assert.Equal(t, tc.want, format, "extension %q", tc.ext)
		}
	}
}
