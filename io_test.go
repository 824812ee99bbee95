// FILE: fennec-dl/config/io_test.go
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ioDocument = `name: run
seed: 3
ratio: 0.5
debug: true
layers: [64, 32]
model:
  optimizer:
    lr: 0.01
`

// TestEncode tests that every output format reads back to an equal tree
func TestEncode(t *testing.T) {
	tree, err := ParseDynamic(ioDocument)
	require.NoError(t, err)

	for _, format := range []Format{FormatYAML, FormatJSON, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, tree, format))

			back, err := NewLoader().WithFormat(format).ParseDynamic(buf.String())
			require.NoError(t, err, buf.String())
			if diff := cmp.Diff(tree.ToMap(), back.ToMap()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("UnknownFormat", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, Encode(&buf, tree, Format("xml")))
	})
}

// TestWriteFile tests atomic saving of resolved trees
func TestWriteFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "part.yaml"), "lr: 0.1\n")
	source := writeFile(t, filepath.Join(tmpDir, "main.yaml"), "opt: !include part.yaml\ncopy: !ref opt.lr\n")

	tree, err := LoadDynamic(source)
	require.NoError(t, err)

	t.Run("DetectsFormatFromExtension", func(t *testing.T) {
		target := filepath.Join(tmpDir, "out", "nested", "resolved.json")
		require.NoError(t, WriteFile(target, tree, FormatAuto))

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "{"))

		back, err := LoadDynamic(target)
		require.NoError(t, err)
		assert.True(t, back.Equal(tree))
	})

	t.Run("DirectivesAreResolved", func(t *testing.T) {
		target := filepath.Join(tmpDir, "resolved.yaml")
		require.NoError(t, WriteFile(target, tree, FormatAuto))

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "!include")
		assert.NotContains(t, string(data), "!ref")
	})

	t.Run("NoTempFilesLeft", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Join(tmpDir, "out", "nested"))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "resolved.json", entries[0].Name())
	})
}

// TestDebug tests the human readable listing
func TestDebug(t *testing.T) {
	tree, err := ParseDynamic(ioDocument)
	require.NoError(t, err)
	tree.Freeze()

	out := Debug(tree)
	assert.Contains(t, out, "Variant: dynamic, read-only: true")
	assert.Contains(t, out, "  model.optimizer.lr (float): 0.01\n")
	assert.Contains(t, out, "  seed (int): 3\n")
	assert.Contains(t, out, "  layers (list): [64 32]\n")
	assert.Less(t, strings.Index(out, "debug"), strings.Index(out, "seed"))

	schema := NewSchema("s").Field("a", Int)
	static, err := ParseStatic("a: 1\n", schema)
	require.NoError(t, err)
	assert.Contains(t, Debug(static), "Variant: static[s], read-only: false")

	assert.NoError(t, Dump(static))
}

// TestParseFormat tests user supplied format names
func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{
		"":      FormatAuto,
		"auto":  FormatAuto,
		"YML":   FormatYAML,
		"json":  FormatJSON,
		"jsonc": FormatJSON,
		"toml":  FormatTOML,
	} {
		got, err := ParseFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}
