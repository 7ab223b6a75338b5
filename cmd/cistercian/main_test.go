package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/cistercian-mcp/internal/cistercian"
	"github.com/ironsheep/cistercian-mcp/internal/glyph"
	"github.com/ironsheep/cistercian-mcp/internal/render"
)

func newCodec(t *testing.T) (*cistercian.Encoder, *cistercian.Decoder) {
	t.Helper()
	table := glyph.NewTemplateTable()
	enc, err := cistercian.NewEncoder(table, render.DefaultOptions())
	require.NoError(t, err)
	return enc, cistercian.NewDecoder(table, cistercian.DefaultDecoderOptions())
}

func TestEncodeDecodeFile(t *testing.T) {
	enc, dec := newCodec(t)
	path := filepath.Join(t.TempDir(), "glyph.png")

	var out bytes.Buffer
	require.NoError(t, runEncode(enc, []string{"2468", path}, &out))
	assert.Empty(t, out.String())

	require.NoError(t, runDecode(dec, []string{path}, &out))
	assert.Equal(t, "2468\n", out.String())
}

func TestEncode_DataURI(t *testing.T) {
	enc, _ := newCodec(t)

	var out bytes.Buffer
	require.NoError(t, runEncode(enc, []string{"7"}, &out))
	assert.True(t, strings.HasPrefix(out.String(), "data:image/png;base64,"))
}

func TestCommandErrors(t *testing.T) {
	enc, dec := newCodec(t)
	dir := t.TempDir()
	notImage := filepath.Join(dir, "notes.png")
	require.NoError(t, os.WriteFile(notImage, []byte("not an image"), 0o644))

	var out bytes.Buffer
	assert.Equal(t, cistercian.KindRange, cistercian.KindOf(runEncode(enc, []string{"10000"}, &out)))
	assert.Equal(t, cistercian.KindInvalidRequest, cistercian.KindOf(runEncode(enc, nil, &out)))
	assert.Equal(t, cistercian.KindInvalidRequest, cistercian.KindOf(runDecode(dec, nil, &out)))
	assert.Equal(t, cistercian.KindInvalidRequest,
		cistercian.KindOf(runDecode(dec, []string{filepath.Join(dir, "missing.png")}, &out)))
	assert.Equal(t, cistercian.KindInvalidImage, cistercian.KindOf(runDecode(dec, []string{notImage}, &out)))
	assert.Empty(t, out.String())
}
