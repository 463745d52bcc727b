package main

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squares(n int) []byte {
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(float32(i*i)))
	}
	return buf
}

func TestVerifySquares(t *testing.T) {
	values := squares(16)
	_, _, _, ok := verifySquares(values)
	assert.True(t, ok)

	binary.LittleEndian.PutUint32(values[5*4:], math.Float32bits(5))
	i, got, want, ok := verifySquares(values)
	assert.False(t, ok)
	assert.Equal(t, 5, i)
	assert.Equal(t, float32(5), got)
	assert.Equal(t, float32(25), want)
}

func TestShaderSource(t *testing.T) {
	src, err := shaderSource("", "builtin")
	require.NoError(t, err)
	assert.Equal(t, "builtin", src)

	path := filepath.Join(t.TempDir(), "custom.wgsl")
	require.NoError(t, os.WriteFile(path, []byte("custom"), 0o644))
	src, err = shaderSource(path, "builtin")
	require.NoError(t, err)
	assert.Equal(t, "custom", src)

	_, err = shaderSource(filepath.Join(t.TempDir(), "missing.wgsl"), "builtin")
	assert.Error(t, err)
}

func TestEmbeddedShaders(t *testing.T) {
	assert.Contains(t, triangleWGSL, "@vertex")
	assert.Contains(t, triangleWGSL, "@fragment")
	assert.Contains(t, squareWGSL, "@compute")
}

func TestReloaderNothingToWatch(t *testing.T) {
	r, err := newReloader(map[reloadKind]string{reloadConfig: "", reloadShader: ""})
	require.NoError(t, err)
	assert.Nil(t, r)
	assert.Empty(t, r.Poll())
	assert.NoError(t, r.Close())
}

func TestReloaderReportsWrites(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "testbed.toml")
	shader := filepath.Join(dir, "shader.wgsl")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{config, shader, other} {
		require.NoError(t, os.WriteFile(p, []byte("v1"), 0o644))
	}

	r, err := newReloader(map[reloadKind]string{reloadConfig: config, reloadShader: shader})
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, os.WriteFile(other, []byte("v2"), 0o644))
	require.NoError(t, os.WriteFile(shader, []byte("v2"), 0o644))
	require.NoError(t, os.WriteFile(shader, []byte("v3"), 0o644))

	var got []reloadKind
	require.Eventually(t, func() bool {
		got = append(got, r.Poll()...)
		return len(got) > 0
	}, 5*time.Second, 10*time.Millisecond)

	// Trailing events of the burst must not show up as config changes.
	time.Sleep(100 * time.Millisecond)
	got = append(got, r.Poll()...)
	assert.NotContains(t, got, reloadConfig)
	assert.Contains(t, got, reloadShader)
}

func TestReloadKindString(t *testing.T) {
	assert.Equal(t, "config", reloadConfig.String())
	assert.Equal(t, "shader", reloadShader.String())
}
