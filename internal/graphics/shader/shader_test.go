package shader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mini-render/internal/graphics/gpu"
	"mini-render/internal/graphics/gpu/gputest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexShaderReadsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.vert")
	require.NoError(t, os.WriteFile(path, []byte("void main() {}"), 0o644))

	dev := gputest.NewDevice()
	vs := NewVertexShader("cube", path, gpu.SimpleVertexLayout)
	require.NoError(t, vs.Initialize(dev))

	require.Len(t, dev.VertexShaders, 1)
	assert.Equal(t, "void main() {}", string(dev.VertexShaders[0].Source))
	assert.Same(t, dev.VertexShaders[0], vs.Shader())
	assert.Equal(t, gpu.SimpleVertexLayout, vs.InputLayout().Elements())

	// Initializing again keeps the existing object.
	require.NoError(t, vs.Initialize(dev))
	assert.Len(t, dev.VertexShaders, 1)
}

func TestMissingSourceFile(t *testing.T) {
	dev := gputest.NewDevice()
	vs := NewVertexShader("gone", filepath.Join(t.TempDir(), "missing.vert"), gpu.SimpleVertexLayout)
	err := vs.Initialize(dev)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), `"gone"`)
	assert.Nil(t, vs.Shader())
}

func TestPixelShaderDeviceFailure(t *testing.T) {
	dev := gputest.NewDevice()
	boom := errors.New("compile error")
	dev.Fail["CreatePixelShader"] = boom

	ps := NewPixelShaderFromSource("bad", []byte("x"))
	err := ps.Initialize(dev)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, ps.Shader())
}

func TestReleaseAfterInitialize(t *testing.T) {
	dev := gputest.NewDevice()
	vs := NewVertexShaderFromSource("v", []byte("v"), gpu.SimpleVertexLayout)
	ps := NewPixelShaderFromSource("p", []byte("p"))
	require.NoError(t, vs.Initialize(dev))
	require.NoError(t, ps.Initialize(dev))

	vs.Release()
	ps.Release()
	assert.True(t, dev.VertexShaders[0].Released)
	assert.True(t, dev.Layouts[0].Released)
	assert.True(t, dev.PixelShaders[0].Released)
	assert.Nil(t, vs.Shader())

	// Releasing an uninitialized handle does nothing.
	NewPixelShader("idle", "idle.frag").Release()
}

func TestDefaultShadersShareBlocks(t *testing.T) {
	dev := gputest.NewDevice()
	for name, vs := range DefaultVertexShaders() {
		require.NoError(t, vs.Initialize(dev), name)
	}
	for name, ps := range DefaultPixelShaders() {
		require.NoError(t, ps.Initialize(dev), name)
	}

	all := append(append([]*gputest.Shader(nil), dev.VertexShaders...), dev.PixelShaders...)
	require.Len(t, all, 5)
	for _, s := range all {
		src := string(s.Source)
		assert.True(t, strings.HasPrefix(src, "#version 410 core\n"))
		for _, block := range gpu.SlotBlockNames {
			assert.Contains(t, src, "uniform "+block)
		}
	}
}

func TestVoxelShaderIsInstanced(t *testing.T) {
	vs := DefaultVertexShaders()[VoxelShader]
	assert.Equal(t, gpu.InstancedVertexLayout, vs.Layout())
	assert.Equal(t, gpu.SimpleVertexLayout, DefaultVertexShaders()[MainShader].Layout())
}
