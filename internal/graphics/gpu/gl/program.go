package glgpu

import (
	"fmt"
	"strings"

	"mini-render/internal/graphics/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// diffuseSampler is the sampler uniform bound to gpu.SlotDiffuse.
const diffuseSampler = "txDiffuse"

type program struct {
	id uint32
}

// program returns the linked program for the pair, linking it on first use.
// Link failures are cached as nil so they are reported once.
func (d *Device) program(vs *VertexShader, ps *PixelShader) (*program, error) {
	key := programKey{vs: vs.id, ps: ps.id}
	if p, ok := d.programs[key]; ok {
		return p, nil
	}

	id, err := linkProgram(vs.id, ps.id)
	if err != nil {
		d.programs[key] = nil
		return nil, err
	}
	p := &program{id: id}

	// GLSL 4.10 has no binding qualifier, so blocks are bound to their
	// slots by name after linking.
	for slot, name := range gpu.SlotBlockNames {
		idx := gl.GetUniformBlockIndex(id, gl.Str(name+"\x00"))
		if idx != gl.INVALID_INDEX {
			gl.UniformBlockBinding(id, idx, uint32(slot))
		}
	}
	gl.UseProgram(id)
	if loc := gl.GetUniformLocation(id, gl.Str(diffuseSampler+"\x00")); loc >= 0 {
		gl.Uniform1i(loc, gpu.SlotDiffuse)
	}

	d.programs[key] = p
	return p, nil
}

func linkProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("failed to compile shader: %v", log)
	}
	return shader, nil
}
