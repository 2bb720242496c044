package main

import (
	"fmt"
	"image"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	vertexShaderSource = `
		#version 410
		in vec2 vp;
		in vec2 vt;
		uniform mat4 projection;
		out vec2 uv;
		void main() {
			uv = vt;
			gl_Position = projection * vec4(vp, 0.0, 1.0);
		}
	` + "\x00"

	fragmentShaderSource = `
		#version 410
		in vec2 uv;
		uniform sampler2D frame;
		out vec4 frag_colour;
		void main() {
			frag_colour = texture(frame, uv);
		}
	` + "\x00"
)

// Unit quad as two triangles: x, y, u, v. Image row 0 is the top of the
// frame, so v is flipped.
var quadVertices = []float32{
	0, 0, 0, 1,
	1, 0, 1, 1,
	1, 1, 1, 0,
	0, 0, 0, 1,
	1, 1, 1, 0,
	0, 1, 0, 0,
}

// display presents RGBA frames as a window-filling textured quad
type display struct {
	program uint32
	vao     uint32
	texture uint32
	width   int32
	height  int32
}

// newDisplay compiles the blit program and allocates a texture for width×height frames.
// The GL context must be current.
func newDisplay(width, height int) (*display, error) {
	program, err := newProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, err
	}
	gl.UseProgram(program)

	projection := mgl32.Ortho(0, 1, 0, 1, -1, 1)
	projectionUniform := gl.GetUniformLocation(program, gl.Str("projection\x00"))
	gl.UniformMatrix4fv(projectionUniform, 1, false, &projection[0])
	gl.Uniform1i(gl.GetUniformLocation(program, gl.Str("frame\x00")), 0)

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	vertAttrib := uint32(gl.GetAttribLocation(program, gl.Str("vp\x00")))
	gl.EnableVertexAttribArray(vertAttrib)
	gl.VertexAttribPointer(vertAttrib, 2, gl.FLOAT, false, 4*4, gl.PtrOffset(0))

	texAttrib := uint32(gl.GetAttribLocation(program, gl.Str("vt\x00")))
	gl.EnableVertexAttribArray(texAttrib)
	gl.VertexAttribPointer(texAttrib, 2, gl.FLOAT, false, 4*4, gl.PtrOffset(2*4))

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	// Nearest filtering keeps traced pixels crisp when the window is an integer multiple
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	gl.ClearColor(0, 0, 0, 1)

	return &display{program: program, vao: vao, texture: texture, width: int32(width), height: int32(height)}, nil
}

// draw uploads img and draws it over the whole viewport
func (d *display) draw(img *image.RGBA) {
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.BindTexture(gl.TEXTURE_2D, d.texture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, d.width, d.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))

	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(d.program)
	gl.BindVertexArray(d.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(quadVertices)/4))
}

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}

	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}

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

		return 0, fmt.Errorf("failed to link program: %v", log)
	}

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
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

		return 0, fmt.Errorf("failed to compile shader: %v", log)
	}

	return shader, nil
}
