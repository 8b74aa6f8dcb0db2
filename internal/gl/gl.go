package gl

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
)

const (
	// ColorBufferBit is a mask used with Clear to clear the color buffer.
	ColorBufferBit = 0x00004000
	// DepthBufferBit is a mask used with Clear to clear the depth buffer.
	DepthBufferBit = 0x00000100
	// StencilBufferBit is a mask used with Clear to clear the stencil buffer.
	StencilBufferBit = 0x00000400

	// Texture2D is the texture target for 2D textures.
	Texture2D = 0x0DE1

	// UnpackAlignment specifies the alignment requirements for pixel data
	// when uploading textures (PixelStorei).
	UnpackAlignment = 0x0CF5

	// TextureMinFilter selects the texture minification filter.
	TextureMinFilter = 0x2801
	// TextureMagFilter selects the texture magnification filter.
	TextureMagFilter = 0x2800

	// Nearest selects nearest-neighbor filtering.
	Nearest = 0x2600
	// Linear selects linear filtering.
	Linear = 0x2601

	// RGBA is a pixel format representing red/green/blue/alpha.
	RGBA = 0x1908

	// UnsignedByte is a pixel data type indicating 8-bit unsigned values.
	UnsignedByte = 0x1401

	// LineLoop is a primitive type for drawing a closed outline.
	LineLoop = 0x0002
	// TriangleStrip is a primitive type for drawing a connected strip of triangles.
	TriangleStrip = 0x0005
	// TriangleFan is a primitive type for drawing triangles around a shared first vertex.
	TriangleFan = 0x0006

	// Projection selects the projection matrix stack for MatrixMode.
	Projection = 0x1701
	// ModelView selects the model-view matrix stack for MatrixMode.
	ModelView = 0x1700

	// Blending capabilities and factors.
	Blend            = 0x0BE2
	SrcAlpha         = 0x0302
	OneMinusSrcAlpha = 0x0303

	// Vendor returns the company responsible for the GL implementation.
	Vendor = 0x1F00
	// Version returns the GL version string of the current context.
	Version = 0x1F02
)

// OpenGL describes the subset of OpenGL entry points used by this module.
//
// All methods operate on the context that is current for the calling OS
// thread, so an OpenGL value must only be used by the goroutine that loaded
// it while that goroutine stays locked to its thread.
type OpenGL interface {
	// ClearColor sets the clear color used by Clear when clearing the color buffer.
	ClearColor(r, g, b, a float32)

	// Clear clears buffers to preset values (e.g., ColorBufferBit).
	Clear(mask uint32)

	// Viewport sets the affine transformation of x and y from normalized device
	// coordinates to window coordinates.
	Viewport(x, y, width, height int32)

	// Enable enables a server-side GL capability (e.g., Blend).
	Enable(cap uint32)

	// Disable disables a server-side GL capability.
	Disable(cap uint32)

	// GenTextures generates texture object names.
	GenTextures(n int32, textures *uint32)

	// DeleteTextures deletes named textures.
	DeleteTextures(n int32, textures *uint32)

	// BindTexture binds a named texture to a texturing target (e.g., Texture2D).
	BindTexture(target, texture uint32)

	// TexImage2D specifies a two-dimensional texture image.
	TexImage2D(
		target uint32,
		level int32,
		internalformat int32,
		width int32,
		height int32,
		border int32,
		format uint32,
		xtype uint32,
		pixels unsafe.Pointer,
	)

	// TexParameteri sets texture parameters for the currently bound texture.
	TexParameteri(target, pname uint32, param int32)

	// PixelStorei sets pixel storage modes (e.g., UnpackAlignment).
	PixelStorei(pname uint32, param int32)

	// Begin and End bracket immediate mode vertex specification.
	Begin(mode uint32)
	End()

	// Color4fv sets the current color using a pointer to four float32 values.
	Color4fv(v *float32)

	// TexCoord2f sets the current texture coordinates.
	TexCoord2f(s, t float32)

	// Vertex2f specifies a vertex.
	Vertex2f(x, y float32)

	// LineWidth sets the rasterized width of lines.
	LineWidth(width float32)

	// Ortho multiplies the current matrix by an orthographic projection matrix.
	Ortho(left, right, bottom, top, near, far float64)

	// MatrixMode sets which matrix stack is the target for subsequent matrix operations.
	MatrixMode(mode uint32)

	// LoadIdentity replaces the current matrix with the identity matrix.
	LoadIdentity()

	// BlendFunc specifies the pixel arithmetic for blending.
	BlendFunc(sfactor, dfactor uint32)

	// GetString returns a string describing a GL property for the current context.
	GetString(name uint32) string
}

// ProcAddress resolves an entry point of the current context, as returned by
// the windowing library (glfwGetProcAddress and friends).
type ProcAddress func(name string) uintptr

type openGL struct {
	clearColor     func(float32, float32, float32, float32)
	clear          func(uint32)
	viewport       func(int32, int32, int32, int32)
	enable         func(uint32)
	disable        func(uint32)
	genTextures    func(int32, *uint32)
	deleteTextures func(int32, *uint32)
	bindTexture    func(uint32, uint32)
	texImage2D     func(uint32, int32, int32, int32, int32, int32, uint32, uint32, unsafe.Pointer)
	texParameteri  func(uint32, uint32, int32)
	pixelStorei    func(uint32, int32)
	begin          func(uint32)
	end            func()
	color4fv       func(*float32)
	texCoord2f     func(float32, float32)
	vertex2f       func(float32, float32)
	lineWidth      func(float32)
	ortho          func(float64, float64, float64, float64, float64, float64)
	matrixMode     func(uint32)
	loadIdentity   func()
	blendFunc      func(uint32, uint32)
	getString      func(uint32) *byte
}

func (gl *openGL) ClearColor(r, g, b, a float32) { gl.clearColor(r, g, b, a) }
func (gl *openGL) Clear(mask uint32)             { gl.clear(mask) }
func (gl *openGL) Enable(cap uint32)             { gl.enable(cap) }
func (gl *openGL) Disable(cap uint32)            { gl.disable(cap) }

func (gl *openGL) Viewport(x, y, width, height int32) {
	gl.viewport(x, y, width, height)
}

func (gl *openGL) GenTextures(n int32, textures *uint32) {
	gl.genTextures(n, textures)
}

func (gl *openGL) DeleteTextures(n int32, textures *uint32) {
	gl.deleteTextures(n, textures)
}

func (gl *openGL) BindTexture(target, texture uint32) {
	gl.bindTexture(target, texture)
}

func (gl *openGL) TexImage2D(target uint32, level, internalFormat, width, height, border int32, format, xtype uint32, pixels unsafe.Pointer) {
	gl.texImage2D(target, level, internalFormat, width, height, border, format, xtype, pixels)
}

func (gl *openGL) TexParameteri(target, pname uint32, param int32) {
	gl.texParameteri(target, pname, param)
}

func (gl *openGL) PixelStorei(pname uint32, param int32) {
	gl.pixelStorei(pname, param)
}

func (gl *openGL) Begin(mode uint32)       { gl.begin(mode) }
func (gl *openGL) End()                    { gl.end() }
func (gl *openGL) Color4fv(v *float32)     { gl.color4fv(v) }
func (gl *openGL) TexCoord2f(s, t float32) { gl.texCoord2f(s, t) }
func (gl *openGL) Vertex2f(x, y float32)   { gl.vertex2f(x, y) }
func (gl *openGL) LineWidth(w float32)     { gl.lineWidth(w) }

func (gl *openGL) Ortho(left, right, bottom, top, zNear, zFar float64) {
	gl.ortho(left, right, bottom, top, zNear, zFar)
}

func (gl *openGL) MatrixMode(mode uint32) { gl.matrixMode(mode) }
func (gl *openGL) LoadIdentity()          { gl.loadIdentity() }

func (gl *openGL) BlendFunc(sfactor, dfactor uint32) {
	gl.blendFunc(sfactor, dfactor)
}

func (gl *openGL) GetString(name uint32) string {
	return gostring(gl.getString(name))
}

// Load binds the entry points of the context that is current on the calling
// thread.
func Load(proc ProcAddress) (OpenGL, error) {
	var missing []string
	register := func(dst interface{}, name string) {
		addr := proc(name)
		if addr == 0 {
			missing = append(missing, name)
			return
		}
		purego.RegisterFunc(dst, addr)
	}

	gl := &openGL{}
	register(&gl.clearColor, "glClearColor")
	register(&gl.clear, "glClear")
	register(&gl.viewport, "glViewport")
	register(&gl.enable, "glEnable")
	register(&gl.disable, "glDisable")
	register(&gl.genTextures, "glGenTextures")
	register(&gl.deleteTextures, "glDeleteTextures")
	register(&gl.bindTexture, "glBindTexture")
	register(&gl.texImage2D, "glTexImage2D")
	register(&gl.texParameteri, "glTexParameteri")
	register(&gl.pixelStorei, "glPixelStorei")
	register(&gl.begin, "glBegin")
	register(&gl.end, "glEnd")
	register(&gl.color4fv, "glColor4fv")
	register(&gl.texCoord2f, "glTexCoord2f")
	register(&gl.vertex2f, "glVertex2f")
	register(&gl.lineWidth, "glLineWidth")
	register(&gl.ortho, "glOrtho")
	register(&gl.matrixMode, "glMatrixMode")
	register(&gl.loadIdentity, "glLoadIdentity")
	register(&gl.blendFunc, "glBlendFunc")
	register(&gl.getString, "glGetString")
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing GL entry points: %v", missing)
	}
	return gl, nil
}

func gostring(ptr *byte) string {
	if ptr == nil {
		return ""
	}
	var bytes []byte
	for p := ptr; *p != 0; p = (*byte)(unsafe.Pointer(uintptr(unsafe.Pointer(p)) + 1)) {
		bytes = append(bytes, *p)
	}
	return string(bytes)
}
