package gl

import (
	"sync"
	"unsafe"
)

// Recorder is an OpenGL implementation that draws nothing and remembers the
// state-changing calls made on it. It backs windows that have no native
// context.
type Recorder struct {
	mu sync.Mutex

	clears      []uint32
	viewport    [4]int32
	viewports   int
	clearColor  [4]float32
	textures    map[uint32]bool
	nextTexture uint32
	primitives  int
}

func NewRecorder() *Recorder {
	return &Recorder{textures: make(map[uint32]bool)}
}

// Clears returns the masks passed to Clear, oldest first.
func (r *Recorder) Clears() []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint32(nil), r.clears...)
}

// LastViewport returns the last viewport and the number of Viewport calls.
func (r *Recorder) LastViewport() ([4]int32, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewport, r.viewports
}

// LiveTextures returns the number of generated and not yet deleted textures.
func (r *Recorder) LiveTextures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.textures)
}

// Primitives returns the number of Begin/End pairs issued.
func (r *Recorder) Primitives() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.primitives
}

func (r *Recorder) ClearColor(cr, cg, cb, ca float32) {
	r.mu.Lock()
	r.clearColor = [4]float32{cr, cg, cb, ca}
	r.mu.Unlock()
}

func (r *Recorder) Clear(mask uint32) {
	r.mu.Lock()
	r.clears = append(r.clears, mask)
	r.mu.Unlock()
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.mu.Lock()
	r.viewport = [4]int32{x, y, width, height}
	r.viewports++
	r.mu.Unlock()
}

func (r *Recorder) GenTextures(n int32, textures *uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := unsafe.Slice(textures, n)
	for i := range ids {
		r.nextTexture++
		ids[i] = r.nextTexture
		r.textures[r.nextTexture] = true
	}
}

func (r *Recorder) DeleteTextures(n int32, textures *uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range unsafe.Slice(textures, n) {
		delete(r.textures, id)
	}
}

func (r *Recorder) End() {
	r.mu.Lock()
	r.primitives++
	r.mu.Unlock()
}

func (r *Recorder) Enable(uint32)                       {}
func (r *Recorder) Disable(uint32)                      {}
func (r *Recorder) BindTexture(uint32, uint32)          {}
func (r *Recorder) TexParameteri(uint32, uint32, int32) {}
func (r *Recorder) PixelStorei(uint32, int32)           {}
func (r *Recorder) Begin(uint32)                        {}
func (r *Recorder) Color4fv(*float32)                   {}
func (r *Recorder) TexCoord2f(float32, float32)         {}
func (r *Recorder) Vertex2f(float32, float32)           {}
func (r *Recorder) LineWidth(float32)                   {}
func (r *Recorder) MatrixMode(uint32)                   {}
func (r *Recorder) LoadIdentity()                       {}
func (r *Recorder) BlendFunc(uint32, uint32)            {}

func (r *Recorder) Ortho(float64, float64, float64, float64, float64, float64) {}

func (r *Recorder) TexImage2D(uint32, int32, int32, int32, int32, int32, uint32, uint32, unsafe.Pointer) {
}

func (r *Recorder) GetString(name uint32) string {
	switch name {
	case Vendor:
		return "winframe"
	case Version:
		return "recorder"
	}
	return ""
}
