// ABOUTME: Codec registry and file opening
// ABOUTME: Picks a decoder by file extension and starts a streaming session
package decode

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Registry maps file extensions to codecs
type Registry struct {
	codecs map[string]Codec
	mtx    sync.Mutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Codec)}
}

// Register binds ext (with or without the leading dot) to c
func (r *Registry) Register(ext string, c Codec) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[normalizeExt(ext)] = c
}

// Get looks up the codec for ext
func (r *Registry) Get(ext string) (Codec, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	c, ok := r.codecs[normalizeExt(ext)]
	return c, ok
}

// Extensions lists the registered extensions in sorted order
func (r *Registry) Extensions() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	exts := make([]string, 0, len(r.codecs))
	for ext := range r.codecs {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Open opens path and starts a session with the codec registered for its extension
func (r *Registry) Open(path string, opts ...Option) (*Session, error) {
	ext := filepath.Ext(path)
	codec, ok := r.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			ErrUnsupportedCodec, ext, strings.Join(r.Extensions(), ", "))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableSource, err)
	}

	stream, err := codec.NewStream(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	session, err := NewSession(stream, codec.Name(), append(opts, withSource(f))...)
	if err != nil {
		_ = stream.Close()
		_ = f.Close()
		return nil, err
	}
	return session, nil
}

// OpenReader starts a session on r using the codec registered for ext.
// The caller keeps ownership of r.
func (r *Registry) OpenReader(src io.Reader, ext string, opts ...Option) (*Session, error) {
	codec, ok := r.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCodec, ext)
	}

	stream, err := codec.NewStream(src)
	if err != nil {
		return nil, err
	}

	session, err := NewSession(stream, codec.Name(), opts...)
	if err != nil {
		_ = stream.Close()
		return nil, err
	}
	return session, nil
}

func normalizeExt(ext string) string {
	return strings.TrimPrefix(strings.ToLower(ext), ".")
}

// Default holds every codec compiled into this build
var Default = func() *Registry {
	r := NewRegistry()
	r.Register("mp3", MP3{})
	r.Register("flac", FLAC{})
	r.Register("ogg", Vorbis{})
	r.Register("oga", Vorbis{})
	r.Register("wav", WAV{})
	r.Register("wave", WAV{})
	r.Register("opus", Opus{})
	return r
}()

// Open opens path with the default registry
func Open(path string, opts ...Option) (*Session, error) {
	return Default.Open(path, opts...)
}

// OpenReader starts a session on r with the default registry
func OpenReader(r io.Reader, ext string, opts ...Option) (*Session, error) {
	return Default.OpenReader(r, ext, opts...)
}
