// Package texture loads track thumbnails and share codes into images the stage
// materials can display. All work runs on a bounded worker pool and surfaces as
// futures, so the render loop never blocks on the network.
package texture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultThumbnailURL is the thumbnail location template; {id} is replaced by the track id.
const DefaultThumbnailURL = "https://img.youtube.com/vi/{id}/hqdefault.jpg"

var (
	errEmptyID      = errors.New("empty texture id")
	errBadStatus    = errors.New("unexpected HTTP status")
	errLoaderClosed = errors.New("texture loader closed")
)

// Texture is a decoded image ready to be attached to a material.
type Texture struct {
	ID    string
	Image image.Image
}

// Width returns the pixel width.
func (t *Texture) Width() int {
	return t.Image.Bounds().Dx()
}

// Height returns the pixel height.
func (t *Texture) Height() int {
	return t.Image.Bounds().Dy()
}

// Future is the pending result of an asynchronous load.
type Future struct {
	done chan struct{}
	tex  *Texture
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(tex *Texture, err error) {
	f.tex, f.err = tex, err
	close(f.done)
}

// Done is closed once the load has finished, successfully or not.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the load finishes or ctx is done.
//
// Parameters:
//   - ctx: bounds the wait, not the load itself
//
// Returns:
//   - *Texture: the texture, nil on failure
//   - bool: true when the texture loaded
func (f *Future) Wait(ctx context.Context) (*Texture, bool) {
	select {
	case <-f.done:
		return f.tex, f.err == nil && f.tex != nil
	case <-ctx.Done():
		return nil, false
	}
}

// Err returns the load error once Done is closed.
func (f *Future) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

type loaderImpl struct {
	mu *sync.Mutex

	client      *http.Client
	urlTemplate string
	maxWidth    int
	workers     int
	qrSize      int

	pool   worker.DynamicWorkerPool
	cache  map[string]*Texture
	nextID int
	closed bool
}

// Loader fetches and decodes track thumbnails on a worker pool.
type Loader interface {
	// Load starts fetching the thumbnail for a track. Successful results are
	// cached per id; failures are not.
	//
	// Parameters:
	//   - ctx: cancels the HTTP request
	//   - id: the track id
	//
	// Returns:
	//   - *Future: resolves to the texture, or to a failure that never panics
	Load(ctx context.Context, id string) *Future

	// ShareCode renders text as a QR code texture on the worker pool.
	//
	// Parameters:
	//   - text: the encoded content, usually the track link
	//
	// Returns:
	//   - *Future: resolves to the QR texture
	ShareCode(text string) *Future

	// Close stops the worker pool. Loads submitted afterwards fail immediately.
	Close()
}

var _ Loader = &loaderImpl{}

// NewLoader creates a Loader.
//
// Parameters:
//   - options: functional options to configure the loader
//
// Returns:
//   - Loader: the newly created loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loaderImpl{
		mu:          &sync.Mutex{},
		client:      &http.Client{Timeout: 15 * time.Second},
		urlTemplate: DefaultThumbnailURL,
		maxWidth:    512,
		workers:     4,
		qrSize:      256,
		cache:       make(map[string]*Texture),
	}
	for _, option := range options {
		option(l)
	}
	l.pool = worker.NewDynamicWorkerPool(l.workers, 64, 5*time.Second)
	return l
}

func (l *loaderImpl) Load(ctx context.Context, id string) *Future {
	f := newFuture()
	if id == "" {
		f.resolve(nil, errEmptyID)
		return f
	}

	l.mu.Lock()
	if tex, ok := l.cache[id]; ok {
		l.mu.Unlock()
		f.resolve(tex, nil)
		return f
	}
	l.mu.Unlock()

	l.submit(f, func() (*Texture, error) {
		tex, err := l.fetch(ctx, id)
		if err != nil {
			log.Printf("[Texture] thumbnail %s failed: %v", id, err)
			return nil, err
		}
		l.mu.Lock()
		l.cache[id] = tex
		l.mu.Unlock()
		return tex, nil
	})
	return f
}

func (l *loaderImpl) ShareCode(text string) *Future {
	f := newFuture()
	l.submit(f, func() (*Texture, error) {
		img, err := encodeQR(text, l.qrSize)
		if err != nil {
			log.Printf("[Texture] share code failed: %v", err)
			return nil, err
		}
		return &Texture{ID: "qr:" + text, Image: img}, nil
	})
	return f
}

func (l *loaderImpl) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()
	l.pool.Stop()
}

// submit runs job on the pool and resolves f with its result. Panics inside the
// job resolve f with an error.
func (l *loaderImpl) submit(f *Future, job func() (*Texture, error)) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		f.resolve(nil, errLoaderClosed)
		return
	}
	id := l.nextID
	l.nextID++
	l.mu.Unlock()

	l.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (result any, err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("texture job panicked: %v", r)
					f.resolve(nil, err)
				}
			}()
			tex, err := job()
			f.resolve(tex, err)
			return tex, err
		},
	})
}

func (l *loaderImpl) fetch(ctx context.Context, id string) (*Texture, error) {
	url := strings.ReplaceAll(l.urlTemplate, "{id}", id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s", errBadStatus, resp.Status)
	}

	img, format, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode thumbnail: %w", err)
	}
	log.Printf("[Texture] loaded %s (%s %dx%d)", id, format, img.Bounds().Dx(), img.Bounds().Dy())
	return &Texture{ID: id, Image: fit(img, l.maxWidth)}, nil
}

// fit downsamples img to at most maxWidth pixels wide, keeping the aspect ratio.
// Smaller images are copied into an RGBA as is.
func fit(img image.Image, maxWidth int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxWidth > 0 && w > maxWidth {
		h = max(1, h*maxWidth/w)
		w = maxWidth
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
