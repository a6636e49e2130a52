package ripple

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	_ "golang.org/x/image/bmp" // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Fetcher retrieves and decodes the image named by source. It runs on a
// loader goroutine and must honor ctx cancellation.
type Fetcher func(ctx context.Context, source string) (image.Image, error)

var httpClient = &http.Client{Timeout: 30 * time.Second}

var errNilImage = errors.New("fetcher returned no image")

// maxImageBytes caps the size of an image downloaded over HTTP.
var maxImageBytes int64 = 64 << 20

var errImageTooLarge = errors.New("image exceeds download limit")

// FetchImage is the default Fetcher. It accepts http(s) URLs, data: URIs,
// file:// URLs and plain file paths. Relative paths that do not exist in the
// working directory are retried next to the executable.
func FetchImage(ctx context.Context, source string) (image.Image, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case strings.HasPrefix(source, "data:"):
		data, err = decodeDataURI(source)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		data, err = fetchURL(ctx, source)
	case strings.HasPrefix(source, "file://"):
		var u *url.URL
		u, err = url.Parse(source)
		if err == nil {
			data, err = readImageFile(u.Path)
		}
	default:
		data, err = readImageFile(source)
	}
	if err != nil {
		return nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", sourceLabel(source), err)
	}
	Logger().Debug("ripple: image decoded", "source", sourceLabel(source), "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return img, nil
}

func fetchURL(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %d: %s", rawURL, resp.StatusCode, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxImageBytes {
		return nil, fmt.Errorf("fetch %s: %w (%d bytes)", rawURL, errImageTooLarge, maxImageBytes)
	}
	return data, nil
}

func readImageFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !filepath.IsAbs(path) {
		if exePath, exeErr := os.Executable(); exeErr == nil {
			if d, e := os.ReadFile(filepath.Join(filepath.Dir(exePath), path)); e == nil {
				return d, nil
			}
		}
	}
	return nil, fmt.Errorf("read image %s: %w", path, err)
}

// decodeDataURI returns the payload of a data: URI, base64 or percent-encoded.
func decodeDataURI(s string) ([]byte, error) {
	comma := strings.IndexByte(s, ',')
	if comma < 0 {
		return nil, fmt.Errorf("data URI: missing ','")
	}
	meta, payload := s[len("data:"):comma], s[comma+1:]
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		if err != nil {
			return nil, fmt.Errorf("data URI: %w", err)
		}
		return data, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("data URI: %w", err)
	}
	return []byte(text), nil
}

// sourceLabel shortens data URIs for log output.
func sourceLabel(source string) string {
	if strings.HasPrefix(source, "data:") && len(source) > 48 {
		return source[:48] + "..."
	}
	return source
}

// --- Asynchronous loading ---

// maxRetryDelay bounds the doubling back-off between load attempts.
const maxRetryDelay = 30 * time.Second

type retryPolicy struct {
	retries int
	delay   time.Duration
}

func nextRetryDelay(d time.Duration) time.Duration {
	if d >= maxRetryDelay/2 {
		return maxRetryDelay
	}
	return d * 2
}

type textureResult struct {
	img      image.Image
	err      error
	attempts int
}

// textureLoader runs one fetch (plus retries) on its own goroutine. The
// goroutine only ever sends one result on a buffered channel; uploading and
// every state change happen on the frame thread in poll's caller.
type textureLoader struct {
	cancel  context.CancelFunc
	results chan textureResult
	done    chan struct{}
}

func startTextureLoad(parent context.Context, source string, fetch Fetcher, rp retryPolicy) *textureLoader {
	ctx, cancel := context.WithCancel(parent)
	l := &textureLoader{
		cancel:  cancel,
		results: make(chan textureResult, 1),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(l.done)
		img, attempts, err := loadWithRetry(ctx, source, fetch, rp)
		l.results <- textureResult{img: img, err: err, attempts: attempts}
	}()
	return l
}

func loadWithRetry(ctx context.Context, source string, fetch Fetcher, rp retryPolicy) (image.Image, int, error) {
	delay := rp.delay
	for attempt := 1; ; attempt++ {
		img, err := fetch(ctx, source)
		if err == nil && img == nil {
			err = errNilImage
		}
		if err == nil {
			return img, attempt, nil
		}
		if ctx.Err() != nil {
			return nil, attempt, ctx.Err()
		}
		if attempt > rp.retries {
			return nil, attempt, err
		}
		Logger().Warn("ripple: texture load failed, retrying",
			"source", sourceLabel(source), "attempt", attempt, "delay", delay, "err", err)

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, attempt, ctx.Err()
		case <-t.C:
		}
		delay = nextRetryDelay(delay)
	}
}

// poll returns the load result if it has arrived. It never blocks.
func (l *textureLoader) poll() (textureResult, bool) {
	select {
	case r := <-l.results:
		return r, true
	default:
		return textureResult{}, false
	}
}

// stop cancels the fetch. A result that is already in flight is discarded by
// the caller.
func (l *textureLoader) stop() {
	l.cancel()
}

// --- Texture ---

// TextureState is the load state of a render context's texture.
type TextureState uint8

const (
	TexturePending TextureState = iota // load in progress, blank frames
	TextureReady                       // uploaded, frames are distorted
	TextureFailed                      // load failed for good, blank frames
)

func (s TextureState) String() string {
	switch s {
	case TexturePending:
		return "pending"
	case TextureReady:
		return "ready"
	case TextureFailed:
		return "failed"
	}
	return "unknown"
}

// Texture is the decoded source image fitted to the surface size and
// uploaded to an Ebitengine image.
type Texture struct {
	natural image.Image
	rgba    *image.RGBA
	image   *ebiten.Image
	res     resource
}

func newTexture(src image.Image, w, h int) *Texture {
	t := &Texture{
		natural: src,
		res:     acquireResource(ResourceTexture),
	}
	t.fit(w, h)
	return t
}

// fit resamples the natural image to w×h and re-uploads it.
func (t *Texture) fit(w, h int) {
	t.rgba = fitImage(t.natural, w, h)
	if t.image != nil {
		if b := t.image.Bounds(); b.Dx() != w || b.Dy() != h {
			t.image.Deallocate()
			t.image = nil
		}
	}
	if t.image == nil {
		t.image = ebiten.NewImage(w, h)
	}
	t.image.WritePixels(t.rgba.Pix)
}

// fitImage returns src as a w×h RGBA. Equal sizes are copied exactly so the
// undistorted output reproduces the source pixel for pixel.
func fitImage(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	sb := src.Bounds()
	if sb.Dx() == w && sb.Dy() == h {
		draw.Copy(dst, image.Point{}, src, sb, draw.Src, nil)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	}
	return dst
}

// NaturalSize returns the size of the image as decoded.
func (t *Texture) NaturalSize() (int, int) {
	b := t.natural.Bounds()
	return b.Dx(), b.Dy()
}

// RGBA returns the fitted CPU copy of the texture.
func (t *Texture) RGBA() *image.RGBA { return t.rgba }

// Image returns the uploaded texture.
func (t *Texture) Image() *ebiten.Image { return t.image }

// Dispose releases the texture. Safe to call more than once.
func (t *Texture) Dispose() {
	if !t.res.release() {
		return
	}
	if t.image != nil {
		t.image.Deallocate()
		t.image = nil
	}
}
