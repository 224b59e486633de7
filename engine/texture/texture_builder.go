package texture

import "net/http"

// LoaderBuilderOption is a functional option for configuring a Loader.
type LoaderBuilderOption func(*loaderImpl)

// WithHTTPClient replaces the default client, which has a 15 second timeout.
//
// Parameters:
//   - c: the HTTP client
//
// Returns:
//   - LoaderBuilderOption: a function that applies the client
func WithHTTPClient(c *http.Client) LoaderBuilderOption {
	return func(l *loaderImpl) {
		if c != nil {
			l.client = c
		}
	}
}

// WithURLTemplate sets the thumbnail URL template. "{id}" is replaced by the track id.
//
// Parameters:
//   - tmpl: the template
//
// Returns:
//   - LoaderBuilderOption: a function that applies the template
func WithURLTemplate(tmpl string) LoaderBuilderOption {
	return func(l *loaderImpl) {
		if tmpl != "" {
			l.urlTemplate = tmpl
		}
	}
}

// WithWorkers sets the worker pool size (default 4).
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loaderImpl) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithMaxWidth sets the width thumbnails are downsampled to; 0 keeps the source size.
func WithMaxWidth(w int) LoaderBuilderOption {
	return func(l *loaderImpl) {
		l.maxWidth = w
	}
}

// WithShareCodeSize sets the QR code edge length in pixels (default 256).
func WithShareCodeSize(size int) LoaderBuilderOption {
	return func(l *loaderImpl) {
		if size > 0 {
			l.qrSize = size
		}
	}
}
