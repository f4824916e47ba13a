// Package media defines an interface which must be implemented by media upload/download handlers.
package media

import (
	"io"
	"net/http"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/nestwire/nestwire/server/store"
	"github.com/nestwire/nestwire/server/store/types"
)

// ReadSeekCloser must be implemented by the media being downloaded.
type ReadSeekCloser interface {
	io.Reader
	io.Seeker
	io.Closer
}

// Handler is an interface which must be implemented by media handlers
// (uploaders-downloaders).
type Handler interface {
	// Init initializes the media upload handler. Files is the persister for
	// file upload records.
	Init(jsconf string, files store.FilesPersister) error

	// Headers checks if the handler wants to provide additional HTTP headers
	// for the request. It could be CORS headers, a redirect to serve files
	// from another URL, cache-control headers. It returns headers as a map,
	// HTTP status code to stop processing or 0 to continue, error.
	Headers(req *http.Request, serve bool) (http.Header, int, error)

	// Upload processes request for file upload. Returns file URL, file size, error.
	Upload(fdef *types.FileDef, file io.ReadSeeker) (string, int64, error)

	// Download processes request for file download.
	Download(url string) (*types.FileDef, ReadSeekCloser, error)

	// Delete deletes files from storage by a slice of locations.
	Delete(locations []string) error

	// GetIdFromUrl extracts file ID from the download URL.
	GetIdFromUrl(url string) types.Uid
}

var registeredHandlers = make(map[string]Handler)

// RegisterHandler makes a media handler available by the provided name.
func RegisterHandler(name string, h Handler) {
	if h == nil {
		panic("media: Register handler is nil")
	}
	if _, dup := registeredHandlers[name]; dup {
		panic("media: handler '" + name + "' is already registered")
	}
	registeredHandlers[name] = h
}

// UseHandler initializes and returns the named media handler.
func UseHandler(name, jsconf string, files store.FilesPersister) (Handler, error) {
	h := registeredHandlers[name]
	if h == nil {
		return nil, types.ErrNotFound
	}
	if err := h.Init(jsconf, files); err != nil {
		return nil, err
	}
	return h, nil
}

var fileNamePattern = regexp.MustCompile(`^[-_A-Za-z0-9]+`)

// GetIdFromUrl is a helper method for extracting file ID from a URL.
func GetIdFromUrl(url, serveUrl string) types.Uid {
	dir, fname := path.Split(path.Clean(url))

	if dir != "" && dir != serveUrl {
		return types.ZeroUid
	}

	return types.ParseUid(fileNamePattern.FindString(fname))
}

// matchCORSOrigin compares origin from the HTTP request to a list of allowed origins.
func matchCORSOrigin(allowed []string, origin string) string {
	if origin == "" {
		// Request has no Origin header.
		return ""
	}

	if len(allowed) == 0 {
		// Not configured
		return ""
	}

	if allowed[0] == "*" {
		return "*"
	}

	origin = strings.ToLower(origin)
	for _, val := range allowed {
		if strings.ToLower(val) == origin {
			return origin
		}
	}

	return ""
}

// allowMethods must be in UPPERCASE.
func matchCORSMethod(allowMethods []string, method string) bool {
	if method == "" {
		// Request has no Method header.
		return false
	}

	return slices.Contains(allowMethods, strings.ToUpper(method))
}

// CORSHandler is the default CORS processor for use by media handlers. It adds
// CORS headers to preflight OPTIONS requests, Vary & Access-Control-Allow-Origin
// headers to all responses.
func CORSHandler(req *http.Request, allowedOrigins []string, serve bool) (http.Header, int) {
	respHeader := map[string][]string{
		// Always add Vary because of possible intermediate caches.
		"Vary": {"Origin", "Access-Control-Request-Method, Access-Control-Request-Headers"},
	}

	origin := req.Header.Get("Origin")

	allowedOrigin := matchCORSOrigin(allowedOrigins, origin)
	if acMethod := req.Header.Get("Access-Control-Request-Method"); req.Method == http.MethodOptions && acMethod != "" {
		// Preflight request.

		if allowedOrigin == "" {
			return respHeader, http.StatusNoContent
		}

		var allowMethods []string
		if serve {
			allowMethods = []string{http.MethodGet, http.MethodHead, http.MethodOptions}
		} else {
			allowMethods = []string{http.MethodPost, http.MethodPut, http.MethodHead, http.MethodOptions}
		}

		if !matchCORSMethod(allowMethods, acMethod) {
			// CORS policy does not allow this method.
			return respHeader, http.StatusNoContent
		}

		respHeader["Access-Control-Allow-Headers"] = []string{"*"}
		respHeader["Access-Control-Allow-Credentials"] = []string{"true"}
		respHeader["Access-Control-Allow-Methods"] = []string{strings.Join(allowMethods, ", ")}
		respHeader["Access-Control-Max-Age"] = []string{"86400"}
		respHeader["Access-Control-Allow-Origin"] = []string{allowedOrigin}

		return respHeader, http.StatusNoContent
	}

	// Regular request, not a preflight.

	if allowedOrigin != "" {
		// Returning Origin from the actual request instead of '*', otherwise
		// there could be an issue with Credentials.
		respHeader["Access-Control-Allow-Origin"] = []string{origin}
	}

	return respHeader, 0
}
