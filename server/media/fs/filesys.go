// Package fs implements the media interface storing media objects in the local file system.
package fs

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/nestwire/nestwire/server/logs"
	"github.com/nestwire/nestwire/server/media"
	"github.com/nestwire/nestwire/server/store"
	"github.com/nestwire/nestwire/server/store/types"
)

const (
	defaultServeURL  = "/v0/file/s/"
	defaultUploadDir = "uploads"
	handlerName      = "fs"
)

type configType struct {
	FileUploadDirectory string   `json:"upload_dir"`
	ServeURL            string   `json:"serve_url"`
	CorsOrigins         []string `json:"cors_origins"`
}

type fshandler struct {
	fileUploadLocation string
	serveURL           string
	corsOrigins        []string
	files              store.FilesPersister
}

func (fh *fshandler) Init(jsconf string, files store.FilesPersister) error {
	var err error
	var config configType

	if err = json.Unmarshal([]byte(jsconf), &config); err != nil {
		return errors.New("fs handler failed to parse config: " + err.Error())
	}

	fh.fileUploadLocation = config.FileUploadDirectory
	if fh.fileUploadLocation == "" {
		fh.fileUploadLocation = defaultUploadDir
	}

	fh.serveURL = config.ServeURL
	if fh.serveURL == "" {
		fh.serveURL = defaultServeURL
	}
	fh.corsOrigins = config.CorsOrigins
	fh.files = files

	// Make sure the upload directory exists.
	return os.MkdirAll(fh.fileUploadLocation, 0777)
}

// Headers is used for CORS requests only.
func (fh *fshandler) Headers(req *http.Request, serve bool) (http.Header, int, error) {
	header, status := media.CORSHandler(req, fh.corsOrigins, serve)
	return header, status, nil
}

// Upload processes request for file upload. The file is given as io.ReadSeeker.
func (fh *fshandler) Upload(fdef *types.FileDef, file io.ReadSeeker) (string, int64, error) {
	// Generate a unique file name to avoid collisions between uploads of the
	// same file.
	fdef.Location = filepath.Join(fh.fileUploadLocation, uuid.New().String())

	outfile, err := os.Create(fdef.Location)
	if err != nil {
		logs.Warn.Println("fs: failed to create file", fdef.Location, err)
		return "", 0, err
	}

	if _, err = fh.files.StartUpload(fdef); err != nil {
		outfile.Close()
		os.Remove(fdef.Location)
		logs.Warn.Println("fs: failed to create file record", fdef.Id, err)
		return "", 0, err
	}

	size, err := io.Copy(outfile, file)
	outfile.Close()
	if err != nil {
		fh.files.FinishUpload(fdef.Uid(), false, 0)
		os.Remove(fdef.Location)
		return "", 0, err
	}

	if _, err = fh.files.FinishUpload(fdef.Uid(), true, size); err != nil {
		os.Remove(fdef.Location)
		return "", 0, err
	}

	fname := fdef.Id
	ext, _ := mime.ExtensionsByType(fdef.MimeType)
	if len(ext) > 0 {
		fname += ext[0]
	}

	return fh.serveURL + fname, size, nil
}

// Download processes request for file download.
// The returned ReadSeekCloser must be closed after use.
func (fh *fshandler) Download(url string) (*types.FileDef, media.ReadSeekCloser, error) {
	fid := fh.GetIdFromUrl(url)
	if fid.IsZero() {
		return nil, nil, types.ErrNotFound
	}

	fd, err := fh.files.Get(fid)
	if err != nil {
		return nil, nil, err
	}
	if fd == nil {
		return nil, nil, types.ErrNotFound
	}

	file, err := os.Open(fd.Location)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file is not found, send 404 instead of 500.
			err = types.ErrNotFound
		}
		return nil, nil, err
	}

	return fd, file, nil
}

// Delete deletes files from storage by a slice of locations.
func (fh *fshandler) Delete(locations []string) error {
	for _, loc := range locations {
		if !strings.HasPrefix(filepath.Clean(loc), fh.fileUploadLocation) {
			continue
		}
		if err := os.Remove(loc); err != nil && !os.IsNotExist(err) {
			logs.Warn.Println("fs: error deleting file", loc, err)
		}
	}
	return nil
}

// GetIdFromUrl converts the download URL to a file UID.
func (fh *fshandler) GetIdFromUrl(url string) types.Uid {
	return media.GetIdFromUrl(url, fh.serveURL)
}

func init() {
	media.RegisterHandler(handlerName, &fshandler{})
}
