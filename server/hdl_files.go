/******************************************************************************
 *
 *  Description :
 *
 *    Handler of large file uploads/downloads. The actual storage is
 *    delegated to the configured media handler: local file system or S3.
 *
 *****************************************************************************/

package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/nestwire/nestwire/server/logs"
	"github.com/nestwire/nestwire/server/store/types"
)

// writeHTTPMessage sends a {ctrl} message as the body of an HTTP response.
func writeHTTPMessage(wrt http.ResponseWriter, msg *ServerComMessage) {
	wrt.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(wrt).Encode(msg)
}

// fileRequestUser authenticates a file request: either a login token or the
// id of a live authenticated session must be supplied.
func fileRequestUser(req *http.Request) types.Uid {
	if token := req.FormValue("token"); token != "" {
		uid, _, err := globals.tokenCodec.Authenticate([]byte(token))
		if err != nil {
			return types.ZeroUid
		}
		return uid
	}

	if sess := globals.sessionStore.Get(req.FormValue("sid")); sess != nil {
		return sess.uid
	}
	return types.ZeroUid
}

// largeFileUpload receives a file and hands it to the media handler.
func largeFileUpload(wrt http.ResponseWriter, req *http.Request) {
	now := types.TimeNow()

	if req.Method != http.MethodPost {
		wrt.WriteHeader(http.StatusMethodNotAllowed)
		writeHTTPMessage(wrt, ErrMalformed("", "", now))
		return
	}

	uid := fileRequestUser(req)
	if uid.IsZero() {
		wrt.WriteHeader(http.StatusUnauthorized)
		writeHTTPMessage(wrt, ErrAuthRequired("", "", now))
		return
	}

	if headers, status, err := globals.mediaHandler.Headers(req, false); err != nil {
		writeMediaError(wrt, err, now)
		return
	} else if status != 0 {
		copyHeaders(wrt, headers)
		wrt.WriteHeader(status)
		return
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		wrt.WriteHeader(http.StatusBadRequest)
		writeHTTPMessage(wrt, ErrMalformed("", "", now))
		return
	}
	defer file.Close()

	fd := &types.FileDef{
		User:     uid,
		MimeType: header.Header.Get("Content-Type"),
	}

	url, size, err := globals.mediaHandler.Upload(fd, file)
	if err != nil {
		logs.Warn.Println("files: upload failed", header.Filename, err)
		writeMediaError(wrt, err, now)
		return
	}
	statsInc("FileUploadsTotal", 1)

	writeHTTPMessage(wrt, NoErrParams("", "", now, map[string]any{
		"url":  url,
		"size": size}))
}

// largeFileServe serves file content from the media handler.
func largeFileServe(wrt http.ResponseWriter, req *http.Request) {
	now := types.TimeNow()

	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		wrt.WriteHeader(http.StatusMethodNotAllowed)
		writeHTTPMessage(wrt, ErrMalformed("", "", now))
		return
	}

	if uid := fileRequestUser(req); uid.IsZero() {
		wrt.WriteHeader(http.StatusUnauthorized)
		writeHTTPMessage(wrt, ErrAuthRequired("", "", now))
		return
	}

	// The handler may serve the content by a redirect, i.e. to a signed
	// S3 URL.
	if headers, status, err := globals.mediaHandler.Headers(req, true); err != nil {
		writeMediaError(wrt, err, now)
		return
	} else if status != 0 {
		copyHeaders(wrt, headers)
		wrt.WriteHeader(status)
		return
	}

	fd, rsc, err := globals.mediaHandler.Download(req.URL.Path)
	if err != nil {
		writeMediaError(wrt, err, now)
		return
	}
	defer rsc.Close()
	statsInc("FileDownloadsTotal", 1)

	wrt.Header().Set("Content-Type", fd.MimeType)
	asAttachment := strings.Contains(req.URL.RawQuery, "asatt")
	if asAttachment {
		wrt.Header().Set("Content-Disposition", "attachment")
	}
	http.ServeContent(wrt, req, "", fd.UpdatedAt, rsc)
}

func copyHeaders(wrt http.ResponseWriter, headers http.Header) {
	for name, values := range headers {
		for _, value := range values {
			wrt.Header().Add(name, value)
		}
	}
}

func writeMediaError(wrt http.ResponseWriter, err error, now time.Time) {
	storeErr, ok := err.(types.StoreError)
	if !ok {
		wrt.WriteHeader(http.StatusInternalServerError)
		writeHTTPMessage(wrt, ErrUnknown("", "", now))
		return
	}

	switch storeErr {
	case types.ErrNotFound:
		wrt.WriteHeader(http.StatusNotFound)
		writeHTTPMessage(wrt, ErrNotFound("", "", now))
	case types.ErrPermissionDenied:
		wrt.WriteHeader(http.StatusForbidden)
		writeHTTPMessage(wrt, ErrPermissionDenied("", "", now))
	case types.ErrUnavailable:
		wrt.WriteHeader(http.StatusServiceUnavailable)
		writeHTTPMessage(wrt, ErrServiceUnavailable("", "", now))
	default:
		wrt.WriteHeader(http.StatusInternalServerError)
		writeHTTPMessage(wrt, ErrUnknown("", "", now))
	}
}

// mediaFileToBeReplaced deletes the stored file referenced by the given URL,
// if any. Used when an avatar or attachment reference is overwritten.
func mediaFileToBeReplaced(fileURL string) {
	if fileURL == "" || globals.mediaHandler == nil {
		return
	}
	fid := globals.mediaHandler.GetIdFromUrl(fileURL)
	if fid.IsZero() {
		return
	}
	fd, err := globals.store.Files.Get(fid)
	if err != nil {
		return
	}
	if err = globals.mediaHandler.Delete([]string{fd.Location}); err != nil {
		logs.Warn.Println("files: failed to delete", fd.Location, err)
		return
	}
	globals.store.Files.Delete(fid)
}
