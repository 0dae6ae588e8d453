package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/courtside/tournament-registry/internal/apperr"
	"github.com/courtside/tournament-registry/internal/assets"
	"github.com/courtside/tournament-registry/internal/httputil"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// upload stores an image from the multipart field "file" and returns its public URL.
// The content type is sniffed from the bytes, not taken from the client.
func (app *application) upload(w http.ResponseWriter, r *http.Request) {
	kind, ok := assets.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		httputil.NotFound(w, app.log, "unknown upload kind", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, app.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.Error(w, app.log, apperr.Validation("file is too large", map[string]string{"file": "file exceeds the upload size limit"}))
			return
		}
		httputil.Error(w, app.log, apperr.Validation("invalid upload", map[string]string{"file": "this field is required"}))
		return
	}
	defer file.Close()

	mime, err := mimetype.DetectReader(file)
	if err != nil {
		httputil.InternalServerError(w, app.log, "detect upload type", err)
		return
	}
	ext, ok := assets.Extension(mime.String())
	if !ok {
		httputil.Error(w, app.log, apperr.Validation("unsupported file type", map[string]string{"file": "must be a png, jpeg, gif or webp image"}))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		httputil.InternalServerError(w, app.log, "rewind upload", err)
		return
	}

	key := assets.Key(kind, header.Filename, ext)
	url, err := app.assets.Put(r.Context(), key, file, mime.String())
	if err != nil {
		httputil.InternalServerError(w, app.log, "store upload", err)
		return
	}

	app.log.Info("asset uploaded", zap.String("key", key), zap.Int64("size", header.Size))
	httputil.Success(w, app.log, http.StatusCreated, "file uploaded", httputil.Envelope{"url": url})
}
