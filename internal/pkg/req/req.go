/*
Package req provides helper functions for HTTP request parsing and data binding.

It decodes the small JSON bodies the control API accepts, enforcing the content type, a body size
limit, and the absence of unknown fields or trailing data.
*/
package req

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"chatavatars/internal/pkg/errs"
)

// MaxBodySize bounds control request bodies. They carry a handful of fields at most.
const MaxBodySize int64 = 16 << 10 // 16 KB

// BindJSON attempts to bind the JSON data from the HTTP request body to the destination struct dst.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	return decode(w, r, dst, false)
}

// BindOptionalJSON is BindJSON for endpoints whose body may be omitted entirely.
// An empty body leaves dst untouched and is not an error.
func BindOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		return nil
	}

	contentType := r.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	return decode(w, r, dst, true)
}

func decode(w http.ResponseWriter, r *http.Request, dst any, optional bool) *errs.CustomError {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		case errors.Is(err, io.EOF):
			// Chunked requests report an unknown length, so an empty optional body only shows up here.
			if optional {
				return nil
			}
		}
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}
