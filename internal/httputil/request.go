package httputil

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxFormMemory is how much of a multipart body is held in memory before
// spilling to temporary files
const maxFormMemory = 1 << 20

// ParseForm reads a urlencoded or multipart form, limiting the body to maxBytes.
func ParseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	var err error
	if isMultipart(r) {
		err = r.ParseMultipartForm(maxFormMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("request body exceeds %d bytes: %w", tooLarge.Limit, err)
		}
		return fmt.Errorf("invalid form: %w", err)
	}
	return nil
}

// FormFile reads an uploaded file from a parsed multipart form
func FormFile(r *http.Request, field string) (filename string, content []byte, err error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", nil, fmt.Errorf("form file %q: %w", field, err)
	}
	defer file.Close()

	content, err = io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	return header.Filename, content, nil
}

// FormBool interprets common truthy form values
func FormBool(r *http.Request, field string) bool {
	switch r.FormValue(field) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
