package http

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

const maxUpload = 20 << 20

type APIError struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Fail(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, APIError{Message: msg})
}

// readForm decodes a JSON body into dst. Multipart requests carry the JSON
// in the "data" field and files under field; the caller closes the files.
func readForm(r *http.Request, dst any, field string) ([]multipart.File, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		return nil, json.NewDecoder(r.Body).Decode(dst)
	}
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return nil, err
	}
	if raw := r.FormValue("data"); raw != "" {
		if err := json.Unmarshal([]byte(raw), dst); err != nil {
			return nil, err
		}
	}
	var files []multipart.File
	for _, fh := range r.MultipartForm.File[field] {
		f, err := fh.Open()
		if err != nil {
			closeAll(files)
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func closeAll(files []multipart.File) {
	for _, f := range files {
		_ = f.Close()
	}
}

func readers(files []multipart.File) []io.Reader {
	out := make([]io.Reader, 0, len(files))
	for _, f := range files {
		out = append(out, f)
	}
	return out
}

// first is nil when no file was sent.
func first(files []multipart.File) io.Reader {
	if len(files) == 0 {
		return nil
	}
	return files[0]
}
