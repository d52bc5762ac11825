package forms

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin/binding"
)

// Data is a submitted form body: text values and uploaded files
type Data struct {
	Values url.Values
	Files  map[string][]*multipart.FileHeader
}

// ParseData reads a urlencoded or multipart request body
func ParseData(r *http.Request, maxMemory int64) (Data, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return Data{}, fmt.Errorf("failed to parse multipart form: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return Data{}, fmt.Errorf("failed to parse form: %w", err)
	}

	d := Data{Values: r.PostForm, Files: map[string][]*multipart.FileHeader{}}
	if d.Values == nil {
		d.Values = url.Values{}
	}
	if r.MultipartForm != nil {
		d.Files = r.MultipartForm.File
	}
	return d, nil
}

// Get returns the first value for key
func (d Data) Get(key string) string {
	return d.Values.Get(key)
}

// File returns the first file uploaded under key
func (d Data) File(key string) *multipart.FileHeader {
	if files := d.Files[key]; len(files) > 0 {
		return files[0]
	}
	return nil
}

// bind maps values onto the form tags of ptr
func bind(ptr interface{}, values map[string][]string) error {
	if err := binding.MapFormWithTag(ptr, values, "form"); err != nil {
		return fmt.Errorf("failed to bind form: %w", err)
	}
	return nil
}

// parseCheckbox follows CheckboxInput: absent, empty and "false" are false
func parseCheckbox(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "false":
		return false
	default:
		return true
	}
}
