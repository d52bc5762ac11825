package testhelpers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

// PNG is the smallest header accepted as a PNG by content sniffing
var PNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// File is one uploaded file of a multipart body
type File struct {
	Field   string
	Name    string
	Content []byte
}

// MultipartRequest builds a multipart/form-data request from values and files
func MultipartRequest(t *testing.T, method, target string, values url.Values, files ...File) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for key, vs := range values {
		for _, v := range vs {
			if err := w.WriteField(key, v); err != nil {
				t.Fatalf("failed to write field %s: %v", key, err)
			}
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			t.Fatalf("failed to create file %s: %v", f.Field, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			t.Fatalf("failed to write file %s: %v", f.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

// RecipeValues returns a valid recipe body with empty ingredient and image
// formsets. Callers add rows and bump the counters.
func RecipeValues(title string) url.Values {
	return url.Values{
		"title":                     {title},
		"servings":                  {"4"},
		"preparation_time":          {"00:15:00"},
		"total_time":                {"00:45:00"},
		"calories":                  {"350"},
		"instructions":              {"Soak.\nGrind.\nCook."},
		"cuisine":                   {"1"},
		"food_type":                 {"1"},
		"difficulty":                {"2"},
		"ingredients-TOTAL_FORMS":   {"0"},
		"ingredients-INITIAL_FORMS": {"0"},
		"images-TOTAL_FORMS":        {"0"},
		"images-INITIAL_FORMS":      {"0"},
	}
}
