package forms

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/recipe-catalog/backend/internal/models"
)

// ImagePrefix is the formset prefix of recipe images
const ImagePrefix = "images"

var imageFields = []string{"id", "description", "DELETE"}

// allowedImageTypes maps a sniffed content type to the extensions it may carry
var allowedImageTypes = map[string]map[string]bool{
	"image/jpeg":     {".jpg": true, ".jpeg": true},
	"image/png":      {".png": true},
	"image/gif":      {".gif": true},
	"image/webp":     {".webp": true},
	"image/bmp":      {".bmp": true},
	"image/x-ms-bmp": {".bmp": true},
}

// ValidateImageContent sniffs the first 512 bytes of r and checks them
// against the file extension. It returns the detected content type.
func ValidateImageContent(r io.ReadSeeker, ext string) (string, bool) {
	buffer := make([]byte, 512)
	n, err := r.Read(buffer)
	if err != nil && err != io.EOF {
		return "", false
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", false
	}

	contentType := http.DetectContentType(buffer[:n])
	if exts, ok := allowedImageTypes[contentType]; ok && exts[strings.ToLower(ext)] {
		return contentType, true
	}
	return contentType, false
}

// ImageForm holds the raw values of one image row
type ImageForm struct {
	ID          string `form:"id" json:"id"`
	Description string `form:"description" json:"description" validate:"max=255"`
	Delete      string `form:"DELETE" json:"DELETE"`
}

func (f *ImageForm) trim() {
	for _, p := range []*string{&f.ID, &f.Description, &f.Delete} {
		*p = strings.TrimSpace(*p)
	}
}

// ImageUpload is a validated uploaded file
type ImageUpload struct {
	Header      *multipart.FileHeader
	ContentType string
	Ext         string
}

// Open returns the uploaded content
func (u ImageUpload) Open() (multipart.File, error) {
	return u.Header.Open()
}

// ImageRow is one bound row of the image formset. Upload is nil when an
// existing row keeps its stored file.
type ImageRow struct {
	Index   int
	Form    ImageForm
	File    *multipart.FileHeader
	ID      uuid.UUID
	Initial bool
	Delete  bool
	Skip    bool
	Upload  *ImageUpload
	Current string
	Errors  Errors
}

// ImageFormSet binds the image rows of a recipe form
type ImageFormSet struct {
	Prefix        string
	Management    Management
	Rows          []ImageRow
	NonFormErrors []string
	MaxSize       int64
}

// NewImageFormSet returns an unbound formset showing existing plus extra
// blank rows. url resolves a stored key to its public URL.
func NewImageFormSet(existing []models.RecipeImage, extra int, url func(string) string) *ImageFormSet {
	fs := &ImageFormSet{
		Prefix:     ImagePrefix,
		Management: Management{TotalForms: len(existing) + extra, InitialForms: len(existing)},
	}
	for i, img := range existing {
		fs.Rows = append(fs.Rows, ImageRow{
			Index:   i,
			Form:    ImageForm{ID: img.ID.String(), Description: img.Description},
			ID:      img.ID,
			Initial: true,
			Current: url(img.File),
		})
	}
	for i := len(existing); i < len(existing)+extra; i++ {
		fs.Rows = append(fs.Rows, ImageRow{Index: i})
	}
	return fs
}

// BindImageFormSet reads every row of the submitted formset. maxSize bounds
// each uploaded file.
func BindImageFormSet(d Data, maxSize int64) (*ImageFormSet, error) {
	fs := &ImageFormSet{Prefix: ImagePrefix, MaxSize: maxSize}
	fs.Management, fs.NonFormErrors = parseManagement(d, fs.Prefix)
	if len(fs.NonFormErrors) > 0 {
		return fs, nil
	}

	for i := 0; i < fs.Management.TotalForms; i++ {
		var form ImageForm
		if err := bind(&form, rowValues(d, fs.Prefix, i, imageFields)); err != nil {
			return nil, err
		}
		form.trim()
		fs.Rows = append(fs.Rows, ImageRow{
			Index:   i,
			Form:    form,
			File:    d.File(rowPrefix(fs.Prefix, i) + "-image"),
			Initial: i < fs.Management.InitialForms,
			Delete:  parseCheckbox(form.Delete),
		})
	}
	return fs, nil
}

// Validate cleans every row and reports whether the formset is valid
func (fs *ImageFormSet) Validate() bool {
	valid := len(fs.NonFormErrors) == 0
	for i := range fs.Rows {
		row := &fs.Rows[i]
		row.Errors = Errors{}

		if row.Initial {
			row.ID = parseRowID(row.Form.ID, row.Errors)
			if row.Delete {
				valid = valid && row.Errors.Empty()
				continue
			}
		} else if row.Delete || (row.File == nil && row.Form.Description == "") {
			row.Skip = true
			continue
		}

		validateStruct(row.Form, row.Errors)
		switch {
		case row.File != nil:
			if upload, msg := fs.checkFile(row.File); msg != "" {
				row.Errors.Add("image", msg)
			} else {
				row.Upload = upload
			}
		case !row.Initial:
			row.Errors.Add("image", MsgRequired)
		}
		valid = valid && row.Errors.Empty()
	}
	return valid
}

func (fs *ImageFormSet) checkFile(fh *multipart.FileHeader) (*ImageUpload, string) {
	if fh.Size == 0 {
		return nil, "The submitted file is empty."
	}
	if fs.MaxSize > 0 && fh.Size > fs.MaxSize {
		return nil, fmt.Sprintf("Ensure this file is at most %d bytes (it is %d bytes).", fs.MaxSize, fh.Size)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, MsgInvalidImage
	}
	defer f.Close()

	ext := filepath.Ext(fh.Filename)
	contentType, ok := ValidateImageContent(f, ext)
	if !ok {
		return nil, MsgInvalidImage
	}
	return &ImageUpload{Header: fh, ContentType: contentType, Ext: strings.ToLower(ext)}, ""
}

// AddRowError attaches a message to a row
func (fs *ImageFormSet) AddRowError(index int, field, msg string) {
	for i := range fs.Rows {
		if fs.Rows[i].Index == index {
			if fs.Rows[i].Errors == nil {
				fs.Rows[i].Errors = Errors{}
			}
			fs.Rows[i].Errors.Add(field, msg)
			return
		}
	}
	fs.NonFormErrors = append(fs.NonFormErrors, msg)
}

// View renders the formset for a response body
func (fs *ImageFormSet) View() FormSetView {
	view := FormSetView{Prefix: fs.Prefix, Management: fs.Management, Rows: []RowView{}, NonFormErrors: fs.NonFormErrors}
	if view.NonFormErrors == nil {
		view.NonFormErrors = []string{}
	}
	for _, row := range fs.Rows {
		values := map[string]string{
			"id":          row.Form.ID,
			"description": row.Form.Description,
			"DELETE":      row.Form.Delete,
			"image":       row.Current,
		}
		if row.File != nil {
			values["image"] = row.File.Filename
		}
		view.Rows = append(view.Rows, RowView{
			Prefix: rowPrefix(fs.Prefix, row.Index),
			Values: values,
			Errors: emptyIfNil(row.Errors),
		})
	}
	return view
}
