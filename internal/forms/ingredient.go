package forms

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/recipe-catalog/backend/internal/models"
)

// IngredientPrefix is the formset prefix of recipe ingredients
const IngredientPrefix = "ingredients"

var ingredientFields = []string{"id", "name", "quantity", "unit", "optional", "DELETE"}

// IngredientForm holds the raw values of one ingredient row
type IngredientForm struct {
	ID       string `form:"id" json:"id"`
	Name     string `form:"name" json:"name" validate:"required,max=100"`
	Quantity string `form:"quantity" json:"quantity" validate:"required"`
	Unit     string `form:"unit" json:"unit" validate:"required"`
	Optional string `form:"optional" json:"optional"`
	Delete   string `form:"DELETE" json:"DELETE"`
}

func (f *IngredientForm) trim() {
	for _, p := range []*string{&f.ID, &f.Name, &f.Quantity, &f.Unit, &f.Optional, &f.Delete} {
		*p = strings.TrimSpace(*p)
	}
}

// changed reports whether any editable field differs from a blank row
func (f IngredientForm) changed() bool {
	return f.Name != "" || f.Quantity != "" || f.Unit != "" || parseCheckbox(f.Optional)
}

func (f IngredientForm) values() map[string]string {
	return map[string]string{
		"id": f.ID, "name": f.Name, "quantity": f.Quantity,
		"unit": f.Unit, "optional": f.Optional, "DELETE": f.Delete,
	}
}

// IngredientInput is a cleaned ingredient row
type IngredientInput struct {
	Name     string
	Quantity float64
	Unit     models.Unit
	Optional bool
}

// Apply copies the cleaned values onto i
func (in IngredientInput) Apply(i *models.RecipeIngredient) {
	i.Name = in.Name
	i.Quantity = in.Quantity
	i.Unit = in.Unit
	i.Optional = in.Optional
}

// IngredientRow is one bound row of the ingredient formset. ID is set for
// rows that edit an existing ingredient. Skip marks an untouched extra row or
// a new row marked for deletion.
type IngredientRow struct {
	Index   int
	Form    IngredientForm
	ID      uuid.UUID
	Initial bool
	Delete  bool
	Skip    bool
	Input   IngredientInput
	Errors  Errors
}

// IngredientFormSet binds the ingredient rows of a recipe form
type IngredientFormSet struct {
	Prefix        string
	Management    Management
	Rows          []IngredientRow
	NonFormErrors []string
}

// NewIngredientFormSet returns an unbound formset showing existing plus
// extra blank rows
func NewIngredientFormSet(existing []models.RecipeIngredient, extra int) *IngredientFormSet {
	fs := &IngredientFormSet{
		Prefix:     IngredientPrefix,
		Management: Management{TotalForms: len(existing) + extra, InitialForms: len(existing)},
	}
	for i, ing := range existing {
		form := IngredientForm{
			ID:       ing.ID.String(),
			Name:     ing.Name,
			Quantity: strconv.FormatFloat(ing.Quantity, 'f', -1, 64),
			Unit:     strconv.Itoa(int(ing.Unit)),
		}
		if ing.Optional {
			form.Optional = "on"
		}
		fs.Rows = append(fs.Rows, IngredientRow{Index: i, Form: form, ID: ing.ID, Initial: true})
	}
	for i := len(existing); i < len(existing)+extra; i++ {
		fs.Rows = append(fs.Rows, IngredientRow{Index: i})
	}
	return fs
}

// BindIngredientFormSet reads every row of the submitted formset
func BindIngredientFormSet(d Data) (*IngredientFormSet, error) {
	fs := &IngredientFormSet{Prefix: IngredientPrefix}
	fs.Management, fs.NonFormErrors = parseManagement(d, fs.Prefix)
	if len(fs.NonFormErrors) > 0 {
		return fs, nil
	}

	for i := 0; i < fs.Management.TotalForms; i++ {
		var form IngredientForm
		if err := bind(&form, rowValues(d, fs.Prefix, i, ingredientFields)); err != nil {
			return nil, err
		}
		form.trim()
		fs.Rows = append(fs.Rows, IngredientRow{
			Index:   i,
			Form:    form,
			Initial: i < fs.Management.InitialForms,
			Delete:  parseCheckbox(form.Delete),
		})
	}
	return fs, nil
}

// Validate cleans every row and reports whether the formset is valid
func (fs *IngredientFormSet) Validate() bool {
	valid := len(fs.NonFormErrors) == 0
	for i := range fs.Rows {
		row := &fs.Rows[i]
		row.Errors = Errors{}

		if row.Initial {
			row.ID = parseRowID(row.Form.ID, row.Errors)
			if row.Delete {
				// Deleted rows only need a valid id
				valid = valid && row.Errors.Empty()
				continue
			}
		} else if row.Delete || !row.Form.changed() {
			row.Skip = true
			continue
		}

		validateStruct(row.Form, row.Errors)
		row.Input = IngredientInput{Name: row.Form.Name, Optional: parseCheckbox(row.Form.Optional)}
		if !row.Errors.Has("quantity") {
			q, err := strconv.ParseFloat(row.Form.Quantity, 64)
			if err != nil || math.IsNaN(q) || math.IsInf(q, 0) {
				row.Errors.Add("quantity", MsgInvalidNumber)
			}
			row.Input.Quantity = q
		}
		if !row.Errors.Has("unit") {
			if u, ok := cleanChoice(row.Form.Unit, "unit", row.Errors, func(n int) bool { return models.Unit(n).Valid() }); ok {
				row.Input.Unit = models.Unit(u)
			}
		}
		valid = valid && row.Errors.Empty()
	}
	return valid
}

// AddRowError attaches a message to a row, e.g. when the id does not belong
// to the recipe being edited
func (fs *IngredientFormSet) AddRowError(index int, field, msg string) {
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
func (fs *IngredientFormSet) View() FormSetView {
	view := FormSetView{Prefix: fs.Prefix, Management: fs.Management, Rows: []RowView{}, NonFormErrors: fs.NonFormErrors}
	if view.NonFormErrors == nil {
		view.NonFormErrors = []string{}
	}
	for _, row := range fs.Rows {
		view.Rows = append(view.Rows, RowView{
			Prefix: rowPrefix(fs.Prefix, row.Index),
			Values: row.Form.values(),
			Errors: emptyIfNil(row.Errors),
		})
	}
	return view
}
