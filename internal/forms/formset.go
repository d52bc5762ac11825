package forms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// MaxNumForms caps TOTAL_FORMS of a submitted formset
const MaxNumForms = 1000

// Management carries the TOTAL_FORMS and INITIAL_FORMS counters
type Management struct {
	TotalForms   int `json:"total_forms"`
	InitialForms int `json:"initial_forms"`
}

// RowView is the rendered state of one formset row
type RowView struct {
	Prefix string            `json:"prefix"`
	Values map[string]string `json:"values"`
	Errors Errors            `json:"errors"`
}

// FormSetView is the rendered state of a formset
type FormSetView struct {
	Prefix        string     `json:"prefix"`
	Management    Management `json:"management"`
	Rows          []RowView  `json:"rows"`
	NonFormErrors []string   `json:"non_form_errors"`
}

// parseManagement reads the counters. A missing or malformed counter, or a
// total above MaxNumForms, is reported as a non-form error.
func parseManagement(d Data, prefix string) (Management, []string) {
	total, err1 := strconv.Atoi(strings.TrimSpace(d.Get(prefix + "-TOTAL_FORMS")))
	initial, err2 := strconv.Atoi(strings.TrimSpace(d.Get(prefix + "-INITIAL_FORMS")))
	if err1 != nil || err2 != nil || total < 0 || initial < 0 || initial > total {
		return Management{}, []string{MsgManagementForm}
	}
	if total > MaxNumForms {
		return Management{}, []string{fmt.Sprintf("Please submit at most %d forms.", MaxNumForms)}
	}
	return Management{TotalForms: total, InitialForms: initial}, nil
}

// rowPrefix returns "<prefix>-<i>"
func rowPrefix(prefix string, i int) string {
	return prefix + "-" + strconv.Itoa(i)
}

// rowValues extracts the values of row i keyed by bare field name
func rowValues(d Data, prefix string, i int, fields []string) map[string][]string {
	p := rowPrefix(prefix, i) + "-"
	out := make(map[string][]string, len(fields))
	for _, f := range fields {
		if v, ok := d.Values[p+f]; ok {
			out[f] = v
		}
	}
	return out
}

// parseRowID validates the hidden id of an existing row
func parseRowID(raw string, errs Errors) uuid.UUID {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		errs.Add("id", MsgRequired)
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		errs.Add("id", MsgInvalidRowChoice)
		return uuid.Nil
	}
	return id
}

func emptyIfNil(errs Errors) Errors {
	if errs == nil {
		return Errors{}
	}
	return errs
}
