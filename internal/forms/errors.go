package forms

// NonFieldErrors is the key for errors that belong to the form as a whole
const NonFieldErrors = "__all__"

// Messages shared by the field validators
const (
	MsgRequired         = "This field is required."
	MsgInvalidInteger   = "Enter a whole number."
	MsgInvalidNumber    = "Enter a number."
	MsgInvalidDuration  = "Enter a valid duration."
	MsgInvalidEmail     = "Enter a valid email address."
	MsgInvalidUsername  = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	MsgMinZero          = "Ensure this value is greater than or equal to 0."
	MsgInvalidImage     = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	MsgBlankLines       = "Please do not leave any blank lines in the description."
	MsgPrepAfterTotal   = "Preparation time must be less than or equal to total time."
	MsgUsernameTaken    = "A user with that username already exists."
	MsgPasswordShort    = "This password is too short. It must contain at least 8 characters."
	MsgPasswordNumeric  = "This password is entirely numeric."
	MsgPasswordMismatch = "The two password fields didn't match."
	MsgInvalidLogin     = "Please enter a correct username and password. Note that both fields may be case-sensitive."
	MsgManagementForm   = "ManagementForm data is missing or has been tampered with."
	MsgInvalidRowChoice = "Select a valid choice. That choice is not one of the available choices."
)

// Errors maps a field name to its messages
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

func (e Errors) Empty() bool {
	return len(e) == 0
}

// Fields returns the field errors without the non-field entry
func (e Errors) Fields() Errors {
	out := Errors{}
	for k, v := range e {
		if k != NonFieldErrors {
			out[k] = v
		}
	}
	return out
}

// NonField returns the errors that are not attached to a field
func (e Errors) NonField() []string {
	if msgs := e[NonFieldErrors]; msgs != nil {
		return msgs
	}
	return []string{}
}
