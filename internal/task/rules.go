package task

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

const (
	MaxTitleLen       = 25
	MaxDescriptionLen = 200
)

// Messages shared by the server and the client-side form.
const (
	MsgRequired           = "Title and description are required"
	MsgTitleTooLong       = "Title must not exceed 25 characters"
	MsgDescriptionTooLong = "Description must not exceed 200 characters"
	MsgPriorityInvalid    = "Priority must be low, medium, or high"
	MsgCompletedInvalid   = "Completed must be a boolean"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type rule struct {
	field   string
	tag     string
	message string
}

// rules is ordered: the first rule that fails decides the message.
var rules = []rule{
	{field: "Title", tag: "required", message: MsgRequired},
	{field: "Description", tag: "required", message: MsgRequired},
	{field: "Title", tag: "max", message: MsgTitleTooLong},
	{field: "Description", tag: "max", message: MsgDescriptionTooLong},
	{field: "Priority", tag: "oneof", message: MsgPriorityInvalid},
}

// ValidateCreate checks the fields accepted on create. Title and description
// are checked after trimming.
func ValidateCreate(in Input) error {
	return firstViolation(validate.Struct(in.Normalized()))
}

// ValidateFields checks only the named Input fields (for example "Title"),
// so a form can validate one field at a time with the same messages.
func ValidateFields(in Input, fields ...string) error {
	return firstViolation(validate.StructPartial(in.Normalized(), fields...))
}

func firstViolation(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Message: err.Error()}
	}
	for _, ru := range rules {
		for _, fe := range fieldErrs {
			if fe.StructField() == ru.field && fe.Tag() == ru.tag {
				return &ValidationError{Message: ru.message}
			}
		}
	}
	return &ValidationError{Message: fieldErrs[0].Error()}
}

// ValidateUpdate applies the create rules and additionally requires Completed.
func ValidateUpdate(in Input) error {
	if err := ValidateCreate(in); err != nil {
		return err
	}
	if in.Completed == nil {
		return &ValidationError{Message: MsgCompletedInvalid}
	}
	return nil
}
