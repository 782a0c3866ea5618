// Package validation registers the custom validator tags used by request
// DTOs and renders validator errors as readable messages.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/Payphone-Digital/demonlist/internal/model"
	"github.com/go-playground/validator/v10"
)

// Register installs the custom tags on v and reports fields by their
// form or json name.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	if err := v.RegisterValidation("record_status", recordStatus); err != nil {
		return err
	}
	return v.RegisterValidation("nation", nation)
}

func recordStatus(fl validator.FieldLevel) bool {
	return model.RecordStatus(fl.Field().String()).Valid()
}

func nation(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func statusList() string {
	names := make([]string, len(model.RecordStatuses))
	for i, s := range model.RecordStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, " ")
}

// Messages renders validator failures, preferring field specific text.
// A nil slice means err did not come from the validator.
func Messages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]string, 0, len(verrs))
	for _, e := range verrs {
		if fieldMessages := CustomMessage(e.Field()); fieldMessages != nil {
			if msg, ok := fieldMessages[e.Tag()]; ok {
				out = append(out, msg)
				continue
			}
		}
		out = append(out, DefaultMessage(e.Field(), e.Tag(), e.Param()))
	}
	return out
}
