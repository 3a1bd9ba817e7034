package blueprint

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	armerrors "github.com/armature-dev/armature/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	namePattern   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{0,99}$`)
	schemaPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.-]*$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("component_name", func(fl validator.FieldLevel) bool {
			return namePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("schema_id", func(fl validator.FieldLevel) bool {
			return schemaPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

func convertValidationError(err error) []error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		out := make([]error, 0, len(ves))
		for _, ve := range ves {
			field := yamlishFieldName(ve)
			msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
			out = append(out, armerrors.NewStructuralError(field, msg, err))
		}
		return out
	}

	return []error{armerrors.NewStructuralError("document", err.Error(), err)}
}

func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	var lowered []string
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}

func fieldForComponent(index int, field string) string {
	return fmt.Sprintf("components[%d].%s", index, field)
}

func fieldForBinding(index int, field string) string {
	if field == "" {
		return fmt.Sprintf("bindings[%d]", index)
	}
	return fmt.Sprintf("bindings[%d].%s", index, field)
}
