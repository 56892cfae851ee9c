package desired

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Document is the top-level layout of a model file.
type Document struct {
	Files []FileTemplateModel `yaml:"files" validate:"dive"`
}

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid field of a document.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	var buf strings.Builder
	fmt.Fprintf(&buf, "found %d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&buf, "  %d. %s\n", i+1, err.Error())
	}
	return buf.String()
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and validates the model file at path.
func Load(path string) ([]FileTemplateModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	models, err := LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return models, nil
}

// LoadBytes decodes and validates a model document. Unknown fields are
// rejected.
func LoadBytes(data []byte) ([]FileTemplateModel, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse model (check for unknown/misspelled fields): %w", err)
	}

	for i := range doc.Files {
		if doc.Files[i].WriteMethod == "" {
			doc.Files[i].WriteMethod = Write
		}
	}

	if err := Validate(doc.Files...); err != nil {
		return nil, err
	}
	return doc.Files, nil
}

// Validate checks every model's struct constraints.
func Validate(models ...FileTemplateModel) error {
	var errs ValidationErrors

	for i, m := range models {
		err := validate.Struct(m)
		if err == nil {
			continue
		}

		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("files[%d]: %w", i, err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("files[%d].%s", i, trimRoot(fe.Namespace())),
				Message: describe(fe),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func trimRoot(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
