package parse

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"designer-dashboard-backend/internal/model"
)

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Bounds accepted for designer working hours.
const (
	MinWorkingHours = 1
	MaxWorkingHours = 24
	minNameLength   = 2
)

// FieldError reports an invalid input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors collects the field errors of one form.
type Errors []*FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// Map returns the messages keyed by field name.
func (e Errors) Map() map[string]string {
	m := make(map[string]string, len(e))
	for _, fe := range e {
		m[fe.Field] = fe.Message
	}
	return m
}

func (e *Errors) add(err error) {
	if fe, ok := err.(*FieldError); ok {
		*e = append(*e, fe)
	}
}

func (e Errors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	sort.SliceStable(e, func(i, j int) bool { return e[i].Field < e[j].Field })
	return e
}

// FullName trims s and requires at least two characters.
func FullName(s string) (string, error) {
	return name("fullName", s)
}

// ObjectName trims s and requires at least two characters.
func ObjectName(s string) (string, error) {
	return name("name", s)
}

func name(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < minNameLength {
		return "", &FieldError{Field: field, Message: "Name must be at least 2 characters"}
	}
	return s, nil
}

// WorkingHours accepts 1 through 24.
func WorkingHours(n int) (int, error) {
	if n < MinWorkingHours || n > MaxWorkingHours {
		return 0, &FieldError{Field: "workingHours", Message: "Working hours must be between 1 and 24"}
	}
	return n, nil
}

// DesignerID requires a non-empty designer reference. Whether the designer
// exists is not checked.
func DesignerID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &FieldError{Field: "designerId", Message: "A designer must be selected"}
	}
	return s, nil
}

// Color accepts a #rrggbb hex color and returns it lower-cased.
func Color(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &FieldError{Field: "color", Message: "A color must be selected"}
	}
	if !colorRe.MatchString(s) {
		return "", &FieldError{Field: "color", Message: "Color must be a hex value like #4a90d9"}
	}
	return strings.ToLower(s), nil
}

// Size accepts small, normal or large. Empty means normal.
func Size(s string) (model.Size, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return model.SizeNormal, nil
	}
	if size := model.Size(s); size.Valid() {
		return size, nil
	}
	return "", &FieldError{Field: "size", Message: "Size must be small, normal or large"}
}
