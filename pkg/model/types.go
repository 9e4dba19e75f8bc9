package model

import (
	"errors"
	"fmt"
	"strings"
)

// Organization is printed under the title in every signature. It is not part
// of SignatureData and cannot be edited.
const Organization = "Giant General Services Group"

// ErrUnknownField is returned when a field name is outside the fixed set.
var ErrUnknownField = errors.New("model: unknown field")

// Field names one of the seven SignatureData entries.
type Field string

const (
	FieldName    Field = "name"
	FieldTitle   Field = "title"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
	FieldMobile  Field = "mobile"
	FieldWebsite Field = "website"
	FieldAddress Field = "address"
)

var fieldOrder = []Field{
	FieldName,
	FieldTitle,
	FieldEmail,
	FieldPhone,
	FieldMobile,
	FieldWebsite,
	FieldAddress,
}

// Fields returns the fields in display order.
func Fields() []Field {
	return append([]Field(nil), fieldOrder...)
}

// ParseField resolves a raw name (case and surrounding whitespace ignored).
func ParseField(raw string) (Field, error) {
	candidate := Field(strings.ToLower(strings.TrimSpace(raw)))
	if candidate.Valid() {
		return candidate, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, raw)
}

// Valid reports whether f is one of the known fields.
func (f Field) Valid() bool {
	for _, known := range fieldOrder {
		if f == known {
			return true
		}
	}
	return false
}

func (f Field) String() string {
	return string(f)
}

// SignatureData is the single record behind a signature. Values are free-form
// text; nothing is validated.
type SignatureData struct {
	Name    string `json:"name" yaml:"name"`
	Title   string `json:"title" yaml:"title"`
	Email   string `json:"email" yaml:"email"`
	Phone   string `json:"phone" yaml:"phone"`
	Mobile  string `json:"mobile" yaml:"mobile"`
	Website string `json:"website" yaml:"website"`
	Address string `json:"address" yaml:"address"`
}

// Default returns the sample record used when a form is opened.
func Default() SignatureData {
	return SignatureData{
		Name:    "John Smith",
		Title:   "Senior Manager",
		Email:   "john.smith@ggs-group.com",
		Phone:   "+971 4 123 4567",
		Mobile:  "+971 50 123 4567",
		Website: "www.ggs-group.com",
		Address: "Dubai, United Arab Emirates",
	}
}

// Get returns the value stored for field.
func (d SignatureData) Get(field Field) (string, error) {
	ptr, err := d.slot(field)
	if err != nil {
		return "", err
	}
	return *ptr, nil
}

// Set replaces the value stored for field, leaving the others untouched.
func (d *SignatureData) Set(field Field, value string) error {
	ptr, err := d.slot(field)
	if err != nil {
		return err
	}
	*ptr = value
	return nil
}

// Values returns the record keyed by field.
func (d SignatureData) Values() map[Field]string {
	out := make(map[Field]string, len(fieldOrder))
	for _, field := range fieldOrder {
		value, _ := d.Get(field)
		out[field] = value
	}
	return out
}

func (d *SignatureData) slot(field Field) (*string, error) {
	switch field {
	case FieldName:
		return &d.Name, nil
	case FieldTitle:
		return &d.Title, nil
	case FieldEmail:
		return &d.Email, nil
	case FieldPhone:
		return &d.Phone, nil
	case FieldMobile:
		return &d.Mobile, nil
	case FieldWebsite:
		return &d.Website, nil
	case FieldAddress:
		return &d.Address, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, string(field))
	}
}
