package generator

import (
	"encoding/json"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// RequiredFields lists the keys every response object must carry.
var RequiredFields = []string{"title", "excerpt", "content", "category"}

// rawDraft uses pointers so a missing key can be told apart from an empty
// string.
type rawDraft struct {
	Title    *string `json:"title"`
	Excerpt  *string `json:"excerpt"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
}

func (r *rawDraft) validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.NotNil.Error("is required")),
		validation.Field(&r.Excerpt, validation.NotNil.Error("is required")),
		validation.Field(&r.Content, validation.NotNil.Error("is required")),
		validation.Field(&r.Category, validation.NotNil.Error("is required")),
	)
}

// ParseDraft decodes a backend body into a Draft. Anything other than a
// single JSON object with the four required string fields yields a
// *SchemaError. Keys must match exactly; trailing text is rejected.
func ParseDraft(body string) (Draft, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return Draft{}, &SchemaError{Err: err}
	}
	if fields == nil {
		return Draft{}, &SchemaError{Err: errors.New("response is not an object")}
	}

	var raw rawDraft
	targets := map[string]**string{
		"title":    &raw.Title,
		"excerpt":  &raw.Excerpt,
		"content":  &raw.Content,
		"category": &raw.Category,
	}
	for _, name := range RequiredFields {
		data, ok := fields[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(data, targets[name]); err != nil {
			return Draft{}, &SchemaError{Field: name, Err: err}
		}
	}
	if err := raw.validate(); err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			for _, name := range RequiredFields {
				if fe, ok := fieldErrs[name]; ok {
					return Draft{}, &SchemaError{Field: name, Err: fe}
				}
			}
		}
		return Draft{}, &SchemaError{Err: err}
	}
	return Draft{
		Title:    *raw.Title,
		Excerpt:  *raw.Excerpt,
		Content:  *raw.Content,
		Category: *raw.Category,
	}, nil
}
