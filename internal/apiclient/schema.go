package apiclient

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// ResponseValidator validates response bodies against an embedded JSON schema.
// The schema is compiled on first use.
type ResponseValidator struct {
	once   sync.Once
	schema *gojsonschema.Schema
	err    error
	name   string
}

func NewResponseValidator(name string) *ResponseValidator {
	return &ResponseValidator{name: name}
}

var (
	authorizeResponseValidator = NewResponseValidator("authorize_response.json")
	saveResponseValidator      = NewResponseValidator("save_response.json")
)

func (v *ResponseValidator) load() {
	data, err := schemaFS.ReadFile("schemas/" + v.name)
	if err != nil {
		v.err = fmt.Errorf("read schema: %w", err)
		return
	}
	v.schema, v.err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if v.err != nil {
		v.err = fmt.Errorf("compile schema %s: %w", v.name, v.err)
	}
}

// Validate checks body against the schema
func (v *ResponseValidator) Validate(body []byte) error {
	v.once.Do(v.load)
	if v.err != nil {
		return v.err
	}

	res, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return WrapDecodeError(err, "response body is not valid JSON")
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return NewSchemaError(fmt.Sprintf("response does not match %s: %s", v.name, strings.Join(msgs, "; ")))
	}
	return nil
}
