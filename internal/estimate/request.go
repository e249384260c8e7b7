package estimate

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Request validation errors.
var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrAmbiguousProportion = errors.New("both successes and proportion are set")
	ErrMissingProportion   = errors.New("one of successes or proportion is required")
)

//go:embed schema.json
var requestSchema []byte

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(requestSchema))
})

// Request asks for one interval. Exactly one of Successes and Proportion
// must be set. Z takes precedence over Confidence; with neither, the
// service default applies.
type Request struct {
	Size       float64  `json:"size"                 yaml:"size"`
	Successes  *float64 `json:"successes,omitempty"  yaml:"successes,omitempty"`
	Proportion *float64 `json:"proportion,omitempty" yaml:"proportion,omitempty"`
	Method     string   `json:"method,omitempty"     yaml:"method,omitempty"`
	Z          *float64 `json:"z,omitempty"          yaml:"z,omitempty"`
	Confidence *float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// DecodeRequest reads a JSON request and validates it against the request schema.
func DecodeRequest(r io.Reader) (Request, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Request{}, fmt.Errorf("read request: %w", err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return Request{}, fmt.Errorf("compile request schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return Request{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}

		return Request{}, fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
	}

	var req Request

	err = json.Unmarshal(raw, &req)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	return req, nil
}
