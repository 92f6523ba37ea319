package config

import (
	"encoding/json"
	"sync"

	"github.com/grovetools/tapview/schema"
	"github.com/invopop/jsonschema"
)

// GenerateSchema generates the JSON Schema for the core configuration.
// Extensions are not part of the schema and are checked by their owners.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
		// Inline nested sections so the draft-07 validator needs no $defs
		DoNotReference: true,
	}

	s := r.Reflect(&Config{})
	s.Title = "tapview Configuration"
	s.Description = "Schema for tapview.yml / tapview.toml."
	s.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(s, "", "  ")
}

// schemaValidator compiles the configuration schema once per process.
var schemaValidator = sync.OnceValues(func() (*schema.Validator, error) {
	data, err := GenerateSchema()
	if err != nil {
		return nil, err
	}
	return schema.NewValidator("tapview.json", data)
})

// ValidateSchema checks cfg against the reflected configuration schema.
func ValidateSchema(cfg *Config) error {
	v, err := schemaValidator()
	if err != nil {
		return err
	}
	return v.Validate(cfg)
}
