package domain

import (
	"encoding/json"
	"fmt"
)

// FieldType enumerates the value types a config schema field can declare.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldNumber FieldType = "number"
	FieldBool   FieldType = "bool"
	FieldEnum   FieldType = "enum"
)

// SchemaField describes one entry of an addon's config schema.
type SchemaField struct {
	Field   string    `json:"field"`
	Type    FieldType `json:"type"`
	Default any       `json:"default"`
	Values  []string  `json:"values,omitempty"`
	Min     *float64  `json:"min,omitempty"`
	Max     *float64  `json:"max,omitempty"`
}

// ConfigSchema is the ordered list of fields an addon accepts in its config.
type ConfigSchema []SchemaField

// ParseConfigSchema decodes a schema from its serialized column form and
// checks structural validity, so that bad catalog rows fail loudly at read
// time instead of producing half-validated configs later.
func ParseConfigSchema(data []byte) (ConfigSchema, error) {
	if len(data) == 0 {
		return ConfigSchema{}, nil
	}

	var schema ConfigSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse config schema: %w", err)
	}

	seen := make(map[string]struct{}, len(schema))
	for _, f := range schema {
		if f.Field == "" {
			return nil, fmt.Errorf("config schema field has empty name")
		}
		if _, dup := seen[f.Field]; dup {
			return nil, fmt.Errorf("config schema field %q declared twice", f.Field)
		}
		seen[f.Field] = struct{}{}

		switch f.Type {
		case FieldString, FieldNumber, FieldBool:
		case FieldEnum:
			if len(f.Values) == 0 {
				return nil, fmt.Errorf("enum field %q has no values", f.Field)
			}
		default:
			return nil, fmt.Errorf("field %q has unknown type %q", f.Field, f.Type)
		}

		if f.Default != nil {
			if err := schema.checkValue(f, f.Default); err != nil {
				return nil, fmt.Errorf("default for field %q: %w", f.Field, err)
			}
		}
	}

	return schema, nil
}

// DefaultConfig materializes the config object a fresh installation starts
// with: every field set to its declared default, or the type's zero value.
func (s ConfigSchema) DefaultConfig() map[string]any {
	config := make(map[string]any, len(s))
	for _, f := range s {
		if f.Default != nil {
			config[f.Field] = f.Default
			continue
		}
		switch f.Type {
		case FieldString:
			config[f.Field] = ""
		case FieldNumber:
			config[f.Field] = float64(0)
		case FieldBool:
			config[f.Field] = false
		case FieldEnum:
			config[f.Field] = f.Values[0]
		}
	}
	return config
}

// Validate checks a user-supplied config against the schema. Unknown fields
// are rejected; declared fields may be omitted (the stored value is kept).
func (s ConfigSchema) Validate(config map[string]any) error {
	byName := make(map[string]SchemaField, len(s))
	for _, f := range s {
		byName[f.Field] = f
	}

	for name, value := range config {
		f, ok := byName[name]
		if !ok {
			return fmt.Errorf("unknown config field %q", name)
		}
		if err := s.checkValue(f, value); err != nil {
			return fmt.Errorf("config field %q: %w", name, err)
		}
	}

	return nil
}

func (s ConfigSchema) checkValue(f SchemaField, value any) error {
	switch f.Type {
	case FieldString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
	case FieldBool:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
	case FieldNumber:
		n, ok := value.(float64)
		if !ok {
			return fmt.Errorf("expected number, got %T", value)
		}
		if f.Min != nil && n < *f.Min {
			return fmt.Errorf("value %v below minimum %v", n, *f.Min)
		}
		if f.Max != nil && n > *f.Max {
			return fmt.Errorf("value %v above maximum %v", n, *f.Max)
		}
	case FieldEnum:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		for _, allowed := range f.Values {
			if v == allowed {
				return nil
			}
		}
		return fmt.Errorf("value %q not one of %v", v, f.Values)
	}
	return nil
}
