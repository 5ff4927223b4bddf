package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// JSONSchema represents a JSON Schema document
type JSONSchema struct {
	Schema      string                 `json:"$schema"`
	ID          string                 `json:"$id,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Description string                 `json:"description,omitempty"`
	Type        string                 `json:"type"`
	Required    []string               `json:"required,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Items       *JSONSchema            `json:"items,omitempty"`
	Enum        []interface{}          `json:"enum,omitempty"`
	Default     interface{}            `json:"default,omitempty"`
	Pattern     string                 `json:"pattern,omitempty"`
	MinLength   *int                   `json:"minLength,omitempty"`
	MaxLength   *int                   `json:"maxLength,omitempty"`
	MinItems    *int                   `json:"minItems,omitempty"`
	MaxItems    *int                   `json:"maxItems,omitempty"`
}

const (
	schemaRef    = "https://json-schema.org/draft/2020-12/schema"
	schemaIDBase = "https://schemas.iohanalyzer.dev"
)

// Generator turns tagged Go structs into JSON schemas, so yaml config
// documents can be validated in editors before they ever reach a loader.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateSchema generates a JSON schema from a Go type
func (g *Generator) GenerateSchema(t reflect.Type) (*JSONSchema, error) {
	return g.generateSchemaForType(t, true)
}

func (g *Generator) generateSchemaForType(t reflect.Type, isRoot bool) (*JSONSchema, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	schema := &JSONSchema{}

	switch t.Kind() {
	case reflect.Struct:
		return g.generateStructSchema(t, isRoot)
	case reflect.Slice:
		return g.generateSliceSchema(t)
	case reflect.String:
		schema.Type = "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		schema.Type = "integer"
	case reflect.Float32, reflect.Float64:
		schema.Type = "number"
	case reflect.Bool:
		schema.Type = "boolean"
	default:
		return nil, fmt.Errorf("unsupported type: %s", t.Kind())
	}

	return schema, nil
}

func (g *Generator) generateStructSchema(t reflect.Type, isRoot bool) (*JSONSchema, error) {
	schema := &JSONSchema{
		Type:       "object",
		Properties: make(map[string]*JSONSchema),
	}

	if isRoot {
		schema.Schema = schemaRef
		schema.Title = t.Name()
		schema.ID = fmt.Sprintf("%s/%s", schemaIDBase, strings.ToLower(t.Name()))
	}

	var required []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if !field.IsExported() {
			continue
		}
		if field.Tag.Get("json") == "-" {
			continue
		}

		fieldName := g.getFieldName(field)
		if fieldName == "" {
			continue
		}

		fieldSchema, err := g.generateFieldSchema(field)
		if err != nil {
			return nil, fmt.Errorf("failed to generate schema for field %s: %w", field.Name, err)
		}

		schema.Properties[fieldName] = fieldSchema

		if g.isFieldRequired(field) {
			required = append(required, fieldName)
		}
	}

	if len(required) > 0 {
		schema.Required = required
	}

	return schema, nil
}

func (g *Generator) generateSliceSchema(t reflect.Type) (*JSONSchema, error) {
	schema := &JSONSchema{
		Type: "array",
	}

	itemSchema, err := g.generateSchemaForType(t.Elem(), false)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema for array items: %w", err)
	}

	schema.Items = itemSchema
	return schema, nil
}

func (g *Generator) generateFieldSchema(field reflect.StructField) (*JSONSchema, error) {
	fieldSchema, err := g.generateSchemaForType(field.Type, false)
	if err != nil {
		return nil, err
	}

	if desc := field.Tag.Get("description"); desc != "" {
		fieldSchema.Description = desc
	}

	if schemaTag := field.Tag.Get("schema"); schemaTag != "" {
		g.parseSchemaTag(schemaTag, fieldSchema)
	}

	return fieldSchema, nil
}

func (g *Generator) parseSchemaTag(tag string, schema *JSONSchema) {
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)

		switch {
		case part == "required":
			// handled at the struct level

		case strings.HasPrefix(part, "enum="):
			enums := strings.Split(strings.TrimPrefix(part, "enum="), "|")
			schema.Enum = make([]interface{}, len(enums))
			for i, e := range enums {
				schema.Enum[i] = e
			}

		case strings.HasPrefix(part, "default="):
			schema.Default = strings.TrimPrefix(part, "default=")

		case strings.HasPrefix(part, "pattern="):
			schema.Pattern = strings.TrimPrefix(part, "pattern=")

		case strings.HasPrefix(part, "minLength="):
			if val, err := strconv.Atoi(strings.TrimPrefix(part, "minLength=")); err == nil {
				schema.MinLength = &val
			}

		case strings.HasPrefix(part, "maxLength="):
			if val, err := strconv.Atoi(strings.TrimPrefix(part, "maxLength=")); err == nil {
				schema.MaxLength = &val
			}

		case strings.HasPrefix(part, "minItems="):
			if val, err := strconv.Atoi(strings.TrimPrefix(part, "minItems=")); err == nil {
				schema.MinItems = &val
			}

		case strings.HasPrefix(part, "maxItems="):
			if val, err := strconv.Atoi(strings.TrimPrefix(part, "maxItems=")); err == nil {
				schema.MaxItems = &val
			}
		}
	}
}

func (g *Generator) getFieldName(field reflect.StructField) string {
	jsonTag := field.Tag.Get("json")
	if jsonTag == "" {
		return strings.ToLower(field.Name[:1]) + field.Name[1:]
	}

	parts := strings.Split(jsonTag, ",")
	if parts[0] == "" {
		return strings.ToLower(field.Name[:1]) + field.Name[1:]
	}

	return parts[0]
}

func (g *Generator) isFieldRequired(field reflect.StructField) bool {
	return strings.Contains(field.Tag.Get("schema"), "required")
}

// GenerateJSONSchema generates a JSON schema as an indented JSON string
func (g *Generator) GenerateJSONSchema(v interface{}) (string, error) {
	schema, err := g.GenerateSchema(reflect.TypeOf(v))
	if err != nil {
		return "", err
	}

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}

	return string(jsonBytes), nil
}
