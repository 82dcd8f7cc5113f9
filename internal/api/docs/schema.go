package docs

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

// registry reflects DTOs into component schemas. A field is listed as
// required when its struct tag carries openapi:"required".
type registry struct {
	components openapi3.Schemas
}

func newRegistry(components openapi3.Schemas) *registry {
	return &registry{components: components}
}

// ref registers v's named struct type and returns a reference to it.
func (r *registry) ref(v any) (*openapi3.SchemaRef, error) {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		return nil, fmt.Errorf("documented type %s must be named", t)
	}
	if _, ok := r.components[name]; !ok {
		schema, err := openapi3gen.NewSchemaRefForValue(v, r.components, openapi3gen.SchemaCustomizer(markRequired))
		if err != nil {
			return nil, fmt.Errorf("reflect %s: %w", name, err)
		}
		r.components[name] = schema
	}
	return componentRef(name), nil
}

// markRequired copies openapi:"required" field tags into the struct schema.
func markRequired(_ string, t reflect.Type, _ reflect.StructTag, schema *openapi3.Schema) error {
	if t.Kind() != reflect.Struct {
		return nil
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Tag.Get("openapi") != "required" {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" {
			name = field.Name
		}
		schema.Required = append(schema.Required, name)
	}
	return nil
}
