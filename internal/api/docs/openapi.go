// Package docs builds the OpenAPI document for the directory API from the
// route table and serves it alongside a Swagger UI page.
package docs

import (
	"fmt"
	"net/http"
	"slices"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Operation annotates one route for documentation.
type Operation struct {
	Method  string
	Path    string
	Summary string
	Tag     string
	// Request is a zero value of the body type, nil when the route takes none.
	Request any
	// Response is a zero value of the data type wrapped in the success envelope.
	Response any
	// List marks Response as an array.
	List    bool
	Success int
	Errors  []int
	Secured bool
}

// Info describes the API.
type Info struct {
	Title       string
	Version     string
	Description string
}

const (
	openAPIVersion = "3.0.3"
	bearerAuth     = "bearerAuth"
	errorSchema    = "ErrorEnvelope"
)

// Build assembles the document from absolute operation paths.
func Build(info Info, ops []Operation) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: openAPIVersion,
		Info:    &openapi3.Info{Title: info.Title, Version: info.Version, Description: info.Description},
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{errorSchema: openapi3.NewSchemaRef("", errorEnvelopeSchema())},
		},
	}
	schemas := newRegistry(doc.Components.Schemas)

	tags := map[string]struct{}{}
	for _, op := range ops {
		path, params := openAPIPath(op.Path)

		operation := openapi3.NewOperation()
		operation.Summary = op.Summary
		operation.Responses = openapi3.NewResponsesWithCapacity(len(op.Errors) + 2)
		for _, param := range params {
			operation.AddParameter(param)
		}
		if op.Tag != "" {
			operation.Tags = []string{op.Tag}
			tags[op.Tag] = struct{}{}
		}

		if op.Request != nil {
			ref, err := schemas.ref(op.Request)
			if err != nil {
				return nil, fmt.Errorf("%s %s request: %w", op.Method, op.Path, err)
			}
			operation.RequestBody = &openapi3.RequestBodyRef{
				Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(ref),
			}
		}

		success := op.Success
		if success == 0 {
			success = http.StatusOK
		}
		resp := openapi3.NewResponse().WithDescription(http.StatusText(success))
		if op.Response != nil {
			data, err := schemas.ref(op.Response)
			if err != nil {
				return nil, fmt.Errorf("%s %s response: %w", op.Method, op.Path, err)
			}
			if op.List {
				data = openapi3.NewSchemaRef("", &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeArray}, Items: data})
			}
			resp.WithJSONSchema(successEnvelopeSchema(data))
		}
		operation.AddResponse(success, resp)

		errorCodes := op.Errors
		if op.Secured {
			operation.Security = openapi3.NewSecurityRequirements().
				With(openapi3.NewSecurityRequirement().Authenticate(bearerAuth))
			errorCodes = append(slices.Clone(errorCodes), http.StatusUnauthorized)
		}
		for _, code := range errorCodes {
			operation.AddResponse(code, openapi3.NewResponse().
				WithDescription(http.StatusText(code)).
				WithJSONSchemaRef(componentRef(errorSchema)))
		}

		doc.AddOperation(path, strings.ToUpper(op.Method), operation)
	}

	if securedAny(ops) {
		doc.Components.SecuritySchemes = openapi3.SecuritySchemes{
			bearerAuth: &openapi3.SecuritySchemeRef{Value: openapi3.NewJWTSecurityScheme()},
		}
	}

	names := make([]string, 0, len(tags))
	for tag := range tags {
		names = append(names, tag)
	}
	sort.Strings(names)
	for _, name := range names {
		doc.Tags = append(doc.Tags, &openapi3.Tag{Name: name})
	}
	return doc, nil
}

func securedAny(ops []Operation) bool {
	for _, op := range ops {
		if op.Secured {
			return true
		}
	}
	return false
}

// openAPIPath converts fiber's ":id" segments to "{id}" and returns the
// matching path parameters.
func openAPIPath(path string) (string, []*openapi3.Parameter) {
	segments := strings.Split(path, "/")
	var params []*openapi3.Parameter
	for i, segment := range segments {
		if !strings.HasPrefix(segment, ":") {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(segment, ":"), "?")
		segments[i] = "{" + name + "}"
		params = append(params, openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema()))
	}
	return strings.Join(segments, "/"), params
}

func successEnvelopeSchema(data *openapi3.SchemaRef) *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewIntegerSchema()).
		WithProperty("message", openapi3.NewStringSchema()).
		WithPropertyRef("data", data).
		WithRequired([]string{"status", "data"})
}

func errorEnvelopeSchema() *openapi3.Schema {
	body := openapi3.NewObjectSchema().
		WithProperty("code", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("details", openapi3.NewObjectSchema()).
		WithRequired([]string{"code", "message"})
	return openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewIntegerSchema()).
		WithProperty("error", body).
		WithRequired([]string{"status", "error"})
}

func componentRef(name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, nil)
}
