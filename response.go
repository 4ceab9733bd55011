package nab

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gertd/go-pluralize"
)

var pluralizer = pluralize.NewClient()

// Standard RESTful link relations.
const (
	RelSelf       = "self"
	RelCollection = "collection"
	RelCreate     = "create"
	RelUpdate     = "update"
	RelDelete     = "delete"
	RelParent     = "parent"
)

// Link represents a HATEOAS link returned in JSON envelopes.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// ValidationError describes one field-level input problem.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SuccessResponse defines the envelope for successful responses.
type SuccessResponse struct {
	Data  interface{} `json:"data"`
	Meta  interface{} `json:"meta,omitempty"`
	Links []Link      `json:"links,omitempty"`
}

// ErrorPayload defines the internal structure of the error object.
type ErrorPayload struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details []ValidationError `json:"details,omitempty"`
}

// ErrorResponse defines the envelope for error responses.
type ErrorResponse struct {
	Error ErrorPayload `json:"error"`
}

// RespondSuccess sends a successful JSON response with optional HATEOAS links.
func RespondSuccess(w http.ResponseWriter, data interface{}, links ...Link) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(SuccessResponse{Data: data, Links: links})
}

// RespondError sends an error payload that mirrors the Success envelope.
func RespondError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorPayload{
			Code:    http.StatusText(code),
			Message: message,
		},
	})
}

// Respond sends a successful JSON response with an explicit status code.
func Respond(w http.ResponseWriter, code int, data interface{}, meta interface{}) {
	if code == http.StatusNoContent {
		w.WriteHeader(code)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(SuccessResponse{Data: data, Meta: meta})
}

// Error sends a JSON error response with structured validation errors.
func Error(w http.ResponseWriter, code int, errorCode string, message string, details ...ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorPayload{
			Code:    errorCode,
			Message: message,
			Details: details,
		},
	})
}

// Linkable exposes resource identity information for link builders.
type Linkable interface {
	ResourceID() string
	ResourceType() string
}

// Pluralize converts a singular resource type into its plural form.
func Pluralize(singular string) string {
	return pluralizer.Plural(singular)
}

// Singularize converts a plural resource type into its singular form.
func Singularize(plural string) string {
	return pluralizer.Singular(plural)
}

// RESTfulLinksFor generates standard CRUD links for a resource object.
func RESTfulLinksFor(obj Linkable, basePath ...string) []Link {
	singular := obj.ResourceType()
	plural := Pluralize(singular)
	base := ""
	if len(basePath) > 0 {
		base = basePath[0]
	}
	resourcePath := fmt.Sprintf("%s/%s", base, plural)
	itemPath := fmt.Sprintf("%s/%s", resourcePath, obj.ResourceID())
	return []Link{
		{Rel: RelSelf, Href: itemPath},
		{Rel: RelDelete, Href: itemPath},
		{Rel: RelCollection, Href: resourcePath},
	}
}

// CollectionLinksFor generates collection links for a resource type.
func CollectionLinksFor(resourceType string, basePath ...string) []Link {
	plural := Pluralize(resourceType)
	base := ""
	if len(basePath) > 0 {
		base = basePath[0]
	}
	resourcePath := fmt.Sprintf("%s/%s", base, plural)
	return []Link{
		{Rel: RelSelf, Href: resourcePath},
		{Rel: RelCreate, Href: resourcePath},
	}
}
