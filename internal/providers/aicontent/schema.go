package aicontent

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// payloadSchema checks the structural shape of the model reply before it is
// decoded. Everything is optional (the downstream mapper tolerates absent
// branches), but present branches must carry the right types so a reply with
// e.g. a string where an array belongs fails here with a precise reason
// instead of a generic unmarshal error.
const payloadSchema = `{
  "type": "object",
  "properties": {
    "style": {
      "type": "object",
      "properties": {
        "primary_color":   {"type": "string"},
        "secondary_color": {"type": "string"},
        "accent_color":    {"type": "string"}
      }
    },
    "brand": {
      "type": "object",
      "properties": {
        "logo_url": {"type": "string"}
      }
    },
    "cover": {
      "type": "object",
      "properties": {
        "title":           {"type": "string"},
        "subtitle":        {"type": "string"},
        "company_name":    {"type": "string"},
        "company_tagline": {"type": "string"}
      }
    },
    "terms": {
      "type": "object",
      "properties": {
        "title":      {"type": "string"},
        "summary":    {"type": "string"},
        "paragraphs": {"type": "array", "items": {"type": "string"}}
      }
    },
    "contents": {
      "type": "object",
      "properties": {
        "title": {"type": "string"},
        "items": {"type": "array", "items": {"type": "string"}}
      }
    },
    "sections": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title":   {"type": "string"},
          "content": {"type": "string"},
          "subsections": {
            "type": "array",
            "items": {
              "type": "object",
              "properties": {
                "title":   {"type": "string"},
                "content": {"type": "string"}
              }
            }
          }
        }
      }
    },
    "contact": {
      "type": "object",
      "properties": {
        "title":                {"type": "string"},
        "description":          {"type": "string"},
        "phone":                {"type": "string"},
        "email":                {"type": "string"},
        "website":              {"type": "string"},
        "differentiator_title": {"type": "string"},
        "differentiator":       {"type": "string"}
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(payloadSchema)

func validatePayloadShape(payload string) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(payload))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}
	reasons := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		reasons = append(reasons, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	if len(reasons) > 3 {
		reasons = reasons[:3]
	}
	return errors.New("schema violation: " + strings.Join(reasons, "; "))
}
