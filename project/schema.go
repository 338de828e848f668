package project

import (
	"fmt"

	"github.com/acronis/go-stacktrace"
	"github.com/xeipuuv/gojsonschema"
)

// manifestSchema is the JSON Schema every gettext.json must satisfy
// before it is decoded.
const manifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "required": ["domain", "source_language", "locale_dir", "locales"],
  "properties": {
    "domain": {
      "type": "string",
      "minLength": 1
    },
    "source_language": {
      "type": "string",
      "minLength": 1
    },
    "locale_dir": {
      "type": "string",
      "minLength": 1
    },
    "template": {
      "type": "string",
      "minLength": 1
    },
    "locales": {
      "type": "array",
      "items": {
        "type": "string",
        "minLength": 1
      },
      "uniqueItems": true
    }
  }
}`

var compiledManifestSchema = mustCompileSchema(manifestSchema)

func mustCompileSchema(schema string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchemaLoader().Compile(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Errorf("compile schema: %w", err))
	}
	return s
}

func validateManifestBytes(data []byte) error {
	res, err := compiledManifestSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if !res.Valid() {
		return validatorMessagesAsStackTrace(res.Errors())
	}
	return nil
}

func validatorMessagesAsStackTrace(errResults []gojsonschema.ResultError) *stacktrace.StackTrace {
	st := stacktrace.New("manifest validation failed")
	for i := range errResults {
		errResult := errResults[i]
		_ = st.Append(stacktrace.New(errResult.Description(), stacktrace.WithInfo("context", errResult.Context().String("."))))
	}
	return st
}
