package bundle

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// bundleSchema describes the ExportableStateBundle wire format. Imported
// bundle bytes are validated against it before any hash is recomputed, so a
// malformed bundle is rejected as "could not run" (error) rather than
// reported as "ran and concluded tampered" (FAIL).
const bundleSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "ledgerSnapshot", "registrumSnapshot", "globalStateHash", "eventHashes", "exportedAt", "bundleHash"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "ledgerSnapshot": {},
    "registrumSnapshot": {},
    "globalStateHash": {
      "type": "object",
      "required": ["hash", "computedAt", "subsystems"],
      "properties": {
        "hash": {"$ref": "#/$defs/hex64"},
        "computedAt": {"type": "string"},
        "subsystems": {
          "type": "object",
          "required": ["ledger", "registrum"],
          "properties": {
            "ledger": {"$ref": "#/$defs/hex64"},
            "registrum": {"$ref": "#/$defs/hex64"}
          }
        }
      }
    },
    "eventHashes": {
      "type": "array",
      "items": {"$ref": "#/$defs/hex64"}
    },
    "chainHashes": {
      "type": "object",
      "additionalProperties": {"$ref": "#/$defs/hex64"}
    },
    "exportedAt": {"type": "string"},
    "bundleHash": {"$ref": "#/$defs/hex64"}
  },
  "$defs": {
    "hex64": {"type": "string", "pattern": "^[0-9a-f]{64}$"}
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func compiled() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource("bundle.schema.json", strings.NewReader(bundleSchema)); err != nil {
			schemaErr = fmt.Errorf("add bundle schema: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile("bundle.schema.json")
	})
	return compiledSchema, schemaErr
}

// ValidateJSON checks raw bundle bytes against the bundle schema.
func ValidateJSON(data []byte) error {
	schema, err := compiled()
	if err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("bundle is not valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("bundle schema validation: %w", err)
	}
	return nil
}

// Decode schema-validates and unmarshals raw bundle bytes.
func Decode(data []byte) (ExportableStateBundle, error) {
	if err := ValidateJSON(data); err != nil {
		return ExportableStateBundle{}, err
	}

	var b ExportableStateBundle
	if err := json.Unmarshal(data, &b); err != nil {
		return ExportableStateBundle{}, fmt.Errorf("decode bundle: %w", err)
	}
	return b, nil
}
