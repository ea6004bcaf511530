// Where: internal/service/schema.go
// What: JSON-schema validation for service.yaml documents.
// Why: Fail fast on missing required fields before mapping into the typed model.
package service

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	sigsyaml "sigs.k8s.io/yaml"
)

//go:embed schema/service.schema.json
var serviceSchema string

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

func validateServiceDocument(content []byte) error {
	sch, err := loadSchema()
	if err != nil {
		return err
	}

	jsonData, err := sigsyaml.YAMLToJSON(content)
	if err != nil {
		return fmt.Errorf("%w: convert yaml to json: %v", ErrParse, err)
	}

	var document any
	if err := json.Unmarshal(jsonData, &document); err != nil {
		return fmt.Errorf("%w: decode json: %v", ErrParse, err)
	}

	if err := sch.Validate(document); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	return nil
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("service.schema.json", strings.NewReader(serviceSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("service.schema.json")
	})
	return compiledSchema, schemaErr
}
