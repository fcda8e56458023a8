package casebank

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/caseprep/internal/logging"
)

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// LoadBank reads and validates case and diagnosis files into a Bank.
func LoadBank(casesPath, diagnosesPath string) (*Bank, error) {
	cases, err := LoadCases(casesPath)
	if err != nil {
		return nil, err
	}
	diagnoses, err := LoadDiagnoses(diagnosesPath)
	if err != nil {
		return nil, err
	}
	return NewBank(cases, diagnoses), nil
}

// LoadCases reads a JSON case file, validates it against the case schema,
// and decodes it into Case records.
func LoadCases(path string) ([]Case, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cases: %w", err)
	}

	if err := validateRaw("cases", caseSchema, raw); err != nil {
		return nil, err
	}

	var cases []Case
	if err := json.Unmarshal(raw, &cases); err != nil {
		return nil, fmt.Errorf("decode cases: %w", err)
	}

	for i := range cases {
		if err := cases[i].Validate(); err != nil {
			return nil, fmt.Errorf("case at index %d: %w", i, err)
		}
	}

	logging.Infof("loaded %d cases from %s", len(cases), path)
	return cases, nil
}

// LoadDiagnoses reads a JSON diagnosis catalog, validates it against the
// diagnosis schema, and decodes it into Diagnosis records.
func LoadDiagnoses(path string) ([]Diagnosis, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read diagnoses: %w", err)
	}

	if err := validateRaw("diagnoses", diagnosisSchema, raw); err != nil {
		return nil, err
	}

	var diagnoses []Diagnosis
	if err := json.Unmarshal(raw, &diagnoses); err != nil {
		return nil, fmt.Errorf("decode diagnoses: %w", err)
	}

	for i := range diagnoses {
		if err := diagnoses[i].Validate(); err != nil {
			return nil, fmt.Errorf("diagnosis at index %d: %w", i, err)
		}
	}

	logging.Infof("loaded %d diagnoses from %s", len(diagnoses), path)
	return diagnoses, nil
}

// validateRaw validates raw JSON bytes against a schema definition.
func validateRaw(name string, def map[string]any, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", name, err)
	}

	compiled, err := CompiledSchema(name, def)
	if err != nil {
		return fmt.Errorf("compile %s schema: %w", name, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("%s schema validation failed: %w", name, err)
	}
	return nil
}

// CompiledSchema returns a cached compiled schema or compiles and caches it.
func CompiledSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The jsonschema library expects a parsed JSON value (any), not raw bytes.
	// Marshal then unmarshal to get a clean any representation.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, err
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}
