package casebank

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCasesJSON = `[
  {
    "case_id": "case_001",
    "category": "Depressive Disorders",
    "age_group": "adult",
    "complexity": "moderate",
    "diagnosis": "Major Depressive Disorder",
    "narrative": "A 34-year-old presents with low mood.",
    "MSE": "Flat affect."
  }
]`

const validDiagnosesJSON = `[
  {"name": "Major Depressive Disorder", "category": "Depressive Disorders"},
  {"name": "Panic Disorder", "category": "Anxiety Disorders"}
]`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadBank(t *testing.T) {
	casesPath := writeTemp(t, "cases.json", validCasesJSON)
	diagnosesPath := writeTemp(t, "diagnoses.json", validDiagnosesJSON)

	bank, err := LoadBank(casesPath, diagnosesPath)
	require.NoError(t, err)
	assert.Equal(t, 1, bank.Len())

	diagnoses, err := bank.Diagnoses()
	require.NoError(t, err)
	assert.Len(t, diagnoses, 2)
}

func TestLoadCasesRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing fields", `[{"case_id": "case_001"}]`},
		{"malformed JSON", `[{"case_id":`},
		{"wrong top-level shape", `{"cases": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "cases.json", tt.content)
			_, err := LoadCases(path)
			require.Error(t, err)
		})
	}
}

func TestLoadCasesMissingFile(t *testing.T) {
	_, err := LoadCases(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestCompiledSchemaCaching(t *testing.T) {
	def := map[string]any{"type": "object"}
	first, err := CompiledSchema("cache_test", def)
	require.NoError(t, err)
	second, err := CompiledSchema("cache_test", def)
	require.NoError(t, err)
	assert.Same(t, first, second)
}
