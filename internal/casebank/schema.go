package casebank

// caseSchema validates the case file shape before records are decoded.
var caseSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"case_id":             map[string]any{"type": "string", "minLength": 1},
			"category":            map[string]any{"type": "string", "minLength": 1},
			"age_group":           map[string]any{"type": "string", "minLength": 1},
			"complexity":          map[string]any{"type": "string", "minLength": 1},
			"diagnosis":           map[string]any{"type": "string", "minLength": 1},
			"narrative":           map[string]any{"type": "string", "minLength": 1},
			"MSE":                 map[string]any{"type": "string", "minLength": 1},
			"difficulty_tier":     map[string]any{"type": "string"},
			"clinical_specifiers": stringArray,
			"course_specifiers":   stringArray,
			"symptom_variants":    stringArray,
		},
		"required": []any{
			"case_id", "category", "age_group", "complexity",
			"diagnosis", "narrative", "MSE",
		},
	},
}

// diagnosisSchema validates the diagnosis catalog shape.
var diagnosisSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":       map[string]any{"type": "string", "minLength": 1},
			"category":   map[string]any{"type": "string", "minLength": 1},
			"summary":    map[string]any{"type": "string"},
			"prevalence": map[string]any{"type": "string"},
		},
		"required": []any{"name", "category"},
	},
}

var stringArray = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string"},
}
