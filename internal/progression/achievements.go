package progression

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/abhisek/caseprep/internal/casebank"
	"github.com/abhisek/caseprep/internal/logging"
)

// BadgeType is the badge awarded with an achievement.
type BadgeType string

const (
	BadgeBronze BadgeType = "bronze"
	BadgeSilver BadgeType = "silver"
	BadgeGold   BadgeType = "gold"
)

// Requirements describes what earns an achievement. Type selects which of
// the other fields apply.
type Requirements struct {
	// Type is one of case_completion, case_completion_with_accuracy,
	// category_mastery, streak, level.
	Type        string  `json:"type"`
	Count       int     `json:"count,omitempty"`
	MinAccuracy float64 `json:"min_accuracy,omitempty"`
	Category    string  `json:"category,omitempty"`
	MinLevel    int     `json:"min_level,omitempty"`
}

// Achievement is one entry in the externally supplied achievement catalog.
type Achievement struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Category     string       `json:"category"`
	XPReward     int          `json:"xp_reward"`
	BadgeType    BadgeType    `json:"badge_type"`
	Requirements Requirements `json:"requirements"`
	Icon         string       `json:"icon"`
}

// Catalog holds the achievement definitions, keyed by id. An empty catalog is
// valid: award and progress checks simply find no matches.
type Catalog struct {
	byID  map[string]Achievement
	order []string
}

// NewCatalog builds a Catalog from definitions.
func NewCatalog(achievements []Achievement) *Catalog {
	c := &Catalog{byID: make(map[string]Achievement, len(achievements))}
	for _, a := range achievements {
		if _, dup := c.byID[a.ID]; dup {
			continue
		}
		c.byID[a.ID] = a
		c.order = append(c.order, a.ID)
	}
	return c
}

// EmptyCatalog returns a catalog with no definitions.
func EmptyCatalog() *Catalog {
	return NewCatalog(nil)
}

// Get returns the achievement with the given id.
func (c *Catalog) Get(id string) (Achievement, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// IDs returns all achievement ids in catalog order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of definitions held.
func (c *Catalog) Len() int {
	return len(c.byID)
}

// achievementSchema validates the catalog file shape.
var achievementSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"achievements": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":           map[string]any{"type": "string", "minLength": 1},
					"name":         map[string]any{"type": "string", "minLength": 1},
					"description":  map[string]any{"type": "string"},
					"category":     map[string]any{"type": "string"},
					"xp_reward":    map[string]any{"type": "integer", "minimum": 0},
					"badge_type":   map[string]any{"type": "string", "enum": []any{"bronze", "silver", "gold"}},
					"requirements": map[string]any{"type": "object"},
					"icon":         map[string]any{"type": "string"},
				},
				"required": []any{"id", "name", "xp_reward", "requirements"},
			},
		},
	},
	"required": []any{"achievements"},
}

type catalogFile struct {
	Achievements []Achievement `json:"achievements"`
}

// LoadCatalog reads the achievement catalog from a JSON file. A missing file
// is not fatal: the engine logs and continues with an empty catalog.
func LoadCatalog(path string) *Catalog {
	raw, err := os.ReadFile(path)
	if err != nil {
		logging.Warnf("achievement catalog unavailable (%v), using empty catalog", err)
		return EmptyCatalog()
	}

	catalog, err := ParseCatalog(raw)
	if err != nil {
		logging.Errorf("achievement catalog rejected: %v", err)
		return EmptyCatalog()
	}

	logging.Infof("loaded %d achievements from %s", catalog.Len(), path)
	return catalog
}

// ParseCatalog validates and decodes achievement catalog JSON.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := casebank.CompiledSchema("achievements", achievementSchema)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return NewCatalog(file.Achievements), nil
}
