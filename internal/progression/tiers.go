package progression

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/abhisek/caseprep/internal/casebank"
	"github.com/abhisek/caseprep/internal/logging"
)

// TierConfig describes one unlockable difficulty tier.
type TierConfig struct {
	LevelRequirement   int     `json:"level_requirement"`
	XPMultiplier       float64 `json:"xp_multiplier"`
	TimeBonusThreshold float64 `json:"time_bonus_threshold"`
	AccuracyThreshold  float64 `json:"accuracy_threshold"`
}

// TierSet maps tier names to their configs. Loaded once from external config
// and treated as immutable reference data.
type TierSet map[string]TierConfig

// EmptyTierSet returns a set with no tier definitions.
func EmptyTierSet() TierSet {
	return TierSet{}
}

// Names returns tier names ordered by ascending level requirement.
func (t TierSet) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if t[names[i]].LevelRequirement != t[names[j]].LevelRequirement {
			return t[names[i]].LevelRequirement < t[names[j]].LevelRequirement
		}
		return names[i] < names[j]
	})
	return names
}

// tierSchema validates the tier definitions file shape.
var tierSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"difficulty_tiers": map[string]any{
			"type": "object",
			"additionalProperties": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"level_requirement":    map[string]any{"type": "integer", "minimum": 1},
					"xp_multiplier":        map[string]any{"type": "number", "minimum": 0},
					"time_bonus_threshold": map[string]any{"type": "number", "minimum": 0},
					"accuracy_threshold":   map[string]any{"type": "number", "minimum": 0},
				},
				"required": []any{"level_requirement"},
			},
		},
	},
	"required": []any{"difficulty_tiers"},
}

type tierFile struct {
	DifficultyTiers map[string]TierConfig `json:"difficulty_tiers"`
}

// LoadTierSet reads difficulty tier definitions from a JSON file. A missing
// file is not fatal: the engine logs and continues with no tiers, so
// level-based unlocks simply never fire.
func LoadTierSet(path string) TierSet {
	raw, err := os.ReadFile(path)
	if err != nil {
		logging.Warnf("difficulty tier definitions unavailable (%v), level unlocks disabled", err)
		return EmptyTierSet()
	}

	tiers, err := ParseTierSet(raw)
	if err != nil {
		logging.Errorf("difficulty tier definitions rejected: %v", err)
		return EmptyTierSet()
	}

	logging.Infof("loaded %d difficulty tiers from %s", len(tiers), path)
	return tiers
}

// ParseTierSet validates and decodes tier definition JSON.
func ParseTierSet(raw []byte) (TierSet, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := casebank.CompiledSchema("difficulty_tiers", tierSchema)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var file tierFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode tiers: %w", err)
	}
	return TierSet(file.DifficultyTiers), nil
}
