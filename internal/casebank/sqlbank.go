package casebank

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// SQLBank is a Repo backed by a SQLite database. Scalar case fields live in
// columns so the common filters run in SQL; the slice-valued tag fields are
// stored as JSON and refined in memory.
type SQLBank struct {
	db *sql.DB
}

// OpenSQLBank opens the SQLite database at dsn, applies pragmas, and creates
// the schema if missing.
func OpenSQLBank(dsn string) (*SQLBank, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLBank{db: db}, nil
}

// applyPragmas configures SQLite for single-user read-mostly access.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func createSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cases (
			case_id         TEXT PRIMARY KEY,
			category        TEXT NOT NULL,
			age_group       TEXT NOT NULL,
			complexity      TEXT NOT NULL,
			diagnosis       TEXT NOT NULL,
			narrative       TEXT NOT NULL,
			mse             TEXT NOT NULL,
			difficulty_tier TEXT NOT NULL DEFAULT '',
			tags_json       TEXT NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS diagnoses (
			name       TEXT PRIMARY KEY,
			category   TEXT NOT NULL,
			summary    TEXT NOT NULL DEFAULT '',
			prevalence TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cases_category ON cases(category)`,
		`CREATE INDEX IF NOT EXISTS idx_cases_complexity ON cases(complexity)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// caseTags is the JSON shape of the tags_json column.
type caseTags struct {
	ClinicalSpecifiers []string `json:"clinical_specifiers,omitempty"`
	CourseSpecifiers   []string `json:"course_specifiers,omitempty"`
	SymptomVariants    []string `json:"symptom_variants,omitempty"`
}

// Seed replaces the stored records with the contents of the given Bank.
func (s *SQLBank) Seed(b *Bank) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cases`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM diagnoses`); err != nil {
		return err
	}

	cases, _ := b.QueryCases(Filter{})
	for _, c := range cases {
		tags, err := json.Marshal(caseTags{
			ClinicalSpecifiers: c.ClinicalSpecifiers,
			CourseSpecifiers:   c.CourseSpecifiers,
			SymptomVariants:    c.SymptomVariants,
		})
		if err != nil {
			return fmt.Errorf("marshal tags for %s: %w", c.ID, err)
		}
		_, err = tx.Exec(
			`INSERT INTO cases (case_id, category, age_group, complexity, diagnosis, narrative, mse, difficulty_tier, tags_json)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Category, c.AgeGroup, c.Complexity, c.Diagnosis, c.Narrative, c.MSE, c.DifficultyTier, string(tags),
		)
		if err != nil {
			return fmt.Errorf("insert case %s: %w", c.ID, err)
		}
	}

	diagnoses, _ := b.Diagnoses()
	for _, d := range diagnoses {
		_, err := tx.Exec(
			`INSERT INTO diagnoses (name, category, summary, prevalence) VALUES (?, ?, ?, ?)`,
			d.Name, d.Category, d.Summary, d.Prevalence,
		)
		if err != nil {
			return fmt.Errorf("insert diagnosis %s: %w", d.Name, err)
		}
	}

	return tx.Commit()
}

// QueryCases returns all cases matching the filter. Scalar criteria become
// WHERE clauses; the JSON tag fields are refined in memory by Filter.Match on
// the rows that survive.
func (s *SQLBank) QueryCases(f Filter) ([]Case, error) {
	query, args := buildCaseQuery(f)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}
	defer rows.Close()

	var out []Case
	for rows.Next() {
		var c Case
		var tagsJSON string
		if err := rows.Scan(&c.ID, &c.Category, &c.AgeGroup, &c.Complexity,
			&c.Diagnosis, &c.Narrative, &c.MSE, &c.DifficultyTier, &tagsJSON); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		var tags caseTags
		if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
			return nil, fmt.Errorf("decode tags for %s: %w", c.ID, err)
		}
		c.ClinicalSpecifiers = tags.ClinicalSpecifiers
		c.CourseSpecifiers = tags.CourseSpecifiers
		c.SymptomVariants = tags.SymptomVariants

		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out, rows.Err()
}

// buildCaseQuery translates the filter's scalar criteria into a SELECT with
// IN / NOT IN clauses. An empty list adds no clause, matching Filter
// semantics.
func buildCaseQuery(f Filter) (string, []any) {
	var clauses []string
	var args []any

	add := func(column string, values []string, negate bool) {
		if len(values) == 0 {
			return
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
		op := "IN"
		if negate {
			op = "NOT IN"
		}
		clauses = append(clauses, fmt.Sprintf("%s %s (%s)", column, op, placeholders))
		for _, v := range values {
			args = append(args, v)
		}
	}

	add("category", f.Categories, false)
	add("age_group", f.AgeGroups, false)
	add("complexity", f.Complexities, false)
	add("diagnosis", f.Diagnoses, false)
	add("case_id", f.CaseIDs, false)
	add("difficulty_tier", f.DifficultyTiers, false)
	add("category", f.ExcludeCategories, true)
	add("age_group", f.ExcludeAgeGroups, true)
	add("complexity", f.ExcludeComplexities, true)
	add("diagnosis", f.ExcludeDiagnoses, true)
	add("case_id", f.ExcludeCaseIDs, true)
	add("difficulty_tier", f.ExcludeDifficultyTiers, true)

	query := `SELECT case_id, category, age_group, complexity, diagnosis, narrative, mse, difficulty_tier, tags_json FROM cases`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	return query + " ORDER BY case_id", args
}

// Diagnoses returns the full diagnosis catalog.
func (s *SQLBank) Diagnoses() ([]Diagnosis, error) {
	rows, err := s.db.Query(`SELECT name, category, summary, prevalence FROM diagnoses ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query diagnoses: %w", err)
	}
	defer rows.Close()

	var out []Diagnosis
	for rows.Next() {
		var d Diagnosis
		if err := rows.Scan(&d.Name, &d.Category, &d.Summary, &d.Prevalence); err != nil {
			return nil, fmt.Errorf("scan diagnosis: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Close closes the database connection.
func (s *SQLBank) Close() error {
	return s.db.Close()
}
