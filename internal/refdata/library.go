package refdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// File names the library expects inside the reference data directory.
const (
	fieldsFile     = "career_fields.json"
	checklistsFile = "career_field_checklists.json"
	supportingFile = "career_supporting.json"
	aLevelFile     = "D_A_level.json"
	ibLevelFile    = "D_IB_level.json"
)

// Career is one career suggestion attached to a career field.
type Career struct {
	Career      string `json:"career"`
	Description string `json:"description"`
}

// SupportingEntry pairs a supporting subject's display name with the
// field-specific description text.
type SupportingEntry struct {
	Name        string
	Description string
}

// LevelRow is one curriculum requirement record. Columns vary per row, so
// rows stay dynamic; the "Career Area" value is the lookup key.
type LevelRow map[string]any

// Library holds all static reference data, loaded once at startup. Every
// lookup map is keyed by the lowercased display name, so callers match
// names case-insensitively without scanning.
type Library struct {
	fields     map[string][]Career
	checklists map[string][]string
	supporting map[string][]SupportingEntry
	aLevel     map[string]LevelRow
	ibLevel    map[string]LevelRow
}

// Load reads and indexes every reference file in dir. A missing or
// malformed file fails the load; serving reports without reference data
// is worse than refusing to start.
func Load(dir string) (*Library, error) {
	lib := &Library{
		fields:     make(map[string][]Career),
		checklists: make(map[string][]string),
		supporting: make(map[string][]SupportingEntry),
		aLevel:     make(map[string]LevelRow),
		ibLevel:    make(map[string]LevelRow),
	}

	var fieldsDoc struct {
		CareerFields map[string][]Career `json:"career_fields"`
	}
	if err := readJSON(filepath.Join(dir, fieldsFile), &fieldsDoc); err != nil {
		return nil, err
	}
	for name, careers := range fieldsDoc.CareerFields {
		lib.fields[strings.ToLower(name)] = careers
	}

	var checklistsDoc struct {
		Checklists map[string][]string `json:"career_field_checklists"`
	}
	if err := readJSON(filepath.Join(dir, checklistsFile), &checklistsDoc); err != nil {
		return nil, err
	}
	for name, items := range checklistsDoc.Checklists {
		lib.checklists[strings.ToLower(name)] = items
	}

	var supportingDoc map[string]map[string]string
	if err := readJSON(filepath.Join(dir, supportingFile), &supportingDoc); err != nil {
		return nil, err
	}
	for field, entries := range supportingDoc {
		names := make([]string, 0, len(entries))
		for name := range entries {
			names = append(names, name)
		}
		sort.Strings(names)
		list := make([]SupportingEntry, 0, len(names))
		for _, name := range names {
			list = append(list, SupportingEntry{Name: name, Description: entries[name]})
		}
		lib.supporting[strings.ToLower(field)] = list
	}

	var err error
	if lib.aLevel, err = loadLevelTable(filepath.Join(dir, aLevelFile)); err != nil {
		return nil, err
	}
	if lib.ibLevel, err = loadLevelTable(filepath.Join(dir, ibLevelFile)); err != nil {
		return nil, err
	}

	log.Info().
		Str("component", "refdata").
		Str("dir", dir).
		Int("fields", len(lib.fields)).
		Int("checklists", len(lib.checklists)).
		Int("supporting", len(lib.supporting)).
		Msg("Reference data loaded")
	return lib, nil
}

func loadLevelTable(path string) (map[string]LevelRow, error) {
	var rows []LevelRow
	if err := readJSON(path, &rows); err != nil {
		return nil, err
	}
	table := make(map[string]LevelRow, len(rows))
	for _, row := range rows {
		area, ok := row["Career Area"].(string)
		if !ok {
			continue
		}
		key := strings.ToLower(area)
		// First row wins when the table repeats a career area.
		if _, exists := table[key]; !exists {
			table[key] = row
		}
	}
	return table, nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read reference file: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// CareersFor returns the career list for a field name, or nil.
func (l *Library) CareersFor(field string) []Career {
	return l.fields[strings.ToLower(field)]
}

// ChecklistFor returns the checklist items for a field name, or nil.
func (l *Library) ChecklistFor(field string) []string {
	return l.checklists[strings.ToLower(field)]
}

// SupportingFor returns the supporting-subject descriptions for a field
// name, or nil.
func (l *Library) SupportingFor(field string) []SupportingEntry {
	return l.supporting[strings.ToLower(field)]
}

// ALevelFor returns the A-level requirement row for a career area, or nil.
func (l *Library) ALevelFor(field string) LevelRow {
	return l.aLevel[strings.ToLower(field)]
}

// IBLevelFor returns the IB requirement row for a career area, or nil.
func (l *Library) IBLevelFor(field string) LevelRow {
	return l.ibLevel[strings.ToLower(field)]
}
