package refdata

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestLibrary(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		fieldsFile: `{"career_fields": {"Engineering": [
			{"career": "Mechanical Engineer", "description": "Designs machines."},
			{"career": "Civil Engineer", "description": "Builds infrastructure."}
		]}}`,
		checklistsFile: `{"career_field_checklists": {"Engineering": ["Likes math", "Builds things"]}}`,
		supportingFile: `{"Engineering": {"Mathematics": "Core tool.", "Physics": "Explains forces."}}`,
		aLevelFile:     `[{"Career Area": "Engineering", "Essential": "Mathematics, Physics"}]`,
		ibLevelFile:    `[{"Career Area": "engineering", "Higher Level": "Mathematics AA"}]`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestLoadAndLookupCaseInsensitive(t *testing.T) {
	lib, err := Load(writeTestLibrary(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	careers := lib.CareersFor("ENGINEERING")
	if len(careers) != 2 {
		t.Fatalf("careers = %d entries, want 2", len(careers))
	}
	if careers[0].Description != "Designs machines." {
		t.Errorf("first description = %q", careers[0].Description)
	}

	if items := lib.ChecklistFor("engineering"); len(items) != 2 {
		t.Errorf("checklist = %d items, want 2", len(items))
	}

	supporting := lib.SupportingFor("Engineering")
	if len(supporting) != 2 {
		t.Fatalf("supporting = %d entries, want 2", len(supporting))
	}
	// Entries come back sorted by name.
	if supporting[0].Name != "Mathematics" || supporting[1].Name != "Physics" {
		t.Errorf("supporting order = %q, %q", supporting[0].Name, supporting[1].Name)
	}

	if row := lib.ALevelFor("engineering"); row == nil {
		t.Errorf("A-level row missing for case-variant lookup")
	}
	// The table itself may carry any casing in Career Area.
	if row := lib.IBLevelFor("Engineering"); row == nil {
		t.Errorf("IB row missing when the table key is lowercase")
	}
}

func TestLookupUnknownFieldReturnsNil(t *testing.T) {
	lib, err := Load(writeTestLibrary(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if lib.CareersFor("Astrology") != nil {
		t.Errorf("unknown field should have no careers")
	}
	if lib.ChecklistFor("Astrology") != nil {
		t.Errorf("unknown field should have no checklist")
	}
	if lib.SupportingFor("Astrology") != nil {
		t.Errorf("unknown field should have no supporting entries")
	}
	if lib.ALevelFor("Astrology") != nil || lib.IBLevelFor("Astrology") != nil {
		t.Errorf("unknown field should have no level rows")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Errorf("Load of empty dir should fail")
	}
}
