package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mycareerchoices/compass-backend/internal/refdata"
	"github.com/mycareerchoices/compass-backend/internal/scoring"
)

func testLibrary(t *testing.T) *refdata.Library {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"career_fields.json": `{"career_fields": {"Engineering": [
			{"career": "Mechanical Engineer", "description": "Designs machines."}
		]}}`,
		"career_field_checklists.json": `{"career_field_checklists": {"Engineering": ["Likes math"]}}`,
		"career_supporting.json":       `{"Engineering": {"Mathematics": "Core tool.", "Poetry": "Unscored here."}}`,
		"D_A_level.json":               `[{"Career Area": "Engineering", "Essential": "Mathematics"}]`,
		"D_IB_level.json":              `[{"Career Area": "Engineering", "Higher Level": "Mathematics AA"}]`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	lib, err := refdata.Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return lib
}

func TestBuildEnrichesTopFields(t *testing.T) {
	builder := NewBuilder(testLibrary(t))

	breakdown := &scoring.CareerBreakdown{
		Subjects: []scoring.RankedSubject{
			{ID: 1, Name: "Engineering", Score: 88},
		},
		SupportingNorm:  map[int]float64{10: 74.6},
		SupportingNames: map[int]string{10: "mathematics"},
	}

	rep := builder.Build(5, breakdown)
	if rep.StudentID != 5 {
		t.Errorf("student_id = %d, want 5", rep.StudentID)
	}
	if len(rep.TopFields) != 1 {
		t.Fatalf("top fields = %d, want 1", len(rep.TopFields))
	}

	field := rep.TopFields[0]
	if field.Description != "Designs machines." {
		t.Errorf("description = %q", field.Description)
	}
	if len(field.Careers) != 1 || len(field.Checklist) != 1 {
		t.Errorf("careers/checklist = %d/%d, want 1/1", len(field.Careers), len(field.Checklist))
	}

	if len(field.SupportingSubjects) != 2 {
		t.Fatalf("supporting subjects = %d, want 2", len(field.SupportingSubjects))
	}
	// Sorted by name: Mathematics then Poetry. Mathematics matches the
	// scored subject case-insensitively; Poetry has no score data.
	math := field.SupportingSubjects[0]
	if math.Name != "Mathematics" || math.SubjectID == nil || math.Score != 75 {
		t.Errorf("mathematics entry = %+v, want matched id with rounded score 75", math)
	}
	poetry := field.SupportingSubjects[1]
	if poetry.Name != "Poetry" || poetry.SubjectID != nil || poetry.Score != 0 {
		t.Errorf("poetry entry = %+v, want unmatched with score 0", poetry)
	}

	if field.ALevelSubjects["Essential"] != "Mathematics" {
		t.Errorf("a_level_subjects = %v", field.ALevelSubjects)
	}
	if field.IBLevelSubjects["Higher Level"] != "Mathematics AA" {
		t.Errorf("ib_level_subjects = %v", field.IBLevelSubjects)
	}
}

func TestBuildLimitsToNineFields(t *testing.T) {
	builder := NewBuilder(testLibrary(t))

	subjects := make([]scoring.RankedSubject, 12)
	for i := range subjects {
		subjects[i] = scoring.RankedSubject{ID: i + 1, Name: "Unknown Field", Score: 100 - i}
	}

	rep := builder.Build(1, &scoring.CareerBreakdown{Subjects: subjects})
	if len(rep.TopFields) != 9 {
		t.Errorf("top fields = %d, want 9", len(rep.TopFields))
	}
}

func TestBuildMissingReferenceDataLeavesEmptySections(t *testing.T) {
	builder := NewBuilder(testLibrary(t))

	rep := builder.Build(1, &scoring.CareerBreakdown{
		Subjects: []scoring.RankedSubject{{ID: 2, Name: "Underwater Basket Weaving", Score: 40}},
	})

	field := rep.TopFields[0]
	if field.Description != "" {
		t.Errorf("description = %q, want empty", field.Description)
	}
	if len(field.Careers) != 0 || len(field.Checklist) != 0 || len(field.SupportingSubjects) != 0 {
		t.Errorf("reference sections should be empty for an unknown field")
	}
	if len(field.ALevelSubjects) != 0 || len(field.IBLevelSubjects) != 0 {
		t.Errorf("level rows should be empty for an unknown field")
	}
	if field.Score != 40 {
		t.Errorf("score = %d, want 40 carried through", field.Score)
	}
}
