package report

import (
	"math"
	"strings"

	"github.com/mycareerchoices/compass-backend/internal/refdata"
	"github.com/mycareerchoices/compass-backend/internal/scoring"
)

// topFieldCount limits the report to the strongest career fields.
const topFieldCount = 9

// SupportingSubject is one supporting subject attached to a report field.
type SupportingSubject struct {
	SubjectID   *int   `json:"subject_id"`
	Name        string `json:"name"`
	Score       int    `json:"score"`
	Description string `json:"description"`
}

// Field is one fully enriched career field in the report.
type Field struct {
	SubjectID          int                 `json:"subject_id"`
	Field              string              `json:"field"`
	Score              int                 `json:"score"`
	Description        string              `json:"description"`
	Careers            []refdata.Career    `json:"careers"`
	Checklist          []string            `json:"checklist"`
	SupportingSubjects []SupportingSubject `json:"supporting_subjects"`
	ALevelSubjects     refdata.LevelRow    `json:"a_level_subjects"`
	IBLevelSubjects    refdata.LevelRow    `json:"ib_level_subjects"`
}

// CareerReport is the report payload for one student.
type CareerReport struct {
	StudentID int     `json:"student_id"`
	TopFields []Field `json:"top_fields"`
}

// Builder enriches ranked career scores with the static reference data.
type Builder struct {
	library *refdata.Library
}

// NewBuilder creates a report Builder over a loaded reference library.
func NewBuilder(library *refdata.Library) *Builder {
	return &Builder{library: library}
}

// Build assembles the career report from a scored breakdown. Reference
// entries that do not exist for a field leave that section empty; a
// sparse report is still a valid report.
func (b *Builder) Build(studentID int, breakdown *scoring.CareerBreakdown) *CareerReport {
	ranked := breakdown.Subjects
	if len(ranked) > topFieldCount {
		ranked = ranked[:topFieldCount]
	}

	// Lowercased supporting-subject name → ID, for matching reference
	// entries back to scored subjects.
	supportingIDs := make(map[string]int, len(breakdown.SupportingNames))
	for id, name := range breakdown.SupportingNames {
		supportingIDs[strings.ToLower(name)] = id
	}

	fields := make([]Field, 0, len(ranked))
	for _, subject := range ranked {
		field := Field{
			SubjectID:          subject.ID,
			Field:              subject.Name,
			Score:              subject.Score,
			Careers:            []refdata.Career{},
			Checklist:          []string{},
			SupportingSubjects: []SupportingSubject{},
			ALevelSubjects:     refdata.LevelRow{},
			IBLevelSubjects:    refdata.LevelRow{},
		}

		if careers := b.library.CareersFor(subject.Name); len(careers) > 0 {
			field.Careers = careers
			field.Description = careers[0].Description
		}
		if checklist := b.library.ChecklistFor(subject.Name); checklist != nil {
			field.Checklist = checklist
		}

		for _, entry := range b.library.SupportingFor(subject.Name) {
			sup := SupportingSubject{
				Name:        entry.Name,
				Description: entry.Description,
			}
			if id, ok := supportingIDs[strings.ToLower(entry.Name)]; ok {
				sup.SubjectID = &id
				sup.Score = int(math.Round(breakdown.SupportingNorm[id]))
			}
			field.SupportingSubjects = append(field.SupportingSubjects, sup)
		}

		if row := b.library.ALevelFor(subject.Name); row != nil {
			field.ALevelSubjects = row
		}
		if row := b.library.IBLevelFor(subject.Name); row != nil {
			field.IBLevelSubjects = row
		}

		fields = append(fields, field)
	}

	return &CareerReport{StudentID: studentID, TopFields: fields}
}
