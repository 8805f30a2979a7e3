package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/mycareerchoices/compass-backend/internal/model"
	"github.com/rs/zerolog"
)

// ErrNoResponses signals that a student has recorded no responses at all.
// Callers must not confuse this with a legitimate all-zero score table.
var ErrNoResponses = errors.New("no responses recorded for student")

// categoryDisplayNames maps raw category codes from the question bank to
// their display names. Unknown codes pass through unchanged. The misspelled
// NUMEBERS code is what the question bank actually contains.
var categoryDisplayNames = map[string]string{
	"SPATIAL":         "Spatial Reasoning",
	"ABSTRACT":        "Abstract Reasoning",
	"NUMEBERS":        "Numerical Reasoning",
	"Verbal":          "Verbal Reasoning",
	"arithmetic":      "Arithmetic Calculation",
	"spellingmistake": "Spelling Mistake",
	"workingQA":       "Working Quickly and Accurately",
}

// DisplayCategory resolves a raw category code to its display name.
func DisplayCategory(code string) string {
	if name, ok := categoryDisplayNames[code]; ok {
		return name
	}
	return code
}

// MappingStore supplies the static question→subject association tables.
type MappingStore interface {
	SubjectLinks(ctx context.Context) ([]model.QuestionSubjectLink, error)
	SupportingLinks(ctx context.Context) ([]model.QuestionSupportingLink, error)
	Subjects(ctx context.Context) ([]model.Subject, error)
	SupportingSubjects(ctx context.Context) ([]model.SupportingSubject, error)
}

// CareerResponseStore supplies a student's career questionnaire responses.
type CareerResponseStore interface {
	ListResponses(ctx context.Context, studentID int) ([]model.CareerResponse, error)
}

// AptitudeMarkStore supplies a student's aptitude correctness data.
type AptitudeMarkStore interface {
	Marks(ctx context.Context, studentID int) ([]CategoryMark, error)
	CategoryTotals(ctx context.Context, studentID int) ([]CategoryTotal, error)
}

// Service computes aptitude and career scores.
type Service struct {
	mappings MappingStore
	careers  CareerResponseStore
	aptitude AptitudeMarkStore
	log      zerolog.Logger
}

// NewService creates a scoring Service.
func NewService(mappings MappingStore, careers CareerResponseStore, aptitude AptitudeMarkStore, log zerolog.Logger) *Service {
	return &Service{
		mappings: mappings,
		careers:  careers,
		aptitude: aptitude,
		log:      log.With().Str("component", "scoring").Logger(),
	}
}

// LoadMappings assembles the MappingBundle from the join tables. Empty
// tables yield empty maps, never an error.
func (s *Service) LoadMappings(ctx context.Context) (*MappingBundle, error) {
	b := &MappingBundle{
		QuestionSubjects:        make(map[int][]int),
		QuestionSupporting:      make(map[int][]int),
		SubjectNames:            make(map[int]string),
		SupportingNames:         make(map[int]string),
		SubjectQuestionCount:    make(map[int]int),
		SubjectQuestions:        make(map[int][]int),
		SupportingQuestionCount: make(map[int]int),
		SupportingQuestions:     make(map[int][]int),
	}

	subjectLinks, err := s.mappings.SubjectLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load subject links: %w", err)
	}
	for _, link := range subjectLinks {
		b.QuestionSubjects[link.QuestionNumber] = append(b.QuestionSubjects[link.QuestionNumber], link.SubjectID)
		b.SubjectQuestionCount[link.SubjectID]++
		b.SubjectQuestions[link.SubjectID] = append(b.SubjectQuestions[link.SubjectID], link.QuestionNumber)
	}

	supportingLinks, err := s.mappings.SupportingLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load supporting links: %w", err)
	}
	for _, link := range supportingLinks {
		b.QuestionSupporting[link.QuestionNumber] = append(b.QuestionSupporting[link.QuestionNumber], link.SupportingID)
		b.SupportingQuestionCount[link.SupportingID]++
		b.SupportingQuestions[link.SupportingID] = append(b.SupportingQuestions[link.SupportingID], link.QuestionNumber)
	}

	subjects, err := s.mappings.Subjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}
	for _, sub := range subjects {
		b.SubjectNames[sub.ID] = sub.Name
	}

	supporting, err := s.mappings.SupportingSubjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("load supporting subjects: %w", err)
	}
	for _, sup := range supporting {
		b.SupportingNames[sup.ID] = sup.Name
	}

	return b, nil
}

// AptitudeScores sums correct answers per display category, all seven known
// categories initialized to zero, sorted by score descending. Returns
// ErrNoResponses when the student has answered nothing: an absent response
// set is distinguishable from a table of zeros.
func (s *Service) AptitudeScores(ctx context.Context, studentID int) ([]CategoryScore, error) {
	marks, err := s.aptitude.Marks(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load aptitude marks: %w", err)
	}
	if len(marks) == 0 {
		return nil, ErrNoResponses
	}

	scores := make(map[string]int, len(categoryDisplayNames))
	order := make([]string, 0, len(categoryDisplayNames))
	for _, code := range []string{"SPATIAL", "ABSTRACT", "NUMEBERS", "Verbal", "arithmetic", "spellingmistake", "workingQA"} {
		name := categoryDisplayNames[code]
		scores[name] = 0
		order = append(order, name)
	}

	for _, m := range marks {
		name := DisplayCategory(m.Category)
		if _, known := scores[name]; known && m.IsCorrect {
			scores[name]++
		}
	}

	result := make([]CategoryScore, 0, len(order))
	for _, name := range order {
		result = append(result, CategoryScore{Category: name, Score: scores[name]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})
	return result, nil
}

// AptitudeBreakdown returns per-category answered/correct totals for the
// categories the student actually touched, sorted by correct descending.
// Categories with zero responses are omitted, not zero-filled.
func (s *Service) AptitudeBreakdown(ctx context.Context, studentID int) ([]CategoryTotal, error) {
	totals, err := s.aptitude.CategoryTotals(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load category totals: %w", err)
	}
	for i := range totals {
		totals[i].Category = DisplayCategory(totals[i].Category)
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Correct > totals[j].Correct
	})
	return totals, nil
}

// careerAccumulation is the shared intermediate state of a career scoring run.
type careerAccumulation struct {
	bundle          *MappingBundle
	subjectNorm     map[int]float64
	subjectOrder    []int
	supportingNorm  map[int]float64
	supportingOrder []int
}

// accumulateCareer fans each response's weight out to every subject and
// supporting subject its question maps to, then normalizes to 0–100.
// Returns ErrNoResponses when the student has no career responses at all.
func (s *Service) accumulateCareer(ctx context.Context, studentID int) (*careerAccumulation, error) {
	bundle, err := s.LoadMappings(ctx)
	if err != nil {
		return nil, err
	}

	responses, err := s.careers.ListResponses(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load career responses: %w", err)
	}
	if len(responses) == 0 {
		return nil, ErrNoResponses
	}

	acc := &careerAccumulation{
		bundle:         bundle,
		subjectNorm:    make(map[int]float64),
		supportingNorm: make(map[int]float64),
	}

	subjectRaw := make(map[int]int)
	supportingRaw := make(map[int]int)
	for _, resp := range responses {
		for _, subID := range bundle.QuestionSubjects[resp.QuestionID] {
			if _, seen := subjectRaw[subID]; !seen {
				acc.subjectOrder = append(acc.subjectOrder, subID)
			}
			subjectRaw[subID] += resp.ResponseWeight
		}
		for _, supID := range bundle.QuestionSupporting[resp.QuestionID] {
			if _, seen := supportingRaw[supID]; !seen {
				acc.supportingOrder = append(acc.supportingOrder, supID)
			}
			supportingRaw[supID] += resp.ResponseWeight
		}
	}

	// A subject's maximum raw score is 2 per mapped question ("Yes" on all
	// of them); multi-mapped questions can inflate raw sums past that, so
	// the normalized value is clamped to 100.
	for subID, raw := range subjectRaw {
		acc.subjectNorm[subID] = normalize(raw, bundle.SubjectQuestionCount[subID])
	}
	for supID, raw := range supportingRaw {
		acc.supportingNorm[supID] = normalize(raw, bundle.SupportingQuestionCount[supID])
	}
	return acc, nil
}

func normalize(raw, questionCount int) float64 {
	if questionCount <= 0 {
		return 0
	}
	score := float64(raw) / float64(questionCount*2) * 100
	return math.Min(score, 100)
}

// CareerScores computes the full career scoring output for a student.
func (s *Service) CareerScores(ctx context.Context, studentID int) (*CareerScores, error) {
	acc, err := s.accumulateCareer(ctx, studentID)
	if err != nil {
		return nil, err
	}
	bundle := acc.bundle
	adjacency := bundle.Adjacency()

	subjects := make([]SubjectScore, 0, len(acc.subjectOrder))
	for _, subID := range acc.subjectOrder {
		name, known := bundle.SubjectNames[subID]
		if !known {
			continue
		}

		mainScore := roundClamp(acc.subjectNorm[subID])

		// Overall match blends the subject's own score with its related
		// supporting scores as an unweighted mean; with no related
		// supporting subjects it degenerates to the main score.
		overall := mainScore
		if related := adjacency[subID]; len(related) > 0 {
			sum := float64(mainScore)
			for _, supID := range related {
				sum += acc.supportingNorm[supID]
			}
			overall = int(math.Round(sum / float64(1+len(related))))
		}

		subjects = append(subjects, SubjectScore{
			Name:              name,
			Score:             mainScore,
			OverallMatchScore: overall,
			TotalQuestions:    bundle.SubjectQuestionCount[subID],
			Questions:         bundle.SubjectQuestions[subID],
		})
	}

	// Sorted by main score only. OverallMatchScore deliberately does not
	// influence ordering.
	sort.SliceStable(subjects, func(i, j int) bool {
		return subjects[i].Score > subjects[j].Score
	})

	supporting := make([]SupportingScore, 0, len(acc.supportingOrder))
	for _, supID := range acc.supportingOrder {
		name, known := bundle.SupportingNames[supID]
		if !known {
			continue
		}
		supporting = append(supporting, SupportingScore{
			Name:           name,
			Score:          roundClamp(acc.supportingNorm[supID]),
			TotalQuestions: bundle.SupportingQuestionCount[supID],
			Questions:      bundle.SupportingQuestions[supID],
		})
	}

	return &CareerScores{Subjects: subjects, SupportingSubjects: supporting}, nil
}

// CareerBreakdown exposes ranked subjects plus raw supporting scores for the
// report builder.
func (s *Service) CareerBreakdown(ctx context.Context, studentID int) (*CareerBreakdown, error) {
	acc, err := s.accumulateCareer(ctx, studentID)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedSubject, 0, len(acc.subjectOrder))
	for _, subID := range acc.subjectOrder {
		name, known := acc.bundle.SubjectNames[subID]
		if !known {
			continue
		}
		ranked = append(ranked, RankedSubject{
			ID:    subID,
			Name:  name,
			Score: roundClamp(acc.subjectNorm[subID]),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return &CareerBreakdown{
		Subjects:        ranked,
		SupportingNorm:  acc.supportingNorm,
		SupportingNames: acc.bundle.SupportingNames,
	}, nil
}

func roundClamp(norm float64) int {
	n := int(math.Round(norm))
	if n > 100 {
		n = 100
	}
	return n
}
