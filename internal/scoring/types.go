package scoring

// MappingBundle holds the static question→subject associations the career
// scorer runs against. Assembled once per scoring call from the join tables;
// the underlying data never changes within a session.
type MappingBundle struct {
	// QuestionSubjects maps a question number to the subject IDs it
	// contributes to. A question may map to zero, one, or many subjects.
	QuestionSubjects map[int][]int
	// QuestionSupporting is the same structure for supporting subjects.
	QuestionSupporting map[int][]int

	SubjectNames    map[int]string
	SupportingNames map[int]string

	// SubjectQuestionCount is the number of questions linked to each
	// subject; SubjectQuestions lists the contributing question numbers.
	SubjectQuestionCount map[int]int
	SubjectQuestions     map[int][]int

	SupportingQuestionCount map[int]int
	SupportingQuestions     map[int][]int
}

// Adjacency unions, over every question, the supporting IDs linked wherever
// the question is also linked to a subject. A question contributes its
// supporting IDs to every subject it is linked to, not just one.
func (b *MappingBundle) Adjacency() map[int][]int {
	seen := make(map[int]map[int]bool)
	order := make(map[int][]int)

	for qnum, subjectIDs := range b.QuestionSubjects {
		supportingIDs := b.QuestionSupporting[qnum]
		for _, subID := range subjectIDs {
			for _, supID := range supportingIDs {
				if seen[subID] == nil {
					seen[subID] = make(map[int]bool)
				}
				if !seen[subID][supID] {
					seen[subID][supID] = true
					order[subID] = append(order[subID], supID)
				}
			}
		}
	}
	return order
}

// CategoryMark is one aptitude response joined to its question's category.
type CategoryMark struct {
	Category  string
	IsCorrect bool
}

// CategoryScore is a display category with its summed correctness count.
type CategoryScore struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
}

// CategoryTotal is the per-category answered/correct breakdown.
type CategoryTotal struct {
	Category string `json:"category"`
	Total    int    `json:"total"`
	Correct  int    `json:"correct"`
}

// SubjectScore is one career subject's scored result.
type SubjectScore struct {
	Name              string `json:"name"`
	Score             int    `json:"score"`
	OverallMatchScore int    `json:"overall_match_score"`
	TotalQuestions    int    `json:"total_questions"`
	Questions         []int  `json:"questions"`
}

// SupportingScore is one supporting subject's scored result.
type SupportingScore struct {
	Name           string `json:"name"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions"`
	Questions      []int  `json:"questions"`
}

// CareerScores is the full career scoring output for one student.
type CareerScores struct {
	Subjects           []SubjectScore    `json:"subjects"`
	SupportingSubjects []SupportingScore `json:"supporting_subjects"`
}

// RankedSubject is a subject reduced to identity and rounded score, used by
// the report builder to pick the top fields.
type RankedSubject struct {
	ID    int    `json:"subject_id"`
	Name  string `json:"field"`
	Score int    `json:"score"`
}

// CareerBreakdown exposes the intermediate career computation the report
// builder enriches: ranked subjects plus raw supporting-subject scores.
type CareerBreakdown struct {
	// Subjects is sorted by score descending; ties keep accumulation order.
	Subjects []RankedSubject
	// SupportingNorm holds normalized (unrounded) supporting scores by ID.
	SupportingNorm  map[int]float64
	SupportingNames map[int]string
}
