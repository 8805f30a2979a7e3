package model

// Subject is a career-relevant field of study tracked by the assessment.
type Subject struct {
	ID   int    `json:"subject_id"`
	Name string `json:"subject_name"`
}

// SupportingSubject is a secondary skill area linked to one or more subjects.
type SupportingSubject struct {
	ID   int    `json:"supporting_id"`
	Name string `json:"supporting_subject_name"`
}

// QuestionSubjectLink maps a career question to a subject. A question may
// link to zero, one, or many subjects.
type QuestionSubjectLink struct {
	QuestionNumber int `json:"question_number"`
	SubjectID      int `json:"subject_id"`
}

// QuestionSupportingLink maps a career question to a supporting subject.
type QuestionSupportingLink struct {
	QuestionNumber int `json:"question_number"`
	SupportingID   int `json:"supporting_id"`
}
