package model

// CareerQuestion is one entry of the ordered career questionnaire.
type CareerQuestion struct {
	QuestionNumber int    `json:"question_number"`
	Question       string `json:"question_text"`
}

// Response weights for career questions: No=0, Maybe=1, Yes=2.
const (
	WeightNo    = 0
	WeightMaybe = 1
	WeightYes   = 2
)

// CareerResponse is a student's answer to one career question.
// At most one row exists per (student, question); re-submissions are no-ops.
type CareerResponse struct {
	ID             int `json:"id"`
	StudentID      int `json:"student_id"`
	QuestionID     int `json:"question_id"`
	ResponseWeight int `json:"response_weight"`
}

// ExamProgress tracks how far a student has advanced through the career
// questionnaire. One row per student, upserted on every submission.
type ExamProgress struct {
	StudentID               int `json:"student_id"`
	LastAttemptedQuestionID int `json:"last_attempted_question_id"`
}

// SubmitCareerResponseRequest is the payload for answering a career question.
// ResponseWeight is a pointer so that an explicit 0 ("No") passes required.
type SubmitCareerResponseRequest struct {
	QuestionID     int  `json:"question_id" binding:"required,min=1"`
	ResponseWeight *int `json:"response_weight" binding:"required,min=0,max=2"`
}
