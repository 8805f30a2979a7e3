package model

import "time"

// TerminalAptitudeCategory is the category whose submission marks the
// aptitude test complete. Fixed business rule: only SPATIAL triggers
// completion, no other category name does.
const TerminalAptitudeCategory = "SPATIAL"

// AptitudeQuestion is an image/graphical aptitude question. Either the text
// or the image variant of each field may be empty.
type AptitudeQuestion struct {
	ID            int     `json:"id"`
	Category      string  `json:"category"`
	QuestionText  *string `json:"question_text"`
	QuestionImage *string `json:"question_image_url"`
	OptionAText   *string `json:"option_a_text"`
	OptionAImage  *string `json:"option_a_image_url"`
	OptionBText   *string `json:"option_b_text"`
	OptionBImage  *string `json:"option_b_image_url"`
	OptionCText   *string `json:"option_c_text"`
	OptionCImage  *string `json:"option_c_image_url"`
	OptionDText   *string `json:"option_d_text"`
	OptionDImage  *string `json:"option_d_image_url"`
	CorrectOption string  `json:"-"`
}

// AptitudeTextQuestion is a text-only aptitude question.
type AptitudeTextQuestion struct {
	ID            int    `json:"id"`
	Category      string `json:"category"`
	QuestionText  string `json:"question_text"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectOption string `json:"-"`
}

// AptitudeResponse is a student's answer to one aptitude question.
// Unlike career responses, re-submission overwrites the stored row.
type AptitudeResponse struct {
	ID             int       `json:"id"`
	StudentID      int       `json:"student_id"`
	QuestionID     int       `json:"question_id"`
	SelectedOption *string   `json:"selected_option"`
	IsCorrect      bool      `json:"is_correct"`
	Category       string    `json:"category"`
	RespondedAt    time.Time `json:"responded_at"`
}

// CategoryTrack records the last aptitude category a student submitted,
// used to resume the questionnaire and to gate completion.
type CategoryTrack struct {
	StudentID    int    `json:"student_id"`
	LastCategory string `json:"last_category"`
}

// SubmitCategoryRequest submits all of a student's answers for one aptitude
// category. Map keys are question IDs as strings; a nil value means the
// question was left unanswered.
type SubmitCategoryRequest struct {
	Category  string             `json:"category" binding:"required,max=100"`
	Responses map[string]*string `json:"responses" binding:"required"`
}

// CategorySubmitResult reports how complete a category submission was.
type CategorySubmitResult struct {
	Complete bool `json:"complete"`
	Answered int  `json:"answered"`
	Expected int  `json:"expected"`
}
