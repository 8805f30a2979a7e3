package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/mycareerchoices/compass-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CareerStore is the persistence surface of the career questionnaire.
type CareerStore interface {
	CountQuestions(ctx context.Context) (int, error)
	GetQuestion(ctx context.Context, number int) (*model.CareerQuestion, error)
	GetProgress(ctx context.Context, studentID int) (*model.ExamProgress, error)
	SubmitResponse(ctx context.Context, resp *model.CareerResponse) (bool, error)
}

// AptitudeStore is the persistence surface of the aptitude quizzes.
type AptitudeStore interface {
	ListCategories(ctx context.Context) ([]string, error)
	ListTextCategories(ctx context.Context) ([]string, error)
	SampleByCategory(ctx context.Context, category string, limit int) ([]model.AptitudeQuestion, error)
	SampleTextByCategory(ctx context.Context, category string, limit int) ([]model.AptitudeTextQuestion, error)
	GetQuestionsByIDs(ctx context.Context, ids []int) (map[int]model.AptitudeQuestion, error)
	CountByCategory(ctx context.Context, category string) (int, error)
	GetTrack(ctx context.Context, studentID int) (*model.CategoryTrack, error)
	SubmitCategory(ctx context.Context, studentID int, category string, answers []model.AptitudeResponse, markComplete bool) error
}

// Assessment errors.
var (
	ErrNoMoreQuestions = errors.New("no more questions available")
	ErrInvalidQuestion = errors.New("invalid question id")
)

// Questions served per aptitude category in one sitting.
const aptitudeSampleSize = 30

// NextCareerQuestion is the question served to a student plus progress info.
type NextCareerQuestion struct {
	QuestionNumber int    `json:"question_number"`
	QuestionText   string `json:"question_text"`
	TotalQuestions int    `json:"total_questions"`
}

// AptitudeBank groups sampled questions by category, with the student's
// last submitted category so the client can resume.
type AptitudeBank struct {
	QuestionsByCategory map[string][]model.AptitudeQuestion `json:"questions_by_category"`
	LastCategory        *string                             `json:"last_category"`
}

// AptitudeTextBank is the text-question variant of AptitudeBank.
type AptitudeTextBank struct {
	QuestionsByCategory map[string][]model.AptitudeTextQuestion `json:"questions_by_category"`
	LastCategory        *string                                 `json:"last_category"`
}

// AssessmentService drives both assessments: the sequential career
// questionnaire and the category-batched aptitude quizzes.
type AssessmentService struct {
	careers  CareerStore
	aptitude AptitudeStore
	log      zerolog.Logger
}

// NewAssessmentService creates a new AssessmentService.
func NewAssessmentService(careers CareerStore, aptitude AptitudeStore) *AssessmentService {
	return &AssessmentService{
		careers:  careers,
		aptitude: aptitude,
		log:      log.With().Str("component", "assessment_service").Logger(),
	}
}

// NextCareerQuestion returns the question after the student's last attempt,
// or ErrNoMoreQuestions once the questionnaire is exhausted.
func (s *AssessmentService) NextCareerQuestion(ctx context.Context, studentID int) (*NextCareerQuestion, error) {
	progress, err := s.careers.GetProgress(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	next := 1
	if progress != nil {
		next = progress.LastAttemptedQuestionID + 1
	}

	question, err := s.careers.GetQuestion(ctx, next)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoMoreQuestions
		}
		return nil, fmt.Errorf("get question: %w", err)
	}

	total, err := s.careers.CountQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}

	return &NextCareerQuestion{
		QuestionNumber: question.QuestionNumber,
		QuestionText:   question.Question,
		TotalQuestions: total,
	}, nil
}

// SubmitCareerResponse records one answer. Returns false when the question
// was already answered; the duplicate is acknowledged, not re-recorded.
func (s *AssessmentService) SubmitCareerResponse(ctx context.Context, studentID int, req *model.SubmitCareerResponseRequest) (bool, error) {
	if _, err := s.careers.GetQuestion(ctx, req.QuestionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrInvalidQuestion
		}
		return false, fmt.Errorf("get question: %w", err)
	}

	resp := &model.CareerResponse{
		StudentID:      studentID,
		QuestionID:     req.QuestionID,
		ResponseWeight: *req.ResponseWeight,
	}
	recorded, err := s.careers.SubmitResponse(ctx, resp)
	if err != nil {
		return false, fmt.Errorf("submit response: %w", err)
	}
	return recorded, nil
}

// AptitudeQuestions samples the image question bank per category.
func (s *AssessmentService) AptitudeQuestions(ctx context.Context, studentID int) (*AptitudeBank, error) {
	categories, err := s.aptitude.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	bank := &AptitudeBank{QuestionsByCategory: make(map[string][]model.AptitudeQuestion, len(categories))}
	for _, category := range categories {
		questions, err := s.aptitude.SampleByCategory(ctx, category, aptitudeSampleSize)
		if err != nil {
			return nil, fmt.Errorf("sample %s: %w", category, err)
		}
		bank.QuestionsByCategory[category] = questions
	}

	bank.LastCategory, err = s.lastCategory(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return bank, nil
}

// AptitudeTextQuestions samples the text question bank per category.
func (s *AssessmentService) AptitudeTextQuestions(ctx context.Context, studentID int) (*AptitudeTextBank, error) {
	categories, err := s.aptitude.ListTextCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list text categories: %w", err)
	}

	bank := &AptitudeTextBank{QuestionsByCategory: make(map[string][]model.AptitudeTextQuestion, len(categories))}
	for _, category := range categories {
		questions, err := s.aptitude.SampleTextByCategory(ctx, category, aptitudeSampleSize)
		if err != nil {
			return nil, fmt.Errorf("sample %s: %w", category, err)
		}
		bank.QuestionsByCategory[category] = questions
	}

	bank.LastCategory, err = s.lastCategory(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return bank, nil
}

// LastCategory returns the student's most recently submitted category, or
// nil when nothing has been submitted yet.
func (s *AssessmentService) LastCategory(ctx context.Context, studentID int) (*string, error) {
	return s.lastCategory(ctx, studentID)
}

func (s *AssessmentService) lastCategory(ctx context.Context, studentID int) (*string, error) {
	track, err := s.aptitude.GetTrack(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get track: %w", err)
	}
	if track == nil {
		return nil, nil
	}
	return &track.LastCategory, nil
}

// SubmitCategoryResponses grades and stores one category's answers.
// Unknown question IDs are dropped silently. An answer of nil or "0" counts
// as unanswered and incorrect; anything else is compared exactly against
// the correct option. Submitting the terminal category marks the aptitude
// test complete.
func (s *AssessmentService) SubmitCategoryResponses(ctx context.Context, studentID int, req *model.SubmitCategoryRequest) (*model.CategorySubmitResult, error) {
	ids := make([]int, 0, len(req.Responses))
	for idStr := range req.Responses {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return nil, ErrInvalidQuestion
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	questions, err := s.aptitude.GetQuestionsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get questions: %w", err)
	}

	answered := 0
	answers := make([]model.AptitudeResponse, 0, len(ids))
	for _, id := range ids {
		question, ok := questions[id]
		if !ok {
			continue
		}
		selected := req.Responses[strconv.Itoa(id)]

		isCorrect := false
		if selected != nil && *selected != "0" {
			isCorrect = *selected == question.CorrectOption
			answered++
		}
		answers = append(answers, model.AptitudeResponse{
			StudentID:      studentID,
			QuestionID:     id,
			SelectedOption: selected,
			IsCorrect:      isCorrect,
			Category:       req.Category,
		})
	}

	expected, err := s.aptitude.CountByCategory(ctx, req.Category)
	if err != nil {
		return nil, fmt.Errorf("count category: %w", err)
	}

	markComplete := strings.EqualFold(req.Category, model.TerminalAptitudeCategory)
	if err := s.aptitude.SubmitCategory(ctx, studentID, req.Category, answers, markComplete); err != nil {
		return nil, fmt.Errorf("submit category: %w", err)
	}

	if markComplete {
		s.log.Info().Int("student_id", studentID).Msg("Aptitude test completed")
	}

	return &model.CategorySubmitResult{
		Complete: answered >= expected,
		Answered: answered,
		Expected: expected,
	}, nil
}
