package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/mycareerchoices/compass-backend/internal/model"
)

// fakeCareerStore mirrors the real store's write semantics: one row per
// (student, question), re-submissions leave the stored row untouched.
type fakeCareerStore struct {
	total     int
	weights   map[int]int
	progress  int
	completed bool
}

func newFakeCareerStore(total int) *fakeCareerStore {
	return &fakeCareerStore{total: total, weights: make(map[int]int)}
}

func (f *fakeCareerStore) CountQuestions(context.Context) (int, error) {
	return f.total, nil
}

func (f *fakeCareerStore) GetQuestion(_ context.Context, number int) (*model.CareerQuestion, error) {
	if number < 1 || number > f.total {
		return nil, pgx.ErrNoRows
	}
	return &model.CareerQuestion{QuestionNumber: number, Question: "?"}, nil
}

func (f *fakeCareerStore) GetProgress(_ context.Context, studentID int) (*model.ExamProgress, error) {
	if f.progress == 0 {
		return nil, nil
	}
	return &model.ExamProgress{StudentID: studentID, LastAttemptedQuestionID: f.progress}, nil
}

func (f *fakeCareerStore) SubmitResponse(_ context.Context, resp *model.CareerResponse) (bool, error) {
	if _, exists := f.weights[resp.QuestionID]; exists {
		return false, nil
	}
	f.weights[resp.QuestionID] = resp.ResponseWeight
	f.progress = resp.QuestionID
	if resp.QuestionID >= f.total {
		f.completed = true
	}
	return true, nil
}

// fakeAptitudeStore mirrors the real store's upsert: the latest submission
// for a (student, question) pair wins.
type fakeAptitudeStore struct {
	bank      map[int]model.AptitudeQuestion
	stored    map[int]model.AptitudeResponse
	track     string
	completed bool
}

func newFakeAptitudeStore(bank map[int]model.AptitudeQuestion) *fakeAptitudeStore {
	return &fakeAptitudeStore{bank: bank, stored: make(map[int]model.AptitudeResponse)}
}

func (f *fakeAptitudeStore) ListCategories(context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeAptitudeStore) ListTextCategories(context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeAptitudeStore) SampleByCategory(context.Context, string, int) ([]model.AptitudeQuestion, error) {
	return nil, nil
}

func (f *fakeAptitudeStore) SampleTextByCategory(context.Context, string, int) ([]model.AptitudeTextQuestion, error) {
	return nil, nil
}

func (f *fakeAptitudeStore) GetQuestionsByIDs(_ context.Context, ids []int) (map[int]model.AptitudeQuestion, error) {
	found := make(map[int]model.AptitudeQuestion, len(ids))
	for _, id := range ids {
		if q, ok := f.bank[id]; ok {
			found[id] = q
		}
	}
	return found, nil
}

func (f *fakeAptitudeStore) CountByCategory(_ context.Context, category string) (int, error) {
	n := 0
	for _, q := range f.bank {
		if q.Category == category {
			n++
		}
	}
	return n, nil
}

func (f *fakeAptitudeStore) GetTrack(_ context.Context, studentID int) (*model.CategoryTrack, error) {
	if f.track == "" {
		return nil, nil
	}
	return &model.CategoryTrack{StudentID: studentID, LastCategory: f.track}, nil
}

func (f *fakeAptitudeStore) SubmitCategory(_ context.Context, _ int, category string, answers []model.AptitudeResponse, markComplete bool) error {
	for _, a := range answers {
		f.stored[a.QuestionID] = a
	}
	f.track = category
	if markComplete {
		f.completed = true
	}
	return nil
}

func strptr(s string) *string { return &s }

func weightptr(w int) *int { return &w }

func TestSubmitCareerResponseRecordsAnswer(t *testing.T) {
	careers := newFakeCareerStore(3)
	svc := NewAssessmentService(careers, newFakeAptitudeStore(nil))

	recorded, err := svc.SubmitCareerResponse(context.Background(), 1, &model.SubmitCareerResponseRequest{
		QuestionID:     1,
		ResponseWeight: weightptr(model.WeightYes),
	})
	if err != nil {
		t.Fatalf("SubmitCareerResponse: %v", err)
	}
	if !recorded {
		t.Errorf("recorded = false, want true for a first submission")
	}
	if careers.weights[1] != model.WeightYes {
		t.Errorf("stored weight = %d, want %d", careers.weights[1], model.WeightYes)
	}
	if careers.progress != 1 {
		t.Errorf("progress = %d, want 1", careers.progress)
	}
}

func TestSubmitCareerResponseDuplicateIsNoOp(t *testing.T) {
	careers := newFakeCareerStore(3)
	svc := NewAssessmentService(careers, newFakeAptitudeStore(nil))
	ctx := context.Background()

	if _, err := svc.SubmitCareerResponse(ctx, 1, &model.SubmitCareerResponseRequest{
		QuestionID:     1,
		ResponseWeight: weightptr(model.WeightYes),
	}); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	// Re-answering with a different weight succeeds but changes nothing.
	recorded, err := svc.SubmitCareerResponse(ctx, 1, &model.SubmitCareerResponseRequest{
		QuestionID:     1,
		ResponseWeight: weightptr(model.WeightNo),
	})
	if err != nil {
		t.Fatalf("duplicate submit: %v", err)
	}
	if recorded {
		t.Errorf("recorded = true, want false for a duplicate")
	}
	if careers.weights[1] != model.WeightYes {
		t.Errorf("stored weight = %d, original answer must survive", careers.weights[1])
	}
	if careers.progress != 1 {
		t.Errorf("progress = %d, duplicate must not advance it", careers.progress)
	}
}

func TestSubmitCareerResponseUnknownQuestion(t *testing.T) {
	svc := NewAssessmentService(newFakeCareerStore(3), newFakeAptitudeStore(nil))

	_, err := svc.SubmitCareerResponse(context.Background(), 1, &model.SubmitCareerResponseRequest{
		QuestionID:     99,
		ResponseWeight: weightptr(model.WeightYes),
	})
	if !errors.Is(err, ErrInvalidQuestion) {
		t.Errorf("err = %v, want ErrInvalidQuestion", err)
	}
}

func TestNextCareerQuestionExhausted(t *testing.T) {
	careers := newFakeCareerStore(2)
	careers.progress = 2
	svc := NewAssessmentService(careers, newFakeAptitudeStore(nil))

	_, err := svc.NextCareerQuestion(context.Background(), 1)
	if !errors.Is(err, ErrNoMoreQuestions) {
		t.Errorf("err = %v, want ErrNoMoreQuestions", err)
	}
}

func TestSubmitCategoryResponsesGrading(t *testing.T) {
	aptitude := newFakeAptitudeStore(map[int]model.AptitudeQuestion{
		1: {ID: 1, Category: "Verbal", CorrectOption: "A"},
		2: {ID: 2, Category: "Verbal", CorrectOption: "B"},
		3: {ID: 3, Category: "Verbal", CorrectOption: "C"},
		4: {ID: 4, Category: "Verbal", CorrectOption: "D"},
	})
	svc := NewAssessmentService(newFakeCareerStore(0), aptitude)

	result, err := svc.SubmitCategoryResponses(context.Background(), 1, &model.SubmitCategoryRequest{
		Category: "Verbal",
		Responses: map[string]*string{
			"1": strptr("A"), // correct
			"2": strptr("c"), // wrong, compare is case sensitive
			"3": nil,         // unanswered
			"4": strptr("0"), // explicit skip, also unanswered
		},
	})
	if err != nil {
		t.Fatalf("SubmitCategoryResponses: %v", err)
	}

	if result.Answered != 2 {
		t.Errorf("answered = %d, want 2 (nil and \"0\" do not count)", result.Answered)
	}
	if result.Expected != 4 {
		t.Errorf("expected = %d, want 4", result.Expected)
	}
	if result.Complete {
		t.Errorf("complete = true, want false at 2 of 4")
	}

	if !aptitude.stored[1].IsCorrect {
		t.Errorf("question 1 graded incorrect, want correct")
	}
	for _, id := range []int{2, 3, 4} {
		if aptitude.stored[id].IsCorrect {
			t.Errorf("question %d graded correct, want incorrect", id)
		}
	}
	if aptitude.completed {
		t.Errorf("non-terminal category must not mark the test complete")
	}
}

func TestSubmitCategoryResponsesResubmissionOverwrites(t *testing.T) {
	aptitude := newFakeAptitudeStore(map[int]model.AptitudeQuestion{
		1: {ID: 1, Category: "Verbal", CorrectOption: "A"},
	})
	svc := NewAssessmentService(newFakeCareerStore(0), aptitude)
	ctx := context.Background()

	if _, err := svc.SubmitCategoryResponses(ctx, 1, &model.SubmitCategoryRequest{
		Category:  "Verbal",
		Responses: map[string]*string{"1": strptr("A")},
	}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if !aptitude.stored[1].IsCorrect {
		t.Fatalf("first answer graded incorrect, want correct")
	}

	// Unlike career responses, a second submission replaces the stored row.
	if _, err := svc.SubmitCategoryResponses(ctx, 1, &model.SubmitCategoryRequest{
		Category:  "Verbal",
		Responses: map[string]*string{"1": strptr("B")},
	}); err != nil {
		t.Fatalf("second submit: %v", err)
	}

	stored := aptitude.stored[1]
	if stored.SelectedOption == nil || *stored.SelectedOption != "B" {
		t.Errorf("stored option = %v, want the latest answer B", stored.SelectedOption)
	}
	if stored.IsCorrect {
		t.Errorf("stored correctness not regraded on overwrite")
	}
	if len(aptitude.stored) != 1 {
		t.Errorf("stored %d rows for one question, want 1", len(aptitude.stored))
	}
}

func TestSubmitCategoryResponsesTerminalCategoryCompletes(t *testing.T) {
	aptitude := newFakeAptitudeStore(map[int]model.AptitudeQuestion{
		1: {ID: 1, Category: model.TerminalAptitudeCategory, CorrectOption: "A"},
	})
	svc := NewAssessmentService(newFakeCareerStore(0), aptitude)

	result, err := svc.SubmitCategoryResponses(context.Background(), 1, &model.SubmitCategoryRequest{
		Category:  model.TerminalAptitudeCategory,
		Responses: map[string]*string{"1": strptr("A")},
	})
	if err != nil {
		t.Fatalf("SubmitCategoryResponses: %v", err)
	}
	if !aptitude.completed {
		t.Errorf("terminal category must mark the aptitude test complete")
	}
	if !result.Complete {
		t.Errorf("complete = false, want true at 1 of 1")
	}
	if aptitude.track != model.TerminalAptitudeCategory {
		t.Errorf("track = %q, want %q", aptitude.track, model.TerminalAptitudeCategory)
	}
}

func TestSubmitCategoryResponsesUnknownIDsDropped(t *testing.T) {
	aptitude := newFakeAptitudeStore(map[int]model.AptitudeQuestion{
		1: {ID: 1, Category: "Verbal", CorrectOption: "A"},
	})
	svc := NewAssessmentService(newFakeCareerStore(0), aptitude)

	if _, err := svc.SubmitCategoryResponses(context.Background(), 1, &model.SubmitCategoryRequest{
		Category: "Verbal",
		Responses: map[string]*string{
			"1":  strptr("A"),
			"42": strptr("B"),
		},
	}); err != nil {
		t.Fatalf("SubmitCategoryResponses: %v", err)
	}
	if _, ok := aptitude.stored[42]; ok {
		t.Errorf("answer for an unknown question must not be stored")
	}
}
