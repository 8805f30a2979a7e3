package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mycareerchoices/compass-backend/internal/model"
)

// MappingRepository reads the static question→subject association tables.
// Pure reads; the join tables never change at runtime.
type MappingRepository struct {
	pool *pgxpool.Pool
}

// NewMappingRepository creates a new MappingRepository.
func NewMappingRepository(pool *pgxpool.Pool) *MappingRepository {
	return &MappingRepository{pool: pool}
}

// SubjectLinks returns every question→subject association.
func (r *MappingRepository) SubjectLinks(ctx context.Context) ([]model.QuestionSubjectLink, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT question_number, subject_id FROM question_subjects ORDER BY question_number, subject_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []model.QuestionSubjectLink
	for rows.Next() {
		var l model.QuestionSubjectLink
		if err := rows.Scan(&l.QuestionNumber, &l.SubjectID); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// SupportingLinks returns every question→supporting-subject association.
func (r *MappingRepository) SupportingLinks(ctx context.Context) ([]model.QuestionSupportingLink, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT question_number, supporting_id FROM question_supporting_subjects ORDER BY question_number, supporting_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []model.QuestionSupportingLink
	for rows.Next() {
		var l model.QuestionSupportingLink
		if err := rows.Scan(&l.QuestionNumber, &l.SupportingID); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// Subjects returns the subject ID→name dictionary rows.
func (r *MappingRepository) Subjects(ctx context.Context) ([]model.Subject, error) {
	rows, err := r.pool.Query(ctx, `SELECT subject_id, subject_name FROM subjects ORDER BY subject_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []model.Subject
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// SupportingSubjects returns the supporting-subject ID→name dictionary rows.
func (r *MappingRepository) SupportingSubjects(ctx context.Context) ([]model.SupportingSubject, error) {
	rows, err := r.pool.Query(ctx, `SELECT supporting_id, supporting_subject_name FROM supporting_subjects ORDER BY supporting_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []model.SupportingSubject
	for rows.Next() {
		var s model.SupportingSubject
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}
