// Package store persists students and their assessment history in
// SQLite.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store manages assessment persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the assessment database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// GetOrCreateStudent returns the student with the given name,
// inserting a fresh row when none exists yet.
func (s *Store) GetOrCreateStudent(ctx context.Context, name string) (*Student, error) {
	if name == "" {
		return nil, errors.New("student name is empty")
	}

	student, err := s.studentByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if student != nil {
		return student, nil
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO students (name, created_at) VALUES (?, ?)`,
		name,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert student: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.StudentByID(ctx, id)
}

// StudentByID fetches a student by identifier, nil when absent.
func (s *Store) StudentByID(ctx context.Context, id int64) (*Student, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM students WHERE id = ?`, id)
	student, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	return student, nil
}

func (s *Store) studentByName(ctx context.Context, name string) (*Student, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM students WHERE name = ?`, name)
	student, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find student: %w", err)
	}
	return student, nil
}

// InsertAssessment stores a scored attempt and fills in the
// generated identifier and timestamp.
func (s *Store) InsertAssessment(ctx context.Context, a *Assessment) error {
	if a == nil {
		return errors.New("assessment is nil")
	}

	a.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO assessments (
            student_id, target_text, transcript, audio_file_path,
            wcpm, hits, substitutions, insertions, deletions,
            accuracy_percentage, assessment_type, duration_seconds, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.StudentID,
		a.TargetText,
		a.Transcript,
		nullableString(a.AudioFilePath),
		a.WCPM,
		a.Hits,
		a.Substitutions,
		a.Insertions,
		a.Deletions,
		a.AccuracyPercentage,
		a.AssessmentType,
		a.DurationSeconds,
		a.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	a.ID = id
	return nil
}

// AssessmentsByStudent returns a student's attempts, newest first.
func (s *Store) AssessmentsByStudent(ctx context.Context, studentID int64) ([]*Assessment, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+assessmentColumns+` FROM assessments WHERE student_id = ? ORDER BY created_at DESC, id DESC`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	var assessments []*Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	return assessments, rows.Err()
}

// Analytics aggregates a student's history. Returns nil when the
// student has no assessments yet.
func (s *Store) Analytics(ctx context.Context, studentID int64) (*Analytics, error) {
	student, err := s.StudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, nil
	}

	assessments, err := s.AssessmentsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if len(assessments) == 0 {
		return nil, nil
	}

	var total float64
	for _, a := range assessments {
		total += a.WCPM
	}

	trend := "stable"
	if len(assessments) >= 2 {
		recent, older := assessments[0].WCPM, assessments[1].WCPM
		switch {
		case recent > older:
			trend = "up"
		case recent < older:
			trend = "down"
		}
	}

	return &Analytics{
		StudentID:        student.ID,
		StudentName:      student.Name,
		AverageWCPM:      total / float64(len(assessments)),
		TotalAssessments: len(assessments),
		ImprovementTrend: trend,
	}, nil
}

// Leaderboard ranks students with at least one assessment by
// average WCPM, descending.
func (s *Store) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT st.name, AVG(a.wcpm), COUNT(a.id)
         FROM students st
         JOIN assessments a ON a.student_id = st.id
         GROUP BY st.id
         ORDER BY AVG(a.wcpm) DESC, st.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.StudentName, &e.AverageWCPM, &e.TotalAssessments); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

const assessmentColumns = "id, student_id, target_text, transcript, audio_file_path, wcpm, hits, substitutions, insertions, deletions, accuracy_percentage, assessment_type, duration_seconds, created_at"

func scanStudent(scanner interface{ Scan(dest ...any) error }) (*Student, error) {
	var (
		student    Student
		createdRaw string
	)
	if err := scanner.Scan(&student.ID, &student.Name, &createdRaw); err != nil {
		return nil, err
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		student.CreatedAt = created
	}
	return &student, nil
}

func scanAssessment(scanner interface{ Scan(dest ...any) error }) (*Assessment, error) {
	var (
		a          Assessment
		audioPath  sql.NullString
		wcpm       sql.NullFloat64
		hits       sql.NullInt64
		subs       sql.NullInt64
		ins        sql.NullInt64
		dels       sql.NullInt64
		accuracy   sql.NullFloat64
		kind       sql.NullString
		duration   sql.NullFloat64
		createdRaw string
	)

	if err := scanner.Scan(
		&a.ID,
		&a.StudentID,
		&a.TargetText,
		&a.Transcript,
		&audioPath,
		&wcpm,
		&hits,
		&subs,
		&ins,
		&dels,
		&accuracy,
		&kind,
		&duration,
		&createdRaw,
	); err != nil {
		return nil, fmt.Errorf("scan assessment: %w", err)
	}

	a.AudioFilePath = audioPath.String
	a.WCPM = wcpm.Float64
	a.Hits = int(hits.Int64)
	a.Substitutions = int(subs.Int64)
	a.Insertions = int(ins.Int64)
	a.Deletions = int(dels.Int64)
	a.AccuracyPercentage = accuracy.Float64
	a.AssessmentType = kind.String
	a.DurationSeconds = duration.Float64

	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		a.CreatedAt = created
	}
	return &a, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
