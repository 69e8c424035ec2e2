package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanishk-pant/orf-english/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "orf.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func addAssessment(t *testing.T, s *store.Store, studentID int64, wcpm float64) *store.Assessment {
	t.Helper()
	a := &store.Assessment{
		StudentID:          studentID,
		TargetText:         "the quick brown fox jumps over the lazy sleeping dog",
		Transcript:         "the quick brown fox jumps over the lazy dog",
		WCPM:               wcpm,
		Hits:               9,
		Deletions:          1,
		AccuracyPercentage: 90,
		AssessmentType:     "default",
		DurationSeconds:    30,
	}
	require.NoError(t, s.InsertAssessment(context.Background(), a))
	return a
}

func TestGetOrCreateStudent(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	first, err := s.GetOrCreateStudent(ctx, "Ravi")
	require.NoError(t, err)
	require.NotZero(t, first.ID)
	assert.Equal(t, "Ravi", first.Name)
	assert.False(t, first.CreatedAt.IsZero())

	again, err := s.GetOrCreateStudent(ctx, "Ravi")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID, "same name should resolve to the same student")

	_, err = s.GetOrCreateStudent(ctx, "")
	assert.Error(t, err)
}

func TestStudentByIDMissing(t *testing.T) {
	s := openStore(t)

	student, err := s.StudentByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, student)
}

func TestInsertAndListAssessments(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	student, err := s.GetOrCreateStudent(ctx, "Meera")
	require.NoError(t, err)

	a1 := addAssessment(t, s, student.ID, 80)
	a2 := addAssessment(t, s, student.ID, 95)
	require.NotZero(t, a1.ID)
	require.NotZero(t, a2.ID)

	list, err := s.AssessmentsByStudent(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a2.ID, list[0].ID, "newest first")
	assert.Equal(t, 95.0, list[0].WCPM)
	assert.Equal(t, "default", list[0].AssessmentType)
	assert.Equal(t, 9, list[0].Hits)
}

func TestAnalytics(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	student, err := s.GetOrCreateStudent(ctx, "Arun")
	require.NoError(t, err)

	// no assessments yet
	a, err := s.Analytics(ctx, student.ID)
	require.NoError(t, err)
	assert.Nil(t, a)

	addAssessment(t, s, student.ID, 60)
	addAssessment(t, s, student.ID, 90)

	a, err = s.Analytics(ctx, student.ID)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "Arun", a.StudentName)
	assert.Equal(t, 2, a.TotalAssessments)
	assert.InDelta(t, 75.0, a.AverageWCPM, 1e-9)
	assert.Equal(t, "up", a.ImprovementTrend)

	addAssessment(t, s, student.ID, 50)
	a, err = s.Analytics(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "down", a.ImprovementTrend)

	// unknown student
	missing, err := s.Analytics(ctx, 12345)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLeaderboard(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	fast, err := s.GetOrCreateStudent(ctx, "Fast Reader")
	require.NoError(t, err)
	slow, err := s.GetOrCreateStudent(ctx, "Slow Reader")
	require.NoError(t, err)
	_, err = s.GetOrCreateStudent(ctx, "No Attempts Yet")
	require.NoError(t, err)

	addAssessment(t, s, fast.ID, 120)
	addAssessment(t, s, fast.ID, 100)
	addAssessment(t, s, slow.ID, 40)

	entries, err := s.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2, "students without assessments stay off the board")

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "Fast Reader", entries[0].StudentName)
	assert.InDelta(t, 110.0, entries[0].AverageWCPM, 1e-9)
	assert.Equal(t, 2, entries[0].TotalAssessments)

	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "Slow Reader", entries[1].StudentName)
}
