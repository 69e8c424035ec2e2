package store

import "time"

// Student is one reader tracked across assessments.
type Student struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Assessment is one stored scoring run for a student.
type Assessment struct {
	ID                 int64     `json:"id"`
	StudentID          int64     `json:"student_id"`
	TargetText         string    `json:"target_text"`
	Transcript         string    `json:"transcript"`
	AudioFilePath      string    `json:"audio_file_path,omitempty"`
	WCPM               float64   `json:"wcpm"`
	Hits               int       `json:"hits"`
	Substitutions      int       `json:"substitutions"`
	Insertions         int       `json:"insertions"`
	Deletions          int       `json:"deletions"`
	AccuracyPercentage float64   `json:"accuracy_percentage"`
	AssessmentType     string    `json:"assessment_type"`
	DurationSeconds    float64   `json:"duration_seconds"`
	CreatedAt          time.Time `json:"created_at"`
}

// Analytics summarises a student's reading history.
type Analytics struct {
	StudentID        int64   `json:"student_id"`
	StudentName      string  `json:"student_name"`
	AverageWCPM      float64 `json:"average_wcpm"`
	TotalAssessments int     `json:"total_assessments"`
	// "up", "down" or "stable", from the two most recent attempts
	ImprovementTrend string `json:"improvement_trend"`
}

// LeaderboardEntry ranks one student by average WCPM.
type LeaderboardEntry struct {
	Rank             int     `json:"rank"`
	StudentName      string  `json:"student_name"`
	AverageWCPM      float64 `json:"average_wcpm"`
	TotalAssessments int     `json:"total_assessments"`
}
