package orf

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kanishk-pant/orf-english/internal/align"
	"github.com/kanishk-pant/orf-english/internal/assess"
	"github.com/kanishk-pant/orf-english/internal/audio"
	"github.com/kanishk-pant/orf-english/internal/store"
	"github.com/kanishk-pant/orf-english/internal/util"
)

// DefaultPassage is the built-in passage used for the standard
// assessment.
const DefaultPassage = `With AI in the picture, developers are already struggling for jobs. Graduates fresh out of college are finding it harder to land a tech job and are actively upskilling themselves for the right roles. But this is just one side of the coin. In India's $250 billion tech industry built with AI, experience is no longer a strength either.`

//
// request/response payloads for the assessment api
//
type createStudentRequest struct {
	Name string `json:"name" form:"name" query:"name"`
}

type detailedErrors struct {
	Substitutions []align.WordPair `json:"substitutions"`
	Insertions    []string         `json:"insertions"`
	Deletions     []string         `json:"deletions"`
}

type assessmentResponse struct {
	AssessmentID    int64          `json:"assessment_id"`
	StudentName     string         `json:"student_name"`
	Transcript      string         `json:"transcript"`
	TargetText      string         `json:"target_text"`
	Metrics         assess.Metrics `json:"metrics"`
	DetailedErrors  detailedErrors `json:"detailed_errors"`
	AssessmentType  string         `json:"assessment_type"`
	DurationSeconds float64        `json:"duration_seconds"`
	CreatedAt       time.Time      `json:"created_at"`
}

//
// create a new student, or return the existing
// student of the same name
//
func (s *Service) buildCreateStudentHandler() echo.HandlerFunc {

	return func(c echo.Context) error {
		req := &createStudentRequest{}
		if err := c.Bind(req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err)
		}
		if req.Name == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "must supply a value for name")
		}

		student, err := s.store.GetOrCreateStudent(c.Request().Context(), req.Name)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, student)
	}
}

func (s *Service) buildGetStudentHandler() echo.HandlerFunc {

	return func(c echo.Context) error {
		student, err := s.lookupStudent(c)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, student)
	}
}

func (s *Service) buildDefaultParagraphHandler() echo.HandlerFunc {

	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"text": DefaultPassage})
	}
}

//
// creates the main assessment method
// requires a multipart form with:
// student_name: the reader being assessed
// duration_seconds: length of the reading attempt
// audio_file: the recording of the attempt
// target_text: passage that was read (custom assessments only)
//
func (s *Service) buildAssessHandler(assessmentType string) echo.HandlerFunc {

	return func(c echo.Context) error {
		defer util.TimeTrack(time.Now(), assessmentType+" assessment")

		studentName := c.FormValue("student_name")
		if studentName == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "must supply a value for student_name")
		}

		duration, err := strconv.ParseFloat(c.FormValue("duration_seconds"), 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "duration_seconds must be a number")
		}

		targetText := DefaultPassage
		if assessmentType == "custom" {
			targetText = c.FormValue("target_text")
		}

		fh, err := c.FormFile("audio_file")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "must supply an audio_file")
		}
		audioPath, err := s.saveRecording(fh)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		// report every input problem at once, audio first
		if verr := assess.Validate(targetText, audio.Inspect(audioPath)); verr != nil {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"error":   "Validation failed",
				"details": verr.Problems,
			})
		}

		// transcription failure is fatal for the attempt, no
		// partial or degraded result is produced
		transcript, err := s.transcriber.Transcribe(c.Request().Context(), audioPath)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError,
				fmt.Sprintf("Assessment processing failed: %s", err))
		}

		result, err := assess.Assess(assess.Input{
			TargetText:      targetText,
			Transcript:      transcript,
			DurationSeconds: duration,
		})
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError,
				fmt.Sprintf("Assessment processing failed: %s", err))
		}

		ctx := c.Request().Context()
		student, err := s.store.GetOrCreateStudent(ctx, studentName)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		row := &store.Assessment{
			StudentID:          student.ID,
			TargetText:         targetText,
			Transcript:         result.Transcript,
			AudioFilePath:      audioPath,
			WCPM:               result.Metrics.WCPM,
			Hits:               result.Metrics.Hits,
			Substitutions:      result.Metrics.Substitutions,
			Insertions:         result.Metrics.Insertions,
			Deletions:          result.Metrics.Deletions,
			AccuracyPercentage: result.Metrics.AccuracyPercentage,
			AssessmentType:     assessmentType,
			DurationSeconds:    duration,
		}
		if err := s.store.InsertAssessment(ctx, row); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		return c.JSON(http.StatusOK, assessmentResponse{
			AssessmentID:   row.ID,
			StudentName:    student.Name,
			Transcript:     result.Transcript,
			TargetText:     targetText,
			Metrics:        result.Metrics,
			DetailedErrors: detailedErrors{
				Substitutions: result.Errors.Substitutions,
				Insertions:    result.Errors.Insertions,
				Deletions:     result.Errors.Deletions,
			},
			AssessmentType:  assessmentType,
			DurationSeconds: duration,
			CreatedAt:       row.CreatedAt,
		})
	}
}

//
// all assessments for a student, newest first. detailed errors
// are not stored, so the list view carries the counts only.
//
func (s *Service) buildListAssessmentsHandler() echo.HandlerFunc {

	return func(c echo.Context) error {
		student, err := s.lookupStudent(c)
		if err != nil {
			return err
		}

		assessments, err := s.store.AssessmentsByStudent(c.Request().Context(), student.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		responses := make([]assessmentResponse, 0, len(assessments))
		for _, a := range assessments {
			responses = append(responses, assessmentResponse{
				AssessmentID: a.ID,
				StudentName:  student.Name,
				Transcript:   a.Transcript,
				TargetText:   a.TargetText,
				Metrics: assess.Metrics{
					WCPM:               a.WCPM,
					Hits:               a.Hits,
					Substitutions:      a.Substitutions,
					Insertions:         a.Insertions,
					Deletions:          a.Deletions,
					Accuracy:           a.AccuracyPercentage / 100,
					AccuracyPercentage: a.AccuracyPercentage,
					WER:                1 - a.AccuracyPercentage/100,
				},
				DetailedErrors:  detailedErrors{},
				AssessmentType:  a.AssessmentType,
				DurationSeconds: a.DurationSeconds,
				CreatedAt:       a.CreatedAt,
			})
		}
		return c.JSON(http.StatusOK, responses)
	}
}

func (s *Service) buildAnalyticsHandler() echo.HandlerFunc {

	return func(c echo.Context) error {
		student, err := s.lookupStudent(c)
		if err != nil {
			return err
		}

		analytics, err := s.store.Analytics(c.Request().Context(), student.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if analytics == nil {
			return echo.NewHTTPError(http.StatusNotFound, "No assessments found for student")
		}
		return c.JSON(http.StatusOK, analytics)
	}
}

func (s *Service) buildLeaderboardHandler() echo.HandlerFunc {

	return func(c echo.Context) error {
		entries, err := s.store.Leaderboard(c.Request().Context())
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if entries == nil {
			entries = []store.LeaderboardEntry{}
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"entries":        entries,
			"total_students": len(entries),
		})
	}
}

//
// resolve the :id path param to a known student or fail
// with the appropriate http error
//
func (s *Service) lookupStudent(c echo.Context) (*store.Student, error) {

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "student id must be numeric")
	}
	student, err := s.store.StudentByID(c.Request().Context(), id)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if student == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Student not found")
	}
	return student, nil
}

//
// persist an uploaded recording under the service upload dir
// with a fresh unique name
//
func (s *Service) saveRecording(fh *multipart.FileHeader) (string, error) {

	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "cannot open uploaded recording")
	}
	defer src.Close()

	path := filepath.Join(s.uploadDir, uuid.New().String()+".wav")
	dst, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "cannot store uploaded recording")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", errors.Wrap(err, "cannot write uploaded recording")
	}

	return path, nil
}
