package seed

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/campusmetrics/ploboard/internal/app/models"
	appRepos "github.com/campusmetrics/ploboard/internal/app/repositories"
	"github.com/campusmetrics/ploboard/internal/pkg/apperrors"
	"github.com/campusmetrics/ploboard/internal/pkg/auth"
)

// CreateDefaultData creates the default users and a demo program with
// outcomes, terms and section snapshots, so a fresh install renders a
// non-empty dashboard. Existing rows are left alone.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	repos := appRepos.NewRepositories(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	// --- Default Users --- //
	if err := ensureUser(ctx, repos.UserRepository, "staff@ploboard.app", "Assessment Staff", appModels.RoleStaff, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}
	if err := ensureUser(ctx, repos.UserRepository, "viewer@ploboard.app", "Dashboard Viewer", appModels.RoleViewer, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	// --- Demo Program --- //
	program := &appModels.Program{Code: "SE", Name: "Software Engineering"}
	err := repos.ProgramRepository.Create(ctx, program)
	if err != nil {
		if errors.Is(err, apperrors.ErrProgramAlreadyExists) {
			// Demo data was seeded before; nothing more to do.
			return finalErr
		}
		lgr.Error().Err(err).Msg("Error creating demo program")
		return errors.Join(finalErr, err)
	}

	// Program outcomes
	ploDescriptions := []string{
		"Apply engineering knowledge to solve complex software problems",
		"Design, implement and evaluate software systems",
		"Communicate effectively in team-based development",
	}
	for i, desc := range ploDescriptions {
		plo := &appModels.ProgramOutcome{ProgramID: program.ID, Number: i + 1, Description: desc}
		if err := repos.OutcomeRepository.CreateProgramOutcome(ctx, plo); err != nil {
			lgr.Error().Err(err).Int("number", i+1).Msg("Error creating demo program outcome")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// Terms
	fallStart := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	springStart := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	fall := seedTerm("202510", "Fall 2025", fallStart, true)
	spring := seedTerm("202420", "Spring 2025", springStart, false)
	for _, term := range []*appModels.Term{fall, spring} {
		if err := repos.TermRepository.Upsert(ctx, term); err != nil {
			lgr.Error().Err(err).Str("term", term.SISTermID).Msg("Error creating demo term")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// Courses with outcomes and section snapshots
	courses := []struct {
		number string
		title  string
		clos   []string
	}{
		{"SE 301", "Software Design", []string{
			"Produce a modular design from requirements",
			"Evaluate design trade-offs",
		}},
		{"SE 401", "Software Quality Assurance", []string{
			"Construct a test plan for a given system",
		}},
	}

	instructor := "R. Alvarez"
	tool := "Final project rubric"
	sectionCounts := [][2]int{{30, 27}, {20, 13}}

	for _, c := range courses {
		course := &appModels.Course{ProgramID: program.ID, Number: c.number, Title: c.title}
		if err := repos.CourseRepository.Create(ctx, course); err != nil {
			lgr.Error().Err(err).Str("course", c.number).Msg("Error creating demo course")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		for i, desc := range c.clos {
			clo := &appModels.CourseOutcome{CourseID: course.ID, Number: i + 1, Description: desc}
			if err := repos.CourseRepository.CreateOutcome(ctx, clo); err != nil {
				lgr.Error().Err(err).Str("course", c.number).Int("number", i+1).Msg("Error creating demo course outcome")
				finalErr = errors.Join(finalErr, err)
				continue
			}

			for j, counts := range sectionCounts {
				sa := &appModels.SectionAssessment{
					CourseOutcomeID:  clo.ID,
					TermID:           fall.ID,
					SectionLabel:     string(rune('A' + j)),
					InstructorName:   &instructor,
					AssessmentTool:   &tool,
					StudentsAssessed: counts[0],
					StudentsPassed:   counts[1],
				}
				if err := repos.AssessmentRepository.Create(ctx, sa); err != nil {
					lgr.Error().Err(err).Msg("Error creating demo section assessment")
					finalErr = errors.Join(finalErr, err)
				}
			}
		}
	}

	lgr.Info().Int64("programId", program.ID).Msg("Demo data created")
	return finalErr
}

// ensureUser creates a user with the default password unless the email is
// already taken
func ensureUser(ctx context.Context, users *appRepos.UserRepository, email, fullName string, role appModels.RoleType, lgr zerolog.Logger) error {
	_, err := users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		lgr.Error().Err(err).Str("email", email).Msg("Error checking for default user")
		return err
	}

	hashed, err := auth.HashPassword("ChangeMe123!")
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing default password")
		return err
	}

	user := &appModels.User{
		Email:    email,
		Password: hashed,
		FullName: fullName,
		RoleType: role,
		IsActive: true,
	}
	if err := users.Create(ctx, user); err != nil {
		lgr.Error().Err(err).Str("email", email).Msg("Error creating default user")
		return err
	}

	lgr.Info().Str("email", email).Str("role", string(role)).Msg("Default user created")
	return nil
}

// seedTerm builds a term row the way the SIS import would: the original
// record is kept in Raw.
func seedTerm(sisID, name string, start time.Time, active bool) *appModels.Term {
	raw, _ := json.Marshal(map[string]any{
		"term_id":    sisID,
		"term_name":  name,
		"start_date": start.Format(time.DateOnly),
		"is_active":  active,
	})
	return &appModels.Term{
		SISTermID: sisID,
		Name:      name,
		StartDate: &start,
		IsActive:  active,
		Raw:       raw,
	}
}
