package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/hirescreen/internal/cache"
	"github.com/yoockh/hirescreen/internal/llmjson"
	"github.com/yoockh/hirescreen/internal/logger"
	"github.com/yoockh/hirescreen/internal/models"
	"github.com/yoockh/hirescreen/internal/providers/llm"
	mongorepo "github.com/yoockh/hirescreen/internal/repositories/mongo"
	pgrepo "github.com/yoockh/hirescreen/internal/repositories/postgres"
	"github.com/yoockh/hirescreen/internal/utils"
)

// ReportView is what a recruiter sees for one application.
type ReportView struct {
	ApplicationID string                   `json:"application_id"`
	Status        models.ApplicationStatus `json:"status"`
	Report        *models.Report           `json:"report"`
	Interview     *models.InterviewSession `json:"interview"`
	Candidate     *models.Profile          `json:"candidate"`
	Job           PublicJob                `json:"job"`
}

type ReportService interface {
	// Generate scores a finished interview. It is safe to call again after a
	// failure and never stores more than one report per interview.
	Generate(ctx context.Context, actorID, interviewID string) (*models.Report, error)
	GetByApplication(ctx context.Context, recruiterID, applicationID string) (*ReportView, error)
}

type ReportDeps struct {
	Applications pgrepo.ApplicationRepository
	Interviews   pgrepo.InterviewRepository
	Profiles     pgrepo.ProfileRepository
	LLM          llm.Completer
	Archive      mongorepo.TranscriptRepository // optional
	Cache        cache.Cache
	Log          logrus.FieldLogger
}

type reportService struct {
	apps       pgrepo.ApplicationRepository
	interviews pgrepo.InterviewRepository
	profiles   pgrepo.ProfileRepository
	llm        llm.Completer
	archive    mongorepo.TranscriptRepository
	cache      cache.Cache
	log        logrus.FieldLogger
}

func NewReportService(d ReportDeps) ReportService {
	log := d.Log
	if log == nil {
		log = logger.Discard()
	}
	return &reportService{
		apps:       d.Applications,
		interviews: d.Interviews,
		profiles:   d.Profiles,
		llm:        d.LLM,
		archive:    d.Archive,
		cache:      d.Cache,
		log:        log,
	}
}

func (s *reportService) Generate(ctx context.Context, actorID, interviewID string) (*models.Report, error) {
	const op = "ReportService.Generate"

	if interviewID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "interview_id is required", nil)
	}

	sess, err := s.interviews.GetWithMessages(ctx, interviewID)
	if err != nil {
		return nil, repoErr(op, "interview not found", "failed to get interview", err)
	}
	app, err := s.apps.GetByID(ctx, sess.ApplicationID)
	if err != nil {
		return nil, repoErr(op, "application not found", "failed to get application", err)
	}
	if app.CandidateID != actorID && (app.Job == nil || app.Job.RecruiterID != actorID) {
		return nil, utils.E(utils.CodeForbidden, op, "forbidden", nil)
	}
	if len(sess.Messages) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "interview has no messages", nil)
	}

	if sess.State() == models.InterviewCompleted {
		rep, err := s.interviews.GetReport(ctx, sess.ID)
		if err == nil {
			return rep, nil
		}
		if !errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeInternal, op, "failed to get report", err)
		}
	}

	log := s.log.WithFields(logrus.Fields{"op": op, "interview_id": sess.ID, "application_id": app.ID})

	// status moves before the model is asked; a failed parse leaves it interviewed
	if err := s.apps.MarkInterviewed(ctx, app.ID); err != nil {
		return nil, repoErr(op, "application not found", "failed to update application", err)
	}
	s.invalidate(ctx, app)

	prompt := BuildReportPrompt(FormatTranscript(sess.Messages))
	raw, err := s.llm.Complete(ctx, []llm.Message{{Role: llm.RoleSystem, Content: prompt}})
	if err != nil {
		log.WithError(err).Error("completion failed")
		return nil, utils.E(utils.CodeUnavailable, op, "AI service unavailable", err)
	}
	ev, err := llmjson.ParseEvaluation(raw)
	if err != nil {
		log.WithError(err).WithField("raw", logger.Truncate(raw, 200)).Warn("unparseable evaluation")
		return nil, utils.E(utils.CodeAIResponse, op, "failed to parse AI report response", err)
	}

	now := time.Now().UTC()
	stored, created, err := s.interviews.CompleteWithReport(ctx, sess.ID, &models.Report{
		ID:        uuid.NewString(),
		Score:     ev.Score,
		Summary:   ev.Summary,
		CreatedAt: now,
	}, now)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store report", err)
	}
	s.invalidate(ctx, app)

	if created {
		sess.CompletedAt = &now
		archiveTranscript(ctx, s.archive, s.log, sess, models.ArchiveCompleted, stored)
		log.WithField("score", stored.Score).Info("report generated")
	}
	return stored, nil
}

func (s *reportService) invalidate(ctx context.Context, app *models.Application) {
	if app.Job == nil {
		return
	}
	cache.Invalidate(ctx, s.cache, s.log, cache.InterviewCompleted{
		RecruiterID:   app.Job.RecruiterID,
		CandidateID:   app.CandidateID,
		ApplicationID: app.ID,
		JobID:         app.JobID,
	})
}

func (s *reportService) GetByApplication(ctx context.Context, recruiterID, applicationID string) (*ReportView, error) {
	const op = "ReportService.GetByApplication"

	if applicationID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "application_id is required", nil)
	}

	return cache.ReadThrough(ctx, s.cache, s.log, cache.Report(recruiterID, applicationID), func(ctx context.Context) (*ReportView, error) {
		app, err := s.apps.GetByID(ctx, applicationID)
		if err != nil {
			return nil, repoErr(op, "application not found", "failed to get application", err)
		}
		if app.Job == nil || app.Job.RecruiterID != recruiterID {
			return nil, utils.E(utils.CodeForbidden, op, "not your job", nil)
		}

		head, err := s.interviews.GetByApplication(ctx, app.ID)
		if err != nil {
			return nil, repoErr(op, "interview not found", "failed to get interview", err)
		}
		sess, err := s.interviews.GetWithMessages(ctx, head.ID)
		if err != nil {
			return nil, repoErr(op, "interview not found", "failed to get interview", err)
		}

		view := &ReportView{
			ApplicationID: app.ID,
			Status:        app.Status,
			Interview:     sess,
			Job:           publicJob(app.Job),
		}
		if rep, err := s.interviews.GetReport(ctx, sess.ID); err == nil {
			view.Report = rep
		} else if !errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeInternal, op, "failed to get report", err)
		}
		if p, err := s.profiles.GetByUserID(ctx, app.CandidateID); err == nil {
			view.Candidate = p
		} else if !errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeInternal, op, "failed to get candidate profile", err)
		}
		return view, nil
	})
}
