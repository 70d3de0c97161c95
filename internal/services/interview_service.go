package services

import (
	"context"
	"errors"
	"strings"
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

type StartResult struct {
	Message    *models.ChatMessage      `json:"message"`
	Interview  *models.InterviewSession `json:"interview"`
	JobTitle   string                   `json:"job_title"`
	IsFinished bool                     `json:"is_finished"`
}

type ChatResult struct {
	Message    *models.ChatMessage `json:"message"`
	IsFinished bool                `json:"is_finished"`
}

type InterviewService interface {
	// Start opens a fresh session for a pending application, discarding any
	// previous one, and returns the interviewer's opening message.
	Start(ctx context.Context, candidateID, applicationID string) (*StartResult, error)
	SendMessage(ctx context.Context, candidateID, interviewID, text string) (*ChatResult, error)
	Get(ctx context.Context, actorID, interviewID string) (*models.InterviewSession, error)
	Delete(ctx context.Context, actorID, interviewID string) error
}

type InterviewDeps struct {
	Applications pgrepo.ApplicationRepository
	Interviews   pgrepo.InterviewRepository
	Profiles     pgrepo.ProfileRepository
	Users        pgrepo.UserRepository
	LLM          llm.Completer
	Archive      mongorepo.TranscriptRepository // optional
	Cache        cache.Cache
	Log          logrus.FieldLogger
}

type interviewService struct {
	apps       pgrepo.ApplicationRepository
	interviews pgrepo.InterviewRepository
	profiles   pgrepo.ProfileRepository
	users      pgrepo.UserRepository
	llm        llm.Completer
	archive    mongorepo.TranscriptRepository
	cache      cache.Cache
	log        logrus.FieldLogger
}

func NewInterviewService(d InterviewDeps) InterviewService {
	log := d.Log
	if log == nil {
		log = logger.Discard()
	}
	return &interviewService{
		apps:       d.Applications,
		interviews: d.Interviews,
		profiles:   d.Profiles,
		users:      d.Users,
		llm:        d.LLM,
		archive:    d.Archive,
		cache:      d.Cache,
		log:        log,
	}
}

func (s *interviewService) Start(ctx context.Context, candidateID, applicationID string) (*StartResult, error) {
	const op = "InterviewService.Start"

	if applicationID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "application_id is required", nil)
	}

	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, repoErr(op, "application not found", "failed to get application", err)
	}
	if app.CandidateID != candidateID {
		return nil, utils.E(utils.CodeForbidden, op, "not your application", nil)
	}
	if app.Status != models.StatusPending {
		return nil, utils.E(utils.CodeConflict, op, "already interviewed", nil)
	}
	if app.Job == nil {
		return nil, utils.E(utils.CodeInternal, op, "application has no job", nil)
	}

	existing, err := s.interviews.GetByApplication(ctx, app.ID)
	switch {
	case err == nil:
		if err := s.discard(ctx, existing.ID, models.ArchiveRestarted); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to reset previous interview", err)
		}
		cache.Invalidate(ctx, s.cache, s.log, cache.InterviewDiscarded{
			RecruiterID:   app.Job.RecruiterID,
			ApplicationID: app.ID,
		})
	case errors.Is(err, utils.ErrNotFound):
	default:
		return nil, utils.E(utils.CodeInternal, op, "failed to look up interview", err)
	}

	prompt := BuildInterviewPrompt(app.Job, s.recruiter(ctx, app.Job.RecruiterID))
	sess := &models.InterviewSession{
		ID:            uuid.NewString(),
		ApplicationID: app.ID,
		SystemPrompt:  prompt,
		StartedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := s.interviews.Create(ctx, sess); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.E(utils.CodeConflict, op, "interview already started", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create interview", err)
	}

	log := s.log.WithFields(logrus.Fields{"op": op, "interview_id": sess.ID, "application_id": app.ID})

	raw, err := s.llm.Complete(ctx, []llm.Message{{Role: llm.RoleSystem, Content: prompt}})
	if err != nil {
		log.WithError(err).Error("completion failed")
		return nil, utils.E(utils.CodeUnavailable, op, "AI service unavailable", err)
	}
	turn, err := llmjson.ParseChatTurn(raw)
	if err != nil {
		log.WithError(err).WithField("raw", logger.Truncate(raw, 200)).Warn("unparseable opening turn")
		return nil, utils.E(utils.CodeAIResponse, op, "failed to parse AI response", err)
	}

	// the opening turn never finishes the interview, whatever the model says
	msg := &models.ChatMessage{
		ID:          uuid.NewString(),
		InterviewID: sess.ID,
		Sender:      models.SenderAI,
		Message:     turn.Message,
		Timestamp:   nextTimestamp(sess.StartedAt),
	}
	if err := s.interviews.AppendMessage(ctx, msg); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store message", err)
	}
	s.turnStored(ctx, app)

	log.Info("interview started")
	return &StartResult{
		Message:    msg,
		Interview:  sess,
		JobTitle:   app.Job.Title,
		IsFinished: false,
	}, nil
}

func (s *interviewService) SendMessage(ctx context.Context, candidateID, interviewID, text string) (*ChatResult, error) {
	const op = "InterviewService.SendMessage"

	text = strings.TrimSpace(text)
	if interviewID == "" || text == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "interview_id and message are required", nil)
	}

	sess, err := s.interviews.GetWithMessages(ctx, interviewID)
	if err != nil {
		return nil, repoErr(op, "interview not found", "failed to get interview", err)
	}
	app, err := s.apps.GetByID(ctx, sess.ApplicationID)
	if err != nil {
		return nil, repoErr(op, "application not found", "failed to get application", err)
	}
	if app.CandidateID != candidateID {
		return nil, utils.E(utils.CodeForbidden, op, "not your interview", nil)
	}
	if sess.State() == models.InterviewCompleted {
		return nil, utils.E(utils.CodeConflict, op, "interview already completed", nil)
	}

	history := sess.Messages
	// a previous attempt may have stored this exact answer before the model failed
	if n := len(history); n == 0 || history[n-1].Sender != models.SenderCandidate || history[n-1].Message != text {
		cand := models.ChatMessage{
			ID:          uuid.NewString(),
			InterviewID: sess.ID,
			Sender:      models.SenderCandidate,
			Message:     text,
			Timestamp:   nextTimestamp(lastTimestamp(history)),
		}
		if err := s.interviews.AppendMessage(ctx, &cand); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to store message", err)
		}
		history = append(history, cand)
		// the candidate message stays even if the completion below fails
		s.turnStored(ctx, app)
	}

	log := s.log.WithFields(logrus.Fields{"op": op, "interview_id": sess.ID, "turns": len(history)})

	raw, err := s.llm.Complete(ctx, chatHistory(sess.SystemPrompt, history))
	if err != nil {
		log.WithError(err).Error("completion failed")
		return nil, utils.E(utils.CodeUnavailable, op, "AI service unavailable", err)
	}
	turn, err := llmjson.ParseChatTurn(raw)
	if err != nil {
		log.WithError(err).WithField("raw", logger.Truncate(raw, 200)).Warn("unparseable chat turn")
		return nil, utils.E(utils.CodeAIResponse, op, "failed to parse AI response", err)
	}

	reply := &models.ChatMessage{
		ID:          uuid.NewString(),
		InterviewID: sess.ID,
		Sender:      models.SenderAI,
		Message:     turn.Message,
		Timestamp:   nextTimestamp(lastTimestamp(history)),
	}
	if err := s.interviews.AppendMessage(ctx, reply); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store message", err)
	}
	s.turnStored(ctx, app)

	if turn.IsFinished {
		log.Info("interviewer finished")
	}
	return &ChatResult{Message: reply, IsFinished: turn.IsFinished}, nil
}

func (s *interviewService) Get(ctx context.Context, actorID, interviewID string) (*models.InterviewSession, error) {
	const op = "InterviewService.Get"

	if interviewID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "interview_id is required", nil)
	}
	sess, err := s.interviews.GetWithMessages(ctx, interviewID)
	if err != nil {
		return nil, repoErr(op, "interview not found", "failed to get interview", err)
	}
	if _, err := s.authorize(ctx, op, actorID, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *interviewService) Delete(ctx context.Context, actorID, interviewID string) error {
	const op = "InterviewService.Delete"

	if interviewID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "interview_id is required", nil)
	}
	sess, err := s.interviews.GetByID(ctx, interviewID)
	if err != nil {
		return repoErr(op, "interview not found", "failed to get interview", err)
	}
	app, err := s.authorize(ctx, op, actorID, sess)
	if err != nil {
		return err
	}

	if err := s.discard(ctx, sess.ID, models.ArchiveDeleted); err != nil {
		return repoErr(op, "interview not found", "failed to delete interview", err)
	}
	if app.Job != nil {
		cache.Invalidate(ctx, s.cache, s.log, cache.InterviewDiscarded{
			RecruiterID:   app.Job.RecruiterID,
			ApplicationID: app.ID,
		})
	}
	return nil
}

// discard archives the session with its messages and report, then deletes all three.
func (s *interviewService) discard(ctx context.Context, interviewID string, reason models.ArchiveReason) error {
	if s.archive != nil {
		if full, err := s.interviews.GetWithMessages(ctx, interviewID); err == nil {
			rep, _ := s.interviews.GetReport(ctx, interviewID)
			archiveTranscript(ctx, s.archive, s.log, full, reason, rep)
		}
	}
	return s.interviews.Delete(ctx, interviewID)
}

// turnStored drops the recruiter's cached report view, which embeds the transcript.
func (s *interviewService) turnStored(ctx context.Context, app *models.Application) {
	if app.Job == nil {
		return
	}
	cache.Invalidate(ctx, s.cache, s.log, cache.InterviewTurnStored{
		RecruiterID:   app.Job.RecruiterID,
		ApplicationID: app.ID,
	})
}

// authorize lets the candidate who applied and the recruiter who owns the job through.
func (s *interviewService) authorize(ctx context.Context, op, actorID string, sess *models.InterviewSession) (*models.Application, error) {
	app, err := s.apps.GetByID(ctx, sess.ApplicationID)
	if err != nil {
		return nil, repoErr(op, "application not found", "failed to get application", err)
	}
	if app.CandidateID == actorID {
		return app, nil
	}
	if app.Job != nil && app.Job.RecruiterID == actorID {
		return app, nil
	}
	return nil, utils.E(utils.CodeForbidden, op, "forbidden", nil)
}

func (s *interviewService) recruiter(ctx context.Context, recruiterID string) Recruiter {
	var r Recruiter
	if p, err := s.profiles.GetByUserID(ctx, recruiterID); err == nil {
		r = Recruiter{Name: p.FullName, Company: p.CompanyName, Position: p.Position}
	} else if !errors.Is(err, utils.ErrNotFound) {
		s.log.WithError(err).WithField("recruiter_id", recruiterID).Warn("recruiter profile lookup failed")
	}
	if r.Name == "" && s.users != nil {
		if u, err := s.users.GetByID(ctx, recruiterID); err == nil {
			r.Name = u.FullName
			if r.Name == "" {
				r.Name = u.Email
			}
		}
	}
	return r
}

// chatHistory frames the stored turns between the session's system prompt and
// the JSON reinforcement.
func chatHistory(systemPrompt string, msgs []models.ChatMessage) []llm.Message {
	out := make([]llm.Message, 0, len(msgs)+2)
	out = append(out, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	for _, m := range msgs {
		var role llm.Role
		switch m.Sender {
		case models.SenderAI:
			role = llm.RoleAssistant
		case models.SenderCandidate:
			role = llm.RoleUser
		default:
			continue
		}
		out = append(out, llm.Message{Role: role, Content: m.Message})
	}
	return append(out, llm.Message{Role: llm.RoleSystem, Content: ReinforcementInstruction})
}
