package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/hirescreen/internal/models"
	mongorepo "github.com/yoockh/hirescreen/internal/repositories/mongo"
	"github.com/yoockh/hirescreen/internal/utils"
)

// nextTimestamp returns now, or prev+1µs when the clock has not moved past prev,
// so messages of one session always sort strictly by timestamp.
func nextTimestamp(prev time.Time) time.Time {
	now := time.Now().UTC().Truncate(time.Microsecond)
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}

func lastTimestamp(msgs []models.ChatMessage) time.Time {
	if len(msgs) == 0 {
		return time.Time{}
	}
	return msgs[len(msgs)-1].Timestamp
}

// repoErr maps a repository error to NotFound or Internal.
func repoErr(op, notFoundMsg, failMsg string, err error) error {
	if errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeNotFound, op, notFoundMsg, err)
	}
	return utils.E(utils.CodeInternal, op, failMsg, err)
}

// archiveTranscript copies sess to the document store. Failures are logged only.
func archiveTranscript(ctx context.Context, repo mongorepo.TranscriptRepository, log logrus.FieldLogger, sess *models.InterviewSession, reason models.ArchiveReason, rep *models.Report) {
	if repo == nil || sess == nil {
		return
	}
	if err := repo.Archive(ctx, models.NewTranscriptArchive(sess, reason, rep)); err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"interview_id": sess.ID,
			"reason":       reason,
		}).Warn("transcript archive failed")
	}
}
