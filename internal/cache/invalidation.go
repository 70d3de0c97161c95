package cache

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Mutation is a write whose success makes some cached views stale.
type Mutation interface {
	mutation()
}

type ApplicationCreated struct {
	CandidateID string
	RecruiterID string
	JobID       string
}

type ApplicationStatusChanged struct {
	RecruiterID   string
	CandidateID   string
	ApplicationID string
	JobID         string
}

type JobCreated struct {
	RecruiterID string
}

type ProfileUpdated struct {
	UserID string
}

// InterviewCompleted fires when a report is stored and the application left pending.
type InterviewCompleted struct {
	RecruiterID   string
	CandidateID   string
	ApplicationID string
	JobID         string
}

// InterviewDiscarded fires when a session and any report it had are deleted.
type InterviewDiscarded struct {
	RecruiterID   string
	ApplicationID string
}

// InterviewTurnStored fires when a message is appended to a live session.
type InterviewTurnStored struct {
	RecruiterID   string
	ApplicationID string
}

func (ApplicationCreated) mutation() {}
func (ApplicationStatusChanged) mutation() {}
func (JobCreated) mutation() {}
func (ProfileUpdated) mutation() {}
func (InterviewCompleted) mutation() {}
func (InterviewDiscarded) mutation() {}
func (InterviewTurnStored) mutation() {}

// Keys is the invalidation graph: the full set of keys m can make stale.
func Keys(m Mutation) []Key {
	switch m := m.(type) {
	case ApplicationCreated:
		return []Key{
			JobDetail(m.CandidateID, m.JobID),
			JobApplications(m.RecruiterID, m.JobID),
			AppliedJobs(m.CandidateID),
			RecruiterDashboard(m.RecruiterID),
		}
	case ApplicationStatusChanged:
		return []Key{
			RecruiterShortlisted(m.RecruiterID),
			Report(m.RecruiterID, m.ApplicationID),
			JobApplications(m.RecruiterID, m.JobID),
			AppliedJobs(m.CandidateID),
			RecruiterDashboard(m.RecruiterID),
		}
	case JobCreated:
		return []Key{RecruiterDashboard(m.RecruiterID)}
	case ProfileUpdated:
		return []Key{Profile(m.UserID)}
	case InterviewCompleted:
		return []Key{
			Report(m.RecruiterID, m.ApplicationID),
			JobApplications(m.RecruiterID, m.JobID),
			AppliedJobs(m.CandidateID),
			RecruiterDashboard(m.RecruiterID),
		}
	case InterviewDiscarded:
		return []Key{Report(m.RecruiterID, m.ApplicationID)}
	case InterviewTurnStored:
		return []Key{Report(m.RecruiterID, m.ApplicationID)}
	default:
		return nil
	}
}

// Invalidate deletes every key m makes stale. Call it after the write commits and
// before reporting success. A failed delete is logged, never returned: the write
// already happened and the TTL bounds the staleness.
func Invalidate(ctx context.Context, c Cache, log logrus.FieldLogger, m Mutation) {
	if c == nil {
		return
	}
	keys := Keys(m)
	if len(keys) == 0 {
		return
	}
	raw := make([]string, 0, len(keys))
	for _, k := range keys {
		raw = append(raw, k.String())
	}
	if err := c.Del(ctx, raw...); err != nil && log != nil {
		log.WithError(err).WithField("cache_keys", raw).Error("cache invalidation failed")
	}
}
