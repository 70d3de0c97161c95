package cache

import (
	"strings"
	"time"
)

// Kind names a cached resource. Every Kind must be handled in segment and TTL.
type Kind int

const (
	KindJobDetail Kind = iota + 1
	KindJobApplications
	KindAppliedJobs
	KindRecruiterDashboard
	KindRecruiterShortlisted
	KindReport
	KindProfile
)

func (k Kind) segment() string {
	switch k {
	case KindJobDetail:
		return "job"
	case KindJobApplications:
		return "job:applications"
	case KindAppliedJobs:
		return "candidate:applied-jobs"
	case KindRecruiterDashboard:
		return "recruiter:dashboard"
	case KindRecruiterShortlisted:
		return "recruiter:shortlisted"
	case KindReport:
		return "report"
	case KindProfile:
		return "profile"
	default:
		return "unknown"
	}
}

func (k Kind) TTL() time.Duration {
	switch k {
	case KindJobDetail:
		return 10 * time.Minute
	case KindJobApplications:
		return 5 * time.Minute
	case KindAppliedJobs, KindRecruiterDashboard, KindRecruiterShortlisted:
		return 15 * time.Minute
	case KindReport:
		return 30 * time.Minute
	case KindProfile:
		return DefaultTTL
	default:
		return DefaultTTL
	}
}

func (k Kind) String() string { return k.segment() }

// Key identifies one cached view. Viewer is the user whose view is cached and is
// always part of the key, so user-scoped views never leak across users.
type Key struct {
	Viewer string
	Kind   Kind
	ID     string
	Sub    string
}

// String renders user:<viewer>:<kind>:<id>[:<sub>].
func (k Key) String() string {
	var b strings.Builder
	b.WriteString("user:")
	b.WriteString(k.Viewer)
	b.WriteByte(':')
	b.WriteString(k.Kind.segment())
	b.WriteByte(':')
	b.WriteString(k.ID)
	if k.Sub != "" {
		b.WriteByte(':')
		b.WriteString(k.Sub)
	}
	return b.String()
}

func (k Key) TTL() time.Duration { return k.Kind.TTL() }

func JobDetail(viewerID, jobID string) Key {
	return Key{Viewer: viewerID, Kind: KindJobDetail, ID: jobID}
}

func JobApplications(recruiterID, jobID string) Key {
	return Key{Viewer: recruiterID, Kind: KindJobApplications, ID: jobID}
}

func AppliedJobs(candidateID string) Key {
	return Key{Viewer: candidateID, Kind: KindAppliedJobs, ID: candidateID}
}

func RecruiterDashboard(recruiterID string) Key {
	return Key{Viewer: recruiterID, Kind: KindRecruiterDashboard, ID: recruiterID}
}

func RecruiterShortlisted(recruiterID string) Key {
	return Key{Viewer: recruiterID, Kind: KindRecruiterShortlisted, ID: recruiterID}
}

func Report(recruiterID, applicationID string) Key {
	return Key{Viewer: recruiterID, Kind: KindReport, ID: applicationID}
}

func Profile(userID string) Key {
	return Key{Viewer: userID, Kind: KindProfile, ID: userID}
}
