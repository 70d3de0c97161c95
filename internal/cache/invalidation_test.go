package cache

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyStrings(keys []Key) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.String())
	}
	return out
}

func TestKeysGraph(t *testing.T) {
	cases := []struct {
		name string
		m    Mutation
		want []string
	}{
		{
			name: "application created",
			m:    ApplicationCreated{CandidateID: "C1", RecruiterID: "R1", JobID: "J1"},
			want: []string{
				"user:C1:job:J1",
				"user:R1:job:applications:J1",
				"user:C1:candidate:applied-jobs:C1",
				"user:R1:recruiter:dashboard:R1",
			},
		},
		{
			name: "status changed",
			m:    ApplicationStatusChanged{RecruiterID: "R1", CandidateID: "C1", ApplicationID: "A1", JobID: "J1"},
			want: []string{
				"user:R1:recruiter:shortlisted:R1",
				"user:R1:report:A1",
				"user:R1:job:applications:J1",
				"user:C1:candidate:applied-jobs:C1",
				"user:R1:recruiter:dashboard:R1",
			},
		},
		{
			name: "job created",
			m:    JobCreated{RecruiterID: "R1"},
			want: []string{"user:R1:recruiter:dashboard:R1"},
		},
		{
			name: "profile updated",
			m:    ProfileUpdated{UserID: "U1"},
			want: []string{"user:U1:profile:U1"},
		},
		{
			name: "interview completed",
			m:    InterviewCompleted{RecruiterID: "R1", CandidateID: "C1", ApplicationID: "A1", JobID: "J1"},
			want: []string{
				"user:R1:report:A1",
				"user:R1:job:applications:J1",
				"user:C1:candidate:applied-jobs:C1",
				"user:R1:recruiter:dashboard:R1",
			},
		},
		{
			name: "interview discarded",
			m:    InterviewDiscarded{RecruiterID: "R1", ApplicationID: "A1"},
			want: []string{"user:R1:report:A1"},
		},
		{
			name: "interview turn stored",
			m:    InterviewTurnStored{RecruiterID: "R1", ApplicationID: "A1"},
			want: []string{"user:R1:report:A1"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ElementsMatch(t, tc.want, keyStrings(Keys(tc.m)))
		})
	}
}

func TestInvalidateDeletesStaleViews(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	m := ApplicationCreated{CandidateID: "C1", RecruiterID: "R1", JobID: "J1"}
	for _, k := range Keys(m) {
		require.NoError(t, c.SetJSON(ctx, k.String(), payload{Name: "stale"}, time.Minute))
	}
	unrelated := JobDetail("C2", "J1").String()
	require.NoError(t, c.SetJSON(ctx, unrelated, payload{Name: "other viewer"}, time.Minute))

	Invalidate(ctx, c, nil, m)

	var got payload
	for _, k := range Keys(m) {
		hit, _ := c.GetJSON(ctx, k.String(), &got)
		assert.False(t, hit, k.String())
	}
	hit, _ := c.GetJSON(ctx, unrelated, &got)
	assert.True(t, hit)
}

func TestInvalidateFailureIsLogged(t *testing.T) {
	log, hook := test.NewNullLogger()
	Invalidate(context.Background(), brokenCache{}, log, JobCreated{RecruiterID: "R1"})
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.EqualError(t, hook.LastEntry().Data[logrus.ErrorKey].(error), "connection refused")
}
