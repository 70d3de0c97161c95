package workers

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/hirescreen/internal/models"
	"github.com/yoockh/hirescreen/internal/services"
	"github.com/yoockh/hirescreen/internal/utils"
)

type stubReports struct {
	rep   *models.Report
	err   error
	block bool
	calls []string
}

func (s *stubReports) Generate(ctx context.Context, actorID, interviewID string) (*models.Report, error) {
	s.calls = append(s.calls, actorID+"/"+interviewID)
	if s.block {
		<-ctx.Done()
		return nil, utils.E(utils.CodeUnavailable, "ReportService.Generate", "AI service unavailable", ctx.Err())
	}
	return s.rep, s.err
}

func (s *stubReports) GetByApplication(context.Context, string, string) (*services.ReportView, error) {
	return nil, nil
}

func TestGenerateReady(t *testing.T) {
	stub := &stubReports{rep: &models.Report{ID: "rep-1", Score: 82}}
	ev := generate(context.Background(), stub, time.Second, "I1", "C1")

	assert.Equal(t, StatusReportReady, ev.Status)
	assert.Equal(t, "rep-1", ev.ReportID)
	require.NotNil(t, ev.Score)
	assert.Equal(t, 82, *ev.Score)
	assert.Equal(t, []string{"C1/I1"}, stub.calls)
}

func TestGenerateFailed(t *testing.T) {
	stub := &stubReports{err: utils.E(utils.CodeAIResponse, "ReportService.Generate", "failed to parse AI report response", nil)}
	ev := generate(context.Background(), stub, time.Second, "I1", "C1")

	assert.Equal(t, StatusReportFailed, ev.Status)
	assert.Equal(t, utils.CodeAIResponse, ev.Code)
	assert.Equal(t, "failed to parse AI report response", ev.Message)
	assert.Nil(t, ev.Score)
}

func TestGenerateTimesOutHungCompletion(t *testing.T) {
	stub := &stubReports{block: true}

	done := make(chan StatusEvent, 1)
	go func() { done <- generate(context.Background(), stub, 20*time.Millisecond, "I1", "C1") }()

	select {
	case ev := <-done:
		assert.Equal(t, StatusReportFailed, ev.Status)
		assert.Equal(t, utils.CodeTimeout, ev.Code)
		assert.Equal(t, "AI service timed out", ev.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("generate did not return after its timeout")
	}
}

func TestGenerateShutdownIsNotATimeout(t *testing.T) {
	stub := &stubReports{block: true}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ev := generate(ctx, stub, time.Minute, "I1", "C1")
	assert.Equal(t, StatusReportFailed, ev.Status)
	assert.Equal(t, utils.CodeUnavailable, ev.Code)
}

func TestStartAppliesDefaultTimeout(t *testing.T) {
	pool := &ReportWorkerPool{}
	assert.Error(t, pool.Start(context.Background()))

	pool = &ReportWorkerPool{Redis: redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), Reports: &stubReports{}}
	t.Cleanup(func() { _ = pool.Redis.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, pool.Start(ctx))
	assert.Equal(t, DefaultReportTimeout, pool.Timeout)
	assert.Equal(t, 2, pool.NumWorkers)
}

func TestJobFields(t *testing.T) {
	id, by := jobFields(map[string]any{"interview_id": "I1", "requested_by": "C1", "ts_unix": "1"})
	assert.Equal(t, "I1", id)
	assert.Equal(t, "C1", by)

	id, by = jobFields(map[string]any{"interview_id": nil})
	assert.Empty(t, id)
	assert.Empty(t, by)
}

func TestStatusChannel(t *testing.T) {
	assert.Equal(t, "interview:I1:status", StatusChannel("I1"))
}

func TestWorkerPoolEndToEnd(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	stream := "test:reports:" + uuid.NewString()
	t.Cleanup(func() { _ = rdb.Del(context.Background(), stream).Err() })

	stub := &stubReports{rep: &models.Report{ID: "rep-1", Score: 70}}
	pool := &ReportWorkerPool{Redis: rdb, Reports: stub, NumWorkers: 1, Stream: stream, Timeout: 5 * time.Second}
	require.NoError(t, pool.Start(ctx))

	interviewID := uuid.NewString()
	sub := rdb.Subscribe(ctx, StatusChannel(interviewID))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	q := &RedisReportQueue{rdb: rdb, stream: stream}
	require.NoError(t, q.Enqueue(ctx, interviewID, "C1"))

	seen := []string{}
	for len(seen) == 0 || seen[len(seen)-1] != StatusReportReady {
		m, err := sub.ReceiveMessage(ctx)
		require.NoError(t, err)
		var ev StatusEvent
		require.NoError(t, json.Unmarshal([]byte(m.Payload), &ev))
		seen = append(seen, ev.Status)
	}
	assert.Equal(t, []string{StatusQueued, StatusProcessing, StatusReportReady}, seen)
}
