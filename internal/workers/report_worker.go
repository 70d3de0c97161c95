package workers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/hirescreen/internal/services"
	"github.com/yoockh/hirescreen/internal/utils"
)

const (
	ReportStream = "interview:reports"
	ReportGroup  = "report-workers"
)

const DefaultReportTimeout = 2 * time.Minute

const (
	StatusQueued       = "queued"
	StatusProcessing   = "processing"
	StatusReportReady  = "report_ready"
	StatusReportFailed = "report_failed"
)

// StatusChannel is the Pub/Sub channel carrying StatusEvents for one interview.
func StatusChannel(interviewID string) string {
	return "interview:" + interviewID + ":status"
}

type StatusEvent struct {
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	InterviewID string     `json:"interview_id"`
	ReportID    string     `json:"report_id,omitempty"`
	Score       *int       `json:"score,omitempty"`
	Code        utils.Code `json:"code,omitempty"`
	Message     string     `json:"message,omitempty"`
}

func publish(ctx context.Context, rdb *redis.Client, ev StatusEvent) error {
	ev.Type = "status"
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return rdb.Publish(ctx, StatusChannel(ev.InterviewID), string(b)).Err()
}

// ReportQueue hands report generation to the worker pool.
type ReportQueue interface {
	Enqueue(ctx context.Context, interviewID, requestedBy string) error
}

type RedisReportQueue struct {
	rdb    *redis.Client
	stream string
}

func NewRedisReportQueue(rdb *redis.Client) *RedisReportQueue {
	return &RedisReportQueue{rdb: rdb, stream: ReportStream}
}

func (q *RedisReportQueue) Enqueue(ctx context.Context, interviewID, requestedBy string) error {
	if err := q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		Values: map[string]any{
			"interview_id": interviewID,
			"requested_by": requestedBy,
			"ts_unix":      strconv.FormatInt(time.Now().UTC().Unix(), 10),
		},
	}).Err(); err != nil {
		return err
	}
	_ = publish(ctx, q.rdb, StatusEvent{Status: StatusQueued, InterviewID: interviewID})
	return nil
}

type ReportWorkerPool struct {
	Redis      *redis.Client
	Reports    services.ReportService
	NumWorkers int

	// Timeout bounds one report job, completion call included. Zero means DefaultReportTimeout.
	Timeout time.Duration

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *ReportWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Reports == nil {
		return errors.New("ReportWorkerPool missing dependency: Redis/Reports must be set")
	}
	if p.Stream == "" {
		p.Stream = ReportStream
	}
	if p.Group == "" {
		p.Group = ReportGroup
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.Timeout <= 0 {
		p.Timeout = DefaultReportTimeout
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *ReportWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    5,
			Block:    5 * time.Second,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			p.Logger.WithError(err).WithField("consumer", consumer).Warn("xreadgroup failed")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				// a failed report is not redelivered; the client retries explicitly
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *ReportWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	interviewID, requestedBy := jobFields(msg.Values)
	if interviewID == "" {
		return
	}

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":     msg.ID,
		"interview_id": interviewID,
	})

	_ = publish(ctx, p.Redis, StatusEvent{Status: StatusProcessing, InterviewID: interviewID})

	ev := generate(ctx, p.Reports, p.Timeout, interviewID, requestedBy)
	if ev.Status == StatusReportFailed {
		log.WithField("code", ev.Code).Warn("report generation failed")
	} else {
		log.WithField("score", *ev.Score).Info("report ready")
	}
	if err := publish(ctx, p.Redis, ev); err != nil {
		log.WithError(err).Warn("status publish failed")
	}
}

func jobFields(values map[string]any) (interviewID, requestedBy string) {
	get := func(k string) string {
		v, ok := values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}
	return get("interview_id"), get("requested_by")
}

// generate runs one report job under timeout and describes the outcome as a status event.
// ctx stays usable afterwards for publishing the event.
func generate(ctx context.Context, reports services.ReportService, timeout time.Duration, interviewID, requestedBy string) StatusEvent {
	jobCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rep, err := reports.Generate(jobCtx, requestedBy, interviewID)
	if err != nil {
		if errors.Is(jobCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = utils.E(utils.CodeTimeout, "ReportWorkerPool.generate", "AI service timed out", err)
		}
		ev := StatusEvent{Status: StatusReportFailed, InterviewID: interviewID, Code: utils.CodeOf(err)}
		var ae *utils.AppError
		if errors.As(err, &ae) {
			ev.Message = ae.Message
		}
		return ev
	}
	score := rep.Score
	return StatusEvent{Status: StatusReportReady, InterviewID: interviewID, ReportID: rep.ID, Score: &score}
}
