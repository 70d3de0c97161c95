package mongo

import (
	"context"
	"time"

	"github.com/yoockh/hirescreen/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
)

const TranscriptCollection = "interview_transcripts"

type TranscriptRepository interface {
	Archive(ctx context.Context, a *models.TranscriptArchive) error
}

type transcriptRepo struct {
	col *mongo.Collection
}

func NewTranscriptRepo(db *mongo.Database) TranscriptRepository {
	return &transcriptRepo{col: db.Collection(TranscriptCollection)}
}

func (r *transcriptRepo) Archive(ctx context.Context, a *models.TranscriptArchive) error {
	if a.ArchivedAt.IsZero() {
		a.ArchivedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, a)
	return err
}
