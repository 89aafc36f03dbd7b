package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/users-api/internal/core/domain"
)

const requestLogsCollection = "request_logs"

// RequestLogRepository stores audit rows in the request_logs collection.
type RequestLogRepository struct {
	coll *mongo.Collection
	ids  *sequence
}

func NewRequestLogRepository(db *mongo.Database) *RequestLogRepository {
	return &RequestLogRepository{
		coll: db.Collection(requestLogsCollection),
		ids:  newSequence(db, requestLogsCollection),
	}
}

type mongoRequestLog struct {
	ID          int64     `bson:"_id"`
	UserID      *int64    `bson:"user_id"`
	Username    string    `bson:"username"`
	RequestedAt time.Time `bson:"requested_at"`
	Host        string    `bson:"host"`
	URLPath     string    `bson:"url_path"`
	ViewMethod  string    `bson:"view_method"`
	RemoteAddr  string    `bson:"remote_addr"`
	StatusCode  int       `bson:"status_code"`
}

func (r *RequestLogRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}, {Key: "_id", Value: 1}},
	})
	return err
}

// Insert persists entry, stamping requested_at with the current time.
func (r *RequestLogRepository) Insert(ctx context.Context, entry *domain.RequestLog) error {
	id, err := r.ids.next(ctx)
	if err != nil {
		return err
	}

	doc := mongoRequestLog{
		ID:          id,
		UserID:      entry.UserID,
		Username:    entry.Username,
		RequestedAt: time.Now().UTC().Truncate(time.Millisecond),
		Host:        entry.Host,
		URLPath:     entry.URLPath,
		ViewMethod:  entry.ViewMethod,
		RemoteAddr:  entry.RemoteAddr,
		StatusCode:  entry.StatusCode,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert request log: %w", err)
	}

	entry.ID = doc.ID
	entry.RequestedAt = doc.RequestedAt
	return nil
}

func (r *RequestLogRepository) ListByUsername(ctx context.Context, username string) ([]domain.RequestLog, error) {
	cur, err := r.coll.Find(ctx,
		bson.M{"username": username},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find request logs: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]domain.RequestLog, 0)
	for cur.Next(ctx) {
		var doc mongoRequestLog
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode request log: %w", err)
		}
		out = append(out, domain.RequestLog{
			ID:          doc.ID,
			UserID:      doc.UserID,
			Username:    doc.Username,
			RequestedAt: doc.RequestedAt.UTC(),
			Host:        doc.Host,
			URLPath:     doc.URLPath,
			ViewMethod:  doc.ViewMethod,
			RemoteAddr:  doc.RemoteAddr,
			StatusCode:  doc.StatusCode,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate request logs: %w", err)
	}
	return out, nil
}
