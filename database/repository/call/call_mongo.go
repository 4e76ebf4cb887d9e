package callRepo

import (
	"context"
	"fmt"
	"time"

	"blaccbook/database"
	"blaccbook/models"
	"blaccbook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoCallRepo implements CallRepository using MongoDB.
type MongoCallRepo struct {
	coll *mongo.Collection
}

// NewMongoCallRepo creates a new instance of CallRepository using MongoDB.
func NewMongoCallRepo() CallRepository {
	coll := database.DB().Collection("calls")
	repo := &MongoCallRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoCallRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "caller_id", Value: 1}, {Key: "start_time", Value: -1}}},
		{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "start_time", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new call record.
func (r *MongoCallRepo) Create(call *models.Call) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, call); err != nil {
		return fmt.Errorf("failed to create call: %w", err)
	}
	return nil
}

// GetByID retrieves a call record by ID. Returns nil when absent.
func (r *MongoCallRepo) GetByID(id string) (*models.Call, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var call models.Call
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&call); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch call with id %s: %w", id, err)
	}
	return &call, nil
}

// ListByParticipant returns call history where the user is either peer,
// newest first.
func (r *MongoCallRepo) ListByParticipant(userID string) ([]models.Call, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"caller_id": userID},
		bson.M{"recipient_id": userID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list calls for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var calls []models.Call
	if err := cursor.All(ctx, &calls); err != nil {
		return nil, fmt.Errorf("failed to decode calls: %w", err)
	}
	return calls, nil
}

// Accept moves ringing -> active.
func (r *MongoCallRepo) Accept(id string, at time.Time) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.CallStatusRinging}
	update := bson.M{"$set": bson.M{
		"status":      models.CallStatusActive,
		"accepted_at": at,
		"is_missed":   false,
	}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to accept call %s: %w", id, err)
	}
	return result.ModifiedCount == 1, nil
}

// End moves the observed status -> ended.
func (r *MongoCallRepo) End(id, fromStatus string, at time.Time, duration int, missed bool) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": fromStatus}
	update := bson.M{"$set": bson.M{
		"status":    models.CallStatusEnded,
		"end_time":  at,
		"duration":  duration,
		"is_missed": missed,
	}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to end call %s: %w", id, err)
	}
	return result.ModifiedCount == 1, nil
}

// Decline moves ringing -> declined.
func (r *MongoCallRepo) Decline(id string, at time.Time) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.CallStatusRinging}
	update := bson.M{"$set": bson.M{
		"status":    models.CallStatusDeclined,
		"end_time":  at,
		"is_missed": false,
	}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to decline call %s: %w", id, err)
	}
	return result.ModifiedCount == 1, nil
}

// Watch opens a change stream on the call record and delivers full-document
// snapshots until ctx is cancelled. The initial snapshot is delivered first so
// a late subscriber still sees the current state.
func (r *MongoCallRepo) Watch(ctx context.Context, id string) (<-chan models.Call, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"fullDocument.id": id}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := r.coll.Watch(ctx, pipeline, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to watch call %s: %w", id, err)
	}

	out := make(chan models.Call, 1)

	current, err := r.GetByID(id)
	if err != nil {
		stream.Close(ctx)
		return nil, err
	}
	if current != nil {
		out <- *current
	}

	go func() {
		defer close(out)
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			var event struct {
				FullDocument models.Call `bson:"fullDocument"`
			}
			if err := stream.Decode(&event); err != nil {
				utils.GetLogger().Error("call watch decode failed",
					zap.String("callID", id), zap.Error(err))
				continue
			}
			select {
			case out <- event.FullDocument:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
