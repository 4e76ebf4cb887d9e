package chatRepo

import (
	"context"
	"fmt"
	"time"

	"blaccbook/database"
	"blaccbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoChatRepo implements ChatRepository using MongoDB.
type MongoChatRepo struct {
	convColl *mongo.Collection
	msgColl  *mongo.Collection
}

// NewMongoChatRepo creates a new instance of ChatRepository using MongoDB.
func NewMongoChatRepo() ChatRepository {
	db := database.DB()
	repo := &MongoChatRepo{
		convColl: db.Collection("conversations"),
		msgColl:  db.Collection("messages"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoChatRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	convIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "participants", Value: 1}, {Key: "last_message_timestamp", Value: -1}}},
	}
	if _, err := r.convColl.Indexes().CreateMany(ctx, convIndexes); err != nil {
		return fmt.Errorf("failed to create conversation indexes: %w", err)
	}

	msgIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "timestamp", Value: 1}}},
	}
	if _, err := r.msgColl.Indexes().CreateMany(ctx, msgIndexes); err != nil {
		return fmt.Errorf("failed to create message indexes: %w", err)
	}
	return nil
}

// EnsureConversation upserts by the deterministic pair ID. $setOnInsert keeps
// an existing conversation's preview and counters untouched.
func (r *MongoChatRepo) EnsureConversation(conv *models.Conversation) (*models.Conversation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": conv.ID}
	update := bson.M{"$setOnInsert": bson.M{
		"id":                     conv.ID,
		"participants":           conv.Participants,
		"last_message":           "",
		"last_message_timestamp": conv.CreatedAt,
		"unread_count":           conv.UnreadCount,
		"created_at":             conv.CreatedAt,
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored models.Conversation
	if err := r.convColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return nil, fmt.Errorf("failed to ensure conversation %s: %w", conv.ID, err)
	}
	return &stored, nil
}

// GetConversation retrieves a conversation by ID. Returns nil when absent.
func (r *MongoChatRepo) GetConversation(id string) (*models.Conversation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var conv models.Conversation
	if err := r.convColl.FindOne(ctx, bson.M{"id": id}).Decode(&conv); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch conversation %s: %w", id, err)
	}
	return &conv, nil
}

// ListByParticipant returns a user's conversations, most recent activity first.
func (r *MongoChatRepo) ListByParticipant(userID string) ([]models.Conversation, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{"participants": userID}
	opts := options.Find().SetSort(bson.D{{Key: "last_message_timestamp", Value: -1}})
	cursor, err := r.convColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var convs []models.Conversation
	if err := cursor.All(ctx, &convs); err != nil {
		return nil, fmt.Errorf("failed to decode conversations: %w", err)
	}
	return convs, nil
}

// AppendMessage inserts a new message document.
func (r *MongoChatRepo) AppendMessage(msg *models.Message) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.msgColl.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// ListMessages returns a conversation's messages in chronological order.
func (r *MongoChatRepo) ListMessages(conversationID string, limit int64) ([]models.Message, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.msgColl.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages for conversation %s: %w", conversationID, err)
	}
	defer cursor.Close(ctx)

	var msgs []models.Message
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return msgs, nil
}

// RecordSend updates the preview fields and bumps the recipient's unread
// counter with an atomic $inc.
func (r *MongoChatRepo) RecordSend(conversationID, preview, recipientID string, at time.Time) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"last_message":           preview,
			"last_message_timestamp": at,
		},
		"$inc": bson.M{"unread_count." + recipientID: 1},
	}
	result, err := r.convColl.UpdateOne(ctx, bson.M{"id": conversationID}, update)
	if err != nil {
		return fmt.Errorf("failed to record send on conversation %s: %w", conversationID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("conversation with id %s not found", conversationID)
	}
	return nil
}

// ResetUnread zeroes one participant's unread counter.
func (r *MongoChatRepo) ResetUnread(conversationID, userID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"unread_count." + userID: 0}}
	if _, err := r.convColl.UpdateOne(ctx, bson.M{"id": conversationID}, update); err != nil {
		return fmt.Errorf("failed to reset unread on conversation %s: %w", conversationID, err)
	}
	return nil
}

// Clear deletes the conversation's messages and resets its preview and all
// unread counters.
func (r *MongoChatRepo) Clear(conversationID string, participants []string) error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.msgColl.DeleteMany(ctx, bson.M{"conversation_id": conversationID}); err != nil {
		return fmt.Errorf("failed to clear messages for conversation %s: %w", conversationID, err)
	}

	reset := bson.M{
		"last_message":           "",
		"last_message_timestamp": time.Now(),
	}
	for _, p := range participants {
		reset["unread_count."+p] = 0
	}
	if _, err := r.convColl.UpdateOne(ctx, bson.M{"id": conversationID}, bson.M{"$set": reset}); err != nil {
		return fmt.Errorf("failed to reset conversation %s: %w", conversationID, err)
	}
	return nil
}
