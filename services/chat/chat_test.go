package chat

import (
	"context"
	"io"
	"sort"
	"testing"
	"time"

	"blaccbook/models"
	"blaccbook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var chatNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type fakeChatRepo struct {
	convs    map[string]*models.Conversation
	messages map[string][]models.Message
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		convs:    map[string]*models.Conversation{},
		messages: map[string][]models.Message{},
	}
}

func (r *fakeChatRepo) EnsureConversation(conv *models.Conversation) (*models.Conversation, error) {
	if existing, ok := r.convs[conv.ID]; ok {
		cp := *existing
		return &cp, nil
	}
	cp := *conv
	r.convs[conv.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeChatRepo) GetConversation(id string) (*models.Conversation, error) {
	c, ok := r.convs[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.UnreadCount = map[string]int{}
	for k, v := range c.UnreadCount {
		cp.UnreadCount[k] = v
	}
	return &cp, nil
}

func (r *fakeChatRepo) ListByParticipant(userID string) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, c := range r.convs {
		for _, p := range c.Participants {
			if p == userID {
				out = append(out, *c)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastMessageTimestamp.After(out[j].LastMessageTimestamp)
	})
	return out, nil
}

func (r *fakeChatRepo) AppendMessage(msg *models.Message) error {
	r.messages[msg.ConversationID] = append(r.messages[msg.ConversationID], *msg)
	return nil
}

func (r *fakeChatRepo) ListMessages(conversationID string, limit int64) ([]models.Message, error) {
	return r.messages[conversationID], nil
}

func (r *fakeChatRepo) RecordSend(conversationID, preview, recipientID string, at time.Time) error {
	c := r.convs[conversationID]
	c.LastMessage = preview
	c.LastMessageTimestamp = at
	c.UnreadCount[recipientID]++
	return nil
}

func (r *fakeChatRepo) ResetUnread(conversationID, userID string) error {
	r.convs[conversationID].UnreadCount[userID] = 0
	return nil
}

func (r *fakeChatRepo) Clear(conversationID string, participants []string) error {
	delete(r.messages, conversationID)
	c := r.convs[conversationID]
	c.LastMessage = ""
	for _, p := range participants {
		c.UnreadCount[p] = 0
	}
	return nil
}

type fakeNotifier struct {
	dispatched []*models.Notification
}

func (n *fakeNotifier) Dispatch(ctx context.Context, notif *models.Notification) error {
	n.dispatched = append(n.dispatched, notif)
	return nil
}
func (n *fakeNotifier) Push(ctx context.Context, notif *models.Notification) {}
func (n *fakeNotifier) List(ctx context.Context, userID string, limit int64) ([]models.Notification, error) {
	return nil, nil
}
func (n *fakeNotifier) MarkRead(ctx context.Context, id, userID string) error { return nil }
func (n *fakeNotifier) MarkAllRead(ctx context.Context, userID string) error  { return nil }
func (n *fakeNotifier) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

type fakeStorage struct{}

func (fakeStorage) UploadFile(ctx context.Context, file io.Reader, destFolder string) (string, error) {
	return "https://cdn.example.com/" + destFolder + "/img.jpg", nil
}
func (fakeStorage) DeleteFile(ctx context.Context, publicID string) error { return nil }

func newChatFixture() (*DefaultChatService, *fakeChatRepo, *fakeNotifier) {
	repo := newFakeChatRepo()
	notifier := &fakeNotifier{}
	svc := &DefaultChatService{
		Repo:     repo,
		Notifier: notifier,
		Storage:  fakeStorage{},
		Clock:    func() time.Time { return chatNow },
	}
	return svc, repo, notifier
}

func TestPairKeyDeterministic(t *testing.T) {
	assert.Equal(t, PairKey("alice", "bob"), PairKey("bob", "alice"))
	assert.Equal(t, "alice:bob", PairKey("bob", "alice"))
	assert.NotEqual(t, PairKey("alice", "bob"), PairKey("alice", "carol"))
}

func TestGetOrCreateConversation(t *testing.T) {
	svc, _, _ := newChatFixture()
	ctx := context.Background()

	first, err := svc.GetOrCreateConversation(ctx, "alice", "bob")
	require.NoError(t, err)
	// Opening from the other side lands on the same conversation.
	second, err := svc.GetOrCreateConversation(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.ElementsMatch(t, []string{"alice", "bob"}, first.Participants)

	_, err = svc.GetOrCreateConversation(ctx, "alice", "alice")
	assert.ErrorAs(t, err, &utils.ValidationError{})
	_, err = svc.GetOrCreateConversation(ctx, "alice", "")
	assert.ErrorAs(t, err, &utils.ValidationError{})
}

func TestSendMessageUnreadFanout(t *testing.T) {
	svc, repo, notifier := newChatFixture()
	ctx := context.Background()

	conv, err := svc.GetOrCreateConversation(ctx, "alice", "bob")
	require.NoError(t, err)

	msg, err := svc.SendMessage(ctx, conv.ID, "alice", SendMessageRequest{Content: "hey there"})
	require.NoError(t, err)
	assert.Equal(t, models.MessageTypeText, msg.Type)

	stored := repo.convs[conv.ID]
	assert.Equal(t, "hey there", stored.LastMessage)
	assert.Equal(t, 1, stored.UnreadCount["bob"], "recipient counter bumps")
	assert.Equal(t, 0, stored.UnreadCount["alice"], "sender counter untouched")

	require.Len(t, notifier.dispatched, 1)
	assert.Equal(t, "bob", notifier.dispatched[0].UserID)
	assert.Equal(t, models.NotificationTypeChat, notifier.dispatched[0].Type)

	_, err = svc.SendMessage(ctx, conv.ID, "mallory", SendMessageRequest{Content: "hi"})
	assert.ErrorAs(t, err, &utils.PermissionError{})
	_, err = svc.SendMessage(ctx, conv.ID, "alice", SendMessageRequest{Content: ""})
	assert.ErrorAs(t, err, &utils.ValidationError{})
	_, err = svc.SendMessage(ctx, conv.ID, "alice", SendMessageRequest{Content: "x", Type: "video"})
	assert.ErrorAs(t, err, &utils.ValidationError{})
}

func TestSendImageMessagePreview(t *testing.T) {
	svc, repo, _ := newChatFixture()
	ctx := context.Background()

	conv, err := svc.GetOrCreateConversation(ctx, "alice", "bob")
	require.NoError(t, err)

	url := "https://cdn.example.com/chat_images/img.jpg"
	msg, err := svc.SendMessage(ctx, conv.ID, "alice", SendMessageRequest{Content: url, Type: models.MessageTypeImage})
	require.NoError(t, err)
	assert.Equal(t, url, msg.Content)
	assert.Equal(t, models.ImagePreview, repo.convs[conv.ID].LastMessage)
}

func TestMarkReadScopedToReader(t *testing.T) {
	svc, repo, _ := newChatFixture()
	ctx := context.Background()

	conv, err := svc.GetOrCreateConversation(ctx, "alice", "bob")
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, conv.ID, "alice", SendMessageRequest{Content: "one"})
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, conv.ID, "bob", SendMessageRequest{Content: "two"})
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(ctx, conv.ID, "bob"))
	stored := repo.convs[conv.ID]
	assert.Equal(t, 0, stored.UnreadCount["bob"])
	assert.Equal(t, 1, stored.UnreadCount["alice"], "the other side's counter survives")

	err = svc.MarkRead(ctx, conv.ID, "mallory")
	assert.ErrorAs(t, err, &utils.PermissionError{})
}

func TestClearChat(t *testing.T) {
	svc, repo, _ := newChatFixture()
	ctx := context.Background()

	conv, err := svc.GetOrCreateConversation(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, conv.ID, "alice", SendMessageRequest{Content: "one"})
	require.NoError(t, err)

	require.NoError(t, svc.ClearChat(ctx, conv.ID, "bob"))
	assert.Empty(t, repo.messages[conv.ID])
	stored := repo.convs[conv.ID]
	assert.Equal(t, "", stored.LastMessage)
	assert.Equal(t, 0, stored.UnreadCount["alice"])
	assert.Equal(t, 0, stored.UnreadCount["bob"])
}

func TestUploadAttachment(t *testing.T) {
	svc, _, _ := newChatFixture()

	url, err := svc.UploadAttachment(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/chat_images/img.jpg", url)
}
