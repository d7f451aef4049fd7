// Package chat is a local echo chat: messages are appended to a room and the
// general room answers with a canned bot reply.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core"
	"github.com/trezcool/edumatch/core/user"
)

const (
	RoomGeneral      = "general"
	RoomResearchHelp = "research-help"

	SystemSenderID = "system"
	BotSenderID    = "bot"
	WelcomeMessage = "Welcome to EduMatch Global Chat!"
	BotReply       = "This is a mock response from the system."
)

var (
	ErrRoomNotFound = errors.New("chat room not found")
	errEmptyContent = errors.New("message content is required")
)

type Room struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Participants []string `json:"participants,omitempty"`
}

type Message struct {
	ID         string `json:"id"`
	RoomID     string `json:"roomId"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId,omitempty"`
	Content    string `json:"content"`
	Timestamp  int64  `json:"timestamp"` // unix ms
}

type NewMessage struct {
	Content    string `json:"content"`
	ReceiverID string `json:"receiverId"`
}

type (
	Repository interface {
		QueryRooms(ctx context.Context) ([]Room, error)
		GetRoom(ctx context.Context, id string) (Room, error)
		CreateRoom(ctx context.Context, room Room) (Room, error)
		AppendMessage(ctx context.Context, msg Message) (Message, error)
		QueryMessages(ctx context.Context, roomID string) ([]Message, error)
	}

	Service interface {
		Rooms(ctx context.Context) ([]Room, error)
		History(ctx context.Context, roomID string) ([]Message, error)
		Send(ctx context.Context, sender user.User, roomID string, nm NewMessage) (Message, error)
	}

	service struct {
		repo          Repository
		latency       core.Latency
		botReplyDelay time.Duration
		logger        core.Logger
		now           func() time.Time
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, latency core.Latency, botReplyDelay time.Duration, logger core.Logger) Service {
	return &service{
		repo:          repo,
		latency:       latency,
		botReplyDelay: botReplyDelay,
		logger:        logger,
		now:           time.Now,
	}
}

func (svc *service) Rooms(ctx context.Context) ([]Room, error) {
	if err := svc.latency.Wait(ctx); err != nil {
		return nil, err
	}
	return svc.repo.QueryRooms(ctx)
}

func (svc *service) History(ctx context.Context, roomID string) ([]Message, error) {
	if err := svc.latency.Wait(ctx); err != nil {
		return nil, err
	}
	if _, err := svc.repo.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	return svc.repo.QueryMessages(ctx, roomID)
}

func (svc *service) Send(ctx context.Context, sender user.User, roomID string, nm NewMessage) (Message, error) {
	content := core.CleanString(nm.Content)
	if content == "" {
		return Message{}, core.NewValidationError(errEmptyContent, core.FieldError{Field: "content", Error: errEmptyContent.Error()})
	}
	if _, err := svc.repo.GetRoom(ctx, roomID); err != nil {
		return Message{}, err
	}

	msg, err := svc.repo.AppendMessage(ctx, svc.newMessage(roomID, sender.ID, nm.ReceiverID, content))
	if err != nil {
		return Message{}, err
	}
	if roomID == RoomGeneral {
		time.AfterFunc(svc.botReplyDelay, svc.botReply)
	}
	return msg, nil
}

func (svc *service) newMessage(roomID, senderID, receiverID, content string) Message {
	return Message{
		ID:         uuid.NewString(),
		RoomID:     roomID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Timestamp:  svc.now().UnixNano() / int64(time.Millisecond),
	}
}

func (svc *service) botReply() {
	reply := svc.newMessage(RoomGeneral, BotSenderID, "", BotReply)
	if _, err := svc.repo.AppendMessage(context.Background(), reply); err != nil && svc.logger != nil {
		svc.logger.Error(fmt.Sprintf("chat: appending bot reply: %v", err), err)
	}
}
