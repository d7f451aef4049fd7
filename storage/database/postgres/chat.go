package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core/chat"
)

type roomRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Participants pq.StringArray `db:"participants"`
}

func (r roomRow) toRoom() chat.Room {
	room := chat.Room{ID: r.ID, Name: r.Name}
	if len(r.Participants) > 0 {
		room.Participants = append([]string{}, r.Participants...)
	}
	return room
}

type messageRow struct {
	ID         string `db:"id"`
	RoomID     string `db:"room_id"`
	SenderID   string `db:"sender_id"`
	ReceiverID string `db:"receiver_id"`
	Content    string `db:"content"`
	Timestamp  int64  `db:"ts"`
}

type chatRepository struct {
	db *sqlx.DB
}

var _ chat.Repository = (*chatRepository)(nil)

func NewChatRepository(db *sqlx.DB) chat.Repository {
	return &chatRepository{db: db}
}

func (repo *chatRepository) QueryRooms(ctx context.Context) ([]chat.Room, error) {
	var rows []roomRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT id, name, participants FROM chat_rooms ORDER BY "+insertionOrder.String()); err != nil {
		return nil, errors.Wrap(err, "selecting chat rooms")
	}
	rooms := make([]chat.Room, 0, len(rows))
	for _, r := range rows {
		rooms = append(rooms, r.toRoom())
	}
	return rooms, nil
}

func (repo *chatRepository) GetRoom(ctx context.Context, id string) (chat.Room, error) {
	var row roomRow
	if err := repo.db.GetContext(ctx, &row, "SELECT id, name, participants FROM chat_rooms WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return chat.Room{}, chat.ErrRoomNotFound
		}
		return chat.Room{}, errors.Wrap(err, "selecting chat room")
	}
	return row.toRoom(), nil
}

func (repo *chatRepository) CreateRoom(ctx context.Context, room chat.Room) (chat.Room, error) {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO chat_rooms (id, name, participants) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = $2, participants = $3`,
		room.ID, room.Name, stringArray(room.Participants),
	)
	if err != nil {
		return chat.Room{}, errors.Wrap(err, "inserting chat room")
	}
	return room, nil
}

func (repo *chatRepository) AppendMessage(ctx context.Context, msg chat.Message) (chat.Message, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO chat_messages (id, room_id, sender_id, receiver_id, content, ts)
		VALUES (:id, :room_id, :sender_id, :receiver_id, :content, :ts)`,
		messageRow(msg),
	)
	if err != nil {
		return chat.Message{}, errors.Wrap(err, "inserting chat message")
	}
	return msg, nil
}

func (repo *chatRepository) QueryMessages(ctx context.Context, roomID string) ([]chat.Message, error) {
	var rows []messageRow
	err := repo.db.SelectContext(ctx, &rows,
		"SELECT id, room_id, sender_id, receiver_id, content, ts FROM chat_messages WHERE room_id = $1 ORDER BY "+insertionOrder.String(), roomID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting chat messages")
	}
	msgs := make([]chat.Message, 0, len(rows))
	for _, r := range rows {
		msgs = append(msgs, chat.Message(r))
	}
	return msgs, nil
}
