package inmem

import (
	"context"

	"github.com/trezcool/edumatch/core/chat"
)

type chatRepository struct {
	db *chatTable
}

var _ chat.Repository = (*chatRepository)(nil)

func (repo *chatRepository) QueryRooms(context.Context) ([]chat.Room, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]chat.Room{}, repo.db.rooms...), nil
}

func (repo *chatRepository) getRoom(id string) (chat.Room, bool) {
	for _, r := range repo.db.rooms {
		if r.ID == id {
			return r, true
		}
	}
	return chat.Room{}, false
}

func (repo *chatRepository) GetRoom(_ context.Context, id string) (chat.Room, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.getRoom(id); ok {
		return r, nil
	}
	return chat.Room{}, chat.ErrRoomNotFound
}

// CreateRoom adds a room, replacing any room with the same id.
func (repo *chatRepository) CreateRoom(_ context.Context, room chat.Room) (chat.Room, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i, r := range repo.db.rooms {
		if r.ID == room.ID {
			repo.db.rooms[i] = room
			return room, nil
		}
	}
	repo.db.rooms = append(repo.db.rooms, room)
	return room, nil
}

func (repo *chatRepository) AppendMessage(_ context.Context, msg chat.Message) (chat.Message, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.messages[msg.RoomID] = append(repo.db.messages[msg.RoomID], msg)
	return msg, nil
}

func (repo *chatRepository) QueryMessages(_ context.Context, roomID string) ([]chat.Message, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]chat.Message{}, repo.db.messages[roomID]...), nil
}
