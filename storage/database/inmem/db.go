// Package inmem is the process-wide in-memory store. Each table is guarded by
// its own mutex; there are no transactions and writes are last-write-wins.
package inmem

import (
	"sync"

	"github.com/trezcool/edumatch/core/application"
	"github.com/trezcool/edumatch/core/chat"
	"github.com/trezcool/edumatch/core/opportunity"
	"github.com/trezcool/edumatch/core/profile"
	"github.com/trezcool/edumatch/core/user"
)

type (
	DB struct {
		user        *userTable
		profile     *profileTable
		opportunity *opportunityTable
		application *applicationTable
		chat        *chatTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
		order []string
	}

	profileTable struct {
		sync.RWMutex
		table map[string]*profile.StudentProfile
	}

	opportunityTable struct {
		sync.RWMutex
		table map[string]*opportunity.Opportunity
		order []string
	}

	applicationTable struct {
		sync.RWMutex
		table map[string]*application.Application
		order []string
	}

	chatTable struct {
		sync.RWMutex
		rooms    []chat.Room
		messages map[string][]chat.Message
	}
)

// Open returns an empty store with the chat rooms created.
func Open() *DB {
	return &DB{
		user:        &userTable{table: make(map[string]*user.User)},
		profile:     &profileTable{table: make(map[string]*profile.StudentProfile)},
		opportunity: &opportunityTable{table: make(map[string]*opportunity.Opportunity)},
		application: &applicationTable{table: make(map[string]*application.Application)},
		chat: &chatTable{
			rooms: []chat.Room{
				{ID: chat.RoomGeneral, Name: "General"},
				{ID: chat.RoomResearchHelp, Name: "Research Help"},
			},
			messages: make(map[string][]chat.Message),
		},
	}
}

func (db *DB) Users() user.Repository               { return &userRepository{db: db.user} }
func (db *DB) Profiles() profile.Repository         { return &profileRepository{db: db.profile} }
func (db *DB) Opportunities() opportunity.Repository { return &opportunityRepository{db: db.opportunity} }
func (db *DB) Applications() application.Repository { return &applicationRepository{db: db.application} }
func (db *DB) Chat() chat.Repository                 { return &chatRepository{db: db.chat} }
