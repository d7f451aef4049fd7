package database

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core/application"
	"github.com/trezcool/edumatch/core/chat"
	"github.com/trezcool/edumatch/core/opportunity"
	"github.com/trezcool/edumatch/core/profile"
	"github.com/trezcool/edumatch/core/user"
)

// Seed ids
const (
	StudentID     = "1"
	ProfessorID   = "2"
	AdminID       = "3"
	OpportunityAI = "101"
	OpportunityDV = "102"
	ApplicationID = "app1"
	PrivateRoomID = "room1"
)

// Seed loads the demo dataset. Seeding twice replaces the seeded rows and appends the chat history again.
func Seed(ctx context.Context, repos *Repositories) error {
	now := time.Now().UTC()

	users := []user.User{
		{ID: StudentID, Email: "student@edu.com", Role: user.RoleStudent, Name: "Alice Student", CreatedAt: now},
		{ID: ProfessorID, Email: "prof@edu.com", Role: user.RoleProfessor, Name: "Dr. Smith", CreatedAt: now},
		{ID: AdminID, Email: "admin@edu.com", Role: user.RoleAdmin, Name: "Admin User", CreatedAt: now},
	}
	for _, usr := range users {
		if _, err := repos.Users.CreateUser(ctx, usr); err != nil {
			return errors.Wrapf(err, "seeding user %s", usr.Email)
		}
	}

	if _, err := repos.Profiles.SaveProfile(ctx, profile.StudentProfile{
		UserID:      StudentID,
		FullName:    "Alice Student",
		Major:       "Computer Science",
		GPA:         3.8,
		Skills:      []string{"React", "Python", "AI"},
		Preferences: "Research in NLP",
	}); err != nil {
		return errors.Wrap(err, "seeding profile")
	}

	opps := []opportunity.Opportunity{
		{
			ID:            OpportunityAI,
			Title:         "AI Research Assistant",
			Description:   "Help with NLP models.",
			Deadline:      "2024-12-31",
			Category:      "AI/ML",
			ProfessorID:   ProfessorID,
			ProfessorName: "Dr. Smith",
		},
		{
			ID:            OpportunityDV,
			Title:         "Data Visualization Intern",
			Description:   "Build D3 charts.",
			Deadline:      "2024-11-30",
			Category:      "Data Science",
			ProfessorID:   ProfessorID,
			ProfessorName: "Dr. Smith",
		},
	}
	for _, o := range opps {
		if _, err := repos.Opportunities.CreateOpportunity(ctx, o); err != nil {
			return errors.Wrapf(err, "seeding opportunity %s", o.ID)
		}
	}

	if _, err := repos.Applications.CreateApplication(ctx, application.Application{
		ID:            ApplicationID,
		OpportunityID: OpportunityAI,
		StudentID:     StudentID,
		StudentName:   "Alice Student",
		Status:        application.StatusPending,
		CreatedAt:     now,
	}); err != nil {
		return errors.Wrap(err, "seeding application")
	}

	if _, err := repos.Chat.CreateRoom(ctx, chat.Room{
		ID:           PrivateRoomID,
		Name:         "Alice Student & Dr. Smith",
		Participants: []string{StudentID, ProfessorID},
	}); err != nil {
		return errors.Wrap(err, "seeding chat room")
	}
	ms := now.UnixNano() / int64(time.Millisecond)
	msgs := []chat.Message{
		{ID: "welcome", RoomID: chat.RoomGeneral, SenderID: chat.SystemSenderID, Content: chat.WelcomeMessage, Timestamp: ms},
		{ID: "m1", RoomID: PrivateRoomID, SenderID: ProfessorID, Content: "Hello Alice, thanks for applying.", Timestamp: ms - 100000},
		{ID: "m2", RoomID: PrivateRoomID, SenderID: StudentID, Content: "Hi Dr. Smith! I am very interested.", Timestamp: ms - 50000},
	}
	for _, m := range msgs {
		if _, err := repos.Chat.AppendMessage(ctx, m); err != nil {
			return errors.Wrapf(err, "seeding chat message %s", m.ID)
		}
	}
	return nil
}
