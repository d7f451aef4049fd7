package client

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/edumatch/core/admin"
	"github.com/trezcool/edumatch/core/application"
	"github.com/trezcool/edumatch/core/chat"
	"github.com/trezcool/edumatch/core/opportunity"
	"github.com/trezcool/edumatch/core/profile"
	"github.com/trezcool/edumatch/core/user"
)

type authResponse struct {
	User  user.User `json:"user"`
	Token string    `json:"token"`
}

type Role struct {
	Value user.Role `json:"value"`
	Label string    `json:"label"`
}

// Auth

func (c *Client) Login(ctx context.Context, cred user.Credentials) (user.User, string, error) {
	var res authResponse
	if err := c.do(ctx, call{method: rest.Post, path: "/v1/auth/login", body: cred, out: &res}); err != nil {
		return user.User{}, "", err
	}
	return res.User, res.Token, nil
}

func (c *Client) Register(ctx context.Context, nu user.NewUser) (user.User, string, error) {
	var res authResponse
	if err := c.do(ctx, call{method: rest.Post, path: "/v1/auth/register", body: nu, out: &res}); err != nil {
		return user.User{}, "", err
	}
	return res.User, res.Token, nil
}

func (c *Client) Me(ctx context.Context) (user.User, error) {
	var usr user.User
	err := c.do(ctx, call{method: rest.Get, path: "/v1/auth/me", out: &usr})
	return usr, err
}

// RefreshToken returns a fresh token for the stored one. The caller stores it.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	var res struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, call{method: rest.Post, path: "/v1/auth/token-refresh", out: &res})
	return res.Token, err
}

func (c *Client) Roles(ctx context.Context) ([]Role, error) {
	var roles []Role
	err := c.do(ctx, call{method: rest.Get, path: "/v1/auth/roles", out: &roles})
	return roles, err
}

// Profiles

func (c *Client) Profile(ctx context.Context, userID string) (profile.StudentProfile, error) {
	var p profile.StudentProfile
	err := c.do(ctx, call{method: rest.Get, path: "/v1/profiles/" + userID, out: &p})
	return p, err
}

func (c *Client) SaveProfile(ctx context.Context, p profile.StudentProfile) (profile.StudentProfile, error) {
	var saved profile.StudentProfile
	err := c.do(ctx, call{method: rest.Put, path: "/v1/profiles/" + p.UserID, body: p, out: &saved})
	return saved, err
}

// Opportunities

func (c *Client) Opportunities(ctx context.Context, search string) ([]opportunity.Opportunity, error) {
	var opps []opportunity.Opportunity
	cl := call{method: rest.Get, path: "/v1/opportunities", out: &opps}
	if search = strings.TrimSpace(search); search != "" {
		cl.query = map[string]string{"search": search}
	}
	err := c.do(ctx, cl)
	return opps, err
}

func (c *Client) MyOpportunities(ctx context.Context) ([]opportunity.Opportunity, error) {
	var opps []opportunity.Opportunity
	err := c.do(ctx, call{method: rest.Get, path: "/v1/opportunities/mine", out: &opps})
	return opps, err
}

func (c *Client) Opportunity(ctx context.Context, id string) (opportunity.Opportunity, error) {
	var o opportunity.Opportunity
	err := c.do(ctx, call{method: rest.Get, path: "/v1/opportunities/" + id, out: &o})
	return o, err
}

func (c *Client) CreateOpportunity(ctx context.Context, no opportunity.NewOpportunity) (opportunity.Opportunity, error) {
	var o opportunity.Opportunity
	err := c.do(ctx, call{method: rest.Post, path: "/v1/opportunities", body: no, out: &o})
	return o, err
}

func (c *Client) DeleteOpportunity(ctx context.Context, id string) error {
	return c.do(ctx, call{method: rest.Delete, path: "/v1/opportunities/" + id})
}

func (c *Client) Apply(ctx context.Context, opportunityID string) (application.Application, error) {
	var app application.Application
	err := c.do(ctx, call{method: rest.Post, path: "/v1/opportunities/" + opportunityID + "/applications", out: &app})
	return app, err
}

// Applications

// Applications lists the student's own applications, or those a professor received.
func (c *Client) Applications(ctx context.Context) ([]application.Application, error) {
	var apps []application.Application
	err := c.do(ctx, call{method: rest.Get, path: "/v1/applications", out: &apps})
	return apps, err
}

func (c *Client) TriggerMatch(ctx context.Context, id string) (application.Application, error) {
	var app application.Application
	err := c.do(ctx, call{method: rest.Post, path: "/v1/applications/" + id + "/match", out: &app})
	return app, err
}

func (c *Client) SetApplicationStatus(ctx context.Context, id string, status application.Status) (application.Application, error) {
	var app application.Application
	err := c.do(ctx, call{
		method: rest.Put,
		path:   "/v1/applications/" + id + "/status",
		body:   application.UpdateStatus{Status: status},
		out:    &app,
	})
	return app, err
}

// Chat

func (c *Client) ChatRooms(ctx context.Context) ([]chat.Room, error) {
	var rooms []chat.Room
	err := c.do(ctx, call{method: rest.Get, path: "/v1/chat/rooms", out: &rooms})
	return rooms, err
}

func (c *Client) ChatHistory(ctx context.Context, roomID string) ([]chat.Message, error) {
	var msgs []chat.Message
	err := c.do(ctx, call{method: rest.Get, path: "/v1/chat/rooms/" + roomID + "/messages", out: &msgs})
	return msgs, err
}

func (c *Client) SendChatMessage(ctx context.Context, roomID string, nm chat.NewMessage) (chat.Message, error) {
	var msg chat.Message
	err := c.do(ctx, call{method: rest.Post, path: "/v1/chat/rooms/" + roomID + "/messages", body: nm, out: &msg})
	return msg, err
}

// Admin

func (c *Client) Stats(ctx context.Context) (admin.Stats, error) {
	var st admin.Stats
	err := c.do(ctx, call{method: rest.Get, path: "/v1/admin/stats", out: &st})
	return st, err
}

// ExportStats copies the xlsx export to w.
func (c *Client) ExportStats(ctx context.Context, w io.Writer) error {
	res, err := c.send(ctx, call{method: rest.Get, path: "/v1/admin/stats/export"})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, res.Body)
	return errors.Wrap(err, "writing export")
}

func (c *Client) Users(ctx context.Context) ([]user.User, error) {
	var users []user.User
	err := c.do(ctx, call{method: rest.Get, path: "/v1/admin/users", out: &users})
	return users, err
}
