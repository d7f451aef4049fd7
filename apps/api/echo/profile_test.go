package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edumatch/core"
	"github.com/trezcool/edumatch/core/profile"
	"github.com/trezcool/edumatch/core/user"
	"github.com/trezcool/edumatch/storage/database"
)

func TestProfileAPI_retrieve(t *testing.T) {
	app := setup(t)
	student := getUser(t, app, database.StudentID)
	other := user.User{ID: "other", Role: user.RoleStudent, Name: "Bob"}

	want := []byte(`{
		"userId": "1",
		"fullName": "Alice Student",
		"major": "Computer Science",
		"gpa": 3.8,
		"skills": ["React", "Python", "AI"],
		"preferences": "Research in NLP"
	}`)

	runHTTPTests(t, app, []httpTest{
		{
			name:     "no token",
			method:   http.MethodGet,
			path:     "/v1/profiles/1",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "self",
			method:   http.MethodGet,
			path:     "/v1/profiles/1",
			token:    getToken(t, app, student),
			wantCode: http.StatusOK,
			wantData: want,
		},
		{
			name:     "professor",
			method:   http.MethodGet,
			path:     "/v1/profiles/1",
			token:    getToken(t, app, getUser(t, app, database.ProfessorID)),
			wantCode: http.StatusOK,
			wantData: want,
		},
		{
			name:     "another student",
			method:   http.MethodGet,
			path:     "/v1/profiles/1",
			token:    getToken(t, app, other),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: core.ErrForbidden.Error()}),
		},
		{
			name:     "not found",
			method:   http.MethodGet,
			path:     "/v1/profiles/other",
			token:    getToken(t, app, other),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: profile.ErrNotFound.Error()}),
		},
	})
}

func TestProfileAPI_save(t *testing.T) {
	app := setup(t)
	studentToken := getToken(t, app, getUser(t, app, database.StudentID))
	newbie := user.User{ID: "newbie", Role: user.RoleStudent, Name: "Newbie"}

	runHTTPTests(t, app, []httpTest{
		{
			name:     "cleans skills",
			method:   http.MethodPut,
			path:     "/v1/profiles/1",
			body:     []byte(`{"fullName":" Alice S. ","major":"CS","gpa":4,"skills":[" Go ","Go","","SQL"],"preferences":"HPC"}`),
			token:    studentToken,
			wantCode: http.StatusOK,
			wantData: []byte(`{"userId":"1","fullName":"Alice S.","major":"CS","gpa":4,"skills":["Go","SQL"],"preferences":"HPC"}`),
		},
		{
			name:     "created on first save",
			method:   http.MethodPut,
			path:     "/v1/profiles/newbie",
			body:     []byte(`{"fullName":"Newbie"}`),
			token:    getToken(t, app, newbie),
			wantCode: http.StatusOK,
			wantData: []byte(`{"userId":"newbie","fullName":"Newbie","major":"","gpa":0,"skills":[],"preferences":""}`),
		},
		{
			name:     "blank name",
			method:   http.MethodPut,
			path:     "/v1/profiles/1",
			body:     []byte(`{"fullName":"  "}`),
			token:    studentToken,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"fullName":"this field is required"}`),
		},
		{
			name:     "someone else's",
			method:   http.MethodPut,
			path:     "/v1/profiles/newbie",
			body:     []byte(`{"fullName":"Hacker"}`),
			token:    studentToken,
			wantCode: http.StatusForbidden,
		},
		{
			name:     "professor",
			method:   http.MethodPut,
			path:     "/v1/profiles/2",
			body:     []byte(`{"fullName":"Dr. Smith"}`),
			token:    getToken(t, app, getUser(t, app, database.ProfessorID)),
			wantCode: http.StatusForbidden,
		},
	})

	rec := app.do(httpTest{
		method: http.MethodPut,
		path:   "/v1/profiles/1",
		body:   []byte(`{"fullName":"Alice","gpa":4.5}`),
		token:  studentToken,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var fields map[string]string
	unmarchall(t, rec, &fields)
	assert.Contains(t, fields, "gpa")
}
