package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edumatch/core"
	"github.com/trezcool/edumatch/core/admin"
	"github.com/trezcool/edumatch/core/application"
	"github.com/trezcool/edumatch/core/chat"
	"github.com/trezcool/edumatch/core/opportunity"
	"github.com/trezcool/edumatch/core/profile"
	"github.com/trezcool/edumatch/core/user"
	emailsvc "github.com/trezcool/edumatch/services/email"
	logsvc "github.com/trezcool/edumatch/services/logger"
	"github.com/trezcool/edumatch/storage/database"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	*Server
	repos *database.Repositories
	mail  *emailsvc.ConsoleService
}

func testConfig() *core.Config {
	return &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "EduMatch",
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			DisableReqLogs:            true,
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: time.Hour,
		},
		Mock: core.MockConfig{BotReplyDelay: time.Millisecond},
	}
}

func setup(t *testing.T) *testApp {
	t.Helper()
	conf := testConfig()

	repos := database.InMemory()
	require.NoError(t, database.Seed(context.Background(), repos))

	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)

	usrSvc := user.NewService(repos.Users, 0, false)
	oppSvc := opportunity.NewService(repos.Opportunities, 0)
	appSvc := application.NewService(application.Deps{
		Repo:          repos.Applications,
		Opportunities: repos.Opportunities,
		Users:         repos.Users,
		Scorer:        application.NewRandomScorer(1),
		Mail:          mailSvc,
		Logger:        logger,
	})

	srv := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		UserSvc:        usrSvc,
		ProfileSvc:     profile.NewService(repos.Profiles, 0),
		OpportunitySvc: oppSvc,
		ApplicationSvc: appSvc,
		ChatSvc:        chat.NewService(repos.Chat, 0, conf.Mock.BotReplyDelay, logger),
		AdminSvc:       admin.NewService(usrSvc, oppSvc, appSvc, 0),
	})
	return &testApp{Server: srv, repos: repos, mail: mailSvc}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func (app *testApp) do(tt httpTest) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
	app.ServeHTTP(rec, req)
	return rec
}

func getUser(t *testing.T, app *testApp, id string) user.User {
	usr, err := app.repos.Users.GetUserByID(context.Background(), id)
	require.NoError(t, err)
	return usr
}

func getToken(t *testing.T, app *testApp, usr user.User) string {
	token, err := app.GenerateToken(usr)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func unmarchall(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("unmarchall() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app *testApp, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, app.do(tt))
		})
	}
}
