package dig_container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/edumatch/apps/api/echo"
	"github.com/trezcool/edumatch/core"
	"github.com/trezcool/edumatch/storage/database"
)

func testConfig() *core.Config {
	conf, err := core.LoadConfig("test", "")
	if err != nil {
		panic(err)
	}
	conf.Server.DisableReqLogs = true
	return conf
}

func TestNew(t *testing.T) {
	c := New(testConfig)

	err := c.Invoke(func(server *echoapi.Server, repos *database.Repositories) {
		defer repos.Close()

		n, _, err := repos.Users.CountUsers(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, n, "seeded")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
	require.NoError(t, err)
}
