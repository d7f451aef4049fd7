package echoapi

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/edumatch/core/user"
	"github.com/trezcool/edumatch/storage/database"
)

func TestAdminAPI_stats(t *testing.T) {
	app := setup(t)
	adminToken := getToken(t, app, getUser(t, app, database.AdminID))

	runHTTPTests(t, app, []httpTest{
		{
			name:     "no token",
			method:   http.MethodGet,
			path:     "/v1/admin/stats",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "professor",
			method:   http.MethodGet,
			path:     "/v1/admin/stats",
			token:    getToken(t, app, getUser(t, app, database.ProfessorID)),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "admin",
			method:   http.MethodGet,
			path:     "/v1/admin/stats",
			token:    adminToken,
			wantCode: http.StatusOK,
			wantData: []byte(`{
				"totalUsers": 3,
				"totalOpportunities": 2,
				"totalApplications": 1,
				"usersByRole": {"student": 1, "professor": 1, "admin": 1},
				"applicationsByStatus": {"pending": 1, "accepted": 0, "rejected": 0}
			}`),
		},
	})
}

func TestAdminAPI_users(t *testing.T) {
	app := setup(t)
	adminToken := getToken(t, app, getUser(t, app, database.AdminID))

	rec := app.do(httpTest{method: http.MethodGet, path: "/v1/admin/users", token: adminToken})
	require.Equal(t, http.StatusOK, rec.Code)
	var users []user.User
	unmarchall(t, rec, &users)
	require.Len(t, users, 3)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAdminAPI_exportStats(t *testing.T) {
	app := setup(t)
	adminToken := getToken(t, app, getUser(t, app, database.AdminID))

	rec := app.do(httpTest{method: http.MethodGet, path: "/v1/admin/stats/export", token: adminToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, xlsxMIME, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment; filename=\"edumatch-stats-")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	total, err := f.GetCellValue("Stats", "B2")
	require.NoError(t, err)
	assert.Equal(t, "3", total)

	rows, err := f.GetRows("Users")
	require.NoError(t, err)
	assert.Len(t, rows, 4) // header + seeded users
}
