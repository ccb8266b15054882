package tests

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/parkkwangkil/wbs-project/apps/api/echo"
	"github.com/parkkwangkil/wbs-project/core/user"
)

func Test_userApi_login(t *testing.T) {
	resetDB(t)

	usr := createUser(t, "Hero", "heroic", "hero@test.cd", "s3cr3t", user.MemberRoles, true)
	createUser(t, "N Dog", "ndog01", "ndog@test.cd", "s3cr3t", user.MemberRoles, false)

	tests := []httpTest{
		{
			name: "empty payload", wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"username": "this field is required", "password": "this field is required"}),
		},
		{
			name: "unknown user", body: marshallObj(t, echoapi.LoginRequest{Username: "lol", Password: "lol"}),
			wantCode: http.StatusBadRequest, wantData: marshallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name: "wrong password", body: marshallObj(t, echoapi.LoginRequest{Username: usr.Username, Password: "lol"}),
			wantCode: http.StatusBadRequest, wantData: marshallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "deactivated account", body: marshallObj(t, echoapi.LoginRequest{Username: "ndog01", Password: "s3cr3t"}),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "login with username", body: marshallObj(t, echoapi.LoginRequest{Username: usr.Username, Password: "s3cr3t"}),
			wantCode: http.StatusOK,
		},
		{
			name: "login with email", body: marshallObj(t, echoapi.LoginRequest{Username: usr.Email, Password: "s3cr3t"}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
				var respData echoapi.LoginResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &respData))
				assert.NotEmpty(t, respData.Token)
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_userQuery(t *testing.T) {
	resetDB(t)

	path := func(search, ordering string, roles ...string) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if ordering != "" {
			v.Add("ordering", ordering)
		}
		for _, r := range roles {
			v.Add("role", r)
		}
		return "/v1/users?" + v.Encode()
	}

	awe := createUser(t, "Awe", "awedemo", "awe@test.cd", "", user.MemberRoles, true)
	boss := createUser(t, "Boss", "bigboss", "boss@test.cd", "", user.ManagerRoles, true)
	admin := createUser(t, "Admin", "admin01", "admin@test.cd", "", user.AdminRoles, true)

	adminToken := getToken(t, admin)
	empty := marshallList(t)

	tests := []httpTest{
		{name: "Auth required", path: "/v1/users", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "Admin required", path: "/v1/users", token: getToken(t, awe), wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "Get all", path: "/v1/users", token: adminToken, wantData: marshallList(t, awe, boss, admin)},
		{name: "search (unknown)", path: path("lol", ""), token: adminToken, wantData: empty},
		{name: "search=bo", path: path("bo", ""), token: adminToken, wantData: marshallList(t, boss)},
		{name: "role=manager:", path: path("", "", user.RoleManager), token: adminToken, wantData: marshallList(t, boss)},
		{name: "order by -name", path: path("", "-name"), token: adminToken, wantData: marshallList(t, boss, admin, awe)},
		{name: "order by name", path: path("", "name"), token: adminToken, wantData: marshallList(t, admin, awe, boss)},
		{
			name: "filtering & ordering", path: path("test.cd", "-username", user.RoleMember, user.RoleManager),
			token: adminToken, wantData: marshallList(t, boss, awe),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_userRefreshToken(t *testing.T) {
	resetDB(t)

	member := createUser(t, "Hero", "heroic", "hero@test.cd", "", user.MemberRoles, true)
	naughty := createUser(t, "N Dog", "ndog01", "ndog@test.cd", "", user.MemberRoles, false)

	now := time.Now()
	unrefreshableClaims := echoapi.GetUserClaims(member, now.Add(-2*conf.Server.JWTRefreshExpirationDelta).Unix())
	unrefreshableToken, err := echoapi.GenerateToken(unrefreshableClaims)
	require.NoError(t, err)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "Inactive user not allowed", token: getToken(t, naughty), wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "Refresh period expired", token: unrefreshableToken, wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "refresh has expired"}),
		},
		{name: "Token refreshed", token: getToken(t, member), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/users/token-refresh"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			// cannot guess the new token.. just check that it's not empty
			if tt.wantCode == http.StatusOK {
				require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
				var respData echoapi.LoginResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &respData))
				assert.NotEmpty(t, respData.Token)

				claims := new(echoapi.Claims)
				_, err := jwt.ParseWithClaims(respData.Token, claims, func(token *jwt.Token) (interface{}, error) {
					return conf.SecretKey, nil
				})
				require.NoError(t, err)
				userID, err := claims.UserID()
				require.NoError(t, err)
				assert.Equal(t, member.ID, userID)
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
