package ez

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trouve-ton-artisan/internal/apperr"
	"trouve-ton-artisan/internal/contact"
	resp "trouve-ton-artisan/internal/transport/http/response"
)

func newTestEngine(register func(EZ)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(New(r.Group("/api/v1")))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) resp.Resp {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// every action responds HTTP 200, the business code lives in the envelope
	require.Equal(t, http.StatusOK, w.Code)
	var out resp.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRegisterActionSuccessEnvelope(t *testing.T) {
	r := newTestEngine(func(e EZ) {
		RegisterAction[struct{}, gin.H](e, Action[struct{}, gin.H]{
			Method: http.MethodGet,
			Path:   "/ping",
			Binder: BindNone,
			Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
				return gin.H{"pong": true}, nil
			},
		})
	})

	out := doJSON(t, r, http.MethodGet, "/api/v1/ping", "")
	assert.Equal(t, resp.CodeOK, out.Code)
	assert.Equal(t, "OK", out.Msg)
}

func TestRegisterActionErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid argument", apperr.Invalid("page must be >= 1"), resp.CodeBadRequest},
		{"not found", apperr.NotFound("artisan 7 not found"), resp.CodeNotFound},
		{"conflict", apperr.Conflict("email in use"), resp.CodeConflict},
		{"unavailable", apperr.Unavailable("db down", nil), resp.CodeUnavailable},
		{"internal", apperr.Internal("boom", nil), resp.CodeServerError},
		{"quota", &contact.QuotaError{Limit: 5, Window: time.Hour}, resp.CodeTooManyRequests},
		{"aerr passthrough", Unauthorized("invalid credentials"), resp.CodeUnauthorized},
		{"plain error", assertAnError{}, resp.CodeServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestEngine(func(e EZ) {
				RegisterAction[struct{}, gin.H](e, Action[struct{}, gin.H]{
					Method: http.MethodGet,
					Path:   "/fail",
					Binder: BindNone,
					Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
						return nil, tc.err
					},
				})
			})
			out := doJSON(t, r, http.MethodGet, "/api/v1/fail", "")
			assert.Equal(t, tc.code, out.Code)
		})
	}
}

type assertAnError struct{}

func (assertAnError) Error() string { return "plain" }

func TestRegisterActionBindJSONRejectsGarbage(t *testing.T) {
	type in struct {
		Name string `json:"name" binding:"required"`
	}
	r := newTestEngine(func(e EZ) {
		RegisterAction[in, gin.H](e, Action[in, gin.H]{
			Method: http.MethodPost,
			Path:   "/things",
			Binder: BindJSON,
			Handler: func(c *gin.Context, v *in) (gin.H, error) {
				return gin.H{"name": v.Name}, nil
			},
		})
	})

	out := doJSON(t, r, http.MethodPost, "/api/v1/things", `{"nope":`)
	assert.Equal(t, resp.CodeBadRequest, out.Code)

	out = doJSON(t, r, http.MethodPost, "/api/v1/things", `{}`)
	assert.Equal(t, resp.CodeBadRequest, out.Code, "binding:required is enforced")

	out = doJSON(t, r, http.MethodPost, "/api/v1/things", `{"name":"ok"}`)
	assert.Equal(t, resp.CodeOK, out.Code)
}

func TestRegisterActionRoleGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/admin/v1")
	g.Use(func(c *gin.Context) { c.Set("role", "viewer") })
	RegisterAction[struct{}, gin.H](New(g), Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/secret",
		Binder: BindNone,
		Roles:  []string{"admin"},
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			return gin.H{}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/v1/secret", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out resp.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, resp.CodeForbidden, out.Code)
}
