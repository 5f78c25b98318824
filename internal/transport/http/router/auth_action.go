package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"trouve-ton-artisan/internal/core/auth"
	"trouve-ton-artisan/internal/core/config"
	httpez "trouve-ton-artisan/internal/transport/http/ez"
	"trouve-ton-artisan/pkg/utils"
)

// mountLoginAction exposes POST /auth/login for the single configured admin.
// There is no user table: the credential lives in config as a bcrypt hash.
func mountLoginAction(admin *gin.RouterGroup, jwter *auth.JWTer, adm config.Admin) {
	ez := httpez.New(admin)

	type loginIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	type loginOut struct {
		Token string `json:"token"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	httpez.RegisterAction[loginIn, loginOut](ez, httpez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			email := strings.ToLower(strings.TrimSpace(in.Email))
			if adm.Email == "" || adm.PasswordHash == "" {
				return loginOut{}, httpez.Unauthorized("admin login not configured")
			}
			if email != strings.ToLower(adm.Email) || !utils.CheckPassword(in.Password, adm.PasswordHash) {
				return loginOut{}, httpez.Unauthorized("invalid credentials")
			}
			tok, err := jwter.Issue(email, "admin")
			if err != nil || tok == "" {
				return loginOut{}, httpez.Internal("issue token failed", err)
			}
			return loginOut{Token: tok, Email: email, Role: "admin"}, nil
		},
	})
}
