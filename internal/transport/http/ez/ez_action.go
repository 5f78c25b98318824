package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"trouve-ton-artisan/internal/apperr"
	"trouve-ton-artisan/internal/contact"
	resp "trouve-ton-artisan/internal/transport/http/response"
)

// EZ is a thin wrapper over a router group for one-line action registration.
type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// Binder selects how the input struct is populated.
type Binder string

const (
	BindJSON  Binder = "json"  // from the JSON body
	BindQuery Binder = "query" // from URL query params
	BindNone  Binder = "none"  // no binding, read c.Param yourself
)

// AErr carries a business code alongside the message.
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// codeOf maps domain errors to business codes. Unknown errors are 500.
func codeOf(err error) int {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae.Code
	}
	var qe *contact.QuotaError
	if errors.As(err, &qe) {
		return resp.CodeTooManyRequests
	}
	switch apperr.KindOf(err) {
	case apperr.KindInvalidArgument:
		return resp.CodeBadRequest
	case apperr.KindNotFound:
		return resp.CodeNotFound
	case apperr.KindConflict:
		return resp.CodeConflict
	case apperr.KindUnavailable:
		return resp.CodeUnavailable
	default:
		return resp.CodeServerError
	}
}

// Action describes one endpoint: I is the input type, O the output.
type Action[I any, O any] struct {
	Method  string   // "GET" | "POST" | "PUT" | "DELETE"
	Path    string   // e.g. "/artisans/:id"
	Binder  Binder
	Roles   []string // required roles, checked against the auth middleware
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction mounts an action on the group. Responses always use
// HTTP 200 with the business code in the envelope.
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		if len(a.Roles) > 0 {
			role := c.GetString("role")
			ok := false
			for _, r := range a.Roles {
				if role == r {
					ok = true
					break
				}
			}
			if !ok {
				c.JSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
				return
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone
		}
		if bindErr != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			c.JSON(http.StatusOK, resp.Error(codeOf(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // defaults to POST
		e.g.POST(a.Path, h)
	}
}
