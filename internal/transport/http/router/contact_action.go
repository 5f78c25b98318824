package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trouve-ton-artisan/internal/contact"
	httpez "trouve-ton-artisan/internal/transport/http/ez"
)

func mountContactAction(api *gin.RouterGroup, disp *contact.Dispatcher) {
	ez := httpez.New(api)

	// POST /contact/:artisan_id  relay a visitor message; the per-IP hourly
	// quota is enforced inside the dispatcher, independent of the API limits.
	httpez.RegisterAction[contact.Submission, *contact.Receipt](ez, httpez.Action[contact.Submission, *contact.Receipt]{
		Method: http.MethodPost,
		Path:   "/contact/:artisan_id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *contact.Submission) (*contact.Receipt, error) {
			raw := c.Param("artisan_id")
			id, err := parseID(raw)
			if err != nil {
				return nil, httpez.BadRequest("invalid artisan id: " + raw)
			}
			return disp.Dispatch(c.Request.Context(), id, *in, c.ClientIP())
		},
	})
}
