package routes

import (
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

func csrfFailure(render *render.Render, log *zap.Logger) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Warn("csrf check failed", zap.String("path", r.URL.Path), zap.Error(csrf.FailureReason(r)))
		_ = render.JSON(w, http.StatusForbidden, map[string]interface{}{
			"error": map[string]string{
				"kind":    "FORBIDDEN",
				"code":    "CSRFTokenInvalid",
				"message": "missing or invalid CSRF token",
			},
		})
	}
}
