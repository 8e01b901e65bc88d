// internal/app/features/errors/errlog.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/baodpham/sanihub/internal/app/system/authz"
)

// ErrorLogger pairs structured logging with a rendered error page so
// handlers can report a failure in one call.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger around the app logger.
func NewErrorLogger(log *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: log}
}

// LogServerError logs the internal error and renders a friendly error
// page. logMsg goes to the log; userMsg is what the visitor sees.
func (el *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	el.log.Error(logMsg,
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Error(err))

	role, name, _, signedIn := authz.UserCtx(r)
	if backURL == "" {
		backURL = "/"
	}

	data := pageData{
		Title:      "Something went wrong",
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Message:    userMsg,
		BackURL:    backURL,
	}

	w.WriteHeader(http.StatusInternalServerError)
	templates.Render(w, r, "error_page", data)
}
