// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/baodpham/sanihub/internal/app/features/errors"
	_ "github.com/baodpham/sanihub/internal/app/features/login/views"
	employeestore "github.com/baodpham/sanihub/internal/app/store/employees"
	"github.com/baodpham/sanihub/internal/app/system/auth"
	"github.com/baodpham/sanihub/internal/app/system/formutil"
	"github.com/baodpham/sanihub/internal/app/system/normalize"
	"github.com/baodpham/sanihub/internal/app/system/timeouts"
)

// Handler serves the sign-in page and processes credentials. Only
// employees with an active status and a set password can sign in.
type Handler struct {
	DB         *mongo.Database
	Employees  *employeestore.Store
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Employees:  employeestore.New(db),
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Log:        logger,
	}
}

// loginPageData is the view model for the login form.
type loginPageData struct {
	formutil.Base
	Email  string
	Return string
}

// ServeLogin handles GET /login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, signedIn := auth.CurrentUser(r); signedIn {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := loginPageData{
		Return: urlutil.SafeReturn(query.Get(r, "return"), "", ""),
	}
	formutil.SetBase(&data.Base, r, "Sign in", "/")
	templates.Render(w, r, "login", data)
}

// HandleLoginPost handles POST /login.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, "", "", "The submitted form could not be read.")
		return
	}

	email := normalize.Email(r.FormValue("email"))
	password := r.FormValue("password")
	ret := urlutil.SafeReturn(r.FormValue("return"), "", "")

	if email == "" || password == "" {
		h.renderError(w, r, email, ret, "Enter your email and password.")
		return
	}

	employee, err := h.Employees.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, employeestore.ErrEmployeeNotFound) {
			h.Log.Info("login failed: unknown email", zap.String("email", email))
			h.renderError(w, r, email, ret, "Email or password is incorrect.")
			return
		}
		h.ErrLog.LogServerError(w, r, "login lookup failed", err, "A database error occurred.", "/login")
		return
	}

	if employee.Status != "active" {
		h.Log.Info("login refused: inactive account", zap.String("email", email))
		h.renderError(w, r, email, ret, "This account is disabled.")
		return
	}
	if !employeestore.VerifyPassword(employee, password) {
		h.Log.Info("login failed: bad password", zap.String("email", email))
		h.renderError(w, r, email, ret, "Email or password is incorrect.")
		return
	}

	user := &auth.SessionUser{
		ID:      employee.ID.Hex(),
		Name:    employee.FullName,
		LoginID: employee.Email,
		Role:    employee.Role,
	}
	if err := h.SessionMgr.SignIn(w, r, user); err != nil {
		h.ErrLog.LogServerError(w, r, "session save failed", err, "Could not start your session. Please try again.", "/login")
		return
	}

	if ret == "" {
		ret = "/"
	}
	http.Redirect(w, r, ret, http.StatusSeeOther)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, email, ret, msg string) {
	data := loginPageData{
		Email:  email,
		Return: ret,
	}
	formutil.SetBase(&data.Base, r, "Sign in", "/")
	data.SetError(msg)
	templates.Render(w, r, "login", data)
}
