// internal/app/features/login/login.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - Username: the human-readable string users type to log in; matched case-insensitively

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/ksef/internal/app/store/users"
	"github.com/dalemusser/ksef/internal/app/system/auth"
	"github.com/dalemusser/ksef/internal/app/system/formutil"
	"github.com/dalemusser/ksef/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Messages shown on the login form.
const (
	MsgMissingFields      = "Please enter your username and password."
	MsgInvalidCredentials = "Invalid username or password."
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, urlutil.SafeReturn(ret, "", "/dashboard"), http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "login", loginFormData{
		Base:      formutil.NewBase(w, r, h.SessionMgr, "Login", "/"),
		ReturnURL: ret,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	ret := strings.TrimSpace(r.FormValue("return"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	/*── rate limit before touching the directory ──────────────────────────*/

	if h.Limiter != nil {
		if ok, limit, msg := h.Limiter.Check(r, username); !ok {
			h.AuditLog.LoginFailedRateLimit(ctx, r, username, limit)
			w.WriteHeader(http.StatusTooManyRequests)
			h.renderFormWithError(w, r, msg, username, ret)
			return
		}
	}

	if username == "" || password == "" {
		h.renderFormWithError(w, r, MsgMissingFields, username, ret)
		return
	}

	/*── look-up user by username_ci (case/diacritic-insensitive) ──────────*/

	u, err := h.Users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		h.AuditLog.LoginFailedUserNotFound(ctx, r, username)
		h.renderFormWithError(w, r, MsgInvalidCredentials, username, ret)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB find user", err, "A server error occurred.", "/login")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, username)
		h.renderFormWithError(w, r, MsgInvalidCredentials, username, ret)
		return
	}

	/*── success ───────────────────────────────────────────────────────────*/

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		h.renderFormWithError(w, r, "Unable to create session. Please try again.", username, ret)
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetUsername(username)
	}
	h.AuditLog.LoginSuccess(ctx, r, u.ID, u.Username)

	http.Redirect(w, r, urlutil.SafeReturn(ret, "", "/dashboard"), http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, username, ret string) {
	data := loginFormData{
		Base:      formutil.NewBase(w, r, nil, "Login", "/"),
		Username:  username,
		ReturnURL: ret,
	}
	data.SetError(msg)
	templates.Render(w, r, "login", data)
}
