// internal/app/features/register/register.go
package register

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/ksef/internal/app/policy/requestpolicy"
	userstore "github.com/dalemusser/ksef/internal/app/store/users"
	"github.com/dalemusser/ksef/internal/app/system/auth"
	"github.com/dalemusser/ksef/internal/app/system/formutil"
	"github.com/dalemusser/ksef/internal/app/system/inputval"
	"github.com/dalemusser/ksef/internal/app/system/normalize"
	"github.com/dalemusser/ksef/internal/app/system/timeouts"
	"github.com/dalemusser/ksef/internal/app/system/txn"
	"github.com/dalemusser/ksef/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// FlashWelcome is shown on the dashboard after a successful sign-up.
const FlashWelcome = "Registration successful! Welcome to KSEF."

/*─────────────────────────────────────────────────────────────────────────────*
| GET /register                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	templates.Render(w, r, "register", formData{
		Base:     formutil.NewBase(w, r, h.SessionMgr, "Register", "/"),
		UserType: models.RoleCommunityMember,
		Roles:    requestpolicy.RoleOptions(),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /register                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/register")
		return
	}

	in := registerInput{
		Username:  normalize.Name(r.FormValue("username")),
		FirstName: normalize.Name(r.FormValue("first_name")),
		LastName:  normalize.Name(r.FormValue("last_name")),
		Email:     normalize.Email(r.FormValue("email")),
		Password1: r.FormValue("password1"),
		Password2: r.FormValue("password2"),
		UserType:  normalize.Token(r.FormValue("user_type")),
		Phone:     normalize.Name(r.FormValue("phone")),
		Address:   normalize.Name(r.FormValue("address")),
	}

	data := formData{
		Base:      formutil.NewBase(w, r, nil, "Register", "/"),
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		UserType:  in.UserType,
		Phone:     in.Phone,
		Address:   in.Address,
		Roles:     requestpolicy.RoleOptions(),
	}
	reRender := func() {
		templates.Render(w, r, "register", data)
	}

	if res := inputval.Validate(in); res.HasErrors() {
		data.SetResult(res)
		reRender()
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password1), h.HashCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "Unable to create your account.", "/register")
		return
	}

	// A user without a profile cannot use the app, so both are written
	// together.
	var user models.User
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		user, err = h.Users.Create(ctx, models.User{
			Username:     in.Username,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Email:        in.Email,
			PasswordHash: string(hash),
		})
		if err != nil {
			return err
		}
		if _, err := h.Profiles.Create(ctx, models.Profile{
			UserID:  user.ID,
			Role:    in.UserType,
			Phone:   in.Phone,
			Address: in.Address,
		}); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		return nil
	})
	if errors.Is(err, userstore.ErrDuplicateUsername) {
		data.SetError("A user with that username already exists.")
		data.FieldErrors = map[string]string{"Username": "A user with that username already exists."}
		reRender()
		return
	}
	if err != nil {
		// Standalone servers ran without a transaction; undo by hand.
		if !user.ID.IsZero() {
			if _, delErr := h.Users.Delete(ctx, user.ID); delErr != nil {
				h.Log.Error("rollback user after profile failure",
					zap.Error(delErr), zap.String("user_id", user.ID.Hex()))
			}
		}
		h.ErrLog.LogServerError(w, r, "create account failed", err, "Unable to create your account.", "/register")
		return
	}

	h.AuditLog.Registration(ctx, r, user.ID, user.Username, in.UserType)

	if err := h.SessionMgr.SignIn(w, r, user.ID.Hex()); err != nil {
		h.Log.Error("sign in after registration failed", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	h.SessionMgr.AddFlash(w, r, auth.FlashSuccess, FlashWelcome)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
