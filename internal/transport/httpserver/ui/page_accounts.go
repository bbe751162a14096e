package ui

import (
	"errors"
	"net/http"
	"strings"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
	userdomain "social-app-go/internal/domain/user"
	"social-app-go/internal/transport/httpserver/middleware"
)

type signupForm struct {
	Username string
	Email    string
	Errors   []string
}

type loginForm struct {
	Username string
	Next     string
	Errors   []string
}

func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, http.StatusOK, h.signupView(r, signupForm{}))
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	form := signupForm{
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
	}

	user, err := h.Accounts.Register(r.Context(), userdomain.RegisterInput{
		Username:        form.Username,
		Email:           form.Email,
		Password:        r.FormValue("password"),
		PasswordConfirm: r.FormValue("password_confirm"),
	})
	if err != nil {
		switch {
		case userdomain.IsValidation(err):
			form.Errors = []string{err.Error()}
		case errors.Is(err, userdomain.ErrUsernameTaken):
			form.Errors = []string{"A user with that username already exists."}
		default:
			h.serverError(w, r, "ui.signup: register failed", err)
			return
		}
		h.requestLog(r).BusinessError("ui.signup: rejected", err, "username", form.Username)
		renderHTML(w, http.StatusBadRequest, h.signupView(r, form))
		return
	}

	h.requestLog(r).Info("ui.signup: account created", "user_id", user.ID)
	h.setFlash(w, flashSuccess, "Your account has been created. Please log in.")
	redirect(w, r, "/accounts/login")
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserFromContext(r.Context()); ok {
		redirect(w, r, safeNext(r.URL.Query().Get("next")))
		return
	}
	renderHTML(w, http.StatusOK, h.loginView(r, loginForm{Next: r.URL.Query().Get("next")}))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	form := loginForm{
		Username: strings.TrimSpace(r.FormValue("username")),
		Next:     r.FormValue("next"),
	}

	user, err := h.Accounts.Authenticate(r.Context(), form.Username, r.FormValue("password"))
	if err != nil {
		if !errors.Is(err, userdomain.ErrInvalidCredentials) {
			h.serverError(w, r, "ui.login: authenticate failed", err)
			return
		}
		h.requestLog(r).BusinessError("ui.login: invalid credentials", err, "username", form.Username)
		form.Errors = []string{"Please enter a correct username and password."}
		renderHTML(w, http.StatusUnauthorized, h.loginView(r, form))
		return
	}

	if err := h.Sessions.StartSession(w, middleware.User{ID: user.ID, Username: user.Username}); err != nil {
		h.serverError(w, r, "ui.login: start session failed", err)
		return
	}
	redirect(w, r, safeNext(form.Next))
}

func (h *Handler) LogoutPage(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, http.StatusOK, h.page(r, "Log out",
		Section(Class("card"),
			H1(Text("Log out")),
			Form(Method("post"), Action("/accounts/logout"),
				csrfField(r),
				Button(Type("submit"), Text("Log out")),
			),
		),
	))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.ClearSession(w)
	h.setFlash(w, flashInfo, "You have been logged out.")
	redirect(w, r, "/")
}

func (h *Handler) signupView(r *http.Request, form signupForm) Node {
	return h.page(r, "Sign up",
		Section(Class("card"),
			H1(Text("Sign up")),
			formErrors(form.Errors),
			Form(Method("post"), Action("/accounts/signup"),
				csrfField(r),
				textInput("Username", "username", "text", form.Username, Required(), Attr("autocomplete", "username")),
				textInput("Email", "email", "email", form.Email, Required()),
				textInput("Password", "password", "password", "", Required(), Attr("autocomplete", "new-password")),
				textInput("Confirm password", "password_confirm", "password", "", Required(), Attr("autocomplete", "new-password")),
				Button(Type("submit"), Text("Sign up")),
			),
			P(Class("meta"), Text("Already have an account? "), A(Href("/accounts/login"), Text("Log in"))),
		),
	)
}

func (h *Handler) loginView(r *http.Request, form loginForm) Node {
	return h.page(r, "Log in",
		Section(Class("card"),
			H1(Text("Log in")),
			formErrors(form.Errors),
			Form(Method("post"), Action("/accounts/login"),
				csrfField(r),
				Input(Type("hidden"), Name("next"), Value(form.Next)),
				textInput("Username", "username", "text", form.Username, Required(), Attr("autocomplete", "username")),
				textInput("Password", "password", "password", "", Required(), Attr("autocomplete", "current-password")),
				Button(Type("submit"), Text("Log in")),
			),
			P(Class("meta"), Text("No account yet? "), A(Href("/accounts/signup"), Text("Sign up"))),
		),
	)
}
