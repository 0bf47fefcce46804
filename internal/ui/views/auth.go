package views

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/lanes/internal/auth"
	"github.com/dori/lanes/internal/model"
	"github.com/dori/lanes/internal/notify"
	"github.com/dori/lanes/internal/ui/theme"
)

// authBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type authBindings struct {
	email    string
	password string
}

type authResultMsg struct {
	route    auth.Route
	identity string
	email    string
	err      error
}

// AuthView renders the sign-in and register forms
type AuthView struct {
	accounts *auth.Accounts
	route    auth.Route
	form     *huh.Form
	fb       *authBindings
	busy     bool
	width    int
	height   int
}

// NewAuthView creates the form for route, which must be RouteSignIn or
// RouteRegister. email prefills the email field.
func NewAuthView(accounts *auth.Accounts, route auth.Route, email string) AuthView {
	v := AuthView{
		accounts: accounts,
		route:    route,
		fb:       &authBindings{email: email},
	}
	v.form = v.buildForm()
	return v
}

// Init initializes the form
func (v AuthView) Init() tea.Cmd {
	return v.form.Init()
}

// SetSize sets the view dimensions
func (v AuthView) SetSize(width, height int) AuthView {
	v.width = width
	v.height = height
	if v.form != nil {
		v.form = v.form.WithWidth(v.formWidth())
	}
	return v
}

// Route returns which form is shown
func (v AuthView) Route() auth.Route {
	return v.route
}

// Update handles messages
func (v AuthView) Update(msg tea.Msg) (AuthView, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		return v.handleResult(msg)

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}
		if msg.String() == "ctrl+n" {
			other := auth.RouteRegister
			if v.route == auth.RouteRegister {
				other = auth.RouteSignIn
			}
			return v, navigate(other, v.fb.email)
		}
	}

	mdl, cmd := v.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		v.form = f
	}

	switch v.form.State {
	case huh.StateCompleted:
		v.busy = true
		return v, v.submit()
	case huh.StateAborted:
		v.fb.password = ""
		v.form = v.buildForm()
		return v, v.form.Init()
	}
	return v, cmd
}

func (v AuthView) submit() tea.Cmd {
	accounts := v.accounts
	route := v.route
	email, password := v.fb.email, v.fb.password

	return func() tea.Msg {
		ctx := context.Background()
		if route == auth.RouteRegister {
			err := accounts.Register(ctx, email, password)
			return authResultMsg{route: route, email: model.NormalizeEmail(email), err: err}
		}
		identity, err := accounts.Authenticate(ctx, email, password)
		return authResultMsg{route: route, identity: identity, email: email, err: err}
	}
}

func (v AuthView) handleResult(msg authResultMsg) (AuthView, tea.Cmd) {
	v.busy = false

	if msg.err != nil {
		text := "Something went wrong, see the log"
		switch {
		case errors.Is(msg.err, auth.ErrEmailAlreadyExists):
			text = "This email is already registered."
		case errors.Is(msg.err, auth.ErrInvalidCredentials):
			text = "Invalid email or password."
		case model.IsValidation(msg.err):
			text = msg.err.Error()
		}
		// Keep what was typed; only the password is cleared
		v.fb.password = ""
		v.form = v.buildForm()
		return v, tea.Batch(v.form.Init(), toast(notify.LevelError, text))
	}

	if msg.route == auth.RouteRegister {
		return v, tea.Batch(
			toast(notify.LevelSuccess, "Registration successful! Please sign in."),
			navigate(auth.RouteSignIn, msg.email),
		)
	}
	identity := msg.identity
	return v, tea.Batch(
		toast(notify.LevelSuccess, "Sign In successful!"),
		func() tea.Msg { return SignedInMsg{Identity: identity} },
	)
}

func (v AuthView) buildForm() *huh.Form {
	password := huh.NewInput().
		Title("Password").
		Placeholder("Password").
		EchoMode(huh.EchoModePassword).
		Value(&v.fb.password)

	if v.route == auth.RouteRegister {
		password = password.
			Description("At least 8 characters, 1 uppercase, 1 lowercase, 1 digit, 1 special character.").
			Validate(model.ValidatePassword)
	} else {
		password = password.Validate(func(s string) error {
			if s == "" {
				return &model.ValidationError{Field: "password", Message: "please input your password"}
			}
			return nil
		})
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("Email").
				Value(&v.fb.email).
				Validate(model.ValidateEmail),
			password,
		),
	).WithWidth(v.formWidth()).WithShowHelp(false)
}

func (v AuthView) formWidth() int {
	return min(max(v.width-8, 30), 60)
}

// View renders the form
func (v AuthView) View() string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	title := "Sign In"
	hint := "enter: submit • tab: next field • ctrl+n: register now • ctrl+c: quit"
	if v.route == auth.RouteRegister {
		title = "Create an Account"
		hint = "enter: submit • tab: next field • ctrl+n: sign in • ctrl+c: quit"
	}

	body := v.form.View()
	if v.busy {
		body = styles.Label.Render("Checking...")
	}

	card := styles.Panel.
		BorderForeground(t.Primary).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.Title.Render(title),
			body,
			styles.Footer.Render(hint),
		))

	if v.width == 0 || v.height == 0 {
		return card
	}
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, card)
}
