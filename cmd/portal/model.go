package main

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-portal/pkg/authstate"
	"github.com/dd0wney/cluso-portal/pkg/dashboard"
	"github.com/dd0wney/cluso-portal/pkg/identity"
	"github.com/dd0wney/cluso-portal/pkg/router"
	"github.com/dd0wney/cluso-portal/pkg/validation"
)

// sessionMsg carries a new auth state snapshot from the store.
type sessionMsg struct {
	state authstate.State
}

// navMsg carries a completed navigation from the router.
type navMsg struct {
	nav router.Navigation
}

// resetRequestedMsg reports the outcome of a password reset request.
type resetRequestedMsg struct {
	err error
}

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Back     key.Binding
	Register key.Binding
	Forgot   key.Binding
	Admin    key.Binding
	Manager  key.Binding
	User     key.Binding
	Logout   key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "prev field"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back to login"),
	),
	Register: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "register"),
	),
	Forgot: key.NewBinding(
		key.WithKeys("ctrl+f"),
		key.WithHelp("ctrl+f", "forgot password"),
	),
	Admin: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "admin dashboard"),
	),
	Manager: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "manager dashboard"),
	),
	User: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "my dashboard"),
	),
	Logout: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "log out"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Enter, k.Back},
		{k.Admin, k.Manager, k.User, k.Logout},
		{k.Quit},
	}
}

type model struct {
	store  *authstate.Store
	router *router.Router
	svc    identity.Service
	events chan tea.Msg

	state authstate.State
	path  string

	loginInputs    []textinput.Model
	registerInputs []textinput.Model
	forgotInput    textinput.Model
	focus          int
	fieldErrs      validation.FieldErrors
	notice         string

	teamTable table.Model
	help      help.Model
	keys      keyMap
	width     int
	height    int
}

func newModel(store *authstate.Store, rt *router.Router, svc identity.Service, events chan tea.Msg) model {
	m := model{
		store:     store,
		router:    rt,
		svc:       svc,
		events:    events,
		state:     store.State(),
		path:      rt.CurrentPath(),
		fieldErrs: validation.FieldErrors{},
		teamTable: newTeamTable(),
		help:      help.New(),
		keys:      keys,
	}
	m.loginInputs = newLoginInputs()
	m.registerInputs = newRegisterInputs()
	m.forgotInput = newEmailInput("you@example.com")
	m.focusField(0)
	return m
}

func newEmailInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 100
	ti.Width = 40
	return ti
}

func newPasswordInput(placeholder string) textinput.Model {
	ti := newEmailInput(placeholder)
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	return ti
}

func newLoginInputs() []textinput.Model {
	return []textinput.Model{
		newEmailInput("you@example.com"),
		newPasswordInput("password"),
	}
}

func newRegisterInputs() []textinput.Model {
	return []textinput.Model{
		newEmailInput("First name"),
		newEmailInput("Last name"),
		newEmailInput("you@example.com"),
		newPasswordInput("password"),
		newPasswordInput("confirm password"),
	}
}

func newTeamTable() table.Model {
	columns := []table.Column{
		{Title: "Name", Width: 16},
		{Title: "Role", Width: 20},
		{Title: "Status", Width: 12},
		{Title: "Tasks", Width: 6},
	}

	rows := make([]table.Row, 0)
	for _, member := range dashboard.TeamMembers() {
		rows = append(rows, table.Row{
			member.Name,
			member.Role,
			dashboard.StatusLabel(member.Status),
			strconv.Itoa(member.TasksCompleted),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(6),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#5A56E0")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// waitEvent blocks on the next store or router event.
func (m model) waitEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitEvent())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case sessionMsg:
		m.state = msg.state
		return m, m.waitEvent()

	case navMsg:
		m.enterRoute(msg.nav.Path)
		return m, m.waitEvent()

	case resetRequestedMsg:
		// Same notice either way; reset requests never reveal whether the
		// email exists.
		m.notice = "If that email is registered, a reset link is on its way."
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.onFormScreen() {
			return m.updateForm(msg)
		}
		return m.updateDashboard(msg)
	}

	return m.updateInputs(msg)
}

// enterRoute switches the visible screen and resets transient form state.
func (m *model) enterRoute(path string) {
	if m.path == path {
		return
	}
	m.path = path
	m.fieldErrs = validation.FieldErrors{}
	m.notice = ""
	m.focus = 0

	switch path {
	case router.PathLogin:
		m.loginInputs = newLoginInputs()
	case router.PathRegister:
		m.registerInputs = newRegisterInputs()
	case router.PathForgotPassword:
		m.forgotInput = newEmailInput("you@example.com")
	}
	if m.onFormScreen() {
		m.focusField(0)
	}
}

func (m model) onFormScreen() bool {
	switch m.path {
	case router.PathLogin, router.PathRegister, router.PathForgotPassword:
		return true
	}
	return false
}

func (m *model) fields() []*textinput.Model {
	switch m.path {
	case router.PathLogin:
		return []*textinput.Model{&m.loginInputs[0], &m.loginInputs[1]}
	case router.PathRegister:
		ptrs := make([]*textinput.Model, len(m.registerInputs))
		for i := range m.registerInputs {
			ptrs[i] = &m.registerInputs[i]
		}
		return ptrs
	case router.PathForgotPassword:
		return []*textinput.Model{&m.forgotInput}
	}
	return nil
}

func (m *model) focusField(idx int) {
	fields := m.fields()
	if len(fields) == 0 {
		return
	}
	if idx < 0 {
		idx = len(fields) - 1
	}
	idx %= len(fields)
	m.focus = idx
	for i, f := range fields {
		if i == idx {
			f.Focus()
		} else {
			f.Blur()
		}
	}
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Tab):
		m.focusField(m.focus + 1)
		return m, nil

	case key.Matches(msg, m.keys.ShiftTab):
		m.focusField(m.focus - 1)
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		return m, m.submitForm()

	case key.Matches(msg, m.keys.Register) && m.path == router.PathLogin:
		m.router.Navigate(router.PathRegister, nil)
		return m, nil

	case key.Matches(msg, m.keys.Forgot) && m.path == router.PathLogin:
		m.router.Navigate(router.PathForgotPassword, nil)
		return m, nil

	case key.Matches(msg, m.keys.Back) && m.path != router.PathLogin:
		m.router.Navigate(router.PathLogin, nil)
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Admin):
		m.router.Navigate(router.PathAdminDashboard, nil)
		return m, nil

	case key.Matches(msg, m.keys.Manager):
		m.router.Navigate(router.PathManagerDashboard, nil)
		return m, nil

	case key.Matches(msg, m.keys.User):
		m.router.Navigate(router.PathUserDashboard, nil)
		return m, nil

	case key.Matches(msg, m.keys.Logout):
		m.store.Dispatch(authstate.Logout{})
		return m, nil
	}

	if m.path == router.PathManagerDashboard {
		var cmd tea.Cmd
		m.teamTable, cmd = m.teamTable.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for _, f := range m.fields() {
		var cmd tea.Cmd
		*f, cmd = f.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// submitForm validates the current form and dispatches its action. Validation
// failures stay local; nothing reaches the store.
func (m *model) submitForm() tea.Cmd {
	m.notice = ""

	switch m.path {
	case router.PathLogin:
		form := validation.LoginForm{
			Email:    m.loginInputs[0].Value(),
			Password: m.loginInputs[1].Value(),
		}
		m.fieldErrs = validation.ValidateLoginForm(form)
		if !m.fieldErrs.Valid() {
			return nil
		}
		m.store.Dispatch(authstate.Login{Credentials: authstate.LoginCredentials{
			Email:    form.Email,
			Password: form.Password,
		}})

	case router.PathRegister:
		form := validation.RegisterForm{
			FirstName:       m.registerInputs[0].Value(),
			LastName:        m.registerInputs[1].Value(),
			Email:           m.registerInputs[2].Value(),
			Password:        m.registerInputs[3].Value(),
			ConfirmPassword: m.registerInputs[4].Value(),
		}
		m.fieldErrs = validation.ValidateRegisterForm(form)
		if !m.fieldErrs.Valid() {
			return nil
		}
		m.store.Dispatch(authstate.Register{Fields: authstate.RegisterFields{
			Email:     form.Email,
			Password:  form.Password,
			FirstName: form.FirstName,
			LastName:  form.LastName,
		}})

	case router.PathForgotPassword:
		form := validation.ForgotPasswordForm{Email: m.forgotInput.Value()}
		m.fieldErrs = validation.ValidateForgotPasswordForm(form)
		if !m.fieldErrs.Valid() {
			return nil
		}
		svc := m.svc
		return func() tea.Msg {
			return resetRequestedMsg{err: svc.RequestPasswordReset(context.Background(), form.Email)}
		}
	}
	return nil
}
