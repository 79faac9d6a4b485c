package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-portal/pkg/dashboard"
	"github.com/dd0wney/cluso-portal/pkg/router"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5A56E0")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	fieldErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)

	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#5A56E0")).
			Padding(0, 1)
)

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("Cluso Admin Portal"))
	s.WriteString("\n\n")

	switch m.path {
	case router.PathLogin:
		s.WriteString(m.renderLogin())
	case router.PathRegister:
		s.WriteString(m.renderRegister())
	case router.PathForgotPassword:
		s.WriteString(m.renderForgotPassword())
	case router.PathAdminDashboard:
		s.WriteString(m.renderAdminDashboard())
	case router.PathManagerDashboard:
		s.WriteString(m.renderManagerDashboard())
	case router.PathUserDashboard, router.PathDashboard:
		s.WriteString(m.renderUserDashboard())
	default:
		s.WriteString(contentStyle.Render("Unknown view: " + m.path))
	}

	if m.notice != "" {
		s.WriteString("\n\n")
		s.WriteString(contentStyle.Render(successStyle.Render(m.notice)))
	}
	if m.state.Error != "" {
		s.WriteString("\n\n")
		s.WriteString(contentStyle.Render(errorStyle.Render("✗ " + m.state.Error)))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderLogin() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Sign In"))
	s.WriteString("\n\n")

	s.WriteString(m.renderField("Email", m.loginInputs[0], "Email"))
	s.WriteString(m.renderField("Password", m.loginInputs[1], "Password"))

	if m.state.IsLoading {
		s.WriteString("\n" + labelStyle.Render("Signing in..."))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("enter sign in • ctrl+r register • ctrl+f forgot password"))

	return contentStyle.Render(s.String())
}

func (m model) renderRegister() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Create Account"))
	s.WriteString("\n\n")

	labels := []string{"First name", "Last name", "Email", "Password", "Confirm password"}
	fields := []string{"FirstName", "LastName", "Email", "Password", "ConfirmPassword"}
	for i, input := range m.registerInputs {
		s.WriteString(m.renderField(labels[i], input, fields[i]))
	}

	if m.state.IsLoading {
		s.WriteString("\n" + labelStyle.Render("Creating account..."))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("enter create account • esc back to login"))

	return contentStyle.Render(s.String())
}

func (m model) renderForgotPassword() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Reset Password"))
	s.WriteString("\n\n")
	s.WriteString("Enter your email and we'll send you a reset link.\n\n")
	s.WriteString(m.renderField("Email", m.forgotInput, "Email"))

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("enter send link • esc back to login"))

	return contentStyle.Render(s.String())
}

func (m model) renderField(label string, input interface{ View() string }, field string) string {
	var s strings.Builder
	s.WriteString(labelStyle.Render(label) + "\n")
	s.WriteString(input.View() + "\n")
	if msg, ok := m.fieldErrs[field]; ok {
		s.WriteString(fieldErrStyle.Render(msg) + "\n")
	}
	s.WriteString("\n")
	return s.String()
}

// renderHeader shows who is signed in on every dashboard.
func (m model) renderHeader(title string) string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(title))
	if m.state.User != nil {
		s.WriteString("  ")
		s.WriteString(badgeStyle.Render(m.state.Initials()))
		s.WriteString(" " + m.state.DisplayName())
		s.WriteString(labelStyle.Render(" · " + dashboard.RoleDisplayName(m.state.Role())))
	}
	s.WriteString("\n\n")
	return s.String()
}

func (m model) renderAdminDashboard() string {
	var s strings.Builder
	now := time.Now()

	s.WriteString(m.renderHeader("System Overview"))

	var boxes []string
	for _, stat := range dashboard.AdminStats() {
		content := fmt.Sprintf("%s %s\n%s\n%s", stat.Icon, stat.Label, stat.Value, trendLine(stat))
		boxes = append(boxes, statBoxStyle.Render(content))
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	s.WriteString("\n\n")

	s.WriteString(headerStyle.Render("Recent Activity"))
	s.WriteString("\n\n")
	for _, a := range dashboard.AdminActivities(now) {
		s.WriteString(fmt.Sprintf("  %-14s %-32s %s\n",
			a.User, a.Action, labelStyle.Render(dashboard.RelativeTime(a.Timestamp, now))))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.dashboardHints()))

	return contentStyle.Render(s.String())
}

func (m model) renderManagerDashboard() string {
	var s strings.Builder
	now := time.Now()

	s.WriteString(m.renderHeader("Team Overview"))

	var boxes []string
	for _, metric := range dashboard.TeamMetrics() {
		content := fmt.Sprintf("%s %s\n%s\n%s", metric.Icon, metric.Label, metric.Value, labelStyle.Render(metric.Subtitle))
		boxes = append(boxes, statBoxStyle.Render(content))
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	s.WriteString("\n\n")

	s.WriteString(m.teamTable.View())
	s.WriteString("\n\n")

	s.WriteString(headerStyle.Render("Team Activity"))
	s.WriteString("\n\n")
	for _, a := range dashboard.TeamActivities(now) {
		s.WriteString(fmt.Sprintf("  %-14s %-24s %-24s %s\n",
			a.Member, a.Action, a.Project, labelStyle.Render(dashboard.RelativeTime(a.Timestamp, now))))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓ browse team • " + m.dashboardHints()))

	return contentStyle.Render(s.String())
}

func (m model) renderUserDashboard() string {
	var s strings.Builder
	now := time.Now()

	s.WriteString(m.renderHeader("My Dashboard"))

	var boxes []string
	for _, stat := range dashboard.PersonalStats() {
		content := fmt.Sprintf("%s %s\n%s", stat.Icon, stat.Label, stat.Value)
		boxes = append(boxes, statBoxStyle.Render(content))
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	s.WriteString("\n\n")

	s.WriteString(headerStyle.Render("Recent Activity"))
	s.WriteString("\n\n")
	for _, a := range dashboard.PersonalActivities(now) {
		s.WriteString(fmt.Sprintf("  %s %-18s %-32s %s\n",
			a.Icon, a.Action, a.Details, labelStyle.Render(dashboard.RelativeTime(a.Timestamp, now))))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.dashboardHints()))

	return contentStyle.Render(s.String())
}

// dashboardHints lists only the dashboards the signed-in role may open; the
// role guard would bounce the others anyway.
func (m model) dashboardHints() string {
	var hints []string
	if m.state.CanManageUsers() {
		hints = append(hints, "1 admin")
	}
	if m.state.CanViewTeamData() {
		hints = append(hints, "2 team")
	}
	hints = append(hints, "3 my dashboard", "l log out")
	return strings.Join(hints, " • ")
}

func trendLine(stat dashboard.StatCard) string {
	switch stat.Trend {
	case dashboard.TrendUp:
		return successStyle.Render("▲ " + stat.TrendValue)
	case dashboard.TrendDown:
		return errorStyle.Render("▼ " + stat.TrendValue)
	}
	return ""
}
