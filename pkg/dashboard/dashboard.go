// Package dashboard provides the role-specific dashboard content. The data
// is static sample data; a production deployment would load it from the
// portal's backing services.
package dashboard

import (
	"fmt"
	"time"

	"github.com/dd0wney/cluso-portal/pkg/authstate"
)

// StatCard is one metric tile on the admin dashboard.
type StatCard struct {
	Label      string
	Value      string
	Icon       string
	Trend      Trend
	TrendValue string
	Color      string
}

// Trend marks which way a stat is moving.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = ""
)

// Activity is one entry in the admin activity feed.
type Activity struct {
	ID        string
	User      string
	Action    string
	Timestamp time.Time
	Type      ActivityType
}

// ActivityType categorizes admin feed entries.
type ActivityType string

const (
	ActivityUser     ActivityType = "user"
	ActivitySystem   ActivityType = "system"
	ActivitySecurity ActivityType = "security"
)

// TeamMetric is one metric tile on the manager dashboard.
type TeamMetric struct {
	Label    string
	Value    string
	Icon     string
	Color    string
	Subtitle string
}

// MemberStatus is a team member's presence.
type MemberStatus string

const (
	StatusActive  MemberStatus = "active"
	StatusAway    MemberStatus = "away"
	StatusOffline MemberStatus = "offline"
)

// TeamMember is one row in the manager's team list.
type TeamMember struct {
	ID             string
	Name           string
	Role           string
	Status         MemberStatus
	TasksCompleted int
	Avatar         string
}

// TeamActivity is one entry in the manager's team activity feed.
type TeamActivity struct {
	ID        string
	Member    string
	Action    string
	Project   string
	Timestamp time.Time
}

// PersonalStat is one metric tile on the user dashboard.
type PersonalStat struct {
	Label string
	Value string
	Icon  string
	Color string
}

// RecentActivity is one entry in the user's personal activity feed.
type RecentActivity struct {
	ID        string
	Action    string
	Details   string
	Timestamp time.Time
	Icon      string
}

// AdminStats returns the system-wide overview tiles.
func AdminStats() []StatCard {
	return []StatCard{
		{Label: "Total Users", Value: "2,847", Icon: "👥", Trend: TrendUp, TrendValue: "+12.5%", Color: "blue"},
		{Label: "Active Sessions", Value: "1,234", Icon: "🔐", Trend: TrendUp, TrendValue: "+5.2%", Color: "green"},
		{Label: "System Health", Value: "99.8%", Icon: "❤️", Trend: TrendUp, TrendValue: "+0.2%", Color: "purple"},
		{Label: "Pending Actions", Value: "23", Icon: "⚠️", Trend: TrendDown, TrendValue: "-8", Color: "orange"},
	}
}

// AdminActivities returns the recent admin feed, timestamped relative to now.
func AdminActivities(now time.Time) []Activity {
	return []Activity{
		{ID: "1", User: "John Doe", Action: "Created new user account", Timestamp: now.Add(-5 * time.Minute), Type: ActivityUser},
		{ID: "2", User: "System", Action: "Automated backup completed", Timestamp: now.Add(-15 * time.Minute), Type: ActivitySystem},
		{ID: "3", User: "Jane Smith", Action: "Updated system settings", Timestamp: now.Add(-30 * time.Minute), Type: ActivitySecurity},
		{ID: "4", User: "Mike Johnson", Action: "Failed login attempt detected", Timestamp: now.Add(-45 * time.Minute), Type: ActivitySecurity},
	}
}

// TeamMetrics returns the manager's team overview tiles.
func TeamMetrics() []TeamMetric {
	return []TeamMetric{
		{Label: "Team Members", Value: "12", Icon: "👥", Color: "blue", Subtitle: "2 new this month"},
		{Label: "Tasks Completed", Value: "284", Icon: "✅", Color: "green", Subtitle: "92% completion rate"},
		{Label: "Active Projects", Value: "8", Icon: "📊", Color: "purple", Subtitle: "3 due this week"},
		{Label: "Team Performance", Value: "94%", Icon: "🎯", Color: "orange", Subtitle: "+6% from last month"},
	}
}

// TeamMembers returns the manager's team list.
func TeamMembers() []TeamMember {
	return []TeamMember{
		{ID: "1", Name: "Sarah Johnson", Role: "Senior Developer", Status: StatusActive, TasksCompleted: 28, Avatar: "SJ"},
		{ID: "2", Name: "Mike Chen", Role: "UX Designer", Status: StatusActive, TasksCompleted: 24, Avatar: "MC"},
		{ID: "3", Name: "Emma Wilson", Role: "Frontend Developer", Status: StatusAway, TasksCompleted: 19, Avatar: "EW"},
		{ID: "4", Name: "David Brown", Role: "Backend Developer", Status: StatusOffline, TasksCompleted: 22, Avatar: "DB"},
	}
}

// TeamActivities returns the manager's activity feed relative to now.
func TeamActivities(now time.Time) []TeamActivity {
	return []TeamActivity{
		{ID: "1", Member: "Sarah Johnson", Action: "Completed task", Project: "Mobile App Redesign", Timestamp: now.Add(-10 * time.Minute)},
		{ID: "2", Member: "Mike Chen", Action: "Updated design mockups", Project: "Dashboard UI Update", Timestamp: now.Add(-25 * time.Minute)},
		{ID: "3", Member: "Emma Wilson", Action: "Fixed bug", Project: "User Authentication", Timestamp: now.Add(-40 * time.Minute)},
	}
}

// PersonalStats returns the user's personal metric tiles.
func PersonalStats() []PersonalStat {
	return []PersonalStat{
		{Label: "Tasks Completed", Value: "24", Icon: "✅", Color: "#10b981"},
		{Label: "Active Projects", Value: "3", Icon: "📁", Color: "#3b82f6"},
		{Label: "Notifications", Value: "5", Icon: "🔔", Color: "#f59e0b"},
		{Label: "Messages", Value: "12", Icon: "💬", Color: "#8b5cf6"},
	}
}

// PersonalActivities returns the user's recent activity feed relative to now.
func PersonalActivities(now time.Time) []RecentActivity {
	return []RecentActivity{
		{ID: "1", Action: "Completed task", Details: "Updated user documentation", Timestamp: now.Add(-15 * time.Minute), Icon: "✅"},
		{ID: "2", Action: "Started project", Details: "Website Redesign Phase 2", Timestamp: now.Add(-2 * time.Hour), Icon: "🚀"},
		{ID: "3", Action: "Updated profile", Details: "Changed contact information", Timestamp: now.Add(-5 * time.Hour), Icon: "👤"},
	}
}

// RelativeTime formats a timestamp as a coarse "N minutes ago" string.
func RelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	}
}

// StatusLabel returns the display text for a team member's presence.
func StatusLabel(status MemberStatus) string {
	switch status {
	case StatusActive:
		return "Active now"
	case StatusAway:
		return "Away"
	case StatusOffline:
		return "Offline"
	}
	return string(status)
}

// RoleDisplayName maps a role to its human-readable name.
func RoleDisplayName(role authstate.UserRole) string {
	switch role {
	case authstate.RoleAdmin:
		return "Administrator"
	case authstate.RoleManager:
		return "Manager"
	case authstate.RoleUser:
		return "User"
	}
	return "Unknown"
}
