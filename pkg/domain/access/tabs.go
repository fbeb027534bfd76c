package access

// Tab identifies a dashboard tab.
type Tab string

const (
	TabOverview    Tab = "overview"
	TabProperties  Tab = "properties"
	TabInvitations Tab = "invitations"
	TabIssues      Tab = "issues"
	TabDocuments   Tab = "documents"
	TabMedia       Tab = "media"
	TabActivity    Tab = "activity"
)

// DefaultDashboardTabs returns the ordered tab set for a dashboard role.
// Admins do not get the invitations tab; buyers do not get documents or
// media.
func DefaultDashboardTabs(role DashboardRole) []Tab {
	switch role {
	case RoleAdmin:
		return []Tab{TabOverview, TabProperties, TabIssues, TabDocuments, TabMedia, TabActivity}
	case RoleBuyer:
		return []Tab{TabOverview, TabProperties, TabInvitations, TabIssues, TabActivity}
	default:
		return []Tab{TabOverview, TabProperties, TabInvitations, TabIssues, TabDocuments, TabMedia, TabActivity}
	}
}
