package projects

import "time"

// Project status values
const (
	StatusPlanning = "planning"
	StatusActive   = "active"
	StatusOnHold   = "on-hold"
	StatusDone     = "completed"
)

// Project groups tasks and members behind a shared goal
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Department  string    `json:"department"`
	LeadID      string    `json:"leadId"`
	LeadName    string    `json:"leadName"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Members     []Member  `json:"members"`
}

// Member is a user attached to a project with a role
type Member struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

type memberWire struct {
	UserID           string `json:"userId"`
	UserIDSnake      string `json:"user_id"`
	DisplayName      string `json:"displayName"`
	DisplayNameSnake string `json:"display_name"`
	Name             string `json:"name"`
	Role             string `json:"role"`
}

type projectWire struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	Status           string       `json:"status"`
	Department       string       `json:"department"`
	LeadID           string       `json:"leadId"`
	LeadIDSnake      string       `json:"lead_id"`
	LeadName         string       `json:"leadName"`
	LeadNameSnake    string       `json:"lead_name"`
	StartDate        string       `json:"startDate"`
	StartDateSnake   string       `json:"start_date"`
	EndDate          string       `json:"endDate"`
	EndDateSnake     string       `json:"end_date"`
	Members          []memberWire `json:"members"`
	TeamMembersSnake []memberWire `json:"team_members"`
}

func normalizeProject(wire projectWire) Project {
	memberWires := wire.Members
	if len(memberWires) == 0 {
		memberWires = wire.TeamMembersSnake
	}

	members := make([]Member, 0, len(memberWires))
	for _, member := range memberWires {
		members = append(members, Member{
			UserID:      firstNonEmpty(member.UserID, member.UserIDSnake),
			DisplayName: firstNonEmpty(member.DisplayName, member.DisplayNameSnake, member.Name),
			Role:        member.Role,
		})
	}

	return Project{
		ID:          wire.ID,
		Name:        wire.Name,
		Description: wire.Description,
		Status:      wire.Status,
		Department:  wire.Department,
		LeadID:      firstNonEmpty(wire.LeadID, wire.LeadIDSnake),
		LeadName:    firstNonEmpty(wire.LeadName, wire.LeadNameSnake),
		StartDate:   parseWireTime(firstNonEmpty(wire.StartDate, wire.StartDateSnake)),
		EndDate:     parseWireTime(firstNonEmpty(wire.EndDate, wire.EndDateSnake)),
		Members:     members,
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func parseWireTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed
		}
	}
	return time.Time{}
}
