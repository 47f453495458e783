package jira

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

type SearchResponse struct {
	Issues     []Issue `json:"issues"`
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
}

// Issue is one ticket as returned by the search endpoint. RawFields keeps the
// untouched fields object so tracker-specific custom fields stay reachable.
type Issue struct {
	Key       string          `json:"key"`
	Fields    Fields          `json:"fields"`
	RawFields json.RawMessage `json:"-"`
}

type Fields struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Created     string    `json:"created"`
	Updated     string    `json:"updated"`
	Assignee    *User     `json:"assignee"`
	Reporter    *User     `json:"reporter"`
	Priority    *Priority `json:"priority"`
	Status      *Status   `json:"status"`
}

type User struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

type Priority struct {
	Name string `json:"name"`
}

type Status struct {
	Name string `json:"name"`
}

func (i *Issue) UnmarshalJSON(data []byte) error {
	type alias Issue
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var raw struct {
		Fields json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*i = Issue(a)
	i.RawFields = raw.Fields
	return nil
}

// OrganizationNames flattens the organization custom field into a display
// string. The tracker returns it as a list of objects, a bare scalar, or not at
// all depending on the project type, so it is read leniently from the raw JSON.
func (i *Issue) OrganizationNames(fieldID string) string {
	value := gjson.GetBytes(i.RawFields, fieldID)
	switch {
	case !value.Exists() || value.Type == gjson.Null:
		return "N/A"
	case value.IsArray():
		entries := value.Array()
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			name := entry.Get("name").String()
			if name == "" {
				name = "Unknown"
			}
			names = append(names, name)
		}
		return strings.Join(names, ", ")
	default:
		return value.String()
	}
}
