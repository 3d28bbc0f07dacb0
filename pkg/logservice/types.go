package logservice

import "sort"

type Severity string

const (
	SeverityHigh     Severity = "High"
	SeverityModerate Severity = "Moderate"
	SeverityLow      Severity = "Low"
)

// ConditionMatch is one condition the chat assistant matched for a user.
type ConditionMatch struct {
	Name     string   `json:"cond_name_eng"`
	Severity Severity `json:"severity"`
	Count    int      `json:"count"`
}

type UserInfo struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// ChatTurn is a single-key mapping from speaker label to message text.
type ChatTurn map[string]string

func NewChatTurn(speaker, text string) ChatTurn {
	return ChatTurn{speaker: text}
}

// Speaker returns the turn's speaker label. Malformed multi-key turns resolve
// to the alphabetically first key.
func (t ChatTurn) Speaker() string {
	if len(t) == 0 {
		return ""
	}
	if len(t) == 1 {
		for k := range t {
			return k
		}
	}
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}

func (t ChatTurn) Text() string {
	return t[t.Speaker()]
}

// Conversation is the authoritative record kept by the log service.
type Conversation struct {
	ID        string                    `json:"_id"`
	Chat      []ChatTurn                `json:"chat"`
	UserInfo  *UserInfo                 `json:"user_info,omitempty"`
	Report    Report                    `json:"report,omitempty"`
	Matches   map[string]ConditionMatch `json:"matches,omitempty"`
	Timestamp string                    `json:"timestamp,omitempty"`
	Active    *bool                     `json:"active,omitempty"`
}

// HasName reports whether the conversation carries a usable user name.
func (c *Conversation) HasName() bool {
	return c != nil && c.UserInfo != nil && c.UserInfo.Name != ""
}

// AllMatches returns matches stored on the conversation and under
// report.matches, sorted by name.
func (c *Conversation) AllMatches() []ConditionMatch {
	if c == nil {
		return nil
	}

	var out []ConditionMatch
	for _, m := range c.Matches {
		out = append(out, m)
	}
	if nested, err := ReportMap[ConditionMatch](c.Report, KeyMatches); err == nil {
		for _, m := range nested {
			out = append(out, m)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CreateRequest is the POST /log body.
type CreateRequest struct {
	Chat     []ChatTurn                `json:"chat"`
	UserInfo UserInfo                  `json:"user_info"`
	Report   Report                    `json:"report"`
	Matches  map[string]ConditionMatch `json:"matches,omitempty"`
}

// UpdateRequest is the PUT /log/{id} body; nil fields are left untouched
// by the service.
type UpdateRequest struct {
	Chat     []ChatTurn                `json:"chat,omitempty"`
	UserInfo *UserInfo                 `json:"user_info,omitempty"`
	Report   Report                    `json:"report,omitempty"`
	Matches  map[string]ConditionMatch `json:"matches,omitempty"`
}

type saveResponse struct {
	Success bool          `json:"success"`
	Saved   *Conversation `json:"saved,omitempty"`
	Error   string        `json:"error,omitempty"`
}

type updateResponse struct {
	Success bool          `json:"success"`
	Updated *Conversation `json:"updated,omitempty"`
	Error   string        `json:"error,omitempty"`
}

type deleteResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
