package domain

import (
	"encoding/json"
	"time"
)

// NotificationStatus is the read state of a notification.
type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "Unread"
	NotificationRead   NotificationStatus = "Read"
)

// Well-known notification type tags. Type is free-form; clients render
// unknown tags as plain info.
const (
	NotificationTypeInfo       = "info"
	NotificationTypeTeamInvite = "team_invite"
	NotificationTypeTeamJoined = "team_joined"
)

// Notification is an in-app message for a single recipient. IDs are
// store-assigned and monotonically increasing; the live feed's watermark
// depends on that ordering. Only the recipient may read or acknowledge it.
type Notification struct {
	ID        int64
	UserID    string
	Message   string
	Type      string
	Data      NotificationData
	Status    NotificationStatus
	CreatedAt time.Time
}

// NotificationData is the structured payload attached to a notification.
// The named fields cover the tags this service emits; keys it does not
// know about round-trip unchanged so older rows and foreign producers
// keep rendering.
type NotificationData struct {
	ProjectID    int64
	InviterID    string
	ProjectName  string
	JoinedUserID string

	extra map[string]json.RawMessage
}

type knownData struct {
	ProjectID    *int64  `json:"projectId,omitempty"`
	InviterID    *string `json:"inviterId,omitempty"`
	ProjectName  *string `json:"projectName,omitempty"`
	JoinedUserID *string `json:"joinedUserId,omitempty"`
}

// MarshalJSON merges the named fields over any preserved unknown keys.
func (d NotificationData) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.extra)+4)
	for k, v := range d.extra {
		out[k] = v
	}
	set := func(key string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		out[key] = raw
		return nil
	}
	if d.ProjectID != 0 {
		if err := set("projectId", d.ProjectID); err != nil {
			return nil, err
		}
	}
	if d.InviterID != "" {
		if err := set("inviterId", d.InviterID); err != nil {
			return nil, err
		}
	}
	if d.ProjectName != "" {
		if err := set("projectName", d.ProjectName); err != nil {
			return nil, err
		}
	}
	if d.JoinedUserID != "" {
		if err := set("joinedUserId", d.JoinedUserID); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON extracts the named fields and keeps everything else in
// the unknown-key bag.
func (d *NotificationData) UnmarshalJSON(b []byte) error {
	var known knownData
	if err := json.Unmarshal(b, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	*d = NotificationData{}
	if known.ProjectID != nil {
		d.ProjectID = *known.ProjectID
	}
	if known.InviterID != nil {
		d.InviterID = *known.InviterID
	}
	if known.ProjectName != nil {
		d.ProjectName = *known.ProjectName
	}
	if known.JoinedUserID != nil {
		d.JoinedUserID = *known.JoinedUserID
	}
	delete(all, "projectId")
	delete(all, "inviterId")
	delete(all, "projectName")
	delete(all, "joinedUserId")
	if len(all) > 0 {
		d.extra = all
	}
	return nil
}

// IsZero reports whether the payload carries no data at all.
func (d NotificationData) IsZero() bool {
	return d.ProjectID == 0 && d.InviterID == "" && d.ProjectName == "" &&
		d.JoinedUserID == "" && len(d.extra) == 0
}
