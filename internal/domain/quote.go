package domain

import "time"

type QuoteStatus string

const (
	QuoteDraft     QuoteStatus = "draft"
	QuoteSubmitted QuoteStatus = "submitted"
	QuoteScheduled QuoteStatus = "scheduled"
	QuoteClosed    QuoteStatus = "closed"
)

type Frequency string

const (
	FrequencyOneTime  Frequency = "one_time"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

type ConditionLevel string

const (
	ConditionLight            ConditionLevel = "light"
	ConditionStandard         ConditionLevel = "standard"
	ConditionHeavy            ConditionLevel = "heavy"
	ConditionPostConstruction ConditionLevel = "post_construction"
)

type DaySlot string

const (
	SlotMorning   DaySlot = "morning"
	SlotAfternoon DaySlot = "afternoon"
	SlotEvening   DaySlot = "evening"
)

// LeadStatus is the staff-side pipeline state, orthogonal to Quote.Status.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadCalled    LeadStatus = "called"
	LeadLeftVM    LeadStatus = "left_vm"
	LeadNoAnswer  LeadStatus = "no_answer"
	LeadScheduled LeadStatus = "scheduled"
	LeadRejected  LeadStatus = "rejected"
	LeadClosed    LeadStatus = "closed"
)

type CallPrefs struct {
	BestTime    string `json:"bestTime"`
	VoicemailOK bool   `json:"voicemailOK"`
}

type Contact struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CallPrefs CallPrefs `json:"callPrefs"`
}

type Address struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2,omitempty"`
	City  string `json:"city"`
	State string `json:"state"`
	Zip   string `json:"zip"`
}

// Complete reports whether the address is usable for scheduling a visit.
func (a Address) Complete() bool {
	return a.Line1 != "" && a.City != "" && a.State != "" && a.Zip != ""
}

type PropertySize struct {
	Sqft  *int `json:"sqft,omitempty"`
	Beds  *int `json:"beds,omitempty"`
	Baths *int `json:"baths,omitempty"`
	Rooms *int `json:"rooms,omitempty"`
}

// PropertySnapshot is an inline copy of property details for quotes that
// are not linked to a stored Property.
type PropertySnapshot struct {
	Type    string       `json:"type,omitempty"`
	Subtype string       `json:"subtype,omitempty"`
	Address Address      `json:"address"`
	Size    PropertySize `json:"size"`
}

type TargetWindow struct {
	Date     string  `json:"date"`
	Slot     DaySlot `json:"slot"`
	Flexible bool    `json:"flexible"`
}

type QuotePhoto struct {
	URL   string `json:"url"`
	Label string `json:"label,omitempty"`
}

type TimelineEvent struct {
	At    time.Time `json:"at"`
	Event string    `json:"event"`
	By    *int64    `json:"by,omitempty"`
	Note  string    `json:"note,omitempty"`
}

// QuoteAdmin holds staff-only lead tracking fields. Timeline is append-only.
type QuoteAdmin struct {
	AssignedTo *int64          `json:"assignedTo,omitempty"`
	LeadStatus LeadStatus      `json:"leadStatus"`
	Timeline   []TimelineEvent `json:"timeline"`
}

// Quote is a cleaning-service quote request. It is created anonymously with
// a draft key, optionally claimed by an authenticated client, and submitted
// for staff follow-up. DraftKey and ClientID are mutually exclusive once
// claimed: claiming clears the key permanently.
type Quote struct {
	ID               int64             `json:"id"`
	Status           QuoteStatus       `json:"status"`
	DraftKey         *string           `json:"draftKey,omitempty"`
	ClientID         *int64            `json:"clientId,omitempty"`
	PropertyID       *int64            `json:"propertyId,omitempty"`
	PropertySnapshot *PropertySnapshot `json:"propertySnapshot,omitempty"`
	Contact          Contact           `json:"contact"`
	Frequency        Frequency         `json:"frequency"`
	ConditionLevel   ConditionLevel    `json:"conditionLevel"`
	SpecialAreas     []string          `json:"specialAreas"`
	Surfaces         []string          `json:"surfaces"`
	TargetWindow     TargetWindow      `json:"targetWindow"`
	Photos           []QuotePhoto      `json:"photos"`
	Notes            string            `json:"notes"`
	Admin            QuoteAdmin        `json:"admin"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// IsDraft reports whether the quote can still be edited.
func (q *Quote) IsDraft() bool {
	return q.Status == QuoteDraft
}

// OwnedBy reports whether the quote belongs to the given user.
func (q *Quote) OwnedBy(userID int64) bool {
	return q.ClientID != nil && *q.ClientID == userID
}
