package quote

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"homeclean/internal/domain"
	"homeclean/internal/repository"
)

// listCap bounds every listing; there is no pagination beyond it.
const listCap = 100

// Service owns the quote state machine: draft creation, patch-while-draft,
// anonymous claim, submission validation, and staff lead management.
type Service struct {
	quotes QuoteRepository
}

func NewService(quotes QuoteRepository) *Service {
	return &Service{quotes: quotes}
}

// CreateDraft starts an anonymous quote with a fresh draft key. The key is
// the only credential for editing until the draft is claimed.
func (s *Service) CreateDraft(ctx context.Context) (*domain.Quote, error) {
	key, err := newDraftKey()
	if err != nil {
		return nil, err
	}

	q := &domain.Quote{
		Status:         domain.QuoteDraft,
		DraftKey:       &key,
		Frequency:      domain.FrequencyOneTime,
		ConditionLevel: domain.ConditionStandard,
		SpecialAreas:   []string{},
		Surfaces:       []string{},
		Photos:         []domain.QuotePhoto{},
		Contact: domain.Contact{
			CallPrefs: domain.CallPrefs{BestTime: "any", VoicemailOK: true},
		},
		TargetWindow: domain.TargetWindow{Slot: domain.SlotMorning, Flexible: true},
		Admin: domain.QuoteAdmin{
			LeadStatus: domain.LeadNew,
			Timeline:   []domain.TimelineEvent{},
		},
	}

	if err := s.quotes.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Patch applies allow-listed fields to a draft. Unknown fields are silently
// ignored so newer client payloads keep working. Field values are not
// validated here; completeness is only enforced at submit.
func (s *Service) Patch(ctx context.Context, id int64, caller *domain.Identity, draftKey string, fields map[string]json.RawMessage) error {
	q, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if q == nil {
		return ErrQuoteNotFound
	}
	if !q.IsDraft() {
		return &InvalidStateError{Current: q.Status}
	}
	if !CanEditDraft(caller, draftKey, q) {
		return ErrNotAuthorized
	}

	if err := applyPatch(q, fields); err != nil {
		return err
	}
	return s.quotes.Save(ctx, q)
}

// Claim transfers ownership of a draft to the authenticated caller and
// consumes the draft key. Claiming is one-shot: the key is cleared and can
// never match again.
func (s *Service) Claim(ctx context.Context, id int64, caller *domain.Identity, draftKey string) error {
	q, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if q == nil {
		return ErrQuoteNotFound
	}
	if !q.IsDraft() {
		return &InvalidStateError{Current: q.Status}
	}
	if !CanClaim(caller, draftKey, q) {
		return ErrNotAuthorized
	}

	clientID := caller.UserID
	q.ClientID = &clientID
	q.DraftKey = nil
	return s.quotes.Save(ctx, q)
}

// Submit validates and finalizes a draft. An unclaimed draft is implicitly
// claimed by the caller. After submission the quote is immutable by the
// client.
func (s *Service) Submit(ctx context.Context, id int64, caller *domain.Identity) (*domain.Quote, error) {
	q, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrQuoteNotFound
	}
	if !q.IsDraft() {
		return nil, &InvalidStateError{Current: q.Status}
	}
	if caller == nil {
		return nil, ErrNotAuthorized
	}

	if q.ClientID == nil {
		clientID := caller.UserID
		q.ClientID = &clientID
	}
	if !q.OwnedBy(caller.UserID) {
		return nil, ErrNotAuthorized
	}

	if strings.TrimSpace(q.Contact.Phone) == "" {
		return nil, &ValidationError{Field: "contact.phone", Message: "Contact phone is required"}
	}
	if !hasProperty(q) {
		return nil, &ValidationError{Field: "property", Message: "Property is required (link or snapshot)"}
	}

	q.Status = domain.QuoteSubmitted
	if err := s.quotes.Save(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// GetByID returns the full quote to its owner or to staff.
func (s *Service) GetByID(ctx context.Context, id int64, caller *domain.Identity) (*domain.Quote, error) {
	q, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrQuoteNotFound
	}
	if !CanView(caller, q) {
		return nil, ErrForbidden
	}
	return q, nil
}

// List returns quotes newest first, capped at 100. Staff see all owners and
// may filter by status and lead status; clients only ever see their own.
func (s *Service) List(ctx context.Context, caller *domain.Identity, filters ListFilters) ([]*domain.Quote, error) {
	if caller == nil {
		return nil, ErrNotAuthorized
	}

	filter := repository.QuoteFilter{Limit: listCap}
	if IsStaff(caller) {
		if filters.Status != "" {
			st := domain.QuoteStatus(filters.Status)
			filter.Status = &st
		}
		if filters.LeadStatus != "" {
			ls := domain.LeadStatus(filters.LeadStatus)
			filter.LeadStatus = &ls
		}
	} else {
		clientID := caller.UserID
		filter.ClientID = &clientID
	}

	return s.quotes.Find(ctx, filter)
}

// Assign sets the staff member working the lead and records it on the
// timeline.
func (s *Service) Assign(ctx context.Context, id int64, caller *domain.Identity, assigneeID int64, note string) error {
	if !IsStaff(caller) {
		return ErrForbidden
	}

	q, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if q == nil {
		return ErrQuoteNotFound
	}

	q.Admin.AssignedTo = &assigneeID
	appendTimeline(q, caller, "assigned", note)
	return s.quotes.Save(ctx, q)
}

// UpdateLeadStatus moves the sales-pipeline sub-state. It does not touch the
// quote's own status.
func (s *Service) UpdateLeadStatus(ctx context.Context, id int64, caller *domain.Identity, status domain.LeadStatus, note string) error {
	if !IsStaff(caller) {
		return ErrForbidden
	}
	if !validLeadStatus(status) {
		return &ValidationError{Field: "leadStatus", Message: fmt.Sprintf("unknown lead status %q", status)}
	}

	q, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if q == nil {
		return ErrQuoteNotFound
	}

	q.Admin.LeadStatus = status
	appendTimeline(q, caller, "lead_status_"+string(status), note)
	return s.quotes.Save(ctx, q)
}

// Stats returns quote counts per status for the staff dashboard.
func (s *Service) Stats(ctx context.Context, caller *domain.Identity) (map[domain.QuoteStatus]int64, error) {
	if !IsStaff(caller) {
		return nil, ErrForbidden
	}
	return s.quotes.CountByStatus(ctx)
}

// Fields that a patch may set. Anything else in the payload is dropped.
var allowedPatchFields = map[string]struct{}{
	"contact":          {},
	"propertySnapshot": {},
	"propertyId":       {},
	"frequency":        {},
	"conditionLevel":   {},
	"specialAreas":     {},
	"surfaces":         {},
	"targetWindow":     {},
	"photos":           {},
	"notes":            {},
}

func applyPatch(q *domain.Quote, fields map[string]json.RawMessage) error {
	for key, raw := range fields {
		if _, ok := allowedPatchFields[key]; !ok {
			continue
		}

		var err error
		switch key {
		case "contact":
			err = json.Unmarshal(raw, &q.Contact)
		case "propertySnapshot":
			var snap *domain.PropertySnapshot
			if err = json.Unmarshal(raw, &snap); err == nil {
				q.PropertySnapshot = snap
			}
		case "propertyId":
			var propID *int64
			if err = json.Unmarshal(raw, &propID); err == nil {
				q.PropertyID = propID
			}
		case "frequency":
			err = json.Unmarshal(raw, &q.Frequency)
		case "conditionLevel":
			err = json.Unmarshal(raw, &q.ConditionLevel)
		case "specialAreas":
			err = json.Unmarshal(raw, &q.SpecialAreas)
		case "surfaces":
			err = json.Unmarshal(raw, &q.Surfaces)
		case "targetWindow":
			err = json.Unmarshal(raw, &q.TargetWindow)
		case "photos":
			err = json.Unmarshal(raw, &q.Photos)
		case "notes":
			err = json.Unmarshal(raw, &q.Notes)
		}
		if err != nil {
			return &ValidationError{Field: key, Message: fmt.Sprintf("malformed %s value", key)}
		}
	}
	return nil
}

// hasProperty checks the submit precondition: a linked property id or an
// inline snapshot with a complete address.
func hasProperty(q *domain.Quote) bool {
	if q.PropertyID != nil {
		return true
	}
	return q.PropertySnapshot != nil && q.PropertySnapshot.Address.Complete()
}

func validLeadStatus(s domain.LeadStatus) bool {
	switch s {
	case domain.LeadNew, domain.LeadCalled, domain.LeadLeftVM, domain.LeadNoAnswer,
		domain.LeadScheduled, domain.LeadRejected, domain.LeadClosed:
		return true
	}
	return false
}

func appendTimeline(q *domain.Quote, caller *domain.Identity, event, note string) {
	var by *int64
	if caller != nil {
		v := caller.UserID
		by = &v
	}
	q.Admin.Timeline = append(q.Admin.Timeline, domain.TimelineEvent{
		At:    time.Now(),
		Event: event,
		By:    by,
		Note:  note,
	})
}

// newDraftKey returns 16 random bytes hex-encoded (32 chars). Collisions
// are negligible at the volumes this system targets.
func newDraftKey() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
