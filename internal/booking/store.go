package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/stayhaven/edge/internal/apierr"
)

// ErrNoDraft means the cookie slot is empty or unreadable. Callers treat it
// like "nothing there", not like a failure.
var ErrNoDraft = errors.New("no booking draft")

// DraftStore transports the draft through the redirect boundary in an
// HTTP-only cookie. The cookie carries a one-year Max-Age but is
// semantically single-use: redemption checks the identifier, and
// consumption clears the slot.
//
// Two tabs can race on the cookie; the last writer wins. That is a known
// limitation of the single-slot design, not something this store hides.
type DraftStore struct {
	cookieName string
	maxAge     time.Duration
	secure     bool
}

func NewDraftStore(cookieName string, maxAge time.Duration, secure bool) *DraftStore {
	return &DraftStore{cookieName: cookieName, maxAge: maxAge, secure: secure}
}

// Write validates the draft and stores it in the cookie slot. A schema
// violation hard-fails with the full offending-field list and leaves the
// slot untouched.
func (s *DraftStore) Write(w http.ResponseWriter, d *Draft) error {
	if err := d.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    url.QueryEscape(string(raw)),
		Path:     "/",
		MaxAge:   int(s.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read decodes the cookie slot. Absent or corrupt cookies answer StateAbsent
// with ErrNoDraft; a decoded draft is re-validated before being trusted and
// reports StateInTransit, since it has crossed at least one request boundary
// since it was written.
func (s *DraftStore) Read(r *http.Request) (*Draft, State, error) {
	c, err := r.Cookie(s.cookieName)
	if err != nil {
		return nil, StateAbsent, ErrNoDraft
	}
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil, StateAbsent, ErrNoDraft
	}
	var d Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, StateAbsent, ErrNoDraft
	}
	if err := d.Validate(); err != nil {
		return nil, StateAbsent, ErrNoDraft
	}
	return &d, StateInTransit, nil
}

// Redeem matches the return-trip identifier against the stored draft. An
// exact match yields the draft as the source of truth for the live booking
// workflow. Anything else is a terminal mismatch.
func (s *DraftStore) Redeem(r *http.Request, id string) (*Draft, State, error) {
	d, _, err := s.Read(r)
	if err != nil {
		return nil, StateMismatched, &apierr.ConsistencyError{Want: "", Got: id}
	}
	if d.ID != id {
		return nil, StateMismatched, &apierr.ConsistencyError{Want: d.ID, Got: id}
	}
	return d, StateRedeemed, nil
}

// Clear empties the slot once the draft is consumed or discarded.
// Idempotent.
func (s *DraftStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
