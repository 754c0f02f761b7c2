package job

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Delta carries a partial edit to a job's client-editable fields.
// Nil fields are left untouched.
type Delta struct {
	Name          *string             `json:"name,omitempty"`
	ClientContact *string             `json:"client_contact,omitempty"`
	Description   *string             `json:"description,omitempty"`
	OrderNumber   *string             `json:"order_number,omitempty"`
	Notes         *string             `json:"notes,omitempty"`
	Pricing       *PricingMethodology `json:"pricing,omitempty"`
	DeliveryDate  *time.Time          `json:"delivery_date,omitempty"`
	Complexity    *int                `json:"complexity,omitempty"`
}

// IsEmpty reports whether the delta changes nothing
func (d Delta) IsEmpty() bool {
	return d.Name == nil && d.ClientContact == nil && d.Description == nil &&
		d.OrderNumber == nil && d.Notes == nil && d.Pricing == nil &&
		d.DeliveryDate == nil && d.Complexity == nil
}

// Apply writes the delta's non-nil fields onto the job
func (d Delta) Apply(j *Job) {
	if d.Name != nil {
		j.Name = *d.Name
	}
	if d.ClientContact != nil {
		j.ClientContact = *d.ClientContact
	}
	if d.Description != nil {
		j.Description = *d.Description
	}
	if d.OrderNumber != nil {
		j.OrderNumber = *d.OrderNumber
	}
	if d.Notes != nil {
		j.Notes = *d.Notes
	}
	if d.Pricing != nil {
		j.Pricing = *d.Pricing
	}
	if d.DeliveryDate != nil {
		j.DeliveryDate = d.DeliveryDate
	}
	if d.Complexity != nil {
		j.Complexity = *d.Complexity
	}
	j.Touch()
}

// Checksum returns a SHA-256 hex digest of the job's client-editable state.
// Clients submit the checksum of the state they loaded; a mismatch on save
// means someone else changed the job in the meantime.
//
// The digest covers sorted key=value lines with normalized values, so it is
// stable across serialization order and formatting differences.
func Checksum(j *Job) string {
	fields := map[string]string{
		"client_contact": j.ClientContact,
		"client_id":      canonicalUUID(j.ClientID),
		"complexity":     strconv.Itoa(j.Complexity),
		"delivery_date":  canonicalTime(j.DeliveryDate),
		"description":    j.Description,
		"name":           j.Name,
		"notes":          j.Notes,
		"order_number":   j.OrderNumber,
		"paused":         strconv.FormatBool(j.Paused),
		"pricing":        string(j.Pricing),
		"status":         string(j.Status),
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fields[k])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func canonicalUUID(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return strings.ToLower(id.String())
}

func canonicalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
