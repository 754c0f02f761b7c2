package partner

import (
	"strings"

	"github.com/google/uuid"

	"github.com/fabworks/backend/internal/domain/shared"
)

// Client is a customer of the workshop
type Client struct {
	shared.BaseAggregateRoot
	Name         string     `gorm:"not null;size:255;index" json:"name"`
	AccountingID string     `gorm:"size:100;index" json:"accounting_id,omitempty"`
	Email        string     `gorm:"size:255" json:"email,omitempty"`
	Phone        string     `gorm:"size:50" json:"phone,omitempty"`
	Address      string     `gorm:"size:500" json:"address,omitempty"`
	Contacts     []Contact  `gorm:"foreignKey:ClientID" json:"contacts,omitempty"`
	Archived     bool       `gorm:"not null;default:false;index" json:"archived"`
	MergedInto   *uuid.UUID `gorm:"type:uuid" json:"merged_into,omitempty"`
}

// Contact is a person at a client company
type Contact struct {
	shared.BaseEntity
	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Name     string    `gorm:"not null;size:255" json:"name"`
	Email    string    `gorm:"size:255" json:"email,omitempty"`
	Phone    string    `gorm:"size:50" json:"phone,omitempty"`
	Primary  bool      `gorm:"not null;default:false" json:"primary"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// TableName returns the table name for GORM
func (Contact) TableName() string {
	return "client_contacts"
}

// NewClient creates a new client
func NewClient(name, email, phone, address string) (*Client, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	c := &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		Phone:             phone,
		Address:           address,
	}
	c.AddDomainEvent(NewClientCreatedEvent(c))
	return c, nil
}

// Update changes the client's contact details
func (c *Client) Update(name, email, phone, address string) error {
	if c.Archived {
		return shared.NewDomainError("INVALID_STATE", "Archived clients cannot be edited")
	}
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	c.Name = name
	c.Email = email
	c.Phone = phone
	c.Address = address
	c.Touch()
	return nil
}

// SetAccountingID links the client to an external accounting contact
func (c *Client) SetAccountingID(ref string) {
	c.AccountingID = ref
	c.Touch()
}

// AddContact adds a contact person. The first contact becomes primary.
func (c *Client) AddContact(name, email, phone string) (*Contact, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot be empty")
	}
	contact := Contact{
		BaseEntity: shared.NewBaseEntity(),
		ClientID:   c.GetID(),
		Name:       name,
		Email:      email,
		Phone:      phone,
		Primary:    len(c.Contacts) == 0,
	}
	c.Contacts = append(c.Contacts, contact)
	c.Touch()
	return &c.Contacts[len(c.Contacts)-1], nil
}

// SetPrimaryContact marks one contact as primary
func (c *Client) SetPrimaryContact(contactID uuid.UUID) error {
	found := false
	for i := range c.Contacts {
		if c.Contacts[i].ID == contactID {
			found = true
		}
	}
	if !found {
		return shared.NewDomainError("CONTACT_NOT_FOUND", "Contact not found for this client")
	}
	for i := range c.Contacts {
		c.Contacts[i].Primary = c.Contacts[i].ID == contactID
	}
	c.Touch()
	return nil
}

// RemoveContact removes a contact person
func (c *Client) RemoveContact(contactID uuid.UUID) error {
	for i := range c.Contacts {
		if c.Contacts[i].ID == contactID {
			c.Contacts = append(c.Contacts[:i], c.Contacts[i+1:]...)
			c.Touch()
			return nil
		}
	}
	return shared.NewDomainError("CONTACT_NOT_FOUND", "Contact not found for this client")
}

// Archive hides the client from normal listings
func (c *Client) Archive() error {
	if c.Archived {
		return shared.NewDomainError("INVALID_STATE", "Client is already archived")
	}
	c.Archived = true
	c.Touch()
	return nil
}

// Unarchive restores an archived client
func (c *Client) Unarchive() error {
	if !c.Archived {
		return shared.NewDomainError("INVALID_STATE", "Client is not archived")
	}
	if c.MergedInto != nil {
		return shared.NewDomainError("INVALID_STATE", "Merged clients cannot be restored")
	}
	c.Archived = false
	c.Touch()
	return nil
}

// MergeInto marks this client as a duplicate of the survivor and archives it.
// Jobs and documents are repointed by the application service.
func (c *Client) MergeInto(survivorID uuid.UUID) error {
	if survivorID == uuid.Nil || survivorID == c.GetID() {
		return shared.NewDomainError("INVALID_MERGE_TARGET", "Cannot merge a client into itself")
	}
	if c.MergedInto != nil {
		return shared.NewDomainError("INVALID_STATE", "Client has already been merged")
	}
	c.MergedInto = &survivorID
	c.Archived = true
	c.Touch()
	c.AddDomainEvent(NewClientMergedEvent(c, survivorID))
	return nil
}
