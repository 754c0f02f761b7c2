package partner

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fabworks/backend/internal/domain/partner"
	"github.com/fabworks/backend/internal/domain/shared"
)

// Service manages the client register
type Service struct {
	clients partner.Repository
	bus     shared.EventPublisher
	logger  *zap.Logger
}

// NewService creates a new client service
func NewService(clients partner.Repository, bus shared.EventPublisher, logger *zap.Logger) *Service {
	return &Service{clients: clients, bus: bus, logger: logger}
}

// CreateClientCommand carries the input for registering a client
type CreateClientCommand struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	AccountingID string `json:"accounting_id"`
}

// CreateClient registers a new client. Names must be unique.
func (s *Service) CreateClient(ctx context.Context, cmd CreateClientCommand) (*partner.Client, error) {
	if existing, err := s.clients.FindByName(ctx, cmd.Name); err == nil && existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_CLIENT", "A client with this name already exists")
	}

	c, err := partner.NewClient(cmd.Name, cmd.Email, cmd.Phone, cmd.Address)
	if err != nil {
		return nil, err
	}
	if cmd.AccountingID != "" {
		c.SetAccountingID(cmd.AccountingID)
	}
	if err := s.clients.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, c)
	s.logger.Info("client created", zap.String("name", c.Name))
	return c, nil
}

// GetClient loads a client by ID
func (s *Service) GetClient(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	return s.clients.FindByID(ctx, id)
}

// ListClients returns clients matching the filter
func (s *Service) ListClients(ctx context.Context, filter shared.Filter) (shared.Paginated[*partner.Client], error) {
	return s.clients.FindAll(ctx, filter)
}

// UpdateClient updates a client's details
func (s *Service) UpdateClient(ctx context.Context, id uuid.UUID, cmd CreateClientCommand) (*partner.Client, error) {
	c, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Update(cmd.Name, cmd.Email, cmd.Phone, cmd.Address); err != nil {
		return nil, err
	}
	if cmd.AccountingID != "" {
		c.SetAccountingID(cmd.AccountingID)
	}
	if err := s.clients.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddContact adds a contact person to a client
func (s *Service) AddContact(ctx context.Context, clientID uuid.UUID, name, email, phone string) (*partner.Client, error) {
	c, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if _, err := c.AddContact(name, email, phone); err != nil {
		return nil, err
	}
	if err := s.clients.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ArchiveClient archives a client
func (s *Service) ArchiveClient(ctx context.Context, id uuid.UUID) error {
	c, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := c.Archive(); err != nil {
		return err
	}
	return s.clients.Save(ctx, c)
}

// MergeClients merges a duplicate client into a survivor. The duplicate is
// archived and its jobs are repointed by the job context.
func (s *Service) MergeClients(ctx context.Context, duplicateID, survivorID uuid.UUID) error {
	if duplicateID == survivorID {
		return shared.NewDomainError("INVALID_MERGE", "Cannot merge a client into itself")
	}
	survivor, err := s.clients.FindByID(ctx, survivorID)
	if err != nil {
		return err
	}
	if survivor.Archived {
		return shared.NewDomainError("INVALID_MERGE", "Cannot merge into an archived client")
	}

	duplicate, err := s.clients.FindByID(ctx, duplicateID)
	if err != nil {
		return err
	}
	if err := duplicate.MergeInto(survivorID); err != nil {
		return err
	}
	if err := s.clients.Save(ctx, duplicate); err != nil {
		return err
	}
	s.publishEvents(ctx, duplicate)
	s.logger.Info("clients merged",
		zap.String("duplicate", duplicate.Name),
		zap.String("survivor", survivor.Name))
	return nil
}

func (s *Service) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.bus.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
	aggregate.ClearDomainEvents()
}
