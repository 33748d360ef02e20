package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"outreachpilot/internal/logger"
	"outreachpilot/internal/model"
	"outreachpilot/internal/repository"
)

type recipientService struct {
	recipientRepo repository.RecipientRepository
	logger        *logger.Logger
}

func NewRecipientService(recipientRepo repository.RecipientRepository, logger *logger.Logger) RecipientService {
	return &recipientService{
		recipientRepo: recipientRepo,
		logger:        logger,
	}
}

func (s *recipientService) CreateRecipient(ctx context.Context, userID, name, email, organization, role, notes string) (*model.Recipient, error) {
	if name == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: recipient needs a name and a valid email", ErrInvalidInput)
	}

	recipient := model.NewRecipient(userID, name, email, organization, role, notes)
	if err := s.recipientRepo.Create(ctx, recipient); err != nil {
		s.logger.Error("Failed to create recipient:", err)
		return nil, err
	}
	s.logger.Info("Created recipient:", recipient.ID)
	return recipient, nil
}

func (s *recipientService) GetRecipient(ctx context.Context, userID, recipientID string) (*model.Recipient, error) {
	recipient, err := s.recipientRepo.FindByID(ctx, recipientID)
	if err != nil || recipient.UserID != userID {
		return nil, ErrNotFound
	}
	return recipient, nil
}

func (s *recipientService) GetAllRecipients(ctx context.Context, userID string) ([]*model.Recipient, error) {
	return s.recipientRepo.FindByUserID(ctx, userID)
}

func (s *recipientService) UpdateRecipient(ctx context.Context, userID, recipientID, name, email, organization, role, notes string) (*model.Recipient, error) {
	recipient, err := s.GetRecipient(ctx, userID, recipientID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		recipient.Name = name
	}
	if email != "" {
		if !strings.Contains(email, "@") {
			return nil, fmt.Errorf("%w: invalid email", ErrInvalidInput)
		}
		recipient.Email = email
	}
	recipient.Organization = organization
	recipient.Role = role
	recipient.Notes = notes
	recipient.UpdatedAt = time.Now()

	if err := s.recipientRepo.Update(ctx, recipient); err != nil {
		s.logger.Error("Failed to update recipient:", err)
		return nil, err
	}
	s.logger.Info("Updated recipient:", recipient.ID)
	return recipient, nil
}

func (s *recipientService) DeleteRecipient(ctx context.Context, userID, recipientID string) error {
	recipient, err := s.GetRecipient(ctx, userID, recipientID)
	if err != nil {
		return err
	}

	if err := s.recipientRepo.Delete(ctx, recipient.ID); err != nil {
		s.logger.Error("Failed to delete recipient:", err)
		return err
	}
	s.logger.Info("Deleted recipient:", recipient.ID)
	return nil
}
