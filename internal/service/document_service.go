package service

import (
	"context"
	"fmt"

	"outreachpilot/internal/logger"
	"outreachpilot/internal/model"
	"outreachpilot/internal/repository"
)

// maxDocumentSize caps uploads at 10 MB, well under the Gmail
// attachment limit once base64 overhead is added.
const maxDocumentSize = 10 << 20

type documentService struct {
	documentRepo repository.DocumentRepository
	logger       *logger.Logger
}

func NewDocumentService(documentRepo repository.DocumentRepository, logger *logger.Logger) DocumentService {
	return &documentService{
		documentRepo: documentRepo,
		logger:       logger,
	}
}

func (s *documentService) UploadDocument(ctx context.Context, userID, filename, contentType string, data []byte) (*model.Document, error) {
	if filename == "" || len(data) == 0 {
		return nil, fmt.Errorf("%w: document needs a filename and content", ErrInvalidInput)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", ErrInvalidInput, maxDocumentSize)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	document := model.NewDocument(userID, filename, contentType, data)
	if err := s.documentRepo.Create(ctx, document); err != nil {
		s.logger.Error("Failed to store document:", err)
		return nil, err
	}
	s.logger.Info("Stored document:", document.ID, filename)
	return document, nil
}

func (s *documentService) GetDocuments(ctx context.Context, userID string) ([]*model.Document, error) {
	return s.documentRepo.FindByUserID(ctx, userID)
}

func (s *documentService) DeleteDocument(ctx context.Context, userID, documentID string) error {
	document, err := s.documentRepo.FindByID(ctx, documentID)
	if err != nil || document.UserID != userID {
		return ErrNotFound
	}

	if err := s.documentRepo.Delete(ctx, document.ID); err != nil {
		s.logger.Error("Failed to delete document:", err)
		return err
	}
	s.logger.Info("Deleted document:", document.ID)
	return nil
}
