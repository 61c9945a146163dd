package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cmcs-backend/internal/model"
	"cmcs-backend/internal/repository"
	"cmcs-backend/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentResponse struct {
	ID          string `json:"id"`
	ClaimID     string `json:"claim_id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	UploadedBy  string `json:"uploaded_by,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// ErrDocumentNotFound covers both a missing document and a document id
// that belongs to a different claim.
var ErrDocumentNotFound = errors.New("document not found")

type DocumentService interface {
	Attach(ctx context.Context, claimID uuid.UUID, uploaderID *uuid.UUID, fileName, contentType string, src io.Reader) (DocumentResponse, error)
	ListByClaim(ctx context.Context, claimID uuid.UUID) ([]DocumentResponse, error)
	// Download opens the stored file for streaming; the caller must close it.
	Download(ctx context.Context, claimID, documentID uuid.UUID) (DocumentResponse, io.ReadCloser, error)
}

type documentService struct {
	claims repository.ClaimRepository
	docs   repository.DocumentRepository
	store  storage.FileStore
}

func NewDocumentService(claims repository.ClaimRepository, docs repository.DocumentRepository, store storage.FileStore) DocumentService {
	return &documentService{claims: claims, docs: docs, store: store}
}

func (s *documentService) Attach(ctx context.Context, claimID uuid.UUID, uploaderID *uuid.UUID, fileName, contentType string, src io.Reader) (DocumentResponse, error) {
	if _, err := s.claims.FindByID(ctx, claimID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DocumentResponse{}, ErrClaimNotFound
		}
		return DocumentResponse{}, fmt.Errorf("failed to load claim: %w", err)
	}

	storedPath, size, err := s.store.Save(claimID, fileName, src)
	if err != nil {
		return DocumentResponse{}, fmt.Errorf("failed to store document: %w", err)
	}

	doc := &model.SupportingDocument{
		ClaimID:     claimID,
		FileName:    fileName,
		StoredPath:  storedPath,
		ContentType: contentType,
		SizeBytes:   size,
		UploadedBy:  uploaderID,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return DocumentResponse{}, fmt.Errorf("failed to save document metadata: %w", err)
	}

	return toDocumentResponse(*doc), nil
}

func (s *documentService) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]DocumentResponse, error) {
	if _, err := s.claims.FindByID(ctx, claimID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, fmt.Errorf("failed to load claim: %w", err)
	}

	docs, err := s.docs.ListByClaim(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	result := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		result = append(result, toDocumentResponse(d))
	}
	return result, nil
}

func (s *documentService) Download(ctx context.Context, claimID, documentID uuid.UUID) (DocumentResponse, io.ReadCloser, error) {
	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DocumentResponse{}, nil, ErrDocumentNotFound
		}
		return DocumentResponse{}, nil, fmt.Errorf("failed to load document: %w", err)
	}
	if doc.ClaimID != claimID {
		return DocumentResponse{}, nil, ErrDocumentNotFound
	}

	src, err := s.store.Open(doc.StoredPath)
	if err != nil {
		return DocumentResponse{}, nil, fmt.Errorf("failed to open stored file: %w", err)
	}

	return toDocumentResponse(*doc), src, nil
}

func toDocumentResponse(d model.SupportingDocument) DocumentResponse {
	resp := DocumentResponse{
		ID:          d.ID.String(),
		ClaimID:     d.ClaimID.String(),
		FileName:    d.FileName,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
	}
	if d.UploadedBy != nil {
		resp.UploadedBy = d.UploadedBy.String()
	}
	return resp
}
