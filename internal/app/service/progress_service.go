package service

import (
	"context"
	"fmt"
	"math"

	"github.com/ikkim/vendor-onboarding/internal/app/model"
	"github.com/ikkim/vendor-onboarding/internal/app/repository"
	"golang.org/x/sync/errgroup"
)

// UploadProgress measures uploaded documents against the required set.
type UploadProgress struct {
	RequiredTotal    int  `json:"required_total"`
	UploadedRequired int  `json:"uploaded_required"`
	UploadedTotal    int  `json:"uploaded_total"`
	IsComplete       bool `json:"is_complete"`
	Percentage       int  `json:"percentage"`
}

// RequirementStatus is an allowed document type with the state of its slot.
type RequirementStatus struct {
	AllowedDocumentType
	Uploaded         bool                  `json:"uploaded"`
	UploadedDocument *model.VendorDocument `json:"uploaded_document,omitempty"`
}

type ProgressService interface {
	GetUploadProgress(ctx context.Context, app *model.VendorApplication) (*UploadProgress, error)
	GetRequirements(ctx context.Context, app *model.VendorApplication) ([]RequirementStatus, *UploadProgress, error)
}

type progressService struct {
	requirements RequirementService
	documentRepo repository.DocumentRepository
}

func NewProgressService(requirements RequirementService, documentRepo repository.DocumentRepository) ProgressService {
	return &progressService{
		requirements: requirements,
		documentRepo: documentRepo,
	}
}

// GetUploadProgress counts PENDING and APPROVED documents against the allowed
// types. Documents whose type is no longer allowed are ignored.
func (s *progressService) GetUploadProgress(ctx context.Context, app *model.VendorApplication) (*UploadProgress, error) {
	var (
		allowed  []AllowedDocumentType
		uploaded []model.VendorDocument
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		allowed, err = s.requirements.GetAllowedTypes(gctx, app)
		return err
	})
	g.Go(func() error {
		var err error
		uploaded, err = s.documentRepo.FindUploadedByApplication(gctx, app.ID)
		if err != nil {
			return fmt.Errorf("load uploaded documents: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	progress := calculateProgress(allowed, latestBySlot(uploaded))
	return &progress, nil
}

// GetRequirements lists every allowed type with its slot occupant. A REJECTED
// occupant is returned so its reason can be shown, but it is not "uploaded".
func (s *progressService) GetRequirements(ctx context.Context, app *model.VendorApplication) ([]RequirementStatus, *UploadProgress, error) {
	var (
		allowed []AllowedDocumentType
		active  []model.VendorDocument
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		allowed, err = s.requirements.GetAllowedTypes(gctx, app)
		return err
	})
	g.Go(func() error {
		var err error
		active, err = s.documentRepo.FindActiveByApplication(gctx, app.ID)
		if err != nil {
			return fmt.Errorf("load active documents: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	occupants := latestBySlot(active)
	uploaded := make(map[uint]*model.VendorDocument, len(occupants))
	for typeID, doc := range occupants {
		if doc.CountsAsUploaded() {
			uploaded[typeID] = doc
		}
	}

	statuses := make([]RequirementStatus, 0, len(allowed))
	for _, t := range allowed {
		_, isUploaded := uploaded[t.DocumentTypeID]
		statuses = append(statuses, RequirementStatus{
			AllowedDocumentType: t,
			Uploaded:            isUploaded,
			UploadedDocument:    occupants[t.DocumentTypeID],
		})
	}

	progress := calculateProgress(allowed, uploaded)
	return statuses, &progress, nil
}

// latestBySlot keys documents by type, keeping the first (most recent) of each.
func latestBySlot(docs []model.VendorDocument) map[uint]*model.VendorDocument {
	bySlot := make(map[uint]*model.VendorDocument, len(docs))
	for i := range docs {
		if _, seen := bySlot[docs[i].DocumentTypeID]; !seen {
			bySlot[docs[i].DocumentTypeID] = &docs[i]
		}
	}
	return bySlot
}

func calculateProgress(allowed []AllowedDocumentType, uploaded map[uint]*model.VendorDocument) UploadProgress {
	var p UploadProgress
	for _, t := range allowed {
		_, isUploaded := uploaded[t.DocumentTypeID]
		if isUploaded {
			p.UploadedTotal++
		}
		if t.IsRequired {
			p.RequiredTotal++
			if isUploaded {
				p.UploadedRequired++
			}
		}
	}

	p.IsComplete = p.UploadedRequired == p.RequiredTotal
	if p.RequiredTotal == 0 {
		p.Percentage = 100
	} else {
		p.Percentage = int(math.Round(float64(p.UploadedRequired) / float64(p.RequiredTotal) * 100))
	}
	return p
}

// missingRequired names required types without an uploaded document.
func missingRequired(statuses []RequirementStatus) []string {
	var missing []string
	for _, st := range statuses {
		if st.IsRequired && !st.Uploaded {
			missing = append(missing, st.Name)
		}
	}
	return missing
}
