package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kgc/registry-api/model"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	registrationIDPrefix  = "KGC-"
	registrationIDCharset = "0123456789ABCDEF"
	registrationIDLength  = 8
)

// CertificateRenderer produces the registration acknowledgement artifact.
type CertificateRenderer interface {
	Render(p *model.Profile, registrationID string, submittedAt time.Time) ([]byte, error)
}

// ObjectStore uploads an artifact and returns its public URL.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Registrar owns application submission: contact normalization, duplicate
// guards, registration id generation and the certificate artifact.
type Registrar struct {
	DB       *gorm.DB
	Renderer CertificateRenderer
	Store    ObjectStore
	Now      func() time.Time
}

func NewRegistrar(db *gorm.DB, r CertificateRenderer, s ObjectStore) *Registrar {
	return &Registrar{DB: db, Renderer: r, Store: s, Now: time.Now}
}

// NewRegistrationID returns the fixed prefix plus 8 random uppercase hex
// characters, e.g. KGC-4F21B0D9.
func NewRegistrationID() (string, error) {
	suffix, err := gonanoid.Generate(registrationIDCharset, registrationIDLength)
	if err != nil {
		return "", err
	}

	return registrationIDPrefix + suffix, nil
}

// normalizeContact trims an optional contact field and maps empty to NULL
// so the partial unique indexes never collide on "".
func normalizeContact(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Submit validates uniqueness of the declared contacts, generates the
// registration id, renders + uploads the acknowledgement PDF and persists
// the pending row. The duplicate checks are a fast path only; the unique
// indexes remain the source of truth under concurrent submissions.
func (r *Registrar) Submit(ctx context.Context, channel, mobile, email string, profile model.Profile) (*model.PendingUser, error) {
	mobilePtr := normalizeContact(mobile)
	emailPtr := normalizeContact(email)

	if err := r.checkDuplicates(mobilePtr, emailPtr); err != nil {
		return nil, err
	}

	registrationID, err := NewRegistrationID()
	if err != nil {
		return nil, err
	}

	pdfBytes, err := r.Renderer.Render(&profile, registrationID, r.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to render registration PDF, %w", err)
	}

	pdfURL, err := r.Store.Upload(ctx, "pdfs/"+registrationID+".pdf", pdfBytes, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to upload registration PDF, %w", err)
	}

	user := model.PendingUser{
		ID:             uuid.NewString(),
		RegistrationID: registrationID,
		Channel:        channel,
		MobileNumber:   mobilePtr,
		Email:          emailPtr,
		Profile:        profile,
		PDFUrl:         pdfURL,
		Status:         model.StatusPending,
		CreatedAt:      r.Now(),
	}

	if err := r.DB.Create(&user).Error; err != nil {
		// Lost the race between check and insert: report the same
		// duplicate class instead of a server error.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			zap.L().Warn("Duplicate key on pending insert after passing pre-checks",
				zap.String("registration_id", registrationID))
			return nil, ErrAlreadyPending
		}
		return nil, err
	}

	return &user, nil
}

// checkDuplicates runs the four existence checks in a fixed order so the
// first match wins and gets reported.
func (r *Registrar) checkDuplicates(mobile, email *string) error {
	type probe struct {
		table  any
		column string
		value  *string
		err    error
	}

	probes := []probe{
		{model.PendingUser{}, "mobile_number", mobile, ErrDuplicatePendingMob},
		{model.PendingUser{}, "email", email, ErrDuplicatePendingMail},
		{model.VerifiedUser{}, "mobile_number", mobile, ErrDuplicateApprovedMob},
		{model.VerifiedUser{}, "email", email, ErrDuplicateApprovedMail},
	}

	for _, p := range probes {
		if p.value == nil {
			continue
		}

		var count int64
		if err := r.DB.Model(p.table).Where(p.column+" = ?", *p.value).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return p.err
		}
	}

	return nil
}
