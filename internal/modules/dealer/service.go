package dealer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
	"github.com/georgemunganga/dealer-backend/internal/platform/blob"
	"github.com/georgemunganga/dealer-backend/internal/platform/validation"
)

const minPasswordLength = 8

var errBadCredentials = fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)

// ExposureSource reports how much a dealer currently owes on open orders.
type ExposureSource interface {
	OutstandingExposure(ctx context.Context, dealerID uuid.UUID) (float64, error)
}

type Service interface {
	Create(ctx context.Context, req CreateDealerRequest) (*Dealer, error)
	Get(ctx context.Context, id uuid.UUID) (*Dealer, error)
	List(ctx context.Context, f Filter) ([]*Dealer, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateDealerRequest) (*Dealer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*Dealer, error)

	// UploadLogo stores the file and records its public URL on the dealer.
	UploadLogo(ctx context.Context, id uuid.UUID, filename string, r io.Reader) (*Dealer, error)

	// AuthenticateDealer returns the id of the active dealer owning the
	// credentials.
	AuthenticateDealer(ctx context.Context, email, password string) (uuid.UUID, error)

	Credit(ctx context.Context, id uuid.UUID) (*Credit, error)
}

type service struct {
	repo     Repository
	blobs    blob.Store
	exposure ExposureSource
	now      func() time.Time
}

// NewService creates a new dealer service. exposure may be nil, in which case
// every dealer reports zero exposure.
func NewService(repo Repository, blobs blob.Store, exposure ExposureSource) Service {
	return &service{repo: repo, blobs: blobs, exposure: exposure, now: time.Now}
}

func (s *service) Create(ctx context.Context, req CreateDealerRequest) (*Dealer, error) {
	now := s.now().UTC()
	d := &Dealer{
		ID:          uuid.New(),
		CompanyName: strings.TrimSpace(req.CompanyName),
		Address:     req.Address,
		City:        req.City,
		Province:    req.Province,
		ZipCode:     req.ZipCode,
		IsActive:    true,
		ContactName: req.ContactName,
		Email:       normalizeEmail(req.Email),
		Phone:       req.Phone,
		VATNumber:   strings.TrimSpace(req.VATNumber),
		CreditLimit: req.CreditLimit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}

	v := validate(d)
	if req.Password != "" {
		checkPassword(req.Password, v)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, d.Email, uuid.Nil); err != nil {
		return nil, err
	}
	if req.Password != "" {
		if err := setPassword(d, req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create dealer: %w", err)
	}
	return d, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Dealer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, f Filter) ([]*Dealer, error) {
	return s.repo.List(ctx, f)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateDealerRequest) (*Dealer, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	assign(&d.CompanyName, req.CompanyName)
	assign(&d.Address, req.Address)
	assign(&d.City, req.City)
	assign(&d.Province, req.Province)
	assign(&d.ZipCode, req.ZipCode)
	assign(&d.ContactName, req.ContactName)
	assign(&d.Phone, req.Phone)
	assign(&d.VATNumber, req.VATNumber)
	if req.Email != nil {
		d.Email = normalizeEmail(*req.Email)
	}
	if req.CreditLimit != nil {
		d.CreditLimit = *req.CreditLimit
	}

	v := validate(d)
	if req.Password != nil {
		checkPassword(*req.Password, v)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	if req.Email != nil {
		if err := s.ensureEmailFree(ctx, d.Email, d.ID); err != nil {
			return nil, err
		}
	}
	if req.Password != nil {
		if err := setPassword(d, *req.Password); err != nil {
			return nil, err
		}
	}
	if err := s.save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*Dealer, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.IsActive = active
	if err := s.save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) UploadLogo(ctx context.Context, id uuid.UUID, filename string, r io.Reader) (*Dealer, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.blobs.Put(ctx, "dealer-logos", filename, r)
	if err != nil {
		return nil, fmt.Errorf("failed to store logo: %w", err)
	}
	d.LogoURL = url
	if err := s.save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) AuthenticateDealer(ctx context.Context, email, password string) (uuid.UUID, error) {
	d, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return uuid.Nil, errBadCredentials
		}
		return uuid.Nil, err
	}
	if d.PasswordHash == "" || !d.IsActive {
		return uuid.Nil, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(password)); err != nil {
		return uuid.Nil, errBadCredentials
	}
	return d.ID, nil
}

func (s *service) Credit(ctx context.Context, id uuid.UUID) (*Credit, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var exposure float64
	if s.exposure != nil {
		if exposure, err = s.exposure.OutstandingExposure(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to compute exposure: %w", err)
		}
	}
	available := decimal.NewFromFloat(d.CreditLimit).Sub(decimal.NewFromFloat(exposure)).Round(2)
	return &Credit{
		DealerID:      d.ID,
		CreditLimit:   d.CreditLimit,
		Exposure:      exposure,
		Available:     available.InexactFloat64(),
		CanPlaceOrder: d.IsActive && available.IsPositive(),
	}, nil
}

func (s *service) save(ctx context.Context, d *Dealer) error {
	d.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, d); err != nil {
		return fmt.Errorf("failed to update dealer: %w", err)
	}
	return nil
}

func (s *service) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	other, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if other.ID != self {
		return apperr.Conflict("a dealer with email " + email + " already exists")
	}
	return nil
}

func validate(d *Dealer) validation.Violations {
	v := validation.Violations{}
	validation.Required("companyName", d.CompanyName, v)
	validation.Required("email", d.Email, v)
	validation.Email("email", d.Email, v)
	validation.NonNegative("creditLimit", d.CreditLimit, v)
	return v
}

func checkPassword(pw string, v validation.Violations) {
	if len(pw) < minPasswordLength {
		v["password"] = "too_short"
	}
}

func setPassword(d *Dealer, pw string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	d.PasswordHash = string(hash)
	log.Printf("dealer %s: password updated", d.ID)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
