package model

import (
	"time"

	"github.com/google/uuid"
)

// DocumentType classifies a stored vehicle document.
type DocumentType string

const (
	DocInsuranceCard        DocumentType = "insurance_card"
	DocRegistration         DocumentType = "registration"
	DocTitle                DocumentType = "title"
	DocDriversLicense       DocumentType = "drivers_license"
	DocMaintenanceReceipt   DocumentType = "maintenance_receipt"
	DocPurchaseReceipt      DocumentType = "purchase_receipt"
	DocWarranty             DocumentType = "warranty"
	DocLoanDocument         DocumentType = "loan_document"
	DocLeaseAgreement       DocumentType = "lease_agreement"
	DocInspectionReport     DocumentType = "inspection_report"
	DocEmissionsCertificate DocumentType = "emissions_certificate"
	DocFASTag               DocumentType = "fas_tag"
	DocOther                DocumentType = "other"
)

var documentTypes = map[DocumentType]bool{
	DocInsuranceCard: true, DocRegistration: true, DocTitle: true,
	DocDriversLicense: true, DocMaintenanceReceipt: true,
	DocPurchaseReceipt: true, DocWarranty: true, DocLoanDocument: true,
	DocLeaseAgreement: true, DocInspectionReport: true,
	DocEmissionsCertificate: true, DocFASTag: true, DocOther: true,
}

// ParseDocumentType maps a raw string to a DocumentType, falling back to
// other for unknown values.
func ParseDocumentType(raw string) DocumentType {
	if documentTypes[DocumentType(raw)] {
		return DocumentType(raw)
	}
	return DocOther
}

// HasExpiration reports whether documents of this type typically expire.
func (d DocumentType) HasExpiration() bool {
	switch d {
	case DocInsuranceCard, DocRegistration, DocDriversLicense, DocWarranty,
		DocInspectionReport, DocEmissionsCertificate, DocFASTag:
		return true
	}
	return false
}

// Document is a stored vehicle document. Binary payloads (scans, PDFs) live
// only in the local store and are excluded from sync.
type Document struct {
	ID        uuid.UUID
	VehicleID uuid.UUID

	Name         string
	DocumentType DocumentType

	ExpirationDate *time.Time
	Notes          *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDocument creates a document record for the given vehicle.
func NewDocument(vehicleID uuid.UUID, name string, documentType DocumentType) *Document {
	now := time.Now().UTC()
	return &Document{
		ID:           uuid.New(),
		VehicleID:    vehicleID,
		Name:         name,
		DocumentType: documentType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsExpired reports whether the document's expiration date has passed.
// Documents without an expiration never expire.
func (d *Document) IsExpired(now time.Time) bool {
	return d.ExpirationDate != nil && d.ExpirationDate.Before(now)
}

// IsExpiringSoon reports whether the document expires within the next 30
// days but has not yet expired.
func (d *Document) IsExpiringSoon(now time.Time) bool {
	if d.ExpirationDate == nil || d.IsExpired(now) {
		return false
	}
	return !d.ExpirationDate.After(now.AddDate(0, 0, 30))
}

// DaysUntilExpiration returns whole days until the document expires; negative
// when already expired. Reports false when no expiration date is set.
func (d *Document) DaysUntilExpiration(now time.Time) (int, bool) {
	if d.ExpirationDate == nil {
		return 0, false
	}
	return int(d.ExpirationDate.Sub(now).Hours() / 24), true
}
