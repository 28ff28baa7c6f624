package postgres

import "time"

// Row types are private to this package; mapping to and from the domain
// aggregates happens in the repositories.

type accountRow struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:100;not null"`
	Role         string `gorm:"size:16;not null;index"`
	Status       string `gorm:"size:32;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Admin    *adminProfileRow    `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	Csc      *cscProfileRow      `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	Customer *customerProfileRow `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}

func (accountRow) TableName() string { return "accounts" }

type adminProfileRow struct {
	ID          uint   `gorm:"primaryKey"`
	AccountID   uint   `gorm:"not null;uniqueIndex"`
	DisplayName string `gorm:"size:255"`
}

func (adminProfileRow) TableName() string { return "admin_profiles" }

type cscProfileRow struct {
	ID            uint   `gorm:"primaryKey"`
	AccountID     uint   `gorm:"not null;uniqueIndex"`
	PortalName    string `gorm:"size:255"`
	OwnerName     string `gorm:"size:255"`
	CscID         string `gorm:"size:64;index"`
	Mobile        string `gorm:"size:32;index"`
	CenterAddress string `gorm:"size:512"`
}

func (cscProfileRow) TableName() string { return "csc_profiles" }

type customerProfileRow struct {
	ID        uint   `gorm:"primaryKey"`
	AccountID uint   `gorm:"not null;uniqueIndex"`
	FullName  string `gorm:"size:255"`
	Mobile    string `gorm:"size:32;index"`
	// AssignedCscID is the reviewing CSC account; AssignedCscEmail is kept
	// denormalized for listings and the registration contract.
	AssignedCscID    uint   `gorm:"index"`
	AssignedCscEmail string `gorm:"size:255"`
}

func (customerProfileRow) TableName() string { return "customer_profiles" }

type applicationRow struct {
	ID              uint   `gorm:"primaryKey"`
	CustomerID      uint   `gorm:"not null;index"`
	ApplicantName   string `gorm:"size:255"`
	ApplicantMobile string `gorm:"size:32"`
	ServiceType     string `gorm:"size:128"`
	Description     string `gorm:"type:text"`
	Status          string `gorm:"size:32;not null;index"`
	Message         string `gorm:"type:text"`
	AppliedAt       time.Time

	IssuedFileName    string `gorm:"size:255"`
	IssuedContentType string `gorm:"size:128"`
	IssuedData        []byte `gorm:"type:bytea"`

	Documents []documentRow `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE"`
}

func (applicationRow) TableName() string { return "applications" }

type documentRow struct {
	ID            uint   `gorm:"primaryKey"`
	ApplicationID uint   `gorm:"not null;index"`
	SortOrder     int    `gorm:"not null"`
	DocumentType  string `gorm:"size:255"`
	FileName      string `gorm:"size:255"`
	ContentType   string `gorm:"size:128"`
	Data          []byte `gorm:"type:bytea"`
}

func (documentRow) TableName() string { return "application_documents" }
