package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/edocportal/portal-api/internal/core/domain"
)

// documentMetaColumns selects everything but the blob, so listings never drag
// attachment bytes out of the database.
var documentMetaColumns = []string{"id", "application_id", "sort_order", "document_type", "file_name", "content_type"}

// ApplicationRepository persists applications and their documents.
type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	row := applicationToRow(app)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("insert application: %w", err)
	}
	created := rowToApplication(row)
	created.CustomerEmail = app.CustomerEmail
	created.AssignedCscID = app.AssignedCscID
	return created, nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id uint) (*domain.Application, error) {
	var row applicationRow
	err := r.db.WithContext(ctx).
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Select(documentMetaColumns).Order("sort_order ASC")
		}).
		Take(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}

	app := rowToApplication(&row)
	if err := r.attachCustomers(ctx, []*domain.Application{app}); err != nil {
		return nil, err
	}
	return app, nil
}

func (r *ApplicationRepository) ListByCustomer(ctx context.Context, customerID uint) ([]*domain.Application, error) {
	var rows []applicationRow
	err := r.db.WithContext(ctx).
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Select(documentMetaColumns).Order("sort_order ASC")
		}).
		Where("customer_id = ?", customerID).
		Order("applied_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	apps := rowsToApplications(rows)
	if err := r.attachCustomers(ctx, apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *ApplicationRepository) ListByAssignedCsc(ctx context.Context, cscID uint) ([]*domain.Application, error) {
	var rows []applicationRow
	err := r.db.WithContext(ctx).
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Select(documentMetaColumns).Order("sort_order ASC")
		}).
		Joins("JOIN customer_profiles ON customer_profiles.account_id = applications.customer_id").
		Where("customer_profiles.assigned_csc_id = ?", cscID).
		Order("applications.applied_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list applications for csc: %w", err)
	}
	apps := rowsToApplications(rows)
	if err := r.attachCustomers(ctx, apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *ApplicationRepository) UpdateWorkflow(ctx context.Context, app *domain.Application) error {
	updates := map[string]any{
		"status":  string(app.Status),
		"message": app.Message,
	}
	if app.Issued != nil {
		updates["issued_file_name"] = app.Issued.FileName
		updates["issued_content_type"] = app.Issued.ContentType
		updates["issued_data"] = app.Issued.Data
	} else {
		updates["issued_file_name"] = ""
		updates["issued_content_type"] = ""
		updates["issued_data"] = nil
	}

	res := r.db.WithContext(ctx).Model(&applicationRow{}).Where("id = ?", app.ID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update application: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepository) DeleteDocuments(ctx context.Context, applicationID uint) error {
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Delete(&documentRow{}).Error
	if err != nil {
		return fmt.Errorf("delete documents: %w", err)
	}
	return nil
}

func (r *ApplicationRepository) Document(ctx context.Context, applicationID uint, index int) (*domain.Document, error) {
	var row documentRow
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("sort_order ASC").
		Offset(index).Limit(1).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return &domain.Document{
		ID:            row.ID,
		ApplicationID: row.ApplicationID,
		SortOrder:     row.SortOrder,
		DocumentType:  row.DocumentType,
		FileName:      row.FileName,
		ContentType:   row.ContentType,
		Data:          row.Data,
	}, nil
}

// attachCustomers fills CustomerEmail and AssignedCscID from the owning
// customer accounts with one batched query.
func (r *ApplicationRepository) attachCustomers(ctx context.Context, apps []*domain.Application) error {
	if len(apps) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(apps))
	seen := make(map[uint]struct{}, len(apps))
	for _, a := range apps {
		if _, ok := seen[a.CustomerID]; !ok {
			seen[a.CustomerID] = struct{}{}
			ids = append(ids, a.CustomerID)
		}
	}

	var rows []accountRow
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return fmt.Errorf("load application customers: %w", err)
	}

	byID := make(map[uint]*accountRow, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	for _, a := range apps {
		if row, ok := byID[a.CustomerID]; ok {
			a.CustomerEmail = row.Email
			if row.Customer != nil {
				a.AssignedCscID = row.Customer.AssignedCscID
			}
		}
	}
	return nil
}

func applicationToRow(a *domain.Application) *applicationRow {
	row := &applicationRow{
		ID:              a.ID,
		CustomerID:      a.CustomerID,
		ApplicantName:   a.ApplicantName,
		ApplicantMobile: a.ApplicantMobile,
		ServiceType:     a.ServiceType,
		Description:     a.Description,
		Status:          string(a.Status),
		Message:         a.Message,
		AppliedAt:       a.AppliedAt,
	}
	if a.Issued != nil {
		row.IssuedFileName = a.Issued.FileName
		row.IssuedContentType = a.Issued.ContentType
		row.IssuedData = a.Issued.Data
	}
	for _, d := range a.Documents {
		row.Documents = append(row.Documents, documentRow{
			SortOrder:    d.SortOrder,
			DocumentType: d.DocumentType,
			FileName:     d.FileName,
			ContentType:  d.ContentType,
			Data:         d.Data,
		})
	}
	return row
}

func rowToApplication(row *applicationRow) *domain.Application {
	a := &domain.Application{
		ID:              row.ID,
		CustomerID:      row.CustomerID,
		ApplicantName:   row.ApplicantName,
		ApplicantMobile: row.ApplicantMobile,
		ServiceType:     row.ServiceType,
		Description:     row.Description,
		Status:          domain.ApplicationStatus(row.Status),
		Message:         row.Message,
		AppliedAt:       row.AppliedAt,
	}
	if len(row.IssuedData) > 0 || row.IssuedFileName != "" {
		a.Issued = &domain.IssuedDocument{
			FileName:    row.IssuedFileName,
			ContentType: row.IssuedContentType,
			Data:        row.IssuedData,
		}
	}
	for _, d := range row.Documents {
		a.Documents = append(a.Documents, domain.Document{
			ID:            d.ID,
			ApplicationID: d.ApplicationID,
			SortOrder:     d.SortOrder,
			DocumentType:  d.DocumentType,
			FileName:      d.FileName,
			ContentType:   d.ContentType,
			Data:          d.Data,
		})
	}
	return a
}

func rowsToApplications(rows []applicationRow) []*domain.Application {
	apps := make([]*domain.Application, 0, len(rows))
	for i := range rows {
		apps = append(apps, rowToApplication(&rows[i]))
	}
	return apps
}
