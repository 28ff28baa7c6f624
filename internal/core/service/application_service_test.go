package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/rs/zerolog"

	"github.com/edocportal/portal-api/internal/core/domain"
	"github.com/edocportal/portal-api/internal/core/ports"
)

// stubApplicationRepo mimics the persistence contract: listings and loads
// return document metadata without bytes, Document serves one blob, issued
// bytes travel with the aggregate.
type stubApplicationRepo struct {
	nextID uint
	apps   map[uint]*domain.Application
}

func newStubApplicationRepo() *stubApplicationRepo {
	return &stubApplicationRepo{nextID: 1, apps: make(map[uint]*domain.Application)}
}

func cloneApplication(a *domain.Application, withDocData bool) *domain.Application {
	clone := *a
	clone.Documents = make([]domain.Document, len(a.Documents))
	for i, d := range a.Documents {
		clone.Documents[i] = d
		if !withDocData {
			clone.Documents[i].Data = nil
		}
	}
	if a.Issued != nil {
		issued := *a.Issued
		clone.Issued = &issued
	}
	return &clone
}

func (r *stubApplicationRepo) Create(_ context.Context, app *domain.Application) (*domain.Application, error) {
	stored := cloneApplication(app, true)
	stored.ID = r.nextID
	r.nextID++
	for i := range stored.Documents {
		stored.Documents[i].ApplicationID = stored.ID
	}
	r.apps[stored.ID] = stored
	return cloneApplication(stored, true), nil
}

func (r *stubApplicationRepo) FindByID(_ context.Context, id uint) (*domain.Application, error) {
	app, ok := r.apps[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	return cloneApplication(app, false), nil
}

func (r *stubApplicationRepo) ListByCustomer(_ context.Context, customerID uint) ([]*domain.Application, error) {
	var out []*domain.Application
	for _, a := range r.apps {
		if a.CustomerID == customerID {
			out = append(out, cloneApplication(a, false))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *stubApplicationRepo) ListByAssignedCsc(_ context.Context, cscID uint) ([]*domain.Application, error) {
	var out []*domain.Application
	for _, a := range r.apps {
		if a.AssignedCscID == cscID {
			out = append(out, cloneApplication(a, false))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubApplicationRepo) UpdateWorkflow(_ context.Context, app *domain.Application) error {
	stored, ok := r.apps[app.ID]
	if !ok {
		return domain.ErrApplicationNotFound
	}
	stored.Status = app.Status
	stored.Message = app.Message
	if app.Issued != nil {
		issued := *app.Issued
		stored.Issued = &issued
	} else {
		stored.Issued = nil
	}
	return nil
}

func (r *stubApplicationRepo) DeleteDocuments(_ context.Context, applicationID uint) error {
	stored, ok := r.apps[applicationID]
	if !ok {
		return domain.ErrApplicationNotFound
	}
	stored.Documents = nil
	return nil
}

func (r *stubApplicationRepo) Document(_ context.Context, applicationID uint, index int) (*domain.Document, error) {
	stored, ok := r.apps[applicationID]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	if index < 0 || index >= len(stored.Documents) {
		return nil, domain.ErrDocumentNotFound
	}
	doc := stored.Documents[index]
	return &doc, nil
}

// fixture wires an account stub with one active CSC and one assigned
// customer next to the application service under test.
type applicationFixture struct {
	svc        *ApplicationService
	apps       *stubApplicationRepo
	accountSvc *AccountService
	csc        *domain.Account
	customer   *domain.Account
}

func newApplicationFixture(t *testing.T) *applicationFixture {
	t.Helper()
	accounts := newStubAccountRepo()
	accountSvc := newAccountService(accounts, newStubRevoker())
	csc := seedCsc(t, accountSvc, "center@example.com", domain.AccountActive)
	customer, err := accountSvc.CreateCustomerForCsc(context.Background(), "center@example.com", ports.RegisterCustomerInput{
		FullName: "Asha Rao", Email: "asha@example.com", Mobile: "9876543210", Password: "pw",
	})
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	apps := newStubApplicationRepo()
	return &applicationFixture{
		svc:        NewApplicationService(apps, accounts, zerolog.Nop()),
		apps:       apps,
		accountSvc: accountSvc,
		csc:        csc,
		customer:   customer,
	}
}

func (f *applicationFixture) apply(t *testing.T, uploads ...ports.FileUpload) *domain.Application {
	t.Helper()
	app, err := f.svc.Apply(context.Background(), ports.ApplyInput{
		CustomerEmail: f.customer.Email,
		ServiceType:   "Income Certificate",
		Name:          "Asha Rao",
		Mobile:        "9876543210",
		Description:   "income proof for scholarship",
		Documents:     uploads,
	})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	return app
}

func TestApply_BuildsDocuments(t *testing.T) {
	f := newApplicationFixture(t)

	app := f.apply(t,
		ports.FileUpload{FileName: "aadhaar copy (1).pdf", ContentType: "application/pdf", Data: []byte("a")},
		ports.FileUpload{FileName: "", Data: nil}, // skipped: empty payload
		ports.FileUpload{FileName: "photo.png", Data: []byte("b")},
	)

	if app.Status != domain.StatusPending {
		t.Fatalf("expected PENDING, got %s", app.Status)
	}
	if app.AssignedCscID != f.csc.ID {
		t.Fatalf("application not routed to assigned csc")
	}
	if len(app.Documents) != 2 {
		t.Fatalf("expected 2 stored documents, got %d", len(app.Documents))
	}

	first := app.Documents[0]
	if first.FileName != "aadhaar_copy__1_.pdf" {
		t.Fatalf("filename not sanitized: %q", first.FileName)
	}
	if first.DocumentType == "" || first.SortOrder != 1 {
		t.Fatalf("unexpected first document: %+v", first)
	}

	// Undeclared MIME falls back to extension sniffing.
	second := app.Documents[1]
	if second.ContentType != "image/png" {
		t.Fatalf("expected image/png, got %q", second.ContentType)
	}
	if second.SortOrder != 3 {
		t.Fatalf("sort order must follow upload position, got %d", second.SortOrder)
	}
}

func TestApply_LabelsFollowRequiredDocuments(t *testing.T) {
	f := newApplicationFixture(t)

	required := domain.RequiredDocuments("Income Certificate")
	uploads := make([]ports.FileUpload, len(required)+1)
	for i := range uploads {
		uploads[i] = ports.FileUpload{FileName: "f.pdf", Data: []byte{byte(i + 1)}}
	}

	app := f.apply(t, uploads...)
	for i, d := range app.Documents[:len(required)] {
		if d.DocumentType != required[i] {
			t.Fatalf("document %d label = %q, want %q", i, d.DocumentType, required[i])
		}
	}
	extra := app.Documents[len(required)]
	if extra.DocumentType == "" || extra.DocumentType == required[len(required)-1] {
		t.Fatalf("extra document should get a generic label, got %q", extra.DocumentType)
	}
}

func TestUpdateStatus_RejectedPurgesAttachments(t *testing.T) {
	f := newApplicationFixture(t)
	app := f.apply(t, ports.FileUpload{FileName: "doc.pdf", Data: []byte("a")})

	if err := f.svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		ApplicationID: app.ID,
		CscEmail:      f.csc.Email,
		Status:        "success",
		Issued:        &ports.FileUpload{FileName: "cert.pdf", ContentType: "application/pdf", Data: []byte("pdf")},
	}); err != nil {
		t.Fatalf("issue transition failed: %v", err)
	}

	if err := f.svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		ApplicationID: app.ID,
		CscEmail:      f.csc.Email,
		Status:        "REJECTED",
		Message:       "illegible documents",
	}); err != nil {
		t.Fatalf("reject transition failed: %v", err)
	}

	stored := f.apps.apps[app.ID]
	if stored.Status != domain.StatusRejected {
		t.Fatalf("expected REJECTED, got %s", stored.Status)
	}
	if stored.Issued != nil {
		t.Fatalf("issued document must be purged on rejection")
	}
	if len(stored.Documents) != 0 {
		t.Fatalf("submitted documents must be purged on rejection")
	}
	if stored.Message != "illegible documents" {
		t.Fatalf("message not recorded: %q", stored.Message)
	}
}

func TestUpdateStatus_UnknownStatusRejected(t *testing.T) {
	f := newApplicationFixture(t)
	app := f.apply(t)

	err := f.svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		ApplicationID: app.ID,
		CscEmail:      f.csc.Email,
		Status:        "SHIPPED",
	})
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateStatus_NonPDFIssuedLeavesPriorIntact(t *testing.T) {
	f := newApplicationFixture(t)
	app := f.apply(t)

	if err := f.svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		ApplicationID: app.ID,
		CscEmail:      f.csc.Email,
		Status:        "APPROVED",
		Issued:        &ports.FileUpload{FileName: "cert.pdf", ContentType: "application/pdf", Data: []byte("good")},
	}); err != nil {
		t.Fatalf("valid issue failed: %v", err)
	}

	err := f.svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		ApplicationID: app.ID,
		CscEmail:      f.csc.Email,
		Status:        "ISSUED",
		Issued:        &ports.FileUpload{FileName: "scan.png", ContentType: "image/png", Data: []byte("bad")},
	})
	if !errors.Is(err, domain.ErrNotPDF) {
		t.Fatalf("expected ErrNotPDF, got %v", err)
	}

	stored := f.apps.apps[app.ID]
	if stored.Status != domain.StatusApproved {
		t.Fatalf("status must be unchanged after failed upload, got %s", stored.Status)
	}
	if stored.Issued == nil || string(stored.Issued.Data) != "good" {
		t.Fatalf("prior issued document must survive a failed upload")
	}
}

func TestUpdateStatus_AssignmentEnforced(t *testing.T) {
	f := newApplicationFixture(t)
	app := f.apply(t)
	seedCsc(t, f.accountSvc, "foreign@example.com", domain.AccountActive)

	err := f.svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		ApplicationID: app.ID,
		CscEmail:      "foreign@example.com",
		Status:        "APPLIED",
	})
	if !errors.Is(err, domain.ErrNotAssigned) {
		t.Fatalf("expected ErrNotAssigned, got %v", err)
	}

	// Non-CSC callers are rejected outright.
	err = f.svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		ApplicationID: app.ID,
		CscEmail:      f.customer.Email,
		Status:        "APPLIED",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-csc caller, got %v", err)
	}
}

func TestUploadedDocument_PseudoIDBounds(t *testing.T) {
	f := newApplicationFixture(t)
	app := f.apply(t,
		ports.FileUpload{FileName: "a.pdf", ContentType: "application/pdf", Data: []byte("first")},
		ports.FileUpload{FileName: "b.png", Data: []byte("second")},
	)

	doc, err := f.svc.UploadedDocument(context.Background(), domain.DocumentPseudoID(app.ID, 2), f.csc.Email)
	if err != nil {
		t.Fatalf("UploadedDocument returned error: %v", err)
	}
	if string(doc.Data) != "second" {
		t.Fatalf("wrong document served: %q", doc.Data)
	}
	if doc.ContentType != "image/png" {
		t.Fatalf("expected image/png, got %q", doc.ContentType)
	}

	// Index past the document count of an existing application.
	if _, err := f.svc.UploadedDocument(context.Background(), domain.DocumentPseudoID(app.ID, 3), f.csc.Email); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}

	// Unknown application id.
	if _, err := f.svc.UploadedDocument(context.Background(), domain.DocumentPseudoID(app.ID+100, 1), f.csc.Email); !errors.Is(err, domain.ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}

	// Zero index cannot encode a document.
	if _, err := f.svc.UploadedDocument(context.Background(), int64(app.ID)*1000, f.csc.Email); !errors.Is(err, domain.ErrInvalidDocumentID) {
		t.Fatalf("expected ErrInvalidDocumentID, got %v", err)
	}
}

func TestIssuedDocument_AccessRules(t *testing.T) {
	f := newApplicationFixture(t)
	app := f.apply(t)

	// Not yet issued.
	if _, err := f.svc.IssuedDocument(context.Background(), app.ID, f.customer.Email, false); !errors.Is(err, domain.ErrIssuedNotAvailable) {
		t.Fatalf("expected ErrIssuedNotAvailable, got %v", err)
	}

	if err := f.svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		ApplicationID: app.ID,
		CscEmail:      f.csc.Email,
		Status:        "SUCCESS",
		Issued:        &ports.FileUpload{FileName: "cert.pdf", ContentType: "application/pdf", Data: []byte("pdfbytes")},
	}); err != nil {
		t.Fatalf("issue transition failed: %v", err)
	}

	// Owner download.
	doc, err := f.svc.IssuedDocument(context.Background(), app.ID, f.customer.Email, false)
	if err != nil {
		t.Fatalf("owner download failed: %v", err)
	}
	if string(doc.Data) != "pdfbytes" || doc.ContentType != "application/pdf" {
		t.Fatalf("unexpected issued payload: %+v", doc)
	}

	// Foreign customer is rejected without leaking the document.
	if _, err := f.svc.IssuedDocument(context.Background(), app.ID, "stranger@example.com", false); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// Assigned CSC download.
	if _, err := f.svc.IssuedDocument(context.Background(), app.ID, f.csc.Email, true); err != nil {
		t.Fatalf("csc download failed: %v", err)
	}
}

func TestListForCsc_Buckets(t *testing.T) {
	f := newApplicationFixture(t)
	pending := f.apply(t)
	inProcess := f.apply(t)
	done := f.apply(t)

	if err := f.svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		ApplicationID: inProcess.ID, CscEmail: f.csc.Email, Status: "IN_PROCESS",
	}); err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if err := f.svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		ApplicationID: done.ID, CscEmail: f.csc.Email, Status: "REJECTED",
	}); err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	buckets, err := f.svc.ListForCsc(context.Background(), f.csc.Email)
	if err != nil {
		t.Fatalf("ListForCsc returned error: %v", err)
	}
	if len(buckets.Pending) != 1 || buckets.Pending[0].ID != pending.ID {
		t.Fatalf("unexpected pending bucket: %+v", buckets.Pending)
	}
	if len(buckets.InProcess) != 1 || buckets.InProcess[0].ID != inProcess.ID {
		t.Fatalf("unexpected in-process bucket: %+v", buckets.InProcess)
	}
	if len(buckets.Completed) != 1 || buckets.Completed[0].ID != done.ID {
		t.Fatalf("unexpected completed bucket: %+v", buckets.Completed)
	}
}

func TestListForCustomer_OwnOnly(t *testing.T) {
	f := newApplicationFixture(t)
	f.apply(t)
	f.apply(t)

	apps, err := f.svc.ListForCustomer(context.Background(), f.customer.Email)
	if err != nil {
		t.Fatalf("ListForCustomer returned error: %v", err)
	}
	if len(apps) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(apps))
	}
}
