package handler

import (
	"strconv"

	"github.com/edocportal/portal-api/internal/core/domain"
	"github.com/edocportal/portal-api/internal/core/ports"
)

func documentDownloadPath(id int64) string {
	return "/v1/csc/application-documents/" + strconv.FormatInt(id, 10) + "/download"
}

func documentViewPath(id int64) string {
	return "/v1/csc/application-documents/" + strconv.FormatInt(id, 10) + "/view"
}

// --- Domain → HTTP response ---

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:     a.ID,
		Email:  a.Email,
		Role:   string(a.Role),
		Status: string(a.Status),
		Name:   accountName(a),
	}
}

// accountName resolves the display name from whichever profile is attached.
func accountName(a *domain.Account) string {
	switch {
	case a.Admin != nil:
		return a.Admin.DisplayName
	case a.Csc != nil:
		return a.Csc.OwnerName
	case a.Customer != nil:
		return a.Customer.FullName
	}
	return ""
}

func toCscResponse(a *domain.Account) cscResponse {
	resp := cscResponse{
		ID:     a.ID,
		Email:  a.Email,
		Status: string(a.Status),
	}
	if a.Csc != nil {
		resp.PortalName = a.Csc.PortalName
		resp.OwnerName = a.Csc.OwnerName
		resp.CscID = a.Csc.CscID
		resp.Mobile = a.Csc.Mobile
		resp.CenterAddress = a.Csc.CenterAddress
	}
	return resp
}

func toCscResponses(accounts []*domain.Account) []cscResponse {
	out := make([]cscResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toCscResponse(a))
	}
	return out
}

func toCustomerResponse(a *domain.Account) customerResponse {
	resp := customerResponse{
		ID:     a.ID,
		Email:  a.Email,
		Status: string(a.Status),
	}
	if a.Customer != nil {
		resp.FullName = a.Customer.FullName
		resp.Mobile = a.Customer.Mobile
		resp.AssignedCscEmail = a.Customer.AssignedCscEmail
	}
	return resp
}

func toCustomerResponses(accounts []*domain.Account) []customerResponse {
	out := make([]customerResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toCustomerResponse(a))
	}
	return out
}

func toApplicationResponse(app *domain.Application) applicationResponse {
	docs := make([]documentLink, 0, len(app.Documents))
	for i, d := range app.Documents {
		// Pseudo-ids encode the list position, not SortOrder: orders may
		// have gaps when empty uploads were skipped, retrieval is positional.
		id := domain.DocumentPseudoID(app.ID, i+1)
		docs = append(docs, documentLink{
			ID:           id,
			DocumentType: d.DocumentType,
			FileName:     d.FileName,
			ContentType:  d.ContentType,
			Download:     documentDownloadPath(id),
			View:         documentViewPath(id),
		})
	}

	return applicationResponse{
		ID:              app.ID,
		ServiceType:     app.ServiceType,
		ApplicantName:   app.ApplicantName,
		ApplicantMobile: app.ApplicantMobile,
		Description:     app.Description,
		Status:          string(app.Status),
		Message:         app.Message,
		AppliedAt:       app.AppliedAt,
		Documents:       docs,
		IssuedAvailable: app.IssuedDownloadAllowed(),
	}
}

func toApplicationResponses(apps []*domain.Application) []applicationResponse {
	out := make([]applicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, toApplicationResponse(a))
	}
	return out
}

func toBucketsResponse(b *ports.ApplicationBuckets) applicationBucketsResponse {
	return applicationBucketsResponse{
		Pending:   toApplicationResponses(b.Pending),
		InProcess: toApplicationResponses(b.InProcess),
		Completed: toApplicationResponses(b.Completed),
	}
}
