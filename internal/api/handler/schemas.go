package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Account accountResponse `json:"account"`
}

// accountResponse is the portal-facing identity summary attached to a login.
type accountResponse struct {
	ID     uint   `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
	Name   string `json:"name"`
}

// --- Registration ---

type registerCustomerRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email"     validate:"required,email"`
	Mobile   string `json:"mobile"    validate:"required,min=10"`
	Password string `json:"password"  validate:"required,min=6"`
	CscEmail string `json:"csc_email" validate:"required,email"`
}

type registerCscRequest struct {
	OwnerName     string `json:"owner_name"     validate:"required"`
	Email         string `json:"email"          validate:"required,email"`
	Password      string `json:"password"       validate:"required,min=6"`
	PortalName    string `json:"portal_name"    validate:"required"`
	CscID         string `json:"csc_id"         validate:"required"`
	Mobile        string `json:"mobile"         validate:"required,min=10"`
	CenterAddress string `json:"center_address" validate:"required"`
}

type updateCscRequest struct {
	OwnerName     string `json:"owner_name"     validate:"required"`
	Email         string `json:"email"          validate:"required,email"`
	PortalName    string `json:"portal_name"    validate:"required"`
	CscID         string `json:"csc_id"         validate:"required"`
	Mobile        string `json:"mobile"         validate:"required,min=10"`
	CenterAddress string `json:"center_address" validate:"required"`
	// Password is optional; when blank the stored hash is kept.
	Password string `json:"password" validate:"omitempty,min=6"`
}

// --- Directory listings ---

type cscResponse struct {
	ID            uint   `json:"id"`
	Email         string `json:"email"`
	Status        string `json:"status"`
	PortalName    string `json:"portal_name"`
	OwnerName     string `json:"owner_name"`
	CscID         string `json:"csc_id"`
	Mobile        string `json:"mobile"`
	CenterAddress string `json:"center_address"`
}

type cscDirectoryResponse struct {
	Active  []cscResponse `json:"active"`
	Deleted []cscResponse `json:"deleted"`
}

type customerResponse struct {
	ID               uint   `json:"id"`
	Email            string `json:"email"`
	Status           string `json:"status"`
	FullName         string `json:"full_name"`
	Mobile           string `json:"mobile"`
	AssignedCscEmail string `json:"assigned_csc_email"`
}

type customerDirectoryResponse struct {
	Pending []customerResponse `json:"pending"`
	Active  []customerResponse `json:"active"`
}

// --- Service catalog ---

type serviceResponse struct {
	ServiceType       string   `json:"service_type"`
	RequiredDocuments []string `json:"required_documents"`
}

// --- Applications ---

type documentLink struct {
	// ID is the derived document id used by the download and view endpoints.
	ID           int64  `json:"id"`
	DocumentType string `json:"document_type"`
	FileName     string `json:"file_name"`
	ContentType  string `json:"content_type"`
	Download     string `json:"download"`
	View         string `json:"view"`
}

type applicationResponse struct {
	ID              uint           `json:"id"`
	ServiceType     string         `json:"service_type"`
	ApplicantName   string         `json:"applicant_name"`
	ApplicantMobile string         `json:"applicant_mobile"`
	Description     string         `json:"description"`
	Status          string         `json:"status"`
	Message         string         `json:"message,omitempty"`
	AppliedAt       time.Time      `json:"applied_at"`
	Documents       []documentLink `json:"documents"`
	IssuedAvailable bool           `json:"issued_available"`
}

type applicationBucketsResponse struct {
	Pending   []applicationResponse `json:"pending"`
	InProcess []applicationResponse `json:"in_process"`
	Completed []applicationResponse `json:"completed"`
}
