package transport

type CheckRequest struct {
	NationalID string `json:"national_id"`
}

type ToggleRequest struct {
	ProductID string `json:"product_id"`
}

type FullNameRequest struct {
	FullName string `json:"full_name"`
}

type ProductRequest struct {
	Name string `json:"name"`
}

type ReportResponse struct {
	Report string `json:"report"`
}
