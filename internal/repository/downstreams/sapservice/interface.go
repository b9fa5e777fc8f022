package sapservice

import (
	"context"
)

type SupplierService interface {
	// ListSuppliers fetches the current supplier master data extract.
	//
	// Called with the api token, never with a forwarded user jwt - the sync
	// runs in the background without a user request.
	ListSuppliers(ctx context.Context) ([]SupplierDto, error)
}

type SupplierDto struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type SupplierListDto struct {
	Suppliers []SupplierDto `json:"suppliers"`
}
