package sapservice

import (
	"context"
)

type Mock interface {
	SupplierService

	Reset()
	Add(supplier SupplierDto)
}

type mockImpl struct {
	suppliers []SupplierDto
}

func newMock() Mock {
	return &mockImpl{
		suppliers: []SupplierDto{
			{Code: "100001", Name: "PT Contoh Abadi", City: "Jakarta", Country: "ID"},
			{Code: "100002", Name: "CV Maju Bersama", City: "Surabaya", Country: "ID"},
		},
	}
}

func NewMock() Mock {
	return &mockImpl{}
}

func (m *mockImpl) ListSuppliers(_ context.Context) ([]SupplierDto, error) {
	result := make([]SupplierDto, len(m.suppliers))
	copy(result, m.suppliers)
	return result, nil
}

func (m *mockImpl) Reset() {
	m.suppliers = make([]SupplierDto, 0)
}

func (m *mockImpl) Add(supplier SupplierDto) {
	m.suppliers = append(m.suppliers, supplier)
}
