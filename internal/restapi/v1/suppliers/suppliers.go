package v1suppliers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-http-utils/headers"

	"github.com/oremont/rfp-service/internal/interaction"
	"github.com/oremont/rfp-service/internal/logging"
	"github.com/oremont/rfp-service/internal/restapi/common"
	"github.com/oremont/rfp-service/internal/restapi/media"
)

type SupplierDto struct {
	SAPCode  string `json:"sap_code"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Country  string `json:"country"`
	SyncedAt string `json:"synced_at"`
}

type SupplierListDto struct {
	Suppliers []SupplierDto `json:"suppliers"`
}

type supplierHandler struct {
	interactor interaction.Interactor
}

func Create(router chi.Router, i interaction.Interactor) {
	handler := supplierHandler{
		interactor: i,
	}

	router.Get("/suppliers", common.CreateHandler(
		handler.listSuppliers,
		parseListRequest,
		writeListResponse,
	))
}

type listRequest struct{}

func parseListRequest(_ *http.Request) (*listRequest, error) {
	return &listRequest{}, nil
}

func writeListResponse(_ context.Context, res *SupplierListDto, w http.ResponseWriter) error {
	w.Header().Set(headers.ContentType, media.ContentTypeApplicationJson)
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(res)
}

func (h *supplierHandler) listSuppliers(ctx context.Context, _ *listRequest, logger logging.Logger) (*SupplierListDto, error) {
	suppliers, err := h.interactor.ListSuppliers(ctx)
	if err != nil {
		return nil, err
	}

	result := SupplierListDto{
		Suppliers: make([]SupplierDto, 0, len(suppliers)),
	}
	for _, supplier := range suppliers {
		result.Suppliers = append(result.Suppliers, SupplierDto{
			SAPCode:  supplier.SAPCode,
			Name:     supplier.Name,
			City:     supplier.City,
			Country:  supplier.Country,
			SyncedAt: supplier.SyncedAt.Format(time.RFC3339),
		})
	}

	return &result, nil
}
