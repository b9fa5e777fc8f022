package sapservice

import (
	"context"
	"fmt"
	"net/http"

	aulogging "github.com/StephanHCB/go-autumn-logging"
	aurestclientapi "github.com/StephanHCB/go-autumn-restclient/api"

	"github.com/oremont/rfp-service/internal/repository/downstreams"
)

type Impl struct {
	client  aurestclientapi.Client
	baseUrl string
}

// New builds the supplier service client. An empty base url selects the
// built-in mock so the service can run without SAP connectivity during
// development.
func New(sapServiceBaseUrl string, fixedApiToken string) (SupplierService, error) {
	if sapServiceBaseUrl == "" {
		aulogging.Logger.NoCtx().Warn().Printf("service.sap_service not configured. Will serve a fixed supplier list instead (not useful for production!)")
		return newMock(), nil
	}

	client, err := downstreams.ClientWith(
		downstreams.ApiTokenRequestManipulator(fixedApiToken),
		"sap-service-breaker",
	)
	if err != nil {
		return nil, err
	}

	return &Impl{
		client:  client,
		baseUrl: sapServiceBaseUrl,
	}, nil
}

func (i *Impl) ListSuppliers(ctx context.Context) ([]SupplierDto, error) {
	url := fmt.Sprintf("%s/api/rest/v1/suppliers", i.baseUrl)
	bodyDto := SupplierListDto{
		Suppliers: make([]SupplierDto, 0),
	}
	response := aurestclientapi.ParsedResponse{
		Body: &bodyDto,
	}
	err := i.client.Perform(ctx, http.MethodGet, url, nil, &response)
	return bodyDto.Suppliers, downstreams.ErrByStatus(err, response.Status)
}
