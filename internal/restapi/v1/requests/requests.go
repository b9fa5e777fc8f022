package v1requests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-http-utils/headers"

	"github.com/oremont/rfp-service/internal/apierrors"
	"github.com/oremont/rfp-service/internal/config"
	"github.com/oremont/rfp-service/internal/entities"
	"github.com/oremont/rfp-service/internal/interaction"
	"github.com/oremont/rfp-service/internal/logging"
	"github.com/oremont/rfp-service/internal/pdfrender"
	"github.com/oremont/rfp-service/internal/restapi/common"
	"github.com/oremont/rfp-service/internal/restapi/media"
)

type requestHandler struct {
	interactor interaction.Interactor
}

func Create(router chi.Router, i interaction.Interactor) {
	handler := requestHandler{
		interactor: i,
	}

	router.Get("/requests", common.CreateHandler(
		handler.listRequests,
		parseListRequest,
		writeJSONResponse[RequestListDto](http.StatusOK),
	))
	router.Post("/requests", common.CreateHandler(
		handler.createRequest,
		parseWriteRequest,
		writeJSONResponse[RequestDto](http.StatusCreated),
	))
	router.Get("/requests/{id}", common.CreateHandler(
		handler.getRequest,
		parseByIDRequest,
		writeJSONResponse[RequestDto](http.StatusOK),
	))
	router.Put("/requests/{id}", common.CreateHandler(
		handler.updateRequest,
		parseUpdateRequest,
		writeJSONResponse[RequestDto](http.StatusOK),
	))
	router.Post("/requests/{id}/status", common.CreateHandler(
		handler.changeStatus,
		parseStatusChangeRequest,
		writeJSONResponse[RequestDto](http.StatusOK),
	))
	router.Get("/requests/{id}/audit-log", common.CreateHandler(
		handler.getAuditLog,
		parseByIDRequest,
		writeJSONResponse[AuditLogDto](http.StatusOK),
	))
	router.Get("/requests/{id}/pdf", handler.handlePdfGet)
}

type listRequest struct {
	query entities.RequestQuery
}

type byIDRequest struct {
	id uint
}

type updateRequest struct {
	id  uint
	dto WriteRequestDto
}

type statusChangeRequest struct {
	id  uint
	dto StatusChangeDto
}

func parseListRequest(r *http.Request) (*listRequest, error) {
	params := r.URL.Query()

	return &listRequest{
		query: entities.RequestQuery{
			Status:       entities.RequestStatus(params.Get("status")),
			Area:         entities.Area(params.Get("area")),
			NumberPrefix: params.Get("number_prefix"),
			PayeeType:    entities.PayeeType(params.Get("payee_type")),
		},
	}, nil
}

func parseRequestID(r *http.Request) (uint, error) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid request id: %s", idParam)
	}

	return uint(id), nil
}

func parseByIDRequest(r *http.Request) (*byIDRequest, error) {
	id, err := parseRequestID(r)
	if err != nil {
		return nil, err
	}

	return &byIDRequest{id: id}, nil
}

func parseWriteRequest(r *http.Request) (*WriteRequestDto, error) {
	var dto WriteRequestDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}

	return &dto, nil
}

func parseUpdateRequest(r *http.Request) (*updateRequest, error) {
	id, err := parseRequestID(r)
	if err != nil {
		return nil, err
	}

	dto, err := parseWriteRequest(r)
	if err != nil {
		return nil, err
	}

	return &updateRequest{id: id, dto: *dto}, nil
}

func parseStatusChangeRequest(r *http.Request) (*statusChangeRequest, error) {
	id, err := parseRequestID(r)
	if err != nil {
		return nil, err
	}

	var dto StatusChangeDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}

	return &statusChangeRequest{id: id, dto: dto}, nil
}

func writeJSONResponse[Res any](status int) common.ResponseHandler[Res] {
	return func(ctx context.Context, res *Res, w http.ResponseWriter) error {
		w.Header().Set(headers.ContentType, media.ContentTypeApplicationJson)
		w.WriteHeader(status)
		return json.NewEncoder(w).Encode(res)
	}
}

func (h *requestHandler) listRequests(ctx context.Context, req *listRequest, logger logging.Logger) (*RequestListDto, error) {
	requests, err := h.interactor.GetRequests(ctx, req.query)
	if err != nil {
		return nil, err
	}

	result := RequestListDto{
		Requests: make([]RequestDto, 0, len(requests)),
	}
	for idx := range requests {
		result.Requests = append(result.Requests, toRequestDto(&requests[idx]))
	}

	return &result, nil
}

func (h *requestHandler) getRequest(ctx context.Context, req *byIDRequest, logger logging.Logger) (*RequestDto, error) {
	request, err := h.interactor.GetRequest(ctx, req.id)
	if err != nil {
		return nil, err
	}

	dto := toRequestDto(request)
	return &dto, nil
}

func (h *requestHandler) createRequest(ctx context.Context, req *WriteRequestDto, logger logging.Logger) (*RequestDto, error) {
	entity, err := req.toEntity()
	if err != nil {
		return nil, apierrors.NewBadRequest(err.Error())
	}

	created, err := h.interactor.CreateRequest(ctx, entity)
	if err != nil {
		return nil, err
	}

	dto := toRequestDto(created)
	return &dto, nil
}

func (h *requestHandler) updateRequest(ctx context.Context, req *updateRequest, logger logging.Logger) (*RequestDto, error) {
	upd, err := req.dto.toUpdate()
	if err != nil {
		return nil, apierrors.NewBadRequest(err.Error())
	}

	updated, err := h.interactor.UpdateRequest(ctx, req.id, upd)
	if err != nil {
		return nil, err
	}

	dto := toRequestDto(updated)
	return &dto, nil
}

func (h *requestHandler) changeStatus(ctx context.Context, req *statusChangeRequest, logger logging.Logger) (*RequestDto, error) {
	newStatus := entities.RequestStatus(req.dto.Status)

	updated, err := h.interactor.ChangeStatus(ctx, req.id, newStatus, req.dto.Remarks)
	if err != nil {
		return nil, err
	}

	dto := toRequestDto(updated)
	return &dto, nil
}

func (h *requestHandler) getAuditLog(ctx context.Context, req *byIDRequest, logger logging.Logger) (*AuditLogDto, error) {
	if _, err := h.interactor.GetRequest(ctx, req.id); err != nil {
		return nil, err
	}

	entries, err := h.interactor.GetAuditLog(ctx, req.id)
	if err != nil {
		return nil, err
	}

	result := AuditLogDto{
		Entries: make([]AuditLogEntryDto, 0, len(entries)),
	}
	for _, entry := range entries {
		result.Entries = append(result.Entries, toAuditLogEntryDto(entry))
	}

	return &result, nil
}

// handlePdfGet streams binary data, so it bypasses the generic json
// endpoint plumbing.
func (h *requestHandler) handlePdfGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := common.GetRequestID(ctx)
	logger := logging.LoggerFromContext(ctx)

	id, err := parseRequestID(r)
	if err != nil {
		common.SendBadRequestResponse(w, reqID, logger, err.Error())
		return
	}

	request, err := h.interactor.TrackPrint(ctx, id)
	if err != nil {
		sendErrorResponse(w, reqID, logger, err)
		return
	}

	currencyCode, usageLabel, err := h.interactor.ResolveRefs(ctx, request)
	if err != nil {
		sendErrorResponse(w, reqID, logger, err)
		return
	}

	footer := ""
	if conf, confErr := config.GetApplicationConfig(); confErr == nil {
		footer = conf.Service.PrintFooter
	}

	payload, err := pdfrender.RenderSummary(pdfrender.Document{
		Request:      request,
		CurrencyCode: currencyCode,
		UsageLabel:   usageLabel,
		FooterText:   footer,
	})
	if err != nil {
		logger.Error("could not render pdf for request %d. [error]: %v", id, err)
		common.SendInternalServerError(w, reqID, common.InternalErrorMessage, logger, "")
		return
	}

	w.Header().Set(headers.ContentType, media.ContentTypeApplicationPdf)
	w.Header().Set(headers.ContentDisposition, fmt.Sprintf("inline; filename=%q", request.RequestNumber+".pdf"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		logger.Error("could not write pdf response. [error]: %v", err)
	}
}

func sendErrorResponse(w http.ResponseWriter, reqID string, logger logging.Logger, err error) {
	if status := apierrors.AsAPIStatus(err); status != nil {
		switch {
		case apierrors.IsBadRequestError(err):
			common.SendBadRequestResponse(w, reqID, logger, status.Status().Details)
		case apierrors.IsForbiddenError(err):
			common.SendForbiddenResponse(w, reqID, logger, status.Status().Details)
		case apierrors.IsNotFoundError(err):
			common.SendStatusNotFoundResponse(w, reqID, logger, status.Status().Details)
		case apierrors.IsConflictError(err):
			common.SendConflictResponse(w, reqID, logger, status.Status().Details)
		default:
			common.SendInternalServerError(w, reqID, common.InternalErrorMessage, logger, status.Status().Details)
		}
		return
	}

	common.SendInternalServerError(w, reqID, common.InternalErrorMessage, logger, "")
}
