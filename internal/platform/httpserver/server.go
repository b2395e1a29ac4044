package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	starregistry "starnotary/contexts/asset-registry/star-registry"
	registryhttp "starnotary/contexts/asset-registry/star-registry/adapters/http"
	registryerrors "starnotary/contexts/asset-registry/star-registry/domain/errors"
	registrytransport "starnotary/contexts/asset-registry/star-registry/transport/http"
	_ "starnotary/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

const maxBodyBytes = 1 << 20

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	registry starregistry.Module
}

func New(registry starregistry.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		registry: registry,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /v1/registry/metadata", s.handleMetadata)
	s.mux.HandleFunc("POST /v1/registry/stars", s.handleCreateStar)
	s.mux.HandleFunc("GET /v1/registry/stars/{star_id}", s.handleLookupStar)
	s.mux.HandleFunc("GET /v1/registry/stars/{star_id}/owner", s.handleOwnerOf)
	s.mux.HandleFunc("GET /v1/registry/stars/{star_id}/listing", s.handleGetListing)
	s.mux.HandleFunc("PUT /v1/registry/stars/{star_id}/listing", s.handlePutListing)
	s.mux.HandleFunc("GET /v1/registry/stars/{star_id}/approval", s.handleGetApproval)
	s.mux.HandleFunc("PUT /v1/registry/stars/{star_id}/approval", s.handleApprove)
	s.mux.HandleFunc("POST /v1/registry/stars/{star_id}/purchase", s.handlePurchase)
	s.mux.HandleFunc("POST /v1/registry/stars/{star_id}/transfer", s.handleTransfer)
	s.mux.HandleFunc("POST /v1/registry/exchanges", s.handleExchange)
	s.mux.HandleFunc("GET /v1/registry/accounts/{account_id}/stars/count", s.handleStarCount)
	s.mux.HandleFunc("GET /v1/registry/accounts/{account_id}/balance", s.handleAccountBalance)
	s.mux.HandleFunc("POST /v1/registry/accounts/{account_id}/deposits", s.handleDeposit)
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Handler.MetadataHandler(r.Context()))
}

func (s *Server) handleCreateStar(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req registrytransport.CreateStarRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := s.registry.Handler.CreateStarHandler(r.Context(), userID, req)
	if err != nil {
		s.writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLookupStar(w http.ResponseWriter, r *http.Request) {
	starID, ok := pathStarID(w, r)
	if !ok {
		return
	}
	resp, err := s.registry.Handler.LookupStarHandler(r.Context(), starID)
	if err != nil {
		s.writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOwnerOf(w http.ResponseWriter, r *http.Request) {
	starID, ok := pathStarID(w, r)
	if !ok {
		return
	}
	resp, err := s.registry.Handler.OwnerOfHandler(r.Context(), starID)
	if err != nil {
		s.writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	starID, ok := pathStarID(w, r)
	if !ok {
		return
	}
	resp, err := s.registry.Handler.GetListingHandler(r.Context(), starID)
	if err != nil {
		s.writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePutListing(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	starID, ok := pathStarID(w, r)
	if !ok {
		return
	}
	var req registrytransport.PutListingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := s.registry.Handler.PutListingHandler(r.Context(), userID, starID, req)
	if err != nil {
		s.writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetApproval(w http.ResponseWriter, r *http.Request) {
	starID, ok := pathStarID(w, r)
	if !ok {
		return
	}
	resp, err := s.registry.Handler.GetApprovalHandler(r.Context(), starID)
	if err != nil {
		s.writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	starID, ok := pathStarID(w, r)
	if !ok {
		return
	}
	var req registrytransport.ApproveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := s.registry.Handler.ApproveHandler(r.Context(), userID, starID, req)
	if err != nil {
		s.writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	starID, ok := pathStarID(w, r)
	if !ok {
		return
	}
	var req registrytransport.PurchaseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := s.registry.Handler.PurchaseHandler(
		r.Context(),
		userID,
		r.Header.Get("Idempotency-Key"),
		starID,
		req,
	)
	if err != nil {
		s.writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	starID, ok := pathStarID(w, r)
	if !ok {
		return
	}
	var req registrytransport.TransferRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := s.registry.Handler.TransferHandler(r.Context(), userID, starID, req)
	if err != nil {
		s.writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExchange(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req registrytransport.ExchangeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := s.registry.Handler.ExchangeHandler(r.Context(), userID, req)
	if err != nil {
		s.writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStarCount(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.StarCountHandler(r.Context(), r.PathValue("account_id"))
	if err != nil {
		s.writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAccountBalance(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.AccountBalanceHandler(r.Context(), r.PathValue("account_id"))
	if err != nil {
		s.writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req registrytransport.DepositRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := s.registry.Handler.DepositHandler(r.Context(), userID, r.PathValue("account_id"), req)
	if err != nil {
		s.writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return userID, true
}

func pathStarID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	starID, err := registryhttp.ParseStarID(r.PathValue("star_id"))
	if err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_star_id", "star_id must be a non-negative integer")
		return 0, false
	}
	return starID, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

func (s *Server) writeRegistryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registryerrors.ErrNotFound):
		writeRegistryError(w, http.StatusNotFound, "star_not_found", err.Error())
	case errors.Is(err, registryerrors.ErrNotOwner):
		writeRegistryError(w, http.StatusForbidden, "not_owner", err.Error())
	case errors.Is(err, registryerrors.ErrNotAccountHolder):
		writeRegistryError(w, http.StatusForbidden, "not_account_holder", err.Error())
	case errors.Is(err, registryerrors.ErrDuplicateID):
		writeRegistryError(w, http.StatusConflict, "duplicate_star_id", err.Error())
	case errors.Is(err, registryerrors.ErrNotForSale):
		writeRegistryError(w, http.StatusConflict, "not_for_sale", err.Error())
	case errors.Is(err, registryerrors.ErrInsufficientFunds):
		writeRegistryError(w, http.StatusPaymentRequired, "insufficient_funds", err.Error())
	case errors.Is(err, registryerrors.ErrTransferFailed):
		s.logger.Warn("registry value transfer failed",
			"event", "http_registry_transfer_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"error", err.Error(),
		)
		writeRegistryError(w, http.StatusPaymentRequired, "transfer_failed", registryerrors.ErrTransferFailed.Error())
	case errors.Is(err, registryerrors.ErrIdempotencyConflict):
		writeRegistryError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, registryerrors.ErrInvalidAmount):
		writeRegistryError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, registryerrors.ErrInvalidRequest):
		writeRegistryError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		s.logger.Error("registry request failed",
			"event", "http_registry_request_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"error", err.Error(),
		)
		writeRegistryError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRegistryError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, registrytransport.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
