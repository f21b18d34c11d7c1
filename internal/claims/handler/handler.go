// Package handler exposes the claims pipelines over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"zkqrc/internal/claims/models"
	"zkqrc/internal/platform/metrics"
	"zkqrc/internal/platform/middleware"
	dErrors "zkqrc/pkg/domain-errors"
	"zkqrc/pkg/platform/httputil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the interface for claims operations.
type Service interface {
	IssueClaimProof(ctx context.Context, holderID string, claimType models.ClaimType) (*models.IssuedProof, error)
	VerifyClaimProof(ctx context.Context, holderID, rawPayload string, claimHint models.ClaimType) (*models.VerificationResult, error)
	IssueIdentityRoot(ctx context.Context, holderID string) (*models.IssuedRoot, error)
	VerifyIdentityRoot(ctx context.Context, holderID, rawPayload string) (bool, error)
}

// Handler handles the claims endpoints.
type Handler struct {
	logger  *slog.Logger
	claims  Service
	metrics *metrics.Metrics
}

// New creates a new claims Handler.
func New(claims Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		logger:  logger,
		claims:  claims,
		metrics: metrics,
	}
}

// Register registers the claims routes with the chi router. The short paths
// are the retired route names still baked into deployed scanner builds; they
// serve the same handlers.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/proofs", h.handleIssueProof)
		r.Post("/proofs/verify", h.handleVerifyProof)
		r.Post("/identity-qr", h.handleIssueRoot)
		r.Post("/identity-qr/verify", h.handleVerifyRoot)
	})

	r.Post("/cp", h.handleIssueProof)
	r.Post("/vp", h.handleVerifyProof)
	r.Post("/cmt", h.handleIssueRoot)
	r.Post("/vmt", h.handleVerifyRoot)
}

// IssueProofRequest asks for a claim proof for one holder.
type IssueProofRequest struct {
	UserID    string `json:"id"`
	ClaimType string `json:"type"`
}

// Normalize trims and canonicalizes the request fields.
func (r *IssueProofRequest) Normalize() {
	r.UserID = strings.TrimSpace(r.UserID)
	r.ClaimType = string(models.NormalizeClaimType(r.ClaimType))
}

// Validate checks required fields.
func (r *IssueProofRequest) Validate() error {
	if r.UserID == "" {
		return dErrors.New(dErrors.CodeValidation, "id is required")
	}
	if r.ClaimType == "" {
		return dErrors.New(dErrors.CodeValidation, "type is required")
	}
	return nil
}

// VerifyProofRequest carries a scanned proof payload. The claim type is an
// optional hint for payloads that do not name one.
type VerifyProofRequest struct {
	UserID    string `json:"id"`
	Proof     string `json:"proof"`
	ClaimType string `json:"type,omitempty"`
}

func (r *VerifyProofRequest) Normalize() {
	r.UserID = strings.TrimSpace(r.UserID)
	r.ClaimType = string(models.NormalizeClaimType(r.ClaimType))
}

func (r *VerifyProofRequest) Validate() error {
	if r.UserID == "" {
		return dErrors.New(dErrors.CodeValidation, "id is required")
	}
	if strings.TrimSpace(r.Proof) == "" {
		return dErrors.New(dErrors.CodeValidation, "proof is required")
	}
	return nil
}

// IssueRootRequest asks for the holder's identity-root QR.
type IssueRootRequest struct {
	UserID string `json:"id"`
}

func (r *IssueRootRequest) Normalize() {
	r.UserID = strings.TrimSpace(r.UserID)
}

func (r *IssueRootRequest) Validate() error {
	if r.UserID == "" {
		return dErrors.New(dErrors.CodeValidation, "id is required")
	}
	return nil
}

// VerifyRootRequest carries a scanned identity-root payload.
type VerifyRootRequest struct {
	UserID string `json:"id"`
	Root   string `json:"root"`
}

func (r *VerifyRootRequest) Normalize() {
	r.UserID = strings.TrimSpace(r.UserID)
	r.Root = strings.TrimSpace(r.Root)
}

func (r *VerifyRootRequest) Validate() error {
	if r.UserID == "" {
		return dErrors.New(dErrors.CodeValidation, "id is required")
	}
	if r.Root == "" {
		return dErrors.New(dErrors.CodeValidation, "root is required")
	}
	return nil
}

// IssueProofResponse is the issuance success body.
type IssueProofResponse struct {
	Message   string `json:"message"`
	ClaimType string `json:"claimType"`
	QRCURL    string `json:"qrcUrl"`
	Proof     string `json:"proof"`
}

// VerifyProofResponse reports the verification decision. The sub-checks are
// only itemized on a rejection; the success body stays message-only for the
// deployed scanner builds.
type VerifyProofResponse struct {
	Message string         `json:"message"`
	Checks  *models.Checks `json:"checks,omitempty"`
}

// IssueRootResponse is the identity-root issuance success body.
type IssueRootResponse struct {
	Message string `json:"message"`
	QRCURL  string `json:"qrcUrl"`
	Root    string `json:"root"`
}

// VerifyRootResponse is the identity verification body.
type VerifyRootResponse struct {
	Message string `json:"message"`
}

func (h *Handler) handleIssueProof(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer h.observe("issue_proof", time.Now())
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[IssueProofRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	issued, err := h.claims.IssueClaimProof(ctx, req.UserID, models.ClaimType(req.ClaimType))
	if err != nil {
		h.logger.WarnContext(ctx, "failed to issue claim proof",
			"request_id", requestID,
			"claim_type", req.ClaimType,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &IssueProofResponse{
		Message:   "Proof created successfully",
		ClaimType: string(issued.ClaimType),
		QRCURL:    issued.QRDataURL,
		Proof:     issued.Payload,
	})
}

func (h *Handler) handleVerifyProof(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer h.observe("verify_proof", time.Now())
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[VerifyProofRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.claims.VerifyClaimProof(ctx, req.UserID, req.Proof, models.ClaimType(req.ClaimType))
	if err != nil {
		h.logger.WarnContext(ctx, "failed to verify claim proof",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	// A rejection is a decision, not an error: the body names the failing
	// sub-checks and the status tells scanners apart from transport faults.
	if !result.Accepted {
		httputil.WriteJSON(w, http.StatusUnauthorized, &VerifyProofResponse{
			Message: "Verify failed",
			Checks:  &result.Checks,
		})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &VerifyProofResponse{
		Message: "Verify success",
	})
}

func (h *Handler) handleIssueRoot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer h.observe("issue_root", time.Now())
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[IssueRootRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	issued, err := h.claims.IssueIdentityRoot(ctx, req.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to issue identity root",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &IssueRootResponse{
		Message: "QR code created successfully",
		QRCURL:  issued.QRDataURL,
		Root:    issued.Root,
	})
}

func (h *Handler) handleVerifyRoot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer h.observe("verify_root", time.Now())
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[VerifyRootRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	known, err := h.claims.VerifyIdentityRoot(ctx, req.UserID, req.Root)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to verify identity root",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	if !known {
		httputil.WriteJSON(w, http.StatusUnauthorized, &VerifyRootResponse{Message: "User identity unknown"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &VerifyRootResponse{Message: "User identity verified"})
}

func (h *Handler) observe(endpoint string, start time.Time) {
	if h.metrics != nil {
		h.metrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}
