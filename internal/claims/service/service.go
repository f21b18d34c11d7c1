// Package service implements the issuance and verification pipelines: it
// turns a holder id and claim type into a QR-encoded proof, and a scanned
// payload back into an accept/reject decision.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"zkqrc/internal/claims/models"
	"zkqrc/internal/claims/payload"
	"zkqrc/internal/claims/registry"
	"zkqrc/internal/claims/resolver"
	"zkqrc/internal/claims/tracer"
	"zkqrc/internal/merkle"
	"zkqrc/internal/platform/metrics"
	"zkqrc/internal/zk"
	dErrors "zkqrc/pkg/domain-errors"
)

// ClaimResolver loads holder records and assembles claim inputs.
// Error Contract:
// - LoadHolder returns CodeNotFound when either holder record is absent
// - ResolveClaim returns CodeBadRequest for unregistered claim types and
//   CodeAttributeInvalid for unusable attribute values
type ClaimResolver interface {
	LoadHolder(ctx context.Context, holderID string) (*models.IdentityRecord, *models.MerkleRecord, error)
	ResolveClaim(ctx context.Context, holderID string, claimType models.ClaimType) (*models.ClaimData, error)
}

// Prover generates a zero-knowledge proof that input satisfies the claim
// predicate against threshold, returning the proof and its public signals.
type Prover interface {
	Prove(ctx context.Context, input, threshold int64) (*zk.Proof, []string, error)
}

// SnarkVerifier checks a proof against its public signals. A false result is
// a rejection; an error means verification could not be attempted at all.
type SnarkVerifier interface {
	Verify(ctx context.Context, proof *zk.Proof, publicSignals []string) (bool, error)
}

// QRRenderer encodes a wire payload as a QR image data URL.
type QRRenderer interface {
	Render(payload string) (string, error)
}

// Option configures the service.
type Option func(*Service)

// Service orchestrates proof issuance and verification.
type Service struct {
	resolver      ClaimResolver
	prover        Prover
	verifier      SnarkVerifier
	renderer      QRRenderer
	successSignal string
	metrics       *metrics.Metrics
	logger        *slog.Logger
	tracer        tracer.Tracer
}

// NewService creates the claims service. The success signal is the public
// signal value an accepted proof must carry; it must match the value the
// prover was built with.
func NewService(res ClaimResolver, prover Prover, verifier SnarkVerifier, renderer QRRenderer, successSignal string, opts ...Option) *Service {
	svc := &Service{
		resolver:      res,
		prover:        prover,
		verifier:      verifier,
		renderer:      renderer,
		successSignal: successSignal,
		logger:        slog.Default(),
		tracer:        tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger instance for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer sets the tracer for the service.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// IssueClaimProof resolves the holder's claim input, proves the predicate,
// and packages the proof with its merkle proof as a QR-encoded payload.
func (s *Service) IssueClaimProof(ctx context.Context, holderID string, claimType models.ClaimType) (issued *models.IssuedProof, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanIssueProof,
		tracer.String(tracer.AttrHolderID, holderID),
		tracer.String(tracer.AttrClaimType, string(claimType)),
	)
	defer func() {
		span.End(err)
		if err != nil && s.metrics != nil {
			s.metrics.IssuanceFailures.WithLabelValues(string(dErrors.CodeOf(err))).Inc()
		}
	}()

	data, err := s.resolver.ResolveClaim(ctx, holderID, claimType)
	if err != nil {
		return nil, err
	}

	proveStart := time.Now()
	proof, publicSignals, err := s.prover.Prove(ctx, data.ClaimInput, data.Threshold)
	if s.metrics != nil {
		s.metrics.ProveLatency.Observe(time.Since(proveStart).Seconds())
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("proof generation failed for claimType=%s", claimType))
	}

	wire, err := payload.SerializeProof(proof, publicSignals, data.MerkleProof, string(claimType))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to serialize proof payload")
	}

	qrDataURL, err := s.renderer.Render(wire)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render proof QR code")
	}

	if s.metrics != nil {
		s.metrics.ProofsIssued.WithLabelValues(string(claimType)).Inc()
	}
	s.logger.InfoContext(ctx, "claim proof issued",
		slog.String("holder_id", holderID),
		slog.String("claim_type", string(claimType)),
		slog.Int("merkle_proof_index", data.MerkleProofIndex),
	)

	return &models.IssuedProof{
		ClaimType: claimType,
		Payload:   wire,
		QRDataURL: qrDataURL,
		Proof:     proof,
	}, nil
}

// VerifyClaimProof checks a scanned proof payload against the holder's
// anchored identity. The snark and merkle checks are independent and both
// always run; acceptance requires both. A rejection is a result, not an
// error.
func (s *Service) VerifyClaimProof(ctx context.Context, holderID, rawPayload string, claimHint models.ClaimType) (result *models.VerificationResult, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerifyProof,
		tracer.String(tracer.AttrHolderID, holderID),
	)
	defer func() {
		span.End(err)
		s.observeVerification(result, err)
	}()

	parsed, err := payload.ParseProof(rawPayload)
	if err != nil {
		if s.metrics != nil {
			s.metrics.PayloadParseFails.Inc()
		}
		return nil, err
	}
	if !parsed.HasMerkle {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Proof payload must include merkleProof")
	}

	// Legacy payloads may omit public signals; an accepted proof can only
	// carry the success signal, so that is the reconstruction.
	publicSignals := parsed.PublicSignals
	if len(publicSignals) == 0 {
		publicSignals = []string{s.successSignal}
	}

	snarkOK, err := s.verifySnark(ctx, parsed, publicSignals)
	if err != nil {
		return nil, err
	}

	identity, record, err := s.resolver.LoadHolder(ctx, holderID)
	if err != nil {
		return nil, err
	}

	def, err := s.resolveProofIndex(parsed, claimHint, record)
	if err != nil {
		return nil, err
	}

	leafValue, ok := identity.Attribute(def.SourceField)
	if !ok {
		return nil, dErrors.New(dErrors.CodeAttributeInvalid, fmt.Sprintf("Holder field is missing for claimType=%s", def.Type))
	}

	merkleOK := merkle.Verify(parsed.MerkleProof, merkle.HashLeaf(leafValue), record.Root)

	result = &models.VerificationResult{
		Accepted: snarkOK && merkleOK,
		Checks:   models.Checks{Snark: snarkOK, Merkle: merkleOK},
	}
	span.SetAttributes(
		tracer.String(tracer.AttrClaimType, string(def.Type)),
		tracer.Bool(tracer.AttrSnarkOK, snarkOK),
		tracer.Bool(tracer.AttrMerkleOK, merkleOK),
		tracer.Bool(tracer.AttrAccepted, result.Accepted),
	)
	s.logger.InfoContext(ctx, "claim proof verified",
		slog.String("holder_id", holderID),
		slog.String("claim_type", string(def.Type)),
		slog.Bool("snark", snarkOK),
		slog.Bool("merkle", merkleOK),
		slog.Bool("accepted", result.Accepted),
	)
	return result, nil
}

// verifySnark decodes the proof envelope and runs the snark check. Malformed
// and foreign-system proofs fail the check rather than erroring; an error
// from the verifier means the verification key could not be loaded, which is
// operational unavailability, not a rejection.
func (s *Service) verifySnark(ctx context.Context, parsed *payload.ProofPayload, publicSignals []string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerifySnark)

	proof, err := parsed.DecodeProofEnvelope()
	if err != nil {
		span.End(nil)
		s.logger.WarnContext(ctx, "proof envelope rejected", slog.String("error", err.Error()))
		return false, nil
	}

	start := time.Now()
	ok, err := s.verifier.Verify(ctx, proof, publicSignals)
	if s.metrics != nil {
		s.metrics.VerifyLatency.Observe(time.Since(start).Seconds())
	}
	span.End(err)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeVerificationUnavailable, "snark verification is unavailable")
	}
	return ok, nil
}

// resolveProofIndex determines which claim the payload's merkle proof is
// about. A structured payload names its claim type, the request may hint it,
// and a bare legacy payload is matched against the holder's stored proofs.
func (s *Service) resolveProofIndex(parsed *payload.ProofPayload, claimHint models.ClaimType, record *models.MerkleRecord) (registry.Definition, error) {
	if parsed.ClaimType != "" {
		return registry.DefinitionFor(models.NormalizeClaimType(parsed.ClaimType))
	}
	if claimHint != "" {
		return registry.DefinitionFor(claimHint)
	}

	index, err := s.inferProofIndex(parsed.MerkleProof, record)
	if err != nil {
		return registry.Definition{}, err
	}
	def, ok := registry.DefinitionForMerkleIndex(index)
	if !ok {
		return registry.Definition{}, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("Unsupported merkle proof index: %d", index))
	}
	return def, nil
}

// inferProofIndex finds the stored proof whose canonical form matches the
// presented one. First match wins; stored proofs are position-unique so
// duplicates cannot arise from a well-formed record.
func (s *Service) inferProofIndex(presented merkle.Proof, record *models.MerkleRecord) (int, error) {
	want, err := merkle.Canonical(presented)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodePayloadMalformed, "merkle proof is not canonicalizable")
	}
	for i, stored := range record.Proofs {
		got, err := merkle.Canonical(stored)
		if err != nil {
			continue
		}
		if got == want {
			return i, nil
		}
	}
	return 0, dErrors.New(dErrors.CodeProofIndexUnresolved, "Merkle proof does not match any anchored attribute")
}

// IssueIdentityRoot packages the holder's anchored merkle root as a
// QR-encoded payload.
func (s *Service) IssueIdentityRoot(ctx context.Context, holderID string) (issued *models.IssuedRoot, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanIssueRoot,
		tracer.String(tracer.AttrHolderID, holderID),
	)
	defer span.End(err)

	_, record, err := s.resolver.LoadHolder(ctx, holderID)
	if err != nil {
		return nil, err
	}

	wire, err := payload.SerializeRoot(record.Root)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to serialize root payload")
	}

	qrDataURL, err := s.renderer.Render(wire)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render root QR code")
	}

	s.logger.InfoContext(ctx, "identity root issued", slog.String("holder_id", holderID))
	return &models.IssuedRoot{Root: record.Root, Payload: wire, QRDataURL: qrDataURL}, nil
}

// VerifyIdentityRoot checks a scanned root payload against the holder's
// anchored root and the holder id's own inclusion proof. Fail-closed: any
// mismatch is a plain rejection.
func (s *Service) VerifyIdentityRoot(ctx context.Context, holderID, rawPayload string) (known bool, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerifyRoot,
		tracer.String(tracer.AttrHolderID, holderID),
	)
	defer span.End(err)

	parsed, err := payload.ParseRoot(rawPayload)
	if err != nil {
		if s.metrics != nil {
			s.metrics.PayloadParseFails.Inc()
		}
		return false, err
	}

	_, record, err := s.resolver.LoadHolder(ctx, holderID)
	if err != nil {
		return false, err
	}

	if parsed.Root != record.Root {
		s.logger.InfoContext(ctx, "identity root mismatch", slog.String("holder_id", holderID))
		return false, nil
	}

	if registry.IdentityProofIndex >= len(record.Proofs) {
		return false, dErrors.New(dErrors.CodeInternal, "identity inclusion proof is missing")
	}
	identityProof := record.Proofs[registry.IdentityProofIndex]

	known = merkle.Verify(identityProof, merkle.HashLeaf(holderID), record.Root)
	span.SetAttributes(tracer.Bool(tracer.AttrAccepted, known))
	s.logger.InfoContext(ctx, "identity root verified",
		slog.String("holder_id", holderID),
		slog.Bool("known", known),
	)
	return known, nil
}

func (s *Service) observeVerification(result *models.VerificationResult, err error) {
	if s.metrics == nil {
		return
	}
	switch {
	case err != nil:
		s.metrics.Verifications.WithLabelValues("error").Inc()
	case result.Accepted:
		s.metrics.Verifications.WithLabelValues("accepted").Inc()
	default:
		s.metrics.Verifications.WithLabelValues("rejected").Inc()
		if !result.Checks.Snark {
			s.metrics.CheckFailures.WithLabelValues("snark").Inc()
		}
		if !result.Checks.Merkle {
			s.metrics.CheckFailures.WithLabelValues("merkle").Inc()
		}
	}
}

// Compile-time check that the concrete resolver satisfies the interface the
// service programs against.
var _ ClaimResolver = (*resolver.Resolver)(nil)
