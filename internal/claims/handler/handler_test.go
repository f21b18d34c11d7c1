package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"zkqrc/internal/claims/handler/mocks"
	"zkqrc/internal/claims/models"
	dErrors "zkqrc/pkg/domain-errors"
)

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	claims  *mocks.MockService
	router  chi.Router
	handler *Handler
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.claims = mocks.NewMockService(s.ctrl)
	s.handler = New(s.claims, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	s.router = chi.NewRouter()
	s.handler.Register(s.router)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) post(path string, body any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) postRaw(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (s *HandlerSuite) TestIssueProofSuccess() {
	s.claims.EXPECT().
		IssueClaimProof(gomock.Any(), "123", models.ClaimDrive).
		Return(&models.IssuedProof{
			ClaimType: models.ClaimDrive,
			Payload:   `{"kind":"proof-v1"}`,
			QRDataURL: "data:image/png;base64,abc",
		}, nil)

	rec := s.post("/api/v1/proofs", map[string]string{"id": "123", "type": "Drive"})

	s.Equal(http.StatusOK, rec.Code)
	body := s.decode(rec)
	s.Equal("Proof created successfully", body["message"])
	s.Equal("drive", body["claimType"])
	s.Equal("data:image/png;base64,abc", body["qrcUrl"])
	s.NotEmpty(body["proof"])
}

func (s *HandlerSuite) TestIssueProofValidation() {
	rec := s.post("/api/v1/proofs", map[string]string{"type": "age"})
	s.Equal(http.StatusBadRequest, rec.Code)
	body := s.decode(rec)
	s.Equal(string(dErrors.CodeValidation), body["error"])
	s.Equal("id is required", body["error_description"])
}

func (s *HandlerSuite) TestIssueProofUnknownHolder() {
	s.claims.EXPECT().
		IssueClaimProof(gomock.Any(), "999", models.ClaimAge).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "Holder not found for id=999"))

	rec := s.post("/api/v1/proofs", map[string]string{"id": "999", "type": "age"})
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(string(dErrors.CodeNotFound), s.decode(rec)["error"])
}

func (s *HandlerSuite) TestIssueProofMalformedAttribute() {
	s.claims.EXPECT().
		IssueClaimProof(gomock.Any(), "123", models.ClaimAge).
		Return(nil, dErrors.New(dErrors.CodeAttributeInvalid, "dob is malformed"))

	rec := s.post("/api/v1/proofs", map[string]string{"id": "123", "type": "age"})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (s *HandlerSuite) TestVerifyProofAccepted() {
	s.claims.EXPECT().
		VerifyClaimProof(gomock.Any(), "123", `{"kind":"proof-v1"}`, models.ClaimType("")).
		Return(&models.VerificationResult{
			Accepted: true,
			Checks:   models.Checks{Snark: true, Merkle: true},
		}, nil)

	rec := s.post("/api/v1/proofs/verify", map[string]string{
		"id":    "123",
		"proof": `{"kind":"proof-v1"}`,
	})

	s.Equal(http.StatusOK, rec.Code)
	body := s.decode(rec)
	s.Equal("Verify success", body["message"])
	// Success stays message-only; checks are a rejection detail.
	s.NotContains(body, "checks")
}

func (s *HandlerSuite) TestVerifyProofRejected() {
	s.claims.EXPECT().
		VerifyClaimProof(gomock.Any(), "123", gomock.Any(), models.ClaimType("")).
		Return(&models.VerificationResult{
			Accepted: false,
			Checks:   models.Checks{Snark: false, Merkle: true},
		}, nil)

	rec := s.post("/api/v1/proofs/verify", map[string]string{
		"id":    "123",
		"proof": `{"kind":"proof-v1"}`,
	})

	s.Equal(http.StatusUnauthorized, rec.Code)
	body := s.decode(rec)
	s.Equal("Verify failed", body["message"])
	checks := body["checks"].(map[string]any)
	s.False(checks["snark"].(bool))
	s.True(checks["merkle"].(bool))
}

func (s *HandlerSuite) TestVerifyProofMalformedPayload() {
	s.claims.EXPECT().
		VerifyClaimProof(gomock.Any(), "123", "garbage", models.ClaimType("")).
		Return(nil, dErrors.New(dErrors.CodePayloadMalformed, "proof payload format is invalid"))

	rec := s.post("/api/v1/proofs/verify", map[string]string{"id": "123", "proof": "garbage"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(dErrors.CodePayloadMalformed), s.decode(rec)["error"])
}

func (s *HandlerSuite) TestVerifyProofPassesClaimHint() {
	s.claims.EXPECT().
		VerifyClaimProof(gomock.Any(), "123", gomock.Any(), models.ClaimProfession).
		Return(&models.VerificationResult{Accepted: true, Checks: models.Checks{Snark: true, Merkle: true}}, nil)

	rec := s.post("/api/v1/proofs/verify", map[string]string{
		"id":    "123",
		"proof": `{"kind":"proof-v1"}`,
		"type":  " Profession ",
	})
	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlerSuite) TestIssueRootSuccess() {
	s.claims.EXPECT().
		IssueIdentityRoot(gomock.Any(), "123").
		Return(&models.IssuedRoot{
			Root:      "cafe",
			Payload:   `{"kind":"identity-root-v1","root":"cafe"}`,
			QRDataURL: "data:image/png;base64,abc",
		}, nil)

	rec := s.post("/api/v1/identity-qr", map[string]string{"id": "123"})

	s.Equal(http.StatusOK, rec.Code)
	body := s.decode(rec)
	s.Equal("QR code created successfully", body["message"])
	s.Equal("cafe", body["root"])
}

func (s *HandlerSuite) TestVerifyRootKnown() {
	s.claims.EXPECT().
		VerifyIdentityRoot(gomock.Any(), "123", "cafe|2").
		Return(true, nil)

	rec := s.post("/api/v1/identity-qr/verify", map[string]string{"id": "123", "root": "cafe|2"})
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("User identity verified", s.decode(rec)["message"])
}

func (s *HandlerSuite) TestVerifyRootUnknown() {
	s.claims.EXPECT().
		VerifyIdentityRoot(gomock.Any(), "123", gomock.Any()).
		Return(false, nil)

	rec := s.post("/api/v1/identity-qr/verify", map[string]string{"id": "123", "root": "cafe|2"})
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("User identity unknown", s.decode(rec)["message"])
}

func (s *HandlerSuite) TestLegacyRoutesSpeakOriginalWireFormat() {
	// Bodies exactly as the deployed mobile client posts them.
	s.claims.EXPECT().
		IssueClaimProof(gomock.Any(), "123", models.ClaimDrive).
		Return(&models.IssuedProof{ClaimType: models.ClaimDrive, Payload: "p", QRDataURL: "q"}, nil)
	rec := s.postRaw("/cp", `{"id":"123","type":"drive"}`)
	s.Equal(http.StatusOK, rec.Code)

	s.claims.EXPECT().
		VerifyClaimProof(gomock.Any(), "123", "pr|1|mk", models.ClaimType("")).
		Return(&models.VerificationResult{Accepted: true, Checks: models.Checks{Snark: true, Merkle: true}}, nil)
	rec = s.postRaw("/vp", `{"id":"123","proof":"pr|1|mk"}`)
	s.Equal(http.StatusOK, rec.Code)

	s.claims.EXPECT().
		IssueIdentityRoot(gomock.Any(), "123").
		Return(&models.IssuedRoot{Root: "cafe", Payload: "cafe|2", QRDataURL: "q"}, nil)
	rec = s.postRaw("/cmt", `{"id":"123"}`)
	s.Equal(http.StatusOK, rec.Code)

	s.claims.EXPECT().
		VerifyIdentityRoot(gomock.Any(), "123", "cafe|2").
		Return(true, nil)
	rec = s.postRaw("/vmt", `{"id":"123","root":"cafe|2"}`)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlerSuite) TestInvalidJSONBody() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/proofs", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)
}
