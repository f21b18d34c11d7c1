package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Server captures the full runtime configuration of the claims service.
type Server struct {
	Addr        string
	Environment string
	CORSOrigins []string

	// Store connection. An empty URL selects the seeded in-memory store.
	StoreURL string

	// Circuit artifacts and the fixed success public signal.
	ZK ZK

	RequestTimeout time.Duration
}

// ZK groups the proof-system artifact paths.
type ZK struct {
	ConstraintSystemPath string
	ProvingKeyPath       string
	VerificationKeyPath  string
	SuccessPublicSignal  string
}

// FromEnv builds a Server config from environment variables so main stays lean.
// A .env file is loaded first when present, matching how deployments ship
// local overrides.
func FromEnv() Server {
	_ = godotenv.Load()

	addr := os.Getenv("ZKQRC_ADDR")
	if addr == "" {
		addr = ":3000"
	}

	env := os.Getenv("ZKQRC_ENV")
	if env == "" {
		env = "development"
	}

	timeout := 30 * time.Second
	if raw := os.Getenv("ZKQRC_REQUEST_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			timeout = d
		}
	}

	return Server{
		Addr:           addr,
		Environment:    env,
		CORSOrigins:    splitList(os.Getenv("ZKQRC_CORS_ORIGINS")),
		StoreURL:       os.Getenv("ZKQRC_STORE_URL"),
		ZK: ZK{
			ConstraintSystemPath: envOr("ZKQRC_CIRCUIT_CS_PATH", "artifacts/claim.r1cs"),
			ProvingKeyPath:       envOr("ZKQRC_CIRCUIT_PK_PATH", "artifacts/claim.pk"),
			VerificationKeyPath:  envOr("ZKQRC_VERIFICATION_KEY_PATH", "artifacts/claim.vk"),
			SuccessPublicSignal:  envOr("ZKQRC_SUCCESS_PUBLIC_SIGNAL", "1"),
		},
		RequestTimeout: timeout,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList parses a comma-separated origin list. An empty value allows all
// origins, which mirrors how the legacy deployment behaved.
func splitList(value string) []string {
	if value == "" {
		return []string{"*"}
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
