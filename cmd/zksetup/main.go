// Command zksetup compiles the claim circuit and writes the constraint
// system, proving key, and verification key the server loads at startup.
package main

import (
	"flag"
	"os"

	"zkqrc/internal/platform/config"
	"zkqrc/internal/platform/logger"
	"zkqrc/internal/zk"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	csPath := flag.String("cs", cfg.ZK.ConstraintSystemPath, "constraint system output path")
	pkPath := flag.String("pk", cfg.ZK.ProvingKeyPath, "proving key output path")
	vkPath := flag.String("vk", cfg.ZK.VerificationKeyPath, "verification key output path")
	flag.Parse()

	log.Info("compiling claim circuit and generating keys",
		"cs", *csPath,
		"pk", *pkPath,
		"vk", *vkPath,
	)

	if err := zk.GenerateArtifacts(*csPath, *pkPath, *vkPath); err != nil {
		log.Error("artifact generation failed", "error", err)
		os.Exit(1)
	}

	log.Info("circuit artifacts written")
}
