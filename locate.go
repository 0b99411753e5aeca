package dstore

import (
	"os"
	"os/exec"

	log "github.com/sirupsen/logrus"
)

const (
	binaryName        = "ais"
	defaultBinaryPath = "/usr/local/bin/ais"
	installGuide      = "https://github.com/NVIDIA/aistore?tab=readme-ov-file#install-from-release-binaries"
)

// ResolveEndpoint returns the configured remote store endpoint, or "".
func ResolveEndpoint() string {
	return os.Getenv(EnvEndpoint)
}

// LocateBinary finds the AIStore CLI on PATH, or at /usr/local/bin/ais.
// A missing binary is not an error here: the caller decides.
func LocateBinary() (string, bool) {
	return locateBinary(binaryName, defaultBinaryPath)
}

func locateBinary(name, fallback string) (string, bool) {
	if path, err := exec.LookPath(name); err == nil {
		log.WithField("path", path).Debug("found binary on PATH")
		return path, true
	}
	if info, err := os.Stat(fallback); err == nil && info.Mode().IsRegular() {
		log.WithField("path", fallback).Debug("found binary at the default path")
		return fallback, true
	}
	log.WithFields(log.Fields{"name": name, "fallback": fallback}).Debug("binary not found")
	return "", false
}
