//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedPkgpulsePath holds the path to a shared pkgpulse binary built once for all tests.
	sharedPkgpulsePath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getPkgpulseBinary returns the path to the pkgpulse binary, building it once if needed.
func getPkgpulseBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "pkgpulse-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		pkgpulsePath := filepath.Join(tempDir, "pkgpulse")
		buildCmd := exec.Command("go", "build", "-o", pkgpulsePath, "./cmd/pkgpulse")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build pkgpulse: %v", err))
		}

		sharedPkgpulsePath = pkgpulsePath
	})

	return sharedPkgpulsePath
}

// runPkgpulseCommand runs the shared binary with the given arguments from the
// project root.
func runPkgpulseCommand(t *testing.T, args ...string) error {
	pkgpulsePath := getPkgpulseBinary()
	cmd := exec.Command(pkgpulsePath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
