package update

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-version"
	"github.com/satishbabariya/schemasync/cli/internal/ui"
)

const releaseEndpoint = "https://api.github.com/repos/satishbabariya/schemasync/releases/latest"

// CheckForUpdates compares the running version against the latest release
// and prints a notice when a newer one exists.
func CheckForUpdates(currentVersion string) error {
	current, err := version.NewVersion(currentVersion)
	if err != nil {
		return fmt.Errorf("invalid version format: %w", err)
	}

	latestStr, err := fetchLatestVersion()
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}

	latest, err := version.NewVersion(latestStr)
	if err != nil {
		return fmt.Errorf("invalid latest version format: %w", err)
	}

	if current.LessThan(latest) {
		ui.PrintWarning("A new version is available!")
		fmt.Printf("Current version: %s\n", currentVersion)
		fmt.Printf("Latest version:  %s\n", latestStr)
		fmt.Printf("\nUpdate with: go install github.com/satishbabariya/schemasync/cli@latest\n")
		return nil
	}

	ui.PrintSuccess("You are on the latest version (%s)", currentVersion)
	return nil
}

func fetchLatestVersion() (string, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(releaseEndpoint)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}
	return strings.TrimPrefix(release.TagName, "v"), nil
}

// GetDownloadURL returns the download URL for the current platform
func GetDownloadURL(v string) string {
	return fmt.Sprintf("https://github.com/satishbabariya/schemasync/releases/download/v%s/schemasync-%s-%s",
		v, runtime.GOOS, runtime.GOARCH)
}
