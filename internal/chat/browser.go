package chat

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Allowed URL schemes for links handed to the OS browser.
var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
}

// openBrowser opens a URL in the platform's default browser.
func openBrowser(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if !allowedSchemes[strings.ToLower(parsed.Scheme)] {
		return fmt.Errorf("URL scheme %q not allowed", parsed.Scheme)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "linux":
		cmd = exec.Command("xdg-open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// automationAvailable checks for a usable local browser session. On Linux
// servers there is typically no display, which is the case callers must
// detect and report.
func automationAvailable() error {
	switch runtime.GOOS {
	case "darwin", "windows":
		return nil
	case "linux":
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			return ErrAutomationUnavailable
		}
		if _, err := exec.LookPath("xdg-open"); err != nil {
			return ErrAutomationUnavailable
		}
		return nil
	default:
		return ErrAutomationUnavailable
	}
}
