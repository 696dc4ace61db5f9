package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// startCommand is swapped in tests so no real browser is launched.
var startCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// BrowserCommand returns the program and arguments that open url on the given platform.
func BrowserCommand(goos, url string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{url}, nil
	case "windows":
		return "cmd", []string{"/c", "start", url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// OpenBrowser opens the default system browser to the specified URL.
//
// Supports macOS, Linux, BSD and Windows platforms.
func OpenBrowser(url string) error {
	name, args, err := BrowserCommand(getRuntime(), url)
	if err != nil {
		return err
	}

	if err := startCommand(name, args...); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
