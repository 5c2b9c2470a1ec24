package platform

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Folder picker constants
const (
	PickerTimeout = 60 * time.Second

	OSAScriptCommand = "osascript"
	ZenityCommand    = "zenity"
	PowershellCmd    = "powershell"
)

// macOS choose-folder script
const chooseFolderScript = `
tell application "System Events"
	activate
	set theFolder to choose folder with prompt "Select download location"
	return POSIX path of theFolder
end tell
`

// Windows folder browser one-liner
const windowsFolderScript = `Add-Type -AssemblyName System.Windows.Forms;` +
	`$d = New-Object System.Windows.Forms.FolderBrowserDialog;` +
	`if ($d.ShowDialog() -eq 'OK') { Write-Output $d.SelectedPath }`

// SelectDirectory opens the native folder picker and returns the chosen
// path. A dismissed dialog is reported as an error; the caller relays it
// as an unsuccessful reply, not a fatal.
func SelectDirectory(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, PickerTimeout)
	defer cancel()

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, OSAScriptCommand, "-e", chooseFolderScript)
	case "linux":
		cmd = exec.CommandContext(ctx, ZenityCommand, "--file-selection", "--directory",
			"--title", "Select download location")
	case "windows":
		cmd = exec.CommandContext(ctx, PowershellCmd, "-NoProfile", "-Command", windowsFolderScript)
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("folder selection cancelled")
	}

	path := strings.TrimSpace(string(out))
	if path == "" {
		return "", fmt.Errorf("folder selection cancelled")
	}
	return path, nil
}
