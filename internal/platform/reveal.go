package platform

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Open/reveal commands per platform
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
)

// Fallback Linux file managers when xdg-open is unavailable
var linuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}

// OpenFolder opens the given directory in the system file manager.
func OpenFolder(path string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command(OpenCommand, path).Run()
	case "windows":
		return exec.Command(ExplorerCommand, path).Run()
	case "linux":
		return openFolderLinux(path)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

func openFolderLinux(path string) error {
	if err := exec.Command(XDGOpenCommand, path).Run(); err == nil {
		return nil
	}

	for _, fm := range linuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			return exec.Command(fm, path).Run()
		}
	}
	return fmt.Errorf("no suitable file manager found")
}
