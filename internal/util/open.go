package util

import (
	"os/exec"
	"runtime"
)

// Open 用系统默认程序打开 URL 或文件 (生成的 xlsx 报表).
// 支持 Windows, macOS, Linux
func Open(target string) error {
	return openCommand(runtime.GOOS, target).Start()
}

// OpenWithFallback Open 失败时尝试平台的其他启动方式
func OpenWithFallback(target string) error {
	err := Open(target)
	if err == nil {
		return nil
	}

	// 降级方案
	switch runtime.GOOS {
	case "windows":
		return exec.Command("explorer", target).Start()
	case "linux":
		for _, launcher := range []string{"gio", "libreoffice", "sensible-browser"} {
			args := []string{target}
			if launcher == "gio" {
				args = []string{"open", target}
			}
			if err := exec.Command(launcher, args...).Start(); err == nil {
				return nil
			}
		}
	}
	return err
}

func openCommand(goos, target string) *exec.Cmd {
	switch goos {
	case "windows":
		// rundll32 url.dll 兼容 Windows 7+
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	case "darwin":
		return exec.Command("open", target)
	default:
		return exec.Command("xdg-open", target)
	}
}
