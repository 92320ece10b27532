package app

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

func detectClipboard() ([]string, bool) {
	return detectClipboardInternal(runtime.GOOS, exec.LookPath)
}

func detectClipboardInternal(goos string, lookPath func(string) (string, error)) ([]string, bool) {
	trySingle := func(candidates ...string) ([]string, bool) {
		for _, candidate := range candidates {
			if candidate == "" {
				continue
			}
			if path, err := lookPath(candidate); err == nil && path != "" {
				return []string{path}, true
			}
		}
		return nil, false
	}

	if strings.EqualFold(goos, "windows") {
		if cmd, ok := trySingle("clip.exe", "clip"); ok {
			return cmd, true
		}
		for _, ps := range []string{"powershell", "powershell.exe", "pwsh"} {
			if path, err := lookPath(ps); err == nil && path != "" {
				return []string{path, "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"}, true
			}
		}
	}

	// xclip and xsel default to the primary selection; paste targets the clipboard.
	commands := [][]string{
		{"pbcopy"},
		{"wl-copy"},
		{"xclip", "-selection", "clipboard"},
		{"xsel", "--clipboard", "--input"},
	}
	for _, cmd := range commands {
		if resolved, err := lookPath(cmd[0]); err == nil && resolved != "" {
			return append([]string{resolved}, cmd[1:]...), true
		}
	}

	return nil, false
}

func detectOpener() ([]string, bool) {
	return detectOpenerInternal(runtime.GOOS, os.Getenv, exec.LookPath)
}

// detectOpenerInternal finds the command that opens a URL in the user's
// browser. $BROWSER wins when it resolves.
func detectOpenerInternal(goos string, getenv func(string) string, lookPath func(string) (string, error)) ([]string, bool) {
	if args := parseCommand(getenv("BROWSER")); len(args) > 0 {
		if resolved, ok := resolveExecutableWithLookup(args[0], lookPath); ok {
			args[0] = resolved
			return args, true
		}
	}

	var defaults [][]string
	switch {
	case strings.EqualFold(goos, "windows"):
		defaults = [][]string{
			{"rundll32", "url.dll,FileProtocolHandler"},
		}
	case strings.EqualFold(goos, "darwin"):
		defaults = [][]string{
			{"open"},
		}
	default:
		defaults = [][]string{
			{"xdg-open"},
			{"wslview"},
			{"sensible-browser"},
		}
	}

	for _, def := range defaults {
		if resolved, ok := resolveExecutableWithLookup(def[0], lookPath); ok {
			args := append([]string{resolved}, def[1:]...)
			return args, true
		}
	}

	return nil, false
}

func parseCommand(cmd string) []string {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return nil
	}

	var args []string
	var current strings.Builder
	inSingle := false
	inDouble := false

	for _, r := range cmd {
		switch r {
		case '\'':
			if inDouble {
				current.WriteRune(r)
			} else {
				inSingle = !inSingle
			}
			continue
		case '"':
			if inSingle {
				current.WriteRune(r)
			} else {
				inDouble = !inDouble
			}
			continue
		default:
			if !inSingle && !inDouble && unicode.IsSpace(r) {
				if current.Len() > 0 {
					args = append(args, current.String())
					current.Reset()
				}
				continue
			}
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	if len(args) > 0 {
		args[0] = expandUserPath(args[0])
	}

	return args
}

func expandUserPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	if len(path) == 1 {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}

	sep := path[1]
	if sep != '/' && sep != '\\' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[2:])
}

func resolveExecutableWithLookup(cmd string, lookPath func(string) (string, error)) (string, bool) {
	if cmd == "" {
		return "", false
	}

	if expanded := expandUserPath(cmd); expanded != cmd {
		cmd = expanded
	}

	path, err := lookPath(cmd)
	if err != nil {
		return "", false
	}
	return path, true
}
