package menu

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

var glyphReplacer = strings.NewReplacer(
	"←", "Left",
	"↑", "Up",
	"→", "Right",
	"↓", "Down",
	"−", "-",
)

// NormalizeShortcut converts a key binding such as "Ctrl-Shift-S" into the
// canonical accelerator form "Ctrl+Shift+S". It returns false when raw is
// empty or the result would contain non-ASCII characters.
func NormalizeShortcut(raw string) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}

	s := plusKey(strings.ReplaceAll(raw, "-", "+"))
	// Glyphs are mapped after the separator pass so U+2212 ends up as a
	// literal minus key.
	s = glyphReplacer.Replace(s)

	if !isASCII(s) {
		slog.Warn("non ASCII keyboard shortcut used", "shortcut", s)
		return "", false
	}
	return s, true
}

// plusKey spells out a trailing plus key: "Ctrl+" and "Ctrl++" both become
// "Ctrl+Plus", a lone "+" becomes "Plus".
func plusKey(s string) string {
	switch {
	case s == "+":
		return "Plus"
	case strings.HasSuffix(s, "++"):
		return s[:len(s)-1] + "Plus"
	case strings.HasSuffix(s, "+"):
		return s + "Plus"
	default:
		return s
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
