package raveosc

import "strings"

// NormalizeVolumePath strips a macOS volume prefix from an absolute path:
// "Macintosh HD:/Users/x/model.ts" becomes "/Users/x/model.ts". Paths
// without a volume prefix are returned unchanged. Max/MSP file dialogs on
// macOS produce the prefixed form.
func NormalizeVolumePath(p string) string {
	volume, rest, ok := strings.Cut(p, ":")
	if ok && volume != "" && strings.HasPrefix(rest, "/") {
		return rest
	}
	return p
}
