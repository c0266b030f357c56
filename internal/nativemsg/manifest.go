package nativemsg

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// HostName is the native-messaging host identifier registered with browsers.
const HostName = "com.oukeidos.legalese"

const (
	BrowserChrome   = "chrome"
	BrowserChromium = "chromium"
	BrowserFirefox  = "firefox"
)

var (
	chromeExtensionIDRe  = regexp.MustCompile(`^[a-p]{32}$`)
	firefoxExtensionIDRe = regexp.MustCompile(`^(\{[0-9a-fA-F-]{36}\}|[A-Za-z0-9._+-]+@[A-Za-z0-9._-]+)$`)
)

// Manifest is the host manifest browsers read to launch the host.
// Chromium browsers use AllowedOrigins, Firefox uses AllowedExtensions.
type Manifest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Path              string   `json:"path"`
	Type              string   `json:"type"`
	AllowedOrigins    []string `json:"allowed_origins,omitempty"`
	AllowedExtensions []string `json:"allowed_extensions,omitempty"`
}

// NewManifest builds the manifest for browser pointing at execPath.
func NewManifest(browser, execPath, extensionID string) (Manifest, error) {
	if !filepath.IsAbs(execPath) {
		return Manifest{}, fmt.Errorf("host path must be absolute: %s", execPath)
	}
	m := Manifest{
		Name:        HostName,
		Description: "Plain-language translation of legal text",
		Path:        execPath,
		Type:        "stdio",
	}
	extensionID = strings.TrimSpace(extensionID)
	switch browser {
	case BrowserChrome, BrowserChromium:
		if !chromeExtensionIDRe.MatchString(extensionID) {
			return Manifest{}, fmt.Errorf("invalid Chrome extension id %q", extensionID)
		}
		m.AllowedOrigins = []string{"chrome-extension://" + extensionID + "/"}
	case BrowserFirefox:
		if !firefoxExtensionIDRe.MatchString(extensionID) {
			return Manifest{}, fmt.Errorf("invalid Firefox extension id %q", extensionID)
		}
		m.AllowedExtensions = []string{extensionID}
	default:
		return Manifest{}, fmt.Errorf("unsupported browser %q (supported: %s, %s, %s)", browser, BrowserChrome, BrowserChromium, BrowserFirefox)
	}
	return m, nil
}

// ManifestDir returns the per-user manifest directory for browser on goos.
// Windows registers hosts through the registry and is not supported here.
func ManifestDir(browser, goos, home string) (string, error) {
	type key struct{ browser, goos string }
	dirs := map[key][]string{
		{BrowserChrome, "linux"}:    {".config", "google-chrome", "NativeMessagingHosts"},
		{BrowserChromium, "linux"}:  {".config", "chromium", "NativeMessagingHosts"},
		{BrowserFirefox, "linux"}:   {".mozilla", "native-messaging-hosts"},
		{BrowserChrome, "darwin"}:   {"Library", "Application Support", "Google", "Chrome", "NativeMessagingHosts"},
		{BrowserChromium, "darwin"}: {"Library", "Application Support", "Chromium", "NativeMessagingHosts"},
		{BrowserFirefox, "darwin"}:  {"Library", "Application Support", "Mozilla", "NativeMessagingHosts"},
	}
	parts, ok := dirs[key{browser, goos}]
	if !ok {
		return "", fmt.Errorf("no default manifest directory for %s on %s; use --dir", browser, goos)
	}
	return filepath.Join(append([]string{home}, parts...)...), nil
}

// IsBrowserLaunch reports whether args look like a browser starting the host:
// Chromium passes the caller origin, Firefox passes the manifest path and extension id.
func IsBrowserLaunch(args []string) bool {
	if len(args) == 0 {
		return false
	}
	if strings.HasPrefix(args[0], "chrome-extension://") {
		return true
	}
	return len(args) >= 2 && strings.HasSuffix(args[0], HostName+".json")
}
