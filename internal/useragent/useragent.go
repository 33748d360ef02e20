// Package useragent classifies tracking-event user agent strings into the
// coarse device/browser/OS buckets the analytics rollup reports.
package useragent

import "strings"

const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceBot     = "bot"
	DeviceUnknown = "unknown"
)

// Info is the parsed classification of one user agent string.
type Info struct {
	Device  string `json:"device"`
	Browser string `json:"browser"`
	OS      string `json:"os"`
}

// Parse classifies the user agent. Unrecognized strings degrade to
// "unknown" rather than failing; tracking pixels see a long tail of
// proxies and prefetchers.
func Parse(userAgent string) Info {
	ua := strings.ToLower(userAgent)
	return Info{
		Device:  detectDevice(ua),
		Browser: detectBrowser(ua),
		OS:      detectOS(ua),
	}
}

func detectDevice(ua string) string {
	switch {
	case ua == "":
		return DeviceUnknown
	case strings.Contains(ua, "bot"), strings.Contains(ua, "crawler"),
		strings.Contains(ua, "spider"), strings.Contains(ua, "googleimageproxy"):
		return DeviceBot
	case strings.Contains(ua, "ipad"), strings.Contains(ua, "tablet"),
		strings.Contains(ua, "kindle"):
		return DeviceTablet
	case strings.Contains(ua, "mobile"), strings.Contains(ua, "iphone"),
		strings.Contains(ua, "android"):
		return DeviceMobile
	case strings.Contains(ua, "windows"), strings.Contains(ua, "macintosh"),
		strings.Contains(ua, "linux"), strings.Contains(ua, "x11"):
		return DeviceDesktop
	default:
		return DeviceUnknown
	}
}

func detectBrowser(ua string) string {
	switch {
	// Order matters: Edge and Opera embed "chrome", Chrome embeds "safari".
	case strings.Contains(ua, "edg/"), strings.Contains(ua, "edge"):
		return "Edge"
	case strings.Contains(ua, "opr/"), strings.Contains(ua, "opera"):
		return "Opera"
	case strings.Contains(ua, "firefox"):
		return "Firefox"
	case strings.Contains(ua, "chrome"), strings.Contains(ua, "crios"):
		return "Chrome"
	case strings.Contains(ua, "safari"):
		return "Safari"
	case strings.Contains(ua, "outlook"), strings.Contains(ua, "msoffice"):
		return "Outlook"
	case strings.Contains(ua, "thunderbird"):
		return "Thunderbird"
	default:
		return "Other"
	}
}

func detectOS(ua string) string {
	switch {
	case strings.Contains(ua, "windows"):
		return "Windows"
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"),
		strings.Contains(ua, "ios"):
		return "iOS"
	case strings.Contains(ua, "mac os"), strings.Contains(ua, "macintosh"):
		return "macOS"
	case strings.Contains(ua, "android"):
		return "Android"
	case strings.Contains(ua, "linux"), strings.Contains(ua, "x11"):
		return "Linux"
	default:
		return "Other"
	}
}
