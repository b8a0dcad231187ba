package sitedigest

import "strings"

// DefaultThinThreshold is the body size below which a response is treated
// as a blockage signal regardless of status code.
const DefaultThinThreshold = 600

// challengeScanWindow bounds how much of a document is scanned for
// signatures. Protection interstitials announce themselves early; real
// pages can be arbitrarily large.
const challengeScanWindow = 4096

// challengeSignature pairs a substring marker with a human-readable label.
type challengeSignature struct {
	marker string
	label  string
}

// challengeSignatures is scanned in order; the first match wins. More
// specific markers come before generic ones.
var challengeSignatures = []challengeSignature{
	{"cf-browser-verification", "Cloudflare browser verification"},
	{"Just a moment", "Cloudflare challenge"},
	{"Checking your browser", "Cloudflare browser check"},
	{"Attention Required! | Cloudflare", "Cloudflare block page"},
	{"Attention Required", "Cloudflare block page"},
	{"captcha-delivery.com", "DataDome CAPTCHA"},
	{"g-recaptcha", "Google reCAPTCHA"},
	{"h-captcha", "hCaptcha"},
	{"cf-captcha-container", "Cloudflare CAPTCHA"},
	{"DDoS protection by", "DDoS interstitial"},
	{"DDoS-Guard", "DDoS-Guard interstitial"},
	{"Please enable JS and disable any ad blocker", "JavaScript gate"},
	{"Please enable JavaScript and cookies", "JavaScript gate"},
	{"Enable JavaScript and cookies to continue", "JavaScript gate"},
	{"Verifying you are human", "human verification gate"},
}

// DetectChallenge scans the leading window of an HTML document against the
// signature table and returns the label of the first match. The second
// return value is false when no signature matches.
func DetectChallenge(html string) (string, bool) {
	if html == "" {
		return "", false
	}
	window := html
	if len(window) > challengeScanWindow {
		window = window[:challengeScanWindow]
	}
	for _, sig := range challengeSignatures {
		if strings.Contains(window, sig.marker) {
			return sig.label, true
		}
	}
	return "", false
}

// IsTooThin reports whether a body is absent or shorter than threshold
// bytes. Thin responses are a blockage signal: protection layers often
// return near-empty documents with a 200 status.
func IsTooThin(html string, threshold int) bool {
	return len(html) < threshold
}
