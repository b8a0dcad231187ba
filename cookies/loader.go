// Package cookies loads exported browser cookies from disk into the
// normalized in-memory form shared by the HTTP and headless fetch paths.
//
// Two formats are supported: the tab-separated seven-field Netscape
// cookies.txt export, and a JSON array of {name, value, domain, path}
// objects. Malformed lines and entries are skipped individually; a broken
// record never aborts the whole load.
package cookies

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"

	"github.com/sitedigest/sitedigest"
)

// netscapeFields is the field count of a Netscape cookies.txt line:
// domain, include-subdomains flag, path, secure, expiry, name, value.
const netscapeFields = 7

// Load reads a cookie file, auto-detecting its format. A JSON array is
// tried first; anything else is parsed as Netscape TSV.
func Load(path string) ([]sitedigest.CookieEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, sitedigest.Errorf(sitedigest.ENOTFOUND, "cookie file %q: %v", path, err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		return parseJSON(data), nil
	}
	return parseNetscape(trimmed), nil
}

// parseJSON decodes a JSON array of cookie objects. Entries missing a name
// are dropped; a document that fails to decode yields no cookies.
func parseJSON(data []byte) []sitedigest.CookieEntry {
	var raw []sitedigest.CookieEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	var out []sitedigest.CookieEntry
	for _, e := range raw {
		if e.Name == "" {
			continue
		}
		if e.Path == "" {
			e.Path = "/"
		}
		out = append(out, e)
	}
	return out
}

// parseNetscape parses the legacy tab-separated export format. Comment
// lines and lines with the wrong field count are skipped.
func parseNetscape(content string) []sitedigest.CookieEntry {
	var out []sitedigest.CookieEntry

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		// #HttpOnly_ prefixed lines are real cookies in curl exports.
		line = strings.TrimPrefix(line, "#HttpOnly_")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != netscapeFields {
			continue
		}

		name := strings.TrimSpace(fields[5])
		if name == "" {
			continue
		}
		path := strings.TrimSpace(fields[2])
		if path == "" {
			path = "/"
		}
		out = append(out, sitedigest.CookieEntry{
			Name:   name,
			Value:  strings.TrimSpace(fields[6]),
			Domain: strings.TrimSpace(fields[0]),
			Path:   path,
		})
	}
	return out
}
