package util

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// NormalizeHostname cleans up the public hostname this service announces to
// crawlers. A scheme or trailing path is stripped; the port is kept.
func NormalizeHostname(hostname string) (string, error) {
	hostname = strings.TrimSpace(hostname)
	if i := strings.Index(hostname, "://"); i >= 0 {
		hostname = hostname[i+3:]
	}
	hostname, _, _ = strings.Cut(hostname, "/")
	hostname = strings.Trim(hostname, ".")

	if len(hostname) == 0 {
		return "", fmt.Errorf("hostname cannot be empty")
	}
	if len(hostname) > 255 {
		return "", fmt.Errorf("hostname cannot be longer than 255 characters")
	}

	// domain names are case-insensitive
	return strings.ToLower(hostname), nil
}

// FirehoseURL builds the subscribeRepos websocket URL for host. Bare hosts
// default to wss://, except localhost and loopback addresses; http and https
// are converted to ws and wss.
func FirehoseURL(host string, cursor *int64) (string, error) {
	switch {
	case host == "":
		return "", fmt.Errorf("host cannot be empty")
	case strings.HasPrefix(host, "wss://"), strings.HasPrefix(host, "ws://"):
	case strings.HasPrefix(host, "https://"):
		host = "wss://" + strings.TrimPrefix(host, "https://")
	case strings.HasPrefix(host, "http://"):
		host = "ws://" + strings.TrimPrefix(host, "http://")
	case strings.Contains(host, "://"):
		return "", fmt.Errorf("unsupported host scheme: %q", host)
	case strings.HasPrefix(host, "127.0.0."), strings.HasPrefix(host, "[::1]"):
		host = "ws://" + host
	case strings.SplitN(host, ":", 2)[0] == "localhost":
		host = "ws://" + host
	default:
		host = "wss://" + host
	}

	u, err := url.Parse(host)
	if err != nil {
		return "", err
	}
	u.Path = "/xrpc/com.atproto.sync.subscribeRepos"
	u.RawQuery = ""
	if cursor != nil {
		u.RawQuery = "cursor=" + strconv.FormatInt(*cursor, 10)
	}
	return u.String(), nil
}
