package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"
)

const maxImageBytes = 10 << 20

// ErrBlockedAddress is returned when an image URL resolves to a loopback,
// private or otherwise non-public address.
var ErrBlockedAddress = errors.New("image host is not a public address")

// carrier-grade NAT, not covered by net.IP.IsPrivate.
var sharedAddressSpace = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

var defaultImageClient = NewImageClient(30 * time.Second)

// NewImageClient returns an HTTP client for downloading user-supplied image
// URLs. Every connection, redirects included, is checked after DNS
// resolution and refused unless the peer is a public unicast address.
func NewImageClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second, Control: publicOnly}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: timeout,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

func publicOnly(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || !isPublic(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
	}
	return nil
}

func isPublic(ip net.IP) bool {
	return !(ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast() ||
		sharedAddressSpace.Contains(ip))
}

// Load returns the image bytes and MIME type, decoding data URLs and
// downloading http(s) URLs as needed. A nil client downloads through the
// public-only client from NewImageClient.
func Load(ctx context.Context, client *http.Client, img Image) ([]byte, string, error) {
	if len(img.Data) > 0 {
		return img.Data, mimeOrDefault(img.MIMEType, img.Data), nil
	}

	if strings.HasPrefix(img.URL, "data:") {
		header, payload, ok := strings.Cut(strings.TrimPrefix(img.URL, "data:"), ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, "", fmt.Errorf("unsupported data url")
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode data url: %w", err)
		}
		return data, strings.TrimSuffix(header, ";base64"), nil
	}

	if img.URL == "" {
		return nil, "", fmt.Errorf("image url or data is required")
	}
	u, err := url.Parse(img.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, "", fmt.Errorf("unsupported image url %q", img.URL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create image request: %w", err)
	}
	if client == nil {
		client = defaultImageClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download image, status: %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, "", fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	return data, mimeOrDefault(resp.Header.Get("Content-Type"), data), nil
}

// DataURL renders raw bytes as a base64 data URL.
func DataURL(data []byte, mimeType string) string {
	return "data:" + mimeOrDefault(mimeType, data) + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func mimeOrDefault(mimeType string, data []byte) string {
	if mimeType != "" {
		return mimeType
	}
	return http.DetectContentType(data)
}
