// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns failed backend calls into troubleshooting guidance.
package httperrors

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
)

// Category is the kind of failure FormatNetworkError recognised.
type Category int

const (
	Generic Category = iota
	Timeout
	DNS
	Refused
	TLS
	Server
)

func (c Category) String() string {
	switch c {
	case Timeout:
		return "timeout"
	case DNS:
		return "dns"
	case Refused:
		return "connection refused"
	case TLS:
		return "tls"
	case Server:
		return "server error"
	}
	return "generic"
}

// Classify inspects err and reports which kind of failure it is.
func Classify(err error) Category {
	switch {
	case err == nil:
		return Generic
	case isTimeout(err):
		return Timeout
	case isDNS(err):
		return DNS
	case isRefused(err):
		return Refused
	case isTLS(err):
		return TLS
	case isServer(err):
		return Server
	}
	return Generic
}

// FormatNetworkError prints guidance for err while doing what (e.g. "signing in")
// and returns err wrapped for the caller.
func FormatNetworkError(err error, what string) error {
	if err == nil {
		return nil
	}
	host := hostOf(err)
	switch Classify(err) {
	case Timeout:
		showTimeout(what, host)
	case DNS:
		showDNS(what, host)
	case Refused:
		showRefused(what, host)
	case TLS:
		showTLS(what)
	case Server:
		showServer(what)
	default:
		showGeneric(what, host, err.Error())
	}
	return fmt.Errorf("network error: %w", err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}

func isDNS(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isRefused(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isTLS(err error) bool {
	var (
		recordErr tls.RecordHeaderError
		unknownCA x509.UnknownAuthorityError
		hostErr   x509.HostnameError
		certErr   *tls.CertificateVerificationError
	)
	if errors.As(err, &recordErr) || errors.As(err, &unknownCA) || errors.As(err, &hostErr) || errors.As(err, &certErr) {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "tls") || strings.Contains(lower, "certificate")
}

// isServer matches errors carrying a 5xx status, such as *gateway.HTTPError.
func isServer(err error) bool {
	var sc interface{ HTTPStatus() int }
	return errors.As(err, &sc) && sc.HTTPStatus() >= 500
}

func hostOf(err error) string {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ExtractHostFromURL(ue.URL)
	}
	return "the agentconsole server"
}

func showTimeout(what, host string) {
	pterm.Printf("⏱️  Connection timeout while %s\n", what)
	pterm.Println()
	pterm.Printf("%s took too long to respond. Check that the server is running and reachable,\n", host)
	pterm.Println("or raise api.timeout with 'agentconsole config set api.timeout 60s'.")
	pterm.Println()
}

func showDNS(what, host string) {
	pterm.Printf("🌐 Cannot resolve %s while %s\n", host, what)
	pterm.Println()
	pterm.Println("Check api.base_url ('agentconsole config show') and your DNS settings.")
	pterm.Println()
}

func showRefused(what, host string) {
	pterm.Printf("🚫 Connection refused by %s while %s\n", host, what)
	pterm.Println()
	pterm.Println("Nothing is listening at the configured address. Start the backend or point")
	pterm.Println("the CLI elsewhere with --server or 'agentconsole config set api.base_url <url>'.")
	pterm.Println()
}

func showTLS(what string) {
	pterm.Printf("🔒 Secure connection failed while %s\n", what)
	pterm.Println()
	pterm.Println("The server certificate could not be verified. Check the system clock and any")
	pterm.Println("proxy between you and the server.")
	pterm.Println()
}

func showServer(what string) {
	pterm.Printf("⚠️  Server error while %s\n", what)
	pterm.Println()
	pterm.Println("The backend failed to handle the request. Try again shortly; if it keeps")
	pterm.Println("happening, check the backend logs.")
	pterm.Println()
}

func showGeneric(what, host, details string) {
	pterm.Printf("❌ Cannot reach %s while %s\n", host, what)
	pterm.Println()
	if details != "" {
		if len(details) > 100 {
			details = details[:100] + "..."
		}
		pterm.Debug.Printf("Technical details: %s\n", details)
		pterm.Println()
	}
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
