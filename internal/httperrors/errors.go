// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns transport failures talking to a Metabase server
// into troubleshooting screens.
package httperrors

import (
	"errors"
	"io"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
)

// Category classifies a network failure.
type Category int

const (
	Generic Category = iota
	Timeout
	DNS
	ConnectionRefused
	TLS
)

// Classify detects the kind of network failure behind err.
func Classify(err error) Category {
	switch {
	case isTimeoutError(err):
		return Timeout
	case isDNSError(err):
		return DNS
	case isConnectionRefusedError(err):
		return ConnectionRefused
	case isSSLError(err):
		return TLS
	default:
		return Generic
	}
}

// Display writes a troubleshooting message for err to w. action describes what
// was being attempted ("listing databases"); serverURL names the Metabase instance.
func Display(w io.Writer, err error, action, serverURL string) {
	if err == nil {
		return
	}
	host := ExtractHostFromURL(serverURL)

	switch Classify(err) {
	case Timeout:
		pterm.Fprintln(w, "⏱️  Connection timeout while "+action)
		pterm.Fprintln(w)
		pterm.Fprintln(w, host+" took too long to respond. This could mean:")
		pterm.Fprintln(w, "  • Slow network connection")
		pterm.Fprintln(w, "  • Metabase is busy (large metadata sync or long query)")
		pterm.Fprintln(w, "  • A firewall is dropping the connection")
		pterm.Fprintln(w)
		pterm.Fprintln(w, "Increase the timeouts in config.json if this keeps happening.")
	case DNS:
		pterm.Fprintln(w, "🌐 Cannot resolve server address while "+action)
		pterm.Fprintln(w)
		pterm.Fprintln(w, "Unable to look up "+host+". Please check:")
		pterm.Fprintln(w, "  • METABASE_URL is spelled correctly")
		pterm.Fprintln(w, "  • Your DNS settings or VPN connection")
	case ConnectionRefused:
		pterm.Fprintln(w, "🚫 Connection refused while "+action)
		pterm.Fprintln(w)
		pterm.Fprintln(w, host+" is not accepting connections. This could mean:")
		pterm.Fprintln(w, "  • Metabase is not running")
		pterm.Fprintln(w, "  • Wrong port in METABASE_URL")
	case TLS:
		pterm.Fprintln(w, "🔒 Secure connection failed while "+action)
		pterm.Fprintln(w)
		pterm.Fprintln(w, "Cannot establish an HTTPS connection to "+host+". Try:")
		pterm.Fprintln(w, "  • Checking your system date and time")
		pterm.Fprintln(w, "  • Using http:// if the server has no certificate")
	default:
		pterm.Fprintln(w, "❌ Cannot connect to "+host+" while "+action)
		pterm.Fprintln(w)
		pterm.Fprintln(w, "Please check your network connection and METABASE_URL.")
		details := err.Error()
		if len(details) > 100 {
			details = details[:100] + "..."
		}
		pterm.Fprintln(w, pterm.Gray("Technical details: "+details))
	}
	pterm.Fprintln(w)
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

// isSSLError checks if the error is an SSL/TLS error.
func isSSLError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "the Metabase server"
	}
	return u.Host
}
