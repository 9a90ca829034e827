package util

import (
	"net"
	"strings"
)

// isPrivateIPv4 reports whether ip is an RFC1918 private IPv4 address.
func isPrivateIPv4(ip net.IP) bool {
	ip4 := ip.To4()
	if ip4 == nil {
		return false
	}
	switch {
	case ip4[0] == 10:
		return true
	case ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31:
		return true
	case ip4[0] == 192 && ip4[1] == 168:
		return true
	}
	return false
}

// PrimaryLANIPv4 returns the first private IPv4 address, falling back
// to any IPv4, or empty string when none is found.
func PrimaryLANIPv4() string {
	var fallback string
	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, iface := range ifaces {
		if (iface.Flags&net.FlagUp) == 0 || (iface.Flags&net.FlagLoopback) != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			ip4 := ipNet.IP.To4()
			if ip4 == nil {
				continue
			}
			if isPrivateIPv4(ip4) {
				return ip4.String()
			}
			if fallback == "" {
				fallback = ip4.String()
			}
		}
	}
	return fallback
}

// ComposeLANURL builds an http URL reachable from the LAN for addr.
// Wildcard binds (0.0.0.0, ::) are replaced with the primary LAN IPv4.
func ComposeLANURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	h := strings.TrimSpace(host)
	if h == "" || h == "0.0.0.0" || h == "::" || h == "[::]" {
		if lan := PrimaryLANIPv4(); lan != "" {
			return "http://" + lan + ":" + port
		}
	}
	if strings.Contains(h, ":") && !strings.HasPrefix(h, "[") {
		return "http://[" + h + "]:" + port
	}
	return "http://" + h + ":" + port
}
