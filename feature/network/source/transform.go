package source

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"netsync/core/utils"
	"netsync/feature/network/models"
)

var (
	// ErrInvalidVLAN is returned for VLAN ids or range stanzas that cannot be parsed.
	ErrInvalidVLAN = errors.New("invalid vlan")
	// ErrInvalidAddress is returned for IP addresses or prefix lengths that cannot be parsed.
	ErrInvalidAddress = errors.New("invalid ip address")
)

const (
	minVLAN = 1
	maxVLAN = 4094
)

// CanonicalMAC converts a MAC address in a common notation (colon or hyphen separated
// pairs, Cisco dotted quads, bare hex, any case) to lower-case colon separated pairs.
// Anything else, including separators in the wrong place, yields "".
func CanonicalMAC(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))

	var hex string
	var ok bool
	switch len(s) {
	case 17:
		if sep := s[2]; sep == ':' || sep == '-' {
			hex, ok = macGroups(s, sep, 6, 2)
		}
	case 14:
		hex, ok = macGroups(s, '.', 3, 4)
	case 12:
		hex, ok = s, true
	}
	if !ok {
		return ""
	}
	for _, r := range hex {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return ""
		}
	}

	var b strings.Builder
	b.Grow(17)
	for i := 0; i < 12; i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(hex[i : i+2])
	}
	return b.String()
}

// macGroups joins s split by sep when it is exactly n groups of width characters.
func macGroups(s string, sep byte, n, width int) (string, bool) {
	groups := strings.Split(s, string(sep))
	if len(groups) != n {
		return "", false
	}
	for _, g := range groups {
		if len(g) != width {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

// LinkEnabled maps a link status to the enabled flag: "up" anywhere in the status, case
// insensitive. Booleans and the "1"/"true" forms some collectors emit are accepted too.
func LinkEnabled(status any) bool {
	if utils.ToBool(status) {
		return true
	}
	if _, ok := status.(bool); ok {
		return false
	}
	return strings.Contains(strings.ToLower(utils.ToString(status)), "up")
}

// DeriveMode maps the configured switchport mode to an interface mode:
//
//   - "access" anywhere in the admin mode: access
//   - "trunk" with trunking VLANs exactly ["ALL"]: tagged-all
//   - "trunk": tagged
//   - "dynamic": the same rules applied once to the operational mode
//   - anything else: unset
func DeriveMode(adminMode, operMode string, trunking []string) models.InterfaceMode {
	return deriveMode(adminMode, operMode, trunking, true)
}

func deriveMode(mode, operMode string, trunking []string, allowDynamic bool) models.InterfaceMode {
	m := strings.ToLower(strings.TrimSpace(mode))
	switch {
	case strings.Contains(m, "access"):
		return models.ModeAccess
	case m == "trunk" && trunksAll(trunking):
		return models.ModeTaggedAll
	case m == "trunk":
		return models.ModeTagged
	case strings.HasPrefix(m, "dynamic") && allowDynamic:
		return deriveMode(operMode, "", trunking, false)
	default:
		return models.ModeNone
	}
}

func trunksAll(trunking []string) bool {
	return len(trunking) == 1 && strings.EqualFold(strings.TrimSpace(trunking[0]), "ALL")
}

// ExpandVLANs expands range notation stanzas ("10,20-23") into VLAN ids in order of first
// appearance. Empty and "none" stanzas are ignored, duplicates are dropped.
func ExpandVLANs(stanzas []string) ([]int, error) {
	var out []int
	seen := make(map[int]struct{})
	add := func(vid int) {
		if _, ok := seen[vid]; !ok {
			seen[vid] = struct{}{}
			out = append(out, vid)
		}
	}

	for _, stanza := range stanzas {
		stanza = strings.TrimSpace(stanza)
		if stanza == "" || strings.EqualFold(stanza, "none") {
			continue
		}
		for _, part := range strings.Split(stanza, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			lo, hi, isRange := strings.Cut(part, "-")
			first, err := parseVID(lo)
			if err != nil {
				return nil, fmt.Errorf("stanza %q: %w", stanza, err)
			}
			if !isRange {
				add(first)
				continue
			}
			last, err := parseVID(hi)
			if err != nil {
				return nil, fmt.Errorf("stanza %q: %w", stanza, err)
			}
			if last < first {
				return nil, fmt.Errorf("stanza %q: %w: range %d-%d is reversed", stanza, ErrInvalidVLAN, first, last)
			}
			for vid := first; vid <= last; vid++ {
				add(vid)
			}
		}
	}
	return out, nil
}

func parseVID(s string) (int, error) {
	vid, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidVLAN, s)
	}
	return checkVID(vid)
}

// VLANID converts a loosely typed VLAN id to an int within 1-4094.
func VLANID(v any) (int, error) {
	vid, err := utils.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidVLAN, err)
	}
	return checkVID(vid)
}

func checkVID(vid int) (int, error) {
	if vid < minVLAN || vid > maxVLAN {
		return 0, fmt.Errorf("%w: %d is outside %d-%d", ErrInvalidVLAN, vid, minVLAN, maxVLAN)
	}
	return vid, nil
}

// Address is a parsed interface address.
type Address struct {
	Host         string
	PrefixLength int
	Version      int
}

// ParseAddress parses "host" or "host/len". An explicit prefix length takes precedence
// over the suffix; without either the address is a host route.
func ParseAddress(raw string, prefixLength any) (Address, error) {
	raw = strings.TrimSpace(raw)

	var addr netip.Addr
	bits := -1
	if strings.Contains(raw, "/") {
		p, err := netip.ParsePrefix(raw)
		if err != nil {
			return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, raw)
		}
		addr, bits = p.Addr(), p.Bits()
	} else {
		a, err := netip.ParseAddr(raw)
		if err != nil {
			return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, raw)
		}
		addr = a
	}
	addr = addr.Unmap()

	if s := utils.ToString(prefixLength); s != "" {
		n, err := utils.ToIntE(prefixLength)
		if err != nil || n < 0 {
			return Address{}, fmt.Errorf("%w: prefix length %q", ErrInvalidAddress, s)
		}
		bits = n
	}
	if bits < 0 {
		bits = addr.BitLen()
	}
	if bits > addr.BitLen() {
		return Address{}, fmt.Errorf("%w: prefix length %d too long for %s", ErrInvalidAddress, bits, addr)
	}

	version := 6
	if addr.Is4() {
		version = 4
	}
	return Address{Host: addr.String(), PrefixLength: bits, Version: version}, nil
}

// hostOf strips an optional prefix length from a management address.
func hostOf(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if p, err := netip.ParsePrefix(raw); err == nil {
		return p.Addr().Unmap().String()
	}
	if a, err := netip.ParseAddr(raw); err == nil {
		return a.Unmap().String()
	}
	return ""
}
