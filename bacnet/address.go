package bacnet

import (
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
	"strings"
)

const DefaultUDPPort = 47808

//ParseAddress turns the textual destination of a read specification
//into a bacnet address. Three forms are accepted:
//
//	"5"                  local station 5
//	"2:5"                station 5 behind the router to network 2
//	"192.168.1.10"       BACnet/IP device, default port
//	"192.168.1.10:47809" BACnet/IP device, explicit port
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return Address{}, fmt.Errorf("empty address")
	}
	if strings.Contains(s, ".") {
		return parseIPAddress(s)
	}
	if net, station, ok := strings.Cut(s, ":"); ok {
		n, err := strconv.ParseUint(net, 10, 16)
		if err != nil {
			return Address{}, fmt.Errorf("parse address %q: invalid network: %w", s, err)
		}
		st, err := strconv.ParseUint(station, 10, 8)
		if err != nil {
			return Address{}, fmt.Errorf("parse address %q: invalid station: %w", s, err)
		}
		return Address{Net: uint16(n), Adr: []byte{byte(st)}}, nil
	}
	st, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return Address{}, fmt.Errorf("parse address %q: invalid station: %w", s, err)
	}
	return Address{Mac: []byte{byte(st)}}, nil
}

func parseIPAddress(s string) (Address, error) {
	host, port := s, DefaultUDPPort
	if h, p, ok := strings.Cut(s, ":"); ok {
		v, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return Address{}, fmt.Errorf("parse address %q: invalid port: %w", s, err)
		}
		host, port = h, int(v)
	}
	ip := net.ParseIP(host)
	if ip == nil || ip.To4() == nil {
		return Address{}, fmt.Errorf("parse address %q: invalid IPv4 address", s)
	}
	mac := make([]byte, 6)
	copy(mac, ip.To4())
	binary.BigEndian.PutUint16(mac[4:], uint16(port))
	return Address{Mac: mac}, nil
}
