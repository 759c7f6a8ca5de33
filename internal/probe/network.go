package probe

import (
	"context"
	"path"
	"strings"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

const netClassDir = "/sys/class/net"

// Network reports the first non-loopback interface that is up and has an IPv4 address.
type Network struct{}

func (Network) Name() string { return "network" }

func (Network) Collect(ctx context.Context, env Env) (*models.Network, error) {
	entries, err := env.Sys.OSReadDir(netClassDir)
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, fail("network", "read "+netClassDir, err)
	}
	if !hasCommand(env.Sys, "ip") {
		return nil, nil
	}

	for _, entry := range entries {
		iface := entry.Name()
		if iface == "lo" {
			continue
		}
		if state, err := readTrimmed(env.Sys, path.Join(netClassDir, iface, "operstate")); err == nil && state != "up" {
			continue
		}
		out, err := run(ctx, env.Sys, "ip", "addr", "show", iface)
		if err != nil {
			return nil, fail("network", "ip addr show "+iface, err)
		}
		if ip := parseInet(out); ip != "" {
			return &models.Network{Interface: iface, IP: ip}, nil
		}
	}
	return nil, nil
}

// parseInet returns the first IPv4 address of `ip addr show` output without its prefix length
func parseInet(out string) string {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "inet" {
			ip, _, _ := strings.Cut(fields[1], "/")
			return ip
		}
	}
	return ""
}

func (Network) Project(rec *models.Network, ns *namespace.Table) error {
	_, err := ns.Record("network",
		namespace.F("interface", rec.Interface),
		namespace.F("ip", rec.IP),
	)
	return err
}
