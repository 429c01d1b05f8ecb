package cassandracontainer

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/docker/go-connections/nat"
)

// DefaultPort is the CQL native transport port inside the container.
// Clients always connect through the port the engine mapped it to.
const DefaultPort nat.Port = "9042/tcp"

type ContactPoint struct {
	Host string
	Port int
}

func (c ContactPoint) String() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ParseContactPoint parses host:port, the port defaults to 9042.
func ParseContactPoint(address string) (ContactPoint, error) {
	if address == "" {
		return ContactPoint{}, fmt.Errorf("parse contact point, empty address")
	}

	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return ContactPoint{Host: address, Port: DefaultPort.Int()}, nil
	}

	portNumber, err := strconv.Atoi(port)
	if err != nil || portNumber <= 0 || portNumber > 65535 {
		return ContactPoint{}, fmt.Errorf("parse contact point %q, invalid port %q", address, port)
	}

	if host == "" {
		return ContactPoint{}, fmt.Errorf("parse contact point %q, empty host", address)
	}

	return ContactPoint{Host: host, Port: portNumber}, nil
}

type EndpointResolver interface {
	Host(ctx context.Context) (string, error)
	MappedPort(ctx context.Context, port nat.Port) (nat.Port, error)
}

func ResolveContactPoint(ctx context.Context, resolver EndpointResolver, port nat.Port) (ContactPoint, error) {
	host, err := resolver.Host(ctx)
	if err != nil {
		return ContactPoint{}, fmt.Errorf("get container host, %w", err)
	}

	mappedPort, err := resolver.MappedPort(ctx, port)
	if err != nil {
		return ContactPoint{}, fmt.Errorf("get mapped port for %s, %w", port, err)
	}

	return ContactPoint{
		Host: host,
		Port: mappedPort.Int(),
	}, nil
}
