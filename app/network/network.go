// Package network wraps the OS socket-table and public-address lookups the
// agent needs around a process-finder interface that tests can fake.
package network

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	gnet "github.com/shirou/gopsutil/net"
)

// ProcessFinder resolves the process currently bound to a local port.
// Implementations report ok=false when no process owns the port.
type ProcessFinder interface {
	FindProcessByPort(proto string, port uint32) (pid int32, ok bool, err error)
}

// SocketTableFinder queries the live OS socket table.
type SocketTableFinder struct{}

func (SocketTableFinder) FindProcessByPort(proto string, port uint32) (int32, bool, error) {
	connections, err := gnet.Connections(proto)
	if err != nil {
		return 0, false, err
	}

	for _, connection := range connections {
		if connection.Laddr.Port != port {
			continue
		}
		if connection.Pid == 0 {
			continue
		}

		return connection.Pid, true, nil
	}

	return 0, false, nil
}

var DefaultFinder ProcessFinder = SocketTableFinder{}

type PortInUseError struct {
	Port       uint32
	Pid        int32
	ConfigFile string
}

func (e *PortInUseError) Error() string {
	return fmt.Sprintf("UDP port %d is already in use by process %d - stop that process or change PORT in %s", e.Port, e.Pid, e.ConfigFile)
}

// CheckPortAvailable fails with PortInUseError when a process already owns
// the server's UDP port. configFile names the file where PORT lives so the
// error can point at the remedy.
func CheckPortAvailable(finder ProcessFinder, port uint32, configFile string) error {
	pid, ok, err := finder.FindProcessByPort("udp", port)
	if err != nil {
		return fmt.Errorf("querying socket table: %w", err)
	}

	if ok {
		return &PortInUseError{Port: port, Pid: pid, ConfigFile: configFile}
	}

	return nil
}

type ipEcho struct {
	Query string
}

// GetPublicIP resolves the host's public address through an IP echo service.
// Used when WAN_IP is set to "auto".
func GetPublicIP() string {
	req, err := http.Get("http://ip-api.com/json/")
	if err != nil {
		return err.Error()
	}
	defer req.Body.Close()

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return err.Error()
	}

	var ip ipEcho
	json.Unmarshal(body, &ip)

	return ip.Query
}
