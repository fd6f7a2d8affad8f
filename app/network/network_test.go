package network

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeFinder struct {
	pid int32
	ok  bool
	err error

	gotProto string
	gotPort  uint32
}

func (f *fakeFinder) FindProcessByPort(proto string, port uint32) (int32, bool, error) {
	f.gotProto = proto
	f.gotPort = port
	return f.pid, f.ok, f.err
}

func TestCheckPortAvailable_Free(t *testing.T) {
	finder := &fakeFinder{}

	require.NoError(t, CheckPortAvailable(finder, 27015, "server.conf"))
	require.Equal(t, "udp", finder.gotProto)
	require.Equal(t, uint32(27015), finder.gotPort)
}

func TestCheckPortAvailable_InUse(t *testing.T) {
	finder := &fakeFinder{pid: 4242, ok: true}

	err := CheckPortAvailable(finder, 27015, "/etc/srcds/server.conf")

	var portErr *PortInUseError
	require.ErrorAs(t, err, &portErr)
	require.Equal(t, uint32(27015), portErr.Port)
	require.Equal(t, int32(4242), portErr.Pid)
	require.Contains(t, err.Error(), "27015")
	require.Contains(t, err.Error(), "/etc/srcds/server.conf")
}

func TestCheckPortAvailable_LookupError(t *testing.T) {
	finder := &fakeFinder{err: errors.New("socket table unavailable")}

	err := CheckPortAvailable(finder, 27015, "server.conf")
	require.Error(t, err)

	var portErr *PortInUseError
	require.False(t, errors.As(err, &portErr))
}
