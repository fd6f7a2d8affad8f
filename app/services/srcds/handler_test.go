package srcds

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeConsole struct {
	launched []string
	sent     []string
	alive    bool
	sendErr  error
}

func (f *fakeConsole) Launch(scriptPath string) error {
	f.launched = append(f.launched, scriptPath)
	return nil
}

func (f *fakeConsole) Send(command string) error {
	f.sent = append(f.sent, command)
	return f.sendErr
}

func (f *fakeConsole) HasSession() bool {
	return f.alive
}

type fakeFinder struct {
	pid int32
	ok  bool
	err error

	calls int
}

func (f *fakeFinder) FindProcessByPort(proto string, port uint32) (int32, bool, error) {
	f.calls++
	return f.pid, f.ok, f.err
}

func TestAnnounceUpdate_BroadcastsThroughConsole(t *testing.T) {
	fake := &fakeConsole{alive: true}
	_console = fake

	AnnounceUpdate()

	require.Len(t, fake.sent, 1)
	require.Contains(t, fake.sent[0], "say ")
}

func TestAnnounceUpdate_BestEffort(t *testing.T) {
	fake := &fakeConsole{alive: true, sendErr: errors.New("session gone")}
	_console = fake

	// Must not panic or propagate, an absent session is acceptable
	AnnounceUpdate()
}

func TestKillProcessOnPort_NoProcessIsNoop(t *testing.T) {
	finder := &fakeFinder{}

	require.NoError(t, killProcessOnPort(finder, 27015))
	require.Equal(t, 1, finder.calls)
}

func TestKillProcessOnPort_LookupError(t *testing.T) {
	finder := &fakeFinder{err: errors.New("socket table unavailable")}

	require.Error(t, killProcessOnPort(finder, 27015))
}
