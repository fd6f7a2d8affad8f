package state

var (
	Online         bool
	Installed      bool
	Running        bool
	CPU            float64
	MEM            float32
	InstalledBuild int
	LatestBuild    int
)

func MarkAgentOnline() {
	Online = true
}

func MarkAgentOffline() {
	Online = false
}
