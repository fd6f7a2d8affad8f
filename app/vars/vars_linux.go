package vars

var (
	// Server
	ExeName        = "srcds_run"
	SubExeName     = "srcds_linux"
	GameFolder     = "csgo"
	PlatformFolder = "LinuxServer"

	// Fallback map forced before workshop content is fetched
	BootstrapMap = "de_dust2"

	// CPU pinning
	PinTool       = "taskset"
	PinToolSource = "util-linux"

	// Steam
	DownloadURL  = "https://steamcdn-a.akamaihd.net/client/installer/steamcmd_linux.tar.gz"
	SteamExeName = "steamcmd.sh"
	Extension    = "tar.gz"
	ServerAppID  = 740
)
