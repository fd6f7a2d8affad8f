package vars

var (
	// Server
	ExeName        = "srcds.exe"
	SubExeName     = "srcds.exe"
	GameFolder     = "csgo"
	PlatformFolder = "WindowsServer"

	// Fallback map forced before workshop content is fetched
	BootstrapMap = "de_dust2"

	// CPU pinning - no taskset equivalent ships with Windows, affinity
	// validation reports the tool as missing when configured
	PinTool       = "taskset"
	PinToolSource = "util-linux"

	// Steam
	DownloadURL  = "https://steamcdn-a.akamaihd.net/client/installer/steamcmd.zip"
	SteamExeName = "steamcmd.exe"
	Extension    = "zip"
	ServerAppID  = 740
)
