package srcds

import (
	"strings"

	"github.com/SourceServerManager/srcds-agent/app/config"
	"github.com/SourceServerManager/srcds-agent/app/vars"
)

// BuildStartArgs derives the server argument vector from the merged
// configuration. Construction order is fixed: some srcds flags are
// positional-adjacent to their values and the engine reads +commands in
// sequence. Exactly one map source is active per build, evaluated in
// priority order workshop collection > workshop map > static mapgroup.
func BuildStartArgs(cfg config.ServerConfig) []string {

	args := make([]string, 0)
	args = append(args, "-game", vars.GameFolder)
	args = append(args, "-console")

	if cfg.RconEnabled() {
		args = append(args, "-usercon")
	}
	if cfg.TickRate != "" {
		args = append(args, "-tickrate", cfg.TickRate)
	}
	if cfg.MaxPlayers != "" {
		args = append(args, "-maxplayers_override", cfg.MaxPlayers)
	}
	if cfg.WanIP != "" {
		args = append(args, "+net_public_adr", cfg.WanIP)
	}
	if cfg.APIKey != "" {
		args = append(args, "-authkey", cfg.APIKey)
	}
	if cfg.GSLT != "" {
		args = append(args, "+sv_setsteamaccount", cfg.GSLT)
	}

	args = append(args, "-ip", cfg.IP)
	args = append(args, "-port", cfg.Port)

	args = append(args, "+game_type", cfg.GameType)
	args = append(args, "+game_mode", cfg.GameMode)

	switch {
	case cfg.WorkshopCollectionID != "":
		// Workshop content is fetched after boot, so a bundled map has to
		// carry the server until the collection is available.
		args = append(args, "+map", vars.BootstrapMap)
		args = append(args, "+host_workshop_collection", cfg.WorkshopCollectionID)
	case cfg.WorkshopMapID != "":
		args = append(args, "+map", vars.BootstrapMap)
		args = append(args, "+host_workshop_map", cfg.WorkshopMapID)
	default:
		args = append(args, "+mapgroup", cfg.Mapgroup)
		args = append(args, "+map", cfg.FirstMap())
	}

	if cfg.GOTVEnabled() {
		args = append(args, "+tv_enable", "1")
		args = append(args, "+tv_port", cfg.TVPort)
		args = append(args, "+tv_maxclients", cfg.TVMaxClients)

		if cfg.TVRelay != "" {
			args = append(args, "+tv_relay", cfg.TVRelay)
			args = append(args, "+tv_relaypassword", cfg.TVRelayPass)
		}
	}

	args = append(args, "+exec", cfg.Autoexec)

	return args
}

const shellSpecial = " \t\"'\\$&|;<>()[]{}*?#~`"

// QuoteArgs joins an argument vector into a shell command line, keeping
// every value that contains whitespace or shell metacharacters a single
// token.
func QuoteArgs(args []string) string {
	quoted := make([]string, 0, len(args))
	for _, arg := range args {
		quoted = append(quoted, quoteArg(arg))
	}

	return strings.Join(quoted, " ")
}

func quoteArg(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, shellSpecial) {
		return arg
	}

	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
