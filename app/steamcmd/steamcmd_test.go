package steamcmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleAppInfo = `
"740"
{
	"common"
	{
		"name"		"Counter-Strike Global Offensive - Dedicated Server"
	}
	"depots"
	{
		"branches"
		{
			"public"
			{
				"buildid"		"13851137"
				"timeupdated"		"1700000000"
			}
			"beta"
			{
				"buildid"		"13900001"
			}
		}
	}
}
`

func TestParseBuildID(t *testing.T) {
	build, err := parseBuildID(sampleAppInfo)
	require.NoError(t, err)
	require.Equal(t, 13851137, build)
}

func TestParseBuildID_NoBuild(t *testing.T) {
	_, err := parseBuildID(`"740" {}`)
	require.Error(t, err)
}
