package cmd

import (
	"fmt"
	"strings"

	"github.com/haierkeys/fast-vault-sync-service/internal/app"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version info and exit // 打印版本信息并退出",
	Run: func(cmd *cobra.Command, args []string) {
		v := app.VersionInfo{Version: app.Version, GitTag: app.GitTag, BuildTime: app.BuildTime, SyncAPIVersions: app.SyncAPIVersions}
		fmt.Fprintf(cmd.OutOrStdout(), "%s v%s (git %s, built %s)\nsync api: %s\n",
			app.Name, v.Version, v.GitTag, v.BuildTime, strings.Join(v.SyncAPIVersions, ", "))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
