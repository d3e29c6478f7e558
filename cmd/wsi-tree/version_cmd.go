package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	// VersionMajor is the major number in wsi-tree's version
	VersionMajor = 0
	// VersionMinor is the minor number in wsi-tree's version
	VersionMinor = 1
	// VersionPatch is the patch number in wsi-tree's version
	VersionPatch = 0
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of wsi-tree",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("wsi-tree v%d.%d.%d\n", VersionMajor, VersionMinor, VersionPatch)
		},
	}
}
