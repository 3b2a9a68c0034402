package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the server-defined tags",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tags, err := ctrl.Client.ListTags(cmd.Context())
		if err != nil {
			return err
		}
		sort.Slice(tags, func(i, j int) bool { return tags[i].TagName < tags[j].TagName })
		for _, tag := range tags {
			fmt.Printf("%-24s %s\n", tag.TagID, tag.TagName)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
