package cmd

import (
	"sort"

	"github.com/spf13/cobra"
	"github.com/yiplee/structs"
)

// printView print the flat view v as sorted "key: value" lines
func printView(cmd *cobra.Command, v interface{}) {
	m := structs.Map(v)

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		cmd.Printf("%s: %v\n", k, m[k])
	}
}
