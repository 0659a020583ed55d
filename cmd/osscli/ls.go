// Handles the "osscli ls" command

package main

import (
	"context"
	"fmt"

	oss "github.com/osslib/oss-go-sdk"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var lsCmdConfig struct {
	prefix    string
	marker    string
	maxKeys   string
	delimiter string
}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the objects in the configured bucket",
	Long: `Fetches one page of the bucket listing. When the listing is truncated,
rerun with --marker set to the last printed key to continue.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireBucket(); err != nil {
			return err
		}

		resources := map[string]*string{}
		if lsCmdConfig.prefix != "" {
			resources["prefix"] = oss.String(lsCmdConfig.prefix)
		}
		if lsCmdConfig.marker != "" {
			resources["marker"] = oss.String(lsCmdConfig.marker)
		}
		if lsCmdConfig.maxKeys != "" {
			resources["max-keys"] = oss.String(lsCmdConfig.maxKeys)
		}
		if lsCmdConfig.delimiter != "" {
			resources["delimiter"] = oss.String(lsCmdConfig.delimiter)
		}

		list, err := client.ListObjects(context.Background(), nil, resources)
		if err != nil {
			return errors.Wrap(err, "Listing failed")
		}

		for _, object := range list.Objects {
			fmt.Printf("%12d  %s  %s\n", object.Size, object.LastModified, object.Key)
		}
		if list.IsTruncated && len(list.Objects) > 0 {
			fmt.Printf("# truncated, continue with --marker %q\n", list.Objects[len(list.Objects)-1].Key)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().StringVarP(&lsCmdConfig.prefix, "prefix", "p", "", "only list keys starting with this prefix")
	lsCmd.Flags().StringVarP(&lsCmdConfig.marker, "marker", "m", "", "start listing after this key")
	lsCmd.Flags().StringVar(&lsCmdConfig.maxKeys, "max-keys", "", "page size to request from the service")
	lsCmd.Flags().StringVarP(&lsCmdConfig.delimiter, "delimiter", "d", "", "group keys up to this delimiter")
}
