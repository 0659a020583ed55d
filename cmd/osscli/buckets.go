// Handles the "osscli buckets" command

package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "List the buckets owned by the configured account",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := client.ListBuckets(context.Background(), nil, nil)
		if err != nil {
			return errors.Wrap(err, "Bucket listing failed")
		}

		for _, bucket := range list.Buckets {
			fmt.Printf("%s  %-14s  %s\n", bucket.CreationDate, bucket.Location, bucket.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bucketsCmd)
}
