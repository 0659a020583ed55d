// Handles the "osscli acl" command

package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var aclCmd = &cobra.Command{
	Use:   "acl OBJECT",
	Short: "Print the access grant of an object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireBucket(); err != nil {
			return err
		}

		grant, err := client.GetObjectACL(context.Background(), args[0])
		if err != nil {
			return errors.Wrap(err, "ACL lookup failed")
		}
		fmt.Println(grant)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(aclCmd)
}
