// Handles the "osscli cp" command

package main

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cpCmd = &cobra.Command{
	Use:   "cp /SOURCE-BUCKET/SOURCE-OBJECT OBJECT",
	Short: "Copy an object on the server side",
	Long: `Asks the service to copy an existing object into the configured bucket.
The source is named by its full "/bucket/object" path and the payload
never moves through this machine.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireBucket(); err != nil {
			return err
		}

		if err := client.CopyObject(context.Background(), args[0], args[1], nil, nil); err != nil {
			return errors.Wrap(err, "Copy failed")
		}
		log.Info("Copied " + args[0] + " to " + args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cpCmd)
}
