// Handles the "osscli rm" command

package main

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm OBJECT",
	Short: "Delete an object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireBucket(); err != nil {
			return err
		}

		if err := client.DeleteObject(context.Background(), args[0]); err != nil {
			return errors.Wrap(err, "Delete failed")
		}
		log.Info("Deleted " + args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
