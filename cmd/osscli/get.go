// Handles the "osscli get" command

package main

import (
	"context"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var getCmdConfig struct {
	output string
}

var getCmd = &cobra.Command{
	Use:   "get OBJECT",
	Short: "Download an object",
	Long:  `Downloads one object and writes it to stdout, or to a file when --output is given.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireBucket(); err != nil {
			return err
		}

		data, err := client.GetObject(context.Background(), args[0], nil, nil)
		if err != nil {
			return errors.Wrap(err, "Download failed")
		}

		if getCmdConfig.output == "" || getCmdConfig.output == "-" {
			_, err := os.Stdout.Write(data)
			return errors.Wrap(err, "Failed to write to stdout")
		}
		if err := ioutil.WriteFile(getCmdConfig.output, data, 0644); err != nil {
			return errors.Wrap(err, "Failed to write the output file")
		}
		log.Infof("Wrote %d bytes to %s", len(data), getCmdConfig.output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&getCmdConfig.output, "output", "o", "", "destination file (default is stdout)")
}
