// Handles the "osscli put" command

package main

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var putCmdConfig struct {
	contentType string
	meta        string
}

var putCmd = &cobra.Command{
	Use:   "put FILE OBJECT",
	Short: "Upload a local file as an object",
	Long: `Uploads the file as the named object. The payload is read whole and
sent in a single request with a Content-MD5 checksum.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireBucket(); err != nil {
			return err
		}

		headers := map[string]string{}
		if putCmdConfig.contentType != "" {
			headers["Content-Type"] = putCmdConfig.contentType
		}
		for name, value := range parseKeyValue(putCmdConfig.meta) {
			headers["x-oss-meta-"+name] = value
		}

		if err := client.PutObjectFromFile(context.Background(), args[0], args[1], headers, nil); err != nil {
			return errors.Wrap(err, "Upload failed")
		}
		log.Info("Uploaded " + args[0] + " as " + args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(putCmd)

	putCmd.Flags().StringVarP(&putCmdConfig.contentType, "content-type", "t", "", "Content-Type to store (default is application/octet-stream)")
	putCmd.Flags().StringVar(&putCmdConfig.meta, "meta", "", "user metadata to attach: name1=value1,name2=value2")
}
