// Root of command-line argument parsing.
// This file was based off the standard cobra template, see
// https://github.com/spf13/cobra
package main

import (
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	oss "github.com/osslib/oss-go-sdk"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var verbose bool

// client is built once in the root PersistentPreRunE and shared by
// every subcommand.
var client *oss.Client

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "osscli",
	Short: "A command line client for OSS-style object storage",
	Long: `osscli talks to object storage services that authenticate requests
with the V1 header signature. The endpoint, bucket, and access key pair
are read from the config file or from the OSS_ENDPOINT, OSS_BUCKET,
OSS_ACCESS_KEY_ID, and OSS_ACCESS_KEY_SECRET environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}

		var err error
		client, err = newClient()
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.osscli.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			log.Error(err)
			os.Exit(1)
		}
		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".osscli")
	}

	viper.BindEnv("endpoint", "OSS_ENDPOINT")
	viper.BindEnv("bucket", "OSS_BUCKET")
	viper.BindEnv("access-key-id", "OSS_ACCESS_KEY_ID")
	viper.BindEnv("access-key-secret", "OSS_ACCESS_KEY_SECRET")
	viper.BindEnv("path-style", "OSS_PATH_STYLE")

	if err := viper.ReadInConfig(); err == nil {
		log.Debug("Using config file: " + viper.ConfigFileUsed())
	}
}

// newClient builds the shared storage client from the resolved
// configuration.
func newClient() (*oss.Client, error) {
	endpoint := viper.GetString("endpoint")
	if endpoint == "" {
		return nil, errors.New("no endpoint configured (set OSS_ENDPOINT or the endpoint config key)")
	}

	cred := oss.Credential{
		AccessKeyID:     viper.GetString("access-key-id"),
		AccessKeySecret: viper.GetString("access-key-secret"),
	}

	opts := []oss.Option{oss.WithLogger(log.StandardLogger())}
	if viper.GetBool("path-style") {
		opts = append(opts, oss.WithPathStyle())
	}

	c, err := oss.New(endpoint, viper.GetString("bucket"), cred, opts...)
	return c, errors.Wrap(err, "Failed to configure the storage client")
}

// requireBucket guards the object-level commands; the service-level
// ones work without a configured bucket.
func requireBucket() error {
	if client.Bucket() == "" {
		return errors.New("no bucket configured (set OSS_BUCKET or the bucket config key)")
	}
	return nil
}

func parseKeyValue(s string) map[string]string {

	if s == "" {
		return nil
	}

	result := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		keyValue := strings.Split(pair, "=")
		if len(keyValue) == 2 {
			result[keyValue[0]] = keyValue[1]
		}
	}

	return result
}
