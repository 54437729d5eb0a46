/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ademuri/music-analysis/internal/store"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "music-analysis",
	Short: "Analyzes listening logs joined with song metadata",
	Long: `Loads a listening log and a song metadata table, joins them on song_id
and reports each user's favorite genres, average listen time, the top genre
loyalty scores and the users who listen between midnight and 5 AM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := jobConfigFromViper()
		if err != nil {
			return err
		}
		return runAnalysis(cmd.Context(), cmd.OutOrStdout(), cfg)
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.music-analysis.yaml)")

	flags.StringP("listens", "l", "listening_logs.csv", "Path to the listening log CSV")
	viper.BindPFlag("listens", flags.Lookup("listens"))

	flags.StringP("songs", "s", "Songs_metadata.csv", "Path to the song metadata CSV")
	viper.BindPFlag("songs", flags.Lookup("songs"))

	flags.StringP("database", "d", store.MemoryDSN, "SQLite database used as the engine session")
	viper.BindPFlag("database", flags.Lookup("database"))

	flags.Int("preview-rows", 20, "Rows shown per result table, 0 shows all")
	viper.BindPFlag("preview-rows", flags.Lookup("preview-rows"))

	flags.Bool("truncate", true, "Truncate cells longer than 20 characters")
	viper.BindPFlag("truncate", flags.Lookup("truncate"))

	flags.String("format", "table", "Output format: table or yaml")
	viper.BindPFlag("format", flags.Lookup("format"))

	flags.StringSlice("period", nil,
		"Only analyze events in this period: a year, month or day, or an explicit from,to pair")
	viper.BindPFlag("period", flags.Lookup("period"))

	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	viper.BindPFlag("log-level", flags.Lookup("log-level"))

	flags.String("log-format", "text", "Log format: text or json")
	viper.BindPFlag("log-format", flags.Lookup("log-format"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".music-analysis" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".music-analysis")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed && viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.PersistentFlags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}
