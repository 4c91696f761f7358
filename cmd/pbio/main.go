// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pbio CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/s28672/pbio/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultUserAgent = "pbio/0.1"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the pbio CLI.
var rootCmd = &cobra.Command{
	Use:   "pbio",
	Short: "Small bioinformatics utilities: GenBank retrieval and synthetic DNA",
	Long: `pbio bundles two independent pipelines.

retrieve searches NCBI GenBank for the nucleotide records of a taxonomic ID,
fetches them in batches with retry, filters them by length, and writes a CSV
report and a chart of sequence lengths.

generate asks for a length, an ID, a description and a name, builds a random
DNA sequence with the name spliced in, saves it as FASTA, and prints its base
composition. stats prints the same composition for an existing FASTA file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.LoadEnv(".env"); err != nil {
			return err
		}
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pbio.yaml or ~/.config/pbio/pbio.yaml)")
}

func initConfig() {
	viper.SetDefault("entrez.base_url", "")
	viper.SetDefault("entrez.tool", "pbio")
	viper.SetDefault("entrez.database", "nucleotide")
	viper.SetDefault("http.timeout", 60*time.Second)
	viper.SetDefault("http.user_agent", defaultUserAgent)
	viper.SetDefault("retry.max_attempts", 3)
	viper.SetDefault("retry.batch_size", 3)
	viper.SetDefault("retry.unit", time.Second)
	viper.SetDefault("chart.width", 1000)
	viper.SetDefault("chart.height", 500)

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pbio")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pbio"))
		}
	}

	viper.SetEnvPrefix("PBIO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", cfgFile, err)
		os.Exit(1)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
