package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/s28672/pbio/internal/entrez"
	"github.com/s28672/pbio/internal/retrieve"
	"github.com/s28672/pbio/internal/secrets"
	"github.com/s28672/pbio/pkg/types"
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve",
	Short: "Fetch GenBank records for a taxonomic ID and report their lengths",
	Long: `Retrieve searches the NCBI nucleotide database for records of a
taxonomic ID, fetches them in small batches with retry and backoff, keeps the
records whose length lies within --min-length and --max-length, and writes a
CSV report and a PNG chart of the lengths ranked longest to shortest.

Runs that find nothing, fail to fetch, or match nothing print a message and
exit normally.`,
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().String("taxid", "", "NCBI taxonomic ID to search (required)")
	retrieveCmd.Flags().String("email", "", "contact email sent to NCBI (default .secrets/ncbi-email)")
	retrieveCmd.Flags().String("api-key", "", "NCBI API key (default $NCBI_API_KEY or .secrets/ncbi-api-key)")
	retrieveCmd.Flags().Int("min-length", 0, "minimum sequence length")
	retrieveCmd.Flags().Int("max-length", 0, "maximum sequence length (default unbounded)")
	retrieveCmd.Flags().Int("max-records", 10, "maximum number of records to retrieve")
	retrieveCmd.Flags().String("csv-output", "genbank_report.csv", "CSV report path")
	retrieveCmd.Flags().String("chart-output", "sequence_lengths.png", "chart PNG path")
	retrieveCmd.Flags().String("summary-output", "", "optional run summary path (.md or .html)")
	retrieveCmd.Flags().String("save-ids", "", "write the search result to this YAML file")
	retrieveCmd.Flags().String("ids-file", "", "fetch the ids in this YAML file instead of searching")
	retrieveCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	retrieveCmd.MarkFlagRequired("taxid")

	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	cfg, err := retrievalConfig(cmd)
	if err != nil {
		return err
	}

	var ids []string
	if path, _ := cmd.Flags().GetString("ids-file"); path != "" {
		f, err := retrieve.ReadIDFile(path)
		if err != nil {
			return err
		}
		// A non-nil list skips the search, even when the file holds no ids.
		ids = append([]string{}, f.IDs...)
	}

	out := cmd.OutOrStdout()
	client := entrez.NewClient(nil, cfg.Entrez)

	var searcher retrieve.Searcher = client
	if path, _ := cmd.Flags().GetString("save-ids"); path != "" {
		searcher = retrieve.SavingSearcher{Searcher: client, Path: path, W: out}
	}

	p := &retrieve.Pipeline{
		Searcher: searcher,
		Fetcher:  client,
		Policy:   retrieve.PolicyFromConfig(cfg.Retry),
		W:        out,
	}
	_, err = p.Run(cmd.Context(), cfg, ids)
	return err
}

// retrievalConfig merges flags, secrets and viper settings. Flags win over
// config values.
func retrievalConfig(cmd *cobra.Command) (types.RetrievalConfig, error) {
	flags := cmd.Flags()

	taxid, _ := flags.GetString("taxid")
	emailFlag, _ := flags.GetString("email")
	apiKeyFlag, _ := flags.GetString("api-key")

	email := secrets.Resolve(emailFlag, "", secrets.NCBIEmail, loadedSecrets)
	if email == "" {
		return types.RetrievalConfig{}, fmt.Errorf("an email is required: pass --email or create .secrets/%s", secrets.NCBIEmail)
	}

	timeout := viper.GetDuration("http.timeout")
	if flags.Changed("timeout") {
		timeout, _ = flags.GetDuration("timeout")
	}

	minLen, _ := flags.GetInt("min-length")
	r := types.AtLeast(minLen)
	if flags.Changed("max-length") {
		maxLen, _ := flags.GetInt("max-length")
		r = types.Bounded(minLen, maxLen)
	}

	maxRecords, _ := flags.GetInt("max-records")
	csvPath, _ := flags.GetString("csv-output")
	chartPath, _ := flags.GetString("chart-output")
	summaryPath, _ := flags.GetString("summary-output")

	return types.RetrievalConfig{
		Entrez: types.EntrezConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: viper.GetString("http.user_agent"),
			},
			Email:    email,
			APIKey:   secrets.Resolve(apiKeyFlag, "NCBI_API_KEY", secrets.NCBIAPIKey, loadedSecrets),
			Tool:     viper.GetString("entrez.tool"),
			Database: viper.GetString("entrez.database"),
			BaseURL:  viper.GetString("entrez.base_url"),
		},
		Retry: types.RetryConfig{
			MaxAttempts: viper.GetInt("retry.max_attempts"),
			BatchSize:   viper.GetInt("retry.batch_size"),
			Unit:        viper.GetDuration("retry.unit"),
		},
		Report: types.ReportConfig{
			CSVPath:     csvPath,
			ChartPath:   chartPath,
			SummaryPath: summaryPath,
			ChartWidth:  viper.GetInt("chart.width"),
			ChartHeight: viper.GetInt("chart.height"),
		},
		TaxID:      taxid,
		MaxRecords: maxRecords,
		Range:      r,
	}, nil
}
