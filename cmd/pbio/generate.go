package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/s28672/pbio/internal/composition"
	"github.com/s28672/pbio/internal/fasta"
	"github.com/s28672/pbio/internal/prompt"
	"github.com/s28672/pbio/internal/seqgen"
	"github.com/s28672/pbio/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a random DNA sequence with your name in it",
	Long: `Generate asks for a sequence length, an ID, a description and your
name. It builds a random DNA sequence of that length, inserts the name at a
random position, saves the result as <ID>.fasta, and prints the base
composition of the sequence with the name left out.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("output-dir", ".", "directory for the FASTA file")
	generateCmd.Flags().Int64("seed", 0, "random seed (default: seeded from the clock)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	seed, _ := cmd.Flags().GetInt64("seed")
	cfg := types.GeneratorConfig{OutputDir: outputDir, Seed: seed}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "DNA Sequence Generator in FASTA Format")
	fmt.Fprintln(out, "--------------------------------------")

	p := prompt.New(cmd.InOrStdin(), out)
	length, err := p.PositiveInt("Enter the sequence length: ")
	if err != nil {
		return inputEnded(out, err)
	}
	id, err := p.NonEmpty("Enter the sequence ID: ", "Sequence ID cannot be empty. Please try again.")
	if err != nil {
		return inputEnded(out, err)
	}
	description, err := p.Text("Provide a description of the sequence: ")
	if err != nil {
		return inputEnded(out, err)
	}
	name, err := p.NonEmpty("Enter your name: ", "Name cannot be empty. Please try again.")
	if err != nil {
		return inputEnded(out, err)
	}

	g := seqgen.New(seqgen.NewRand(cfg.Seed), id, description, length, name)

	path, err := fasta.WriteFile(cfg.OutputDir, g.ID, g.Description, g.Final)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nThe sequence was saved to the file %s\n", path)
	fmt.Fprintln(out, "Sequence statistics:")

	stats := composition.Compute(g.Final, g.Name)
	if stats.Empty() {
		fmt.Fprintln(os.Stderr, "warning: no bases left once the name is removed; statistics are zero")
	}
	composition.Format(out, stats)
	return nil
}

// inputEnded turns a closed stdin into a clean exit.
func inputEnded(w io.Writer, err error) error {
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(w, "\nInput ended; no sequence was written.")
		return nil
	}
	return err
}
