// Command cardctl inspects and edits a local card store kept in a file slot.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/memoriascard/backend/internal/domain/memorycard"
	"github.com/memoriascard/backend/internal/infrastructure/localstore"
	"github.com/memoriascard/backend/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const commandTimeout = 30 * time.Second

type rootOptions struct {
	dir    string
	key    string
	budget int
	debug  bool
}

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// NewRootCmd constructs the root command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "cardctl",
		Short:         "Inspect and edit the local memory card store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	def := localstore.DefaultConfig()
	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", getEnv("MC_LOCALSTORE_FILE_DIR", "./data/localstore"), "Directory holding the store files")
	rootCmd.PersistentFlags().StringVar(&opts.key, "key", localstore.DefaultKey, "Slot key of the card collection")
	rootCmd.PersistentFlags().IntVar(&opts.budget, "budget", def.BudgetBytes, "Storage budget in bytes")
	rootCmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging")

	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newGetCmd(opts))
	rootCmd.AddCommand(newSaveCmd(opts))
	rootCmd.AddCommand(newDeleteCmd(opts))
	rootCmd.AddCommand(newClearCmd(opts))
	rootCmd.AddCommand(newUsageCmd(opts))

	return rootCmd
}

// openStore opens the file slot; logs go to stderr so stdout stays parseable
func openStore(opts *rootOptions) (*localstore.Store, *zap.Logger, error) {
	level := "warn"
	if opts.debug {
		level = "debug"
	}
	log, err := logger.New(&logger.Config{Level: level, Format: "console", Output: "stderr"})
	if err != nil {
		return nil, nil, err
	}

	slot, err := localstore.NewFileSlot(opts.dir)
	if err != nil {
		return nil, nil, err
	}

	cfg := localstore.DefaultConfig()
	cfg.Key = opts.key
	cfg.BudgetBytes = opts.budget
	return localstore.New(slot, cfg, localstore.WithLogger(log)), log, nil
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every stored card as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore(opts)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			return writeJSON(cmd.OutOrStdout(), store.GetAll(ctx))
		},
	}
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print one card as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore(opts)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			card, ok := store.GetByID(ctx, args[0])
			if !ok {
				return fmt.Errorf("card %q not found", args[0])
			}
			return writeJSON(cmd.OutOrStdout(), card)
		},
	}
}

func newSaveCmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Insert or replace a card read from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			var card memorycard.MemoryCard
			if err := json.NewDecoder(in).Decode(&card); err != nil {
				return fmt.Errorf("decode card: %w", err)
			}
			if card.ID == "" {
				return fmt.Errorf("card id is required")
			}

			store, log, err := openStore(opts)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if !store.Save(ctx, &card) {
				return fmt.Errorf("card %q was not saved; run with --debug for details", card.ID)
			}
			log.Debug("Card saved", zap.String("card_id", card.ID))
			fmt.Fprintf(cmd.OutOrStdout(), "Card saved: %s\n", card.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Card JSON file, or - for stdin (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore(opts)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if err := store.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Card deleted: %s\n", args[0])
			return nil
		},
	}
}

func newClearCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear %q without --yes", opts.key)
			}
			store, _, err := openStore(opts)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if !store.ClearAll(ctx) {
				return fmt.Errorf("failed to clear %q", opts.key)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Card store cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm removal of every card")
	return cmd
}

// UsageReport is the output of the usage command
type UsageReport struct {
	Key         string  `json:"key"`
	Cards       int     `json:"cards"`
	UsedBytes   int     `json:"usedBytes"`
	BudgetBytes int     `json:"budgetBytes"`
	Percent     float64 `json:"percent"`
}

func newUsageCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Print the bytes used against the storage budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore(opts)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			used := store.Usage(ctx)
			report := UsageReport{
				Key:         store.Key(),
				Cards:       len(store.GetAll(ctx)),
				UsedBytes:   used,
				BudgetBytes: store.Budget(),
			}
			if report.BudgetBytes > 0 {
				report.Percent = float64(used) * 100 / float64(report.BudgetBytes)
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
