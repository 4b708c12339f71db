package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/gonsam85/assets/internal/config"
	"github.com/gonsam85/assets/internal/domain"
	"github.com/gonsam85/assets/internal/usecase/portfolio"
)

func newQuoteCmd(cfg *config.Config, logRef func() zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "quote TICKER [TICKER...]",
		Short: "Fetch current quotes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logRef()
			quotes, err := newQuoteService(cfg, nil, log)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if len(args) == 1 {
				q, err := quotes.Single(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprint(os.Stdout, renderQuotes([]domain.Quote{q}, nil))
				return nil
			}

			res, err := quotes.Batch(ctx, args)
			if err != nil {
				return err
			}
			fmt.Fprint(os.Stdout, renderQuotes(res.Quotes, res.Missing))
			return nil
		},
	}
}

func newSnapshotCmd(cfg *config.Config, logRef func() zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Run one valuation cycle and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logRef()
			ctx := cmd.Context()

			a, err := newApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			snap, err := a.valuation.Refresh(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(os.Stdout, renderSnapshot(snap, a.settings.Current()))
			return nil
		},
	}
}

// entryFlags mirrors portfolio.EntryInput with decimals kept as text until parsed
type entryFlags struct {
	name, assetType, currency, category, ticker string
	amount, purchasePrice, currentPrice, qty    string
}

func (f entryFlags) toInput() (portfolio.EntryInput, error) {
	in := portfolio.EntryInput{
		Name:     f.name,
		Type:     f.assetType,
		Currency: f.currency,
		Category: f.category,
		Ticker:   f.ticker,
	}

	fields := []struct {
		flag string
		raw  string
		dst  *decimal.Decimal
	}{
		{"amount", f.amount, &in.Amount},
		{"purchase-price", f.purchasePrice, &in.PurchasePrice},
		{"current-price", f.currentPrice, &in.CurrentPrice},
		{"quantity", f.qty, &in.Quantity},
	}
	for _, field := range fields {
		if field.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(field.raw)
		if err != nil {
			return portfolio.EntryInput{}, fmt.Errorf("%w: --%s %q is not a number", domain.ErrInvalidRequest, field.flag, field.raw)
		}
		*field.dst = d
	}
	return in, nil
}

func newAddCmd(cfg *config.Config, logRef func() zerolog.Logger) *cobra.Command {
	var f entryFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an asset, merging it into an existing record when one matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logRef()
			ctx := cmd.Context()

			in, err := f.toInput()
			if err != nil {
				return err
			}

			a, err := newApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			fxRate := a.valuation.FXRate()
			if strings.EqualFold(strings.TrimSpace(in.Currency), string(domain.CurrencyUSD)) {
				fxRate = currentFXRate(ctx, a, cfg, log)
			}

			candidate, err := portfolio.BuildCandidate(in, fxRate)
			if err != nil {
				return err
			}
			res, err := a.portfolio.Add(ctx, candidate)
			if err != nil {
				return err
			}

			verb := "Added"
			if res.Merged {
				verb = "Merged into"
			}
			fmt.Fprintf(os.Stdout, "%s %s (%s): %s\n",
				verb, res.Asset.Name, res.Asset.ID, domain.FormatMoney(res.Asset.Amount, domain.HomeCurrency))
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Asset name")
	cmd.Flags().StringVarP(&f.assetType, "type", "t", "", "cash, stock, crypto, real_estate or loan")
	cmd.Flags().StringVarP(&f.currency, "currency", "c", string(domain.CurrencyKRW), "KRW or USD")
	cmd.Flags().StringVar(&f.category, "category", "", "Free-form category")
	cmd.Flags().StringVar(&f.ticker, "ticker", "", "Market symbol for stock and crypto")
	cmd.Flags().StringVar(&f.amount, "amount", "", "Amount for cash and loans")
	cmd.Flags().StringVar(&f.purchasePrice, "purchase-price", "", "Unit purchase price")
	cmd.Flags().StringVar(&f.currentPrice, "current-price", "", "Current value of real estate")
	cmd.Flags().StringVar(&f.qty, "quantity", "", "Number of units held")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

// currentFXRate fetches the conversion rate, keeping the configured default on failure
func currentFXRate(ctx context.Context, a *app, cfg *config.Config, log zerolog.Logger) decimal.Decimal {
	q, err := a.quotes.Single(ctx, cfg.FXTicker)
	if err != nil || !q.HasPrice() {
		log.Warn().Msgf("Using default FX rate %s: %v", a.valuation.FXRate(), err)
		return a.valuation.FXRate()
	}
	return q.Price
}
