// apicheck exercises the platform REST contract end to end: balances,
// market makers, settlements, fee lookup, and a dry-run order validation.
// Point it at a staging backend to verify the wire shapes after a deploy.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/carbonport/deskcore/internal/api"
	"github.com/carbonport/deskcore/internal/model"
	"github.com/carbonport/deskcore/internal/orders"
	"github.com/carbonport/deskcore/internal/settlement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func main() {
	baseURL := flag.String("url", "", "platform REST base URL (required)")
	token := flag.String("token", "", "bearer session token")
	flag.Parse()

	if *baseURL == "" {
		fmt.Fprintln(os.Stderr, "usage: apicheck -url <base-url> [-token <token>]")
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	client := api.NewClient(*baseURL, *token,
		api.WithLogger(logger),
		api.WithTimeout(15*time.Second),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fail := 0

	prices, err := client.GetPrices(ctx)
	if err != nil {
		logger.Error("prices", "error", err)
		fail++
	} else {
		logger.Info("prices ok", "cea_eur", prices.CEAPriceEUR, "eua_eur", prices.EUAPriceEUR)
	}

	balances, err := client.GetBalances(ctx)
	if err != nil {
		logger.Error("balances", "error", err)
		fail++
	} else {
		logger.Info("balances ok",
			"eur_available", balances.EUR.Available,
			"cea_available", balances.CEA.Available,
			"eua_available", balances.EUA.Available,
		)
	}

	makers, err := client.ListMarketMakers(ctx)
	if err != nil {
		logger.Error("market makers", "error", err)
		fail++
	} else {
		logger.Info("market makers ok", "count", len(makers))
	}

	batches, err := client.ListSettlements(ctx, "")
	if err != nil {
		logger.Error("settlements", "error", err)
		fail++
	} else {
		now := time.Now()
		for _, b := range batches {
			days, _ := settlement.DaysRemaining(b, now)
			logger.Info("settlement",
				"reference", b.BatchReference,
				"status", b.Status,
				"progress", settlement.Progress(b, now),
				"days_remaining", days,
			)
		}
	}

	// Dry-run validation exercises the fee lookup (with fallback) without
	// touching the order endpoint.
	engine := orders.NewEngine(client, decimal.RequireFromString("0.005"), logger)
	eligible := orders.EligibleCounterparties(model.SideBid, model.CertificateCEA, model.MarketCEACash, makers)
	order := model.Order{
		ClientReference: uuid.NewString(),
		Market:          model.MarketCEACash,
		Side:            model.SideBid,
		CertificateType: model.CertificateCEA,
		Price:           decimal.RequireFromString("1"),
		Quantity:        decimal.RequireFromString("1"),
	}
	if len(eligible) > 0 {
		order.CounterpartyID = eligible[0].ID
	}

	result := engine.Validate(ctx, order, balances)
	logger.Info("dry-run validation",
		"valid", result.Valid,
		"reason", result.Reason,
		"gross", result.Totals.Gross,
		"buyer_total", result.Totals.BuyerTotal,
		"fee_source", result.Totals.Quote.Source,
	)

	if fail > 0 {
		logger.Error("apicheck finished with failures", "failed", fail)
		os.Exit(1)
	}
	logger.Info("apicheck passed")
}
