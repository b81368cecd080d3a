package main

import (
	"context"
	"fmt"

	"github.com/parcelbridge/retoure/internal/config"
	"github.com/parcelbridge/retoure/internal/telemetry"
	"github.com/parcelbridge/retoure/pkg/pdf"
	"github.com/parcelbridge/retoure/pkg/returns"
	"github.com/parcelbridge/retoure/pkg/returns/dhl"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return func(context.Context) error { return nil }, nil
	}

	_, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
	return shutdown, err
}

func initReturnShipmentManagement(cfg *config.Config, logger *otelzap.Logger) (*returns.ReturnShipmentManagement, error) {
	accounts, err := config.NewAccounts(cfg)
	if err != nil {
		return nil, fmt.Errorf("loading store accounts: %w", err)
	}

	converter := &returns.StandardUnitConverter{}
	requestMapper := returns.NewRequestDataMapper(accounts, converter)
	responseMapper := returns.NewResponseDataMapper(pdf.NewCombinator(), logger)

	serviceFactory := func(storeID string) (returns.LabelService, error) {
		if cfg.UseMock {
			return dhl.NewServiceWithAPIClient(dhl.NewMockAPIClient(), logger), nil
		}
		return dhl.NewService(accounts.Credentials(storeID), logger)
	}

	pipeline := returns.NewPipeline(requestMapper, serviceFactory, responseMapper, logger)

	newGateway := func(storeID string) *returns.APIGateway {
		return returns.NewAPIGateway(pipeline, storeID)
	}

	return returns.NewReturnShipmentManagement(newGateway, logger), nil
}
