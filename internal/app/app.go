package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/twmb/franz-go/pkg/sr"

	"github.com/botifalho/storefront/config"
	"github.com/botifalho/storefront/internal/adapter/httphandler"
	"github.com/botifalho/storefront/internal/adapter/kafka"
	"github.com/botifalho/storefront/internal/adapter/storage"
	"github.com/botifalho/storefront/internal/core/service"
	"github.com/botifalho/storefront/pkg/schema"
)

type App struct {
	ctx              context.Context
	cfg              config.Config
	sqldb            storage.SQLDB
	orderSerde       schema.Serde
	ordersProducer   kafka.OrdersProducer
	receiptsConsumer kafka.ReceiptsConsumer
	httpServer       httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStorage()
	app.initSerdes()
	app.initOutboundAdapters()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	sqldb, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}
	app.sqldb = sqldb
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"

	srClient, err := sr.NewClient(sr.URLs(app.cfg.Broker.SchemaRegistryURLs...))
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	orderSubject := app.cfg.Broker.OrdersTopic + "-value"
	orderSerde, err := schema.NewSerdeOrderV1(
		app.ctx,
		schema.SubjectOpt(orderSubject),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.orderSerde = orderSerde
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	ordersProducer, err := kafka.NewOrdersProducer(
		kafka.ProducerClientOpt(
			app.ctx, app.cfg.Broker.SeedBrokers, app.cfg.Broker.OrdersTopic,
		),
		kafka.ProducerEncoderOpt(app.orderSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.ordersProducer = ordersProducer
}

func (app *App) initInboundAdapters() {
	const op = "App.initInboundAdapters"

	catalogStore := storage.NewProductsRepository(app.sqldb)
	ordersRepo := storage.NewOrdersRepository(app.sqldb)

	ledger := service.NewStockLedger(catalogStore, app.cfg.Checkout.LockTimeout)
	carts := service.NewCartService(catalogStore)
	catalog := service.NewCatalogService(catalogStore, ledger)
	checkout := service.NewCheckoutService(
		carts, ledger, app.ordersProducer, app.cfg.Checkout.CommitRetries,
	)

	mux := http.NewServeMux()
	httphandler.RegisterProducts(mux, catalog, catalog, catalog)
	httphandler.RegisterCart(mux, carts)
	httphandler.RegisterCheckout(mux, checkout)

	handler := httphandler.AllowJSON(mux)
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)

	receiptsConsumer, err := kafka.NewReceiptsConsumer(
		kafka.ConsumerClientOpt(
			app.cfg.Broker.SeedBrokers,
			app.cfg.Broker.OrdersTopic,
			app.cfg.Broker.ReceiptsSaverGroup,
		),
		kafka.ConsumerOrdersSaverOpt(ordersRepo),
		kafka.ConsumerDecoderOpt(app.orderSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.receiptsConsumer = receiptsConsumer
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)
	go app.receiptsConsumer.Run(app.ctx)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.receiptsConsumer.Close()
	app.ordersProducer.Close()
	app.sqldb.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
