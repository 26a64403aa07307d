// Command pedidoz runs the back office API together with its periodic jobs.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/pedidoz/backoffice/api"
	"github.com/pedidoz/backoffice/pkg/config"
	"github.com/pedidoz/backoffice/pkg/email"
	"github.com/pedidoz/backoffice/pkg/httpserver"
	"github.com/pedidoz/backoffice/pkg/logger"
	"github.com/pedidoz/backoffice/pkg/metrics"
	pmongo "github.com/pedidoz/backoffice/pkg/mongo"
	"github.com/pedidoz/backoffice/pkg/redis"
	"github.com/pedidoz/backoffice/pkg/requestid"
	"github.com/pedidoz/backoffice/pkg/scheduler"
	"github.com/pedidoz/backoffice/svc/billing"
	"github.com/pedidoz/backoffice/svc/billing/mercadopago"
	"github.com/pedidoz/backoffice/svc/billing/mongostore"
	"github.com/pedidoz/backoffice/svc/catalog"
	"github.com/pedidoz/backoffice/svc/coupon"
	"github.com/pedidoz/backoffice/svc/notification"
	"github.com/pedidoz/backoffice/svc/order"
	"github.com/pedidoz/backoffice/svc/organization"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("pedidoz stopped", logger.Error(err))
		os.Exit(1)
	}
}

type configs struct {
	app          appConfig
	http         httpserver.Config
	mongo        pmongo.Config
	redis        redis.Config
	email        email.Config
	billing      billing.Config
	gateway      mercadopago.Config
	notification notification.Config
}

func loadConfigs() (configs, error) {
	var c configs
	err := errors.Join(
		config.Load(&c.app),
		config.Load(&c.http),
		config.Load(&c.mongo),
		config.Load(&c.redis),
		config.Load(&c.email),
		config.Load(&c.billing),
		config.Load(&c.gateway),
		config.Load(&c.notification),
	)
	return c, err
}

func run(ctx context.Context) error {
	cfg, err := loadConfigs()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(
		logger.WithEnvironment(cfg.app.Env, cfg.app.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor(), api.UserExtractor()),
	)
	logger.SetAsDefault(log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	mongoClient, err := pmongo.New(ctx, cfg.mongo)
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), cfg.http.ShutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Warn("mongo disconnect", logger.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.mongo.Database)
	if err := pmongo.EnsureIndexes(ctx, db, pmongo.Merge(
		catalog.Indexes(),
		coupon.Indexes(),
		organization.Indexes(),
		mongostore.Indexes(),
		order.Indexes(),
		notification.Indexes(),
	)); err != nil {
		return err
	}
	checks := []httpserver.Check{{Name: "mongo", Fn: pmongo.Healthcheck(mongoClient)}}

	var rdb *goredis.Client
	if cfg.redis.Enabled() {
		if rdb, err = redis.Connect(ctx, cfg.redis); err != nil {
			return err
		}
		defer rdb.Close()
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(rdb)})
	}

	timeout := cfg.mongo.OperationTimeout

	// Plan catalog
	planSource := catalog.NewMongoSource(db, timeout)
	if cfg.app.CatalogSeedFile != "" {
		n, err := planSource.Seed(ctx, catalog.NewYAMLFileSource(cfg.app.CatalogSeedFile), time.Now().UTC())
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		log.Info("catalog seeded", slog.Int("records", n), slog.String("file", cfg.app.CatalogSeedFile))
	}
	catalogOpts := []catalog.Option{catalog.WithLogger(log), catalog.WithMetrics(m)}
	var invalidator *catalog.RedisInvalidator
	if rdb != nil {
		invalidator = catalog.NewRedisInvalidator(rdb, log)
		catalogOpts = append(catalogOpts, catalog.WithPublisher(invalidator))
	}
	plans := catalog.New(planSource, catalogOpts...)
	if err := plans.Refresh(ctx); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	// Billing
	gateway, err := mercadopago.New(cfg.gateway, mercadopago.WithLogger(log), mercadopago.WithMetrics(m))
	if err != nil {
		return err
	}
	sender, err := emailSender(cfg.email, log)
	if err != nil {
		return err
	}
	coupons := coupon.NewEngine(coupon.NewMongoRepository(db, timeout), coupon.WithLogger(log), coupon.WithMetrics(m))
	billingOpts := []billing.Option{billing.WithLogger(log), billing.WithMetrics(m)}
	if rdb != nil {
		billingOpts = append(billingOpts, billing.WithLocker(redis.NewLocker(rdb, "pedidoz:lock:subscription:", cfg.billing.LockTTL)))
	}
	billingSvc := billing.NewService(billing.Dependencies{
		Catalog:  plans,
		Plans:    mongostore.NewPlanLedger(db, timeout),
		Invoices: mongostore.NewInvoiceLedger(db, timeout),
		Gateway:  gateway,
		Membership: organization.NewMembership(
			organization.NewMongoDirectory(db, timeout),
			organization.WithCache(cfg.app.OwnerCacheSize, cfg.app.OwnerCacheTTL),
			organization.WithLogger(log),
		),
		Coupons: coupons,
		Mailer:  billing.NewEmailMailer(sender, cfg.billing.FrontURL),
	}, cfg.billing, billingOpts...)

	// Orders
	orders := order.NewService(
		order.NewMongoRepository(db, timeout),
		order.NewComposer(
			order.NewMongoCatalog(db, timeout),
			order.WithLimits(order.NewPlanLimits(billingSvc.ActivePlanID, plans)),
		),
		order.WithLogger(log),
		order.WithMetrics(m),
	)

	// Notifications
	notifications, err := notificationGate(ctx, cfg.notification, db, timeout, rdb, sender, log, m)
	if err != nil {
		return err
	}

	// Jobs
	jobs := scheduler.New(log)
	if err := errors.Join(
		jobs.Add(scheduler.Job{
			Name:     "catalog_refresh",
			Schedule: cfg.app.CatalogRefreshSchedule,
			Timeout:  timeout,
			Run:      plans.Refresh,
		}),
		jobs.Add(scheduler.Job{
			Name:     "invoice_overdue",
			Schedule: cfg.billing.OverdueSchedule,
			Timeout:  5 * time.Minute,
			Run: func(ctx context.Context) error {
				n, err := billingSvc.MarkOverdue(ctx, cfg.billing.OverdueAfter)
				if n > 0 {
					log.InfoContext(ctx, "invoices marked overdue", slog.Int("count", n))
				}
				return err
			},
		}),
	); err != nil {
		return err
	}
	jobs.Start(ctx)
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.http.ShutdownTimeout)
		defer cancel()
		if err := jobs.Stop(sctx); err != nil {
			log.Warn("scheduler stop", logger.Error(err))
		}
	}()

	router := api.NewRouter(api.Deps{
		Subscriptions: billingSvc,
		Orders:        orders,
		Notifications: notifications,
		Coupons:       coupons,
		Catalog:       plans,
		Metrics:       m,
		Gatherer:      reg,
		Checks:        checks,
		Logger:        log,
		QRCodeSize:    cfg.app.QRCodeSize,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.New(cfg.http, log).Run(gctx, router)
	})
	if invalidator != nil {
		g.Go(func() error {
			return invalidator.Listen(gctx, plans, nil)
		})
	}

	log.Info("pedidoz started", slog.String("addr", cfg.http.Addr))
	return g.Wait()
}

func emailSender(cfg email.Config, log *slog.Logger) (email.EmailSender, error) {
	if cfg.PostmarkEnabled() {
		return email.NewPostmarkClient(cfg)
	}
	log.Warn("postmark tokens not set, emails are only logged")
	return email.NewLogSender(log), nil
}

func notificationGate(
	ctx context.Context,
	cfg notification.Config,
	db *mongo.Database,
	timeout time.Duration,
	rdb *goredis.Client,
	sender email.EmailSender,
	log *slog.Logger,
	m *metrics.Metrics,
) (*notification.Gate, error) {
	opts := []notification.Option{
		notification.WithEmailSender(sender),
		notification.WithInterval(cfg.DedupInterval),
		notification.WithLogger(log),
		notification.WithMetrics(m),
	}
	if rdb != nil {
		opts = append(opts, notification.WithDeduper(notification.NewRedisDeduper(rdb)))
	}

	switch {
	case cfg.S3Bucket != "":
		client, err := notification.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, notification.WithTemplates(notification.NewS3Source(client, cfg.S3Bucket, cfg.S3Prefix), cfg.Template))
	case cfg.TemplatesDir != "":
		opts = append(opts, notification.WithTemplates(notification.NewDirSource(cfg.TemplatesDir), cfg.Template))
	}

	repo := notification.NewMongoRepository(db, timeout)
	return notification.NewGate(repo, opts...), nil
}
