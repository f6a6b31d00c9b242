// @title			Workdesk API
// @version		1.0
// @description	Back office work queue for disputes, contracts, aid and admissions.
// @BasePath		/api/v1
// @securityDefinitions.apikey	BearerAuth
// @in								header
// @name							Authorization

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/workdesk/internal/authz"
	"github.com/mtlprog/workdesk/internal/config"
	"github.com/mtlprog/workdesk/internal/database"
	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/evidence"
	"github.com/mtlprog/workdesk/internal/handler"
	"github.com/mtlprog/workdesk/internal/logger"
	"github.com/mtlprog/workdesk/internal/middleware"
	"github.com/mtlprog/workdesk/internal/notify"
	"github.com/mtlprog/workdesk/internal/repository"
)

func main() {
	app := &cli.App{
		Name:  "workdesk",
		Usage: "Back office work queue",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   logger.FormatJSON,
				Usage:   "Log format (json, text)",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:    "database-url",
				Aliases: []string{"d"},
				Value:   config.DefaultDatabaseURL,
				Usage:   "PostgreSQL database URL",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   config.DefaultPort,
				Usage:   "HTTP server port",
				EnvVars: []string{"PORT"},
			},
			&cli.StringFlag{
				Name:    "jwt-secret",
				Usage:   "HMAC secret for operator tokens",
				EnvVars: []string{"JWT_SECRET"},
			},
			&cli.StringFlag{
				Name:    "permissions-file",
				Usage:   "YAML role permission table (built-in table if empty)",
				EnvVars: []string{"PERMISSIONS_FILE"},
			},
			&cli.StringFlag{
				Name:    "notify-backend",
				Value:   config.DefaultNotifyBackend,
				Usage:   "Notification transport (outbox, nsq, redis, log)",
				EnvVars: []string{"NOTIFY_BACKEND"},
			},
			&cli.StringFlag{
				Name:    "nsqd-addr",
				Value:   "127.0.0.1:4150",
				Usage:   "nsqd TCP address",
				EnvVars: []string{"NSQD_ADDR"},
			},
			&cli.StringFlag{
				Name:    "nsq-topic",
				Value:   config.DefaultNSQTopic,
				Usage:   "NSQ topic for notifications",
				EnvVars: []string{"NSQ_TOPIC"},
			},
			&cli.StringFlag{
				Name:    "redis-addr",
				Value:   "localhost:6379",
				Usage:   "Redis address",
				EnvVars: []string{"REDIS_ADDR"},
			},
			&cli.StringFlag{
				Name:    "redis-password",
				Usage:   "Redis password",
				EnvVars: []string{"REDIS_PASSWORD"},
			},
			&cli.IntFlag{
				Name:    "redis-db",
				Usage:   "Redis database number",
				EnvVars: []string{"REDIS_DB"},
			},
			&cli.StringFlag{
				Name:    "redis-list",
				Value:   config.DefaultRedisList,
				Usage:   "Redis list notifications are pushed to",
				EnvVars: []string{"REDIS_LIST"},
			},
			&cli.StringFlag{
				Name:    "evidence-endpoint",
				Usage:   "S3-compatible endpoint for dispute evidence (downloads disabled if empty)",
				EnvVars: []string{"EVIDENCE_ENDPOINT"},
			},
			&cli.StringFlag{
				Name:    "evidence-access-key",
				EnvVars: []string{"EVIDENCE_ACCESS_KEY"},
			},
			&cli.StringFlag{
				Name:    "evidence-secret-key",
				EnvVars: []string{"EVIDENCE_SECRET_KEY"},
			},
			&cli.StringFlag{
				Name:    "evidence-bucket",
				Value:   config.DefaultEvidenceBucket,
				EnvVars: []string{"EVIDENCE_BUCKET"},
			},
			&cli.BoolFlag{
				Name:    "evidence-use-ssl",
				EnvVars: []string{"EVIDENCE_USE_SSL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")), c.String("log-format"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the web server",
				Action: runServe,
			},
			{
				Name:  "migrate",
				Usage: "Apply database migrations and exit",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "down",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: runMigrate,
			},
			{
				Name:  "queue",
				Usage: "Print work items as a table",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "topic", Usage: "Only this topic"},
					&cli.StringFlag{Name: "status", Usage: "Comma-separated statuses"},
					&cli.IntFlag{Name: "limit", Value: config.DefaultListLimit, Usage: "Maximum rows"},
				},
				Action: runQueue,
			},
			{
				Name:  "issue-token",
				Usage: "Mint an operator token for development",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "operator", Required: true, Usage: "Operator ID"},
					&cli.StringSliceFlag{Name: "role", Usage: "Role to grant, repeatable"},
					&cli.DurationFlag{Name: "ttl", Value: config.DefaultTokenTTL, Usage: "Token lifetime"},
				},
				Action: runIssueToken,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func connect(c *cli.Context) (*database.DB, error) {
	databaseURL := c.String("database-url")
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required (--database-url or DATABASE_URL)")
	}

	db, err := database.New(c.Context, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}
	secret := c.String("jwt-secret")
	if secret == "" {
		return fmt.Errorf("jwt secret is required (--jwt-secret or JWT_SECRET)")
	}

	db, err := connect(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	perms := authz.Default()
	if path := c.String("permissions-file"); path != "" {
		perms, err = authz.Load(path)
		if err != nil {
			return err
		}
	}

	dispatcher, closeDispatcher, err := notify.New(notify.Config{
		Backend:       c.String("notify-backend"),
		NSQDAddr:      c.String("nsqd-addr"),
		NSQTopic:      c.String("nsq-topic"),
		RedisAddr:     c.String("redis-addr"),
		RedisPassword: c.String("redis-password"),
		RedisDB:       c.Int("redis-db"),
		RedisList:     c.String("redis-list"),
	}, db.Pool())
	if err != nil {
		return fmt.Errorf("failed to set up notifications: %w", err)
	}
	defer closeDispatcher()

	var store evidence.Store = evidence.Disabled{}
	if endpoint := c.String("evidence-endpoint"); endpoint != "" {
		store, err = evidence.NewMinioStore(evidence.MinioConfig{
			Endpoint:  endpoint,
			AccessKey: c.String("evidence-access-key"),
			SecretKey: c.String("evidence-secret-key"),
			Bucket:    c.String("evidence-bucket"),
			UseSSL:    c.Bool("evidence-use-ssl"),
		})
		if err != nil {
			return err
		}
	}

	h := handler.New(db.Pool(), handler.Config{
		JWTSecret:  secret,
		Authz:      perms,
		Dispatcher: dispatcher,
		Evidence:   store,
	})

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port, "notify_backend", c.String("notify-backend"))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, config.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runMigrate(c *cli.Context) error {
	db, err := connect(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if c.Bool("down") {
		return database.RollbackMigration(c.Context, db.Pool())
	}
	return database.RunMigrations(c.Context, db.Pool())
}

func runQueue(c *cli.Context) error {
	db, err := connect(c)
	if err != nil {
		return err
	}
	defer db.Close()

	topics := domain.Topics
	if topic := domain.Topic(c.String("topic")); topic != "" {
		if !topic.IsValid() {
			return fmt.Errorf("unknown topic %q", topic)
		}
		topics = []domain.Topic{topic}
	}

	var statuses []domain.WorkItemStatus
	for _, s := range strings.Split(c.String("status"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			statuses = append(statuses, domain.WorkItemStatus(s))
		}
	}

	limit := c.Int("limit")
	if limit <= 0 || limit > config.MaxListLimit {
		limit = config.DefaultListLimit
	}

	items, total, err := repository.NewWorkItemRepository(db.Pool()).List(c.Context, repository.WorkItemListFilters{
		Topics:   topics,
		Statuses: statuses,
		Limit:    limit,
	})
	if err != nil {
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"ID", "Topic", "Status", "Priority", "Assignee", "Case", "Updated"})
	for _, item := range items {
		assignee := ""
		if item.AssigneeID != nil {
			assignee = *item.AssigneeID
		}
		tw.AppendRow(table.Row{
			item.ID,
			item.Topic,
			item.Status,
			item.Priority,
			assignee,
			item.Payload.CaseID,
			item.UpdatedAt.Format(time.DateTime),
		})
	}
	tw.AppendFooter(table.Row{"", "", "", "", "", "total", total})
	tw.Render()
	return nil
}

func runIssueToken(c *cli.Context) error {
	roles := make([]domain.Role, 0, len(c.StringSlice("role")))
	for _, r := range c.StringSlice("role") {
		roles = append(roles, domain.Role(r))
	}

	token, err := middleware.IssueToken(c.String("jwt-secret"), c.String("operator"), roles, c.Duration("ttl"))
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
