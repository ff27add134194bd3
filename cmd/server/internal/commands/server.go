package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/taskdesk/taskdesk/internal/apikeys"
	"github.com/taskdesk/taskdesk/internal/auth"
	"github.com/taskdesk/taskdesk/internal/cache"
	"github.com/taskdesk/taskdesk/internal/contacts"
	"github.com/taskdesk/taskdesk/internal/logger"
	"github.com/taskdesk/taskdesk/internal/members"
	"github.com/taskdesk/taskdesk/internal/models"
	"github.com/taskdesk/taskdesk/internal/server"
	"github.com/taskdesk/taskdesk/internal/store"
	memorystore "github.com/taskdesk/taskdesk/internal/store/memory"
	postgresstore "github.com/taskdesk/taskdesk/internal/store/postgres"
	"github.com/taskdesk/taskdesk/internal/tasks"
)

type ServerCmd struct {
	Listen        string   `help:"HTTP server listen address (default localhost:8080)" default:"" env:"TASKDESK_LISTEN"`
	Config        string   `help:"path to optional YAML config file" default:"" env:"TASKDESK_CONFIG"`
	SessionSecret string   `help:"HMAC secret for session tokens" default:"" env:"TASKDESK_SESSION_SECRET"`
	CORSOrigins   []string `help:"allowed CORS origins" default:"http://localhost:3000" env:"TASKDESK_CORS_ORIGINS"`

	StoreType          string `help:"store type (memory or postgres)" default:"memory" env:"TASKDESK_STORE_TYPE" enum:"memory,postgres"`
	PostgresConnString string `help:"PostgreSQL connection string" default:"" env:"TASKDESK_POSTGRES_CONN_STRING"`

	SeedDemo bool `help:"seed a demo organization with an admin and two members (memory store only)" default:"false"`
}

// fileConfig mirrors the flag set for YAML-based deployment config. Flags
// left at their zero value are filled from the file.
type fileConfig struct {
	Listen        string                    `yaml:"listen"`
	SessionSecret string                    `yaml:"session_secret"`
	CORSOrigins   []string                  `yaml:"cors_origins"`
	Postgres      *postgresstore.PoolConfig `yaml:"postgres"`
}

type stores struct {
	organizations store.OrganizationStore
	users         store.UserStore
	memberships   store.MembershipStore
	tasks         store.TaskStore
	contacts      store.ContactStore
	apiKeys       store.APIKeyStore
}

func (s *ServerCmd) Run(ctx context.Context, globals *Globals) error {
	log.Logger = logger.Setup(globals.Dev)

	poolCfg := &postgresstore.PoolConfig{ConnString: s.PostgresConnString}
	if err := s.applyFileConfig(poolCfg); err != nil {
		return err
	}

	if s.SessionSecret == "" {
		return fmt.Errorf("session secret is required (--session-secret or config file)")
	}
	if s.Listen == "" {
		s.Listen = "localhost:8080"
	}

	log.Info().Str("version", globals.Version).Str("store", s.StoreType).Msg("Starting server")

	st, cleanup, err := s.buildStores(ctx, poolCfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if s.SeedDemo {
		if s.StoreType != "memory" {
			return fmt.Errorf("--seed-demo requires the memory store")
		}
		if err := seedDemo(ctx, st, []byte(s.SessionSecret)); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	invalidator := cache.NewMemory()

	router := server.NewRouter(server.Config{
		Logger:        log.Logger,
		SessionSecret: []byte(s.SessionSecret),
		CORSOrigins:   s.CORSOrigins,
		Memberships:   st.memberships,
		Tasks:         tasks.NewService(st.tasks, st.memberships, invalidator),
		Members:       members.NewService(st.memberships),
		Contacts:      contacts.NewService(st.contacts, invalidator),
		APIKeys:       apikeys.NewService(st.apiKeys),
	})

	srv := configureHTTPServer(s.Listen, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("listen", s.Listen).Msg("Listening for HTTP connections")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	case <-ctx.Done():
		log.Info().Msg("Context canceled, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// applyFileConfig fills flag fields left at their zero value from the YAML
// config file, if one was given.
func (s *ServerCmd) applyFileConfig(poolCfg *postgresstore.PoolConfig) error {
	if s.Config == "" {
		return nil
	}

	data, err := os.ReadFile(s.Config)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if s.Listen == "" && cfg.Listen != "" {
		s.Listen = cfg.Listen
	}
	if s.SessionSecret == "" {
		s.SessionSecret = cfg.SessionSecret
	}
	if len(s.CORSOrigins) == 0 {
		s.CORSOrigins = cfg.CORSOrigins
	}
	if cfg.Postgres != nil {
		if poolCfg.ConnString == "" {
			*poolCfg = *cfg.Postgres
		}
	}

	return nil
}

// buildStores constructs the configured store set. The postgres pool is
// established with exponential backoff so the server survives the database
// coming up after it.
func (s *ServerCmd) buildStores(ctx context.Context, poolCfg *postgresstore.PoolConfig) (*stores, func(), error) {
	switch s.StoreType {
	case "postgres":
		pool, err := backoff.Retry(ctx, func() (*pgxpool.Pool, error) {
			return postgresstore.NewPool(ctx, poolCfg)
		}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(10))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}

		if err := postgresstore.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}

		return &stores{
			organizations: postgresstore.NewOrganizationStore(pool),
			users:         postgresstore.NewUserStore(pool),
			memberships:   postgresstore.NewMembershipStore(pool),
			tasks:         postgresstore.NewTaskStore(pool),
			contacts:      postgresstore.NewContactStore(pool),
			apiKeys:       postgresstore.NewAPIKeyStore(pool),
		}, pool.Close, nil

	default:
		users := memorystore.NewUserStore()
		memberships := memorystore.NewMembershipStore(users)

		return &stores{
			organizations: memorystore.NewOrganizationStore(),
			users:         users,
			memberships:   memberships,
			tasks:         memorystore.NewTaskStore(memberships, users),
			contacts:      memorystore.NewContactStore(),
			apiKeys:       memorystore.NewAPIKeyStore(),
		}, func() {}, nil
	}
}

// seedDemo creates a demo organization with one admin and two members and
// logs ready-to-use session tokens. Development convenience only.
func seedDemo(ctx context.Context, st *stores, secret []byte) error {
	now := time.Now()

	org := &models.Organization{
		OrganizationID: uuid.Must(uuid.NewV7()),
		Name:           "Demo Org",
		Slug:           "demo",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := st.organizations.Create(ctx, org); err != nil {
		return err
	}

	seedUsers := []struct {
		name string
		role models.Role
	}{
		{"Alice Admin", models.RoleAdmin},
		{"Bob Member", models.RoleMember},
		{"Carol Member", models.RoleMember},
	}

	for _, u := range seedUsers {
		user := &models.User{
			UserID:    uuid.Must(uuid.NewV7()),
			Name:      u.name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := st.users.Create(ctx, user); err != nil {
			return err
		}

		if err := st.memberships.Create(ctx, &models.Membership{
			OrganizationID: org.OrganizationID,
			UserID:         user.UserID,
			Role:           u.role,
			CreatedAt:      now,
		}); err != nil {
			return err
		}

		token, err := auth.SignSessionToken(secret, user.UserID, org.OrganizationID, 24*time.Hour)
		if err != nil {
			return err
		}

		log.Info().
			Str("user", u.name).
			Str("role", string(u.role)).
			Str("token", token).
			Msg("Seeded demo user")
	}

	return nil
}
