// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultPostgresImage is the database image the seed schema targets.
	DefaultPostgresImage = "postgres:16-alpine"

	// DefaultPostgRESTImage is the PostgREST release Supabase ships.
	DefaultPostgRESTImage = "postgrest/postgrest:v12.2.3"

	// DefaultJWTSecret signs the anon key. PostgREST requires 32+ characters.
	DefaultJWTSecret = "poigate-integration-secret-0123456789"

	postgrestPort    = "3000/tcp"
	postgresPassword = "postgres"
	dbAlias          = "db"
	restPrefix       = "/rest/v1"
)

// SeedSQL creates the tables the repository reads directly and a handful of
// rows. Procedures are not seeded.
const SeedSQL = `
CREATE ROLE anon NOLOGIN;
GRANT USAGE ON SCHEMA public TO anon;

CREATE TABLE poi (
	id                 text PRIMARY KEY,
	name_fr            text,
	slug_fr            text,
	slug_en            text,
	publishable_status text NOT NULL DEFAULT 'draft',
	updated_at         timestamptz
);

CREATE TABLE poi_types (
	type_key              text PRIMARY KEY,
	label_fr              text,
	label_en              text,
	detection_keywords_fr text[] NOT NULL DEFAULT '{}',
	detection_keywords_en text[] NOT NULL DEFAULT '{}',
	is_active             boolean NOT NULL DEFAULT true
);

INSERT INTO poi (id, name_fr, slug_fr, slug_en, publishable_status, updated_at) VALUES
	('p1', 'Le Comptoir', 'le-comptoir', 'the-counter', 'eligible', '2026-03-01T10:00:00Z'),
	('p2', 'Chez Marcel', 'chez-marcel', NULL,          'eligible', '2026-03-03T10:00:00Z'),
	('p3', 'Pizza Nona',  'pizza-nona',  'pizza-nona',  'eligible', '2026-03-02T10:00:00Z'),
	('p4', 'Brouillon',   'brouillon',   NULL,          'draft',    '2026-03-04T10:00:00Z');

INSERT INTO poi_types (type_key, label_fr, label_en, detection_keywords_fr, detection_keywords_en, is_active) VALUES
	('pizzeria',           'Pizzeria',           'Pizzeria',           '{pizza,pizzas}', '{pizza}',   true),
	('italian_restaurant', 'Restaurant italien', 'Italian restaurant', '{italien}',      '{italian}', true),
	('wine_bar',           'Bar à vin',          'Wine bar',           '{vin,pinard}',   '{wine}',    true),
	('pizza_truck',        'Camion pizza',       'Pizza truck',        '{pizza}',        '{pizza}',   false);

GRANT SELECT ON ALL TABLES IN SCHEMA public TO anon;
`

// PostgRESTStack is a running PostgreSQL + PostgREST pair behind a
// Supabase-shaped URL.
type PostgRESTStack struct {
	// URL is the project URL; the REST API lives under URL + "/rest/v1".
	URL string
	// AnonKey is an HS256 JWT carrying role=anon.
	AnonKey string

	db      testcontainers.Container
	api     testcontainers.Container
	net     *testcontainers.DockerNetwork
	gateway *httptest.Server
}

// StackOption configures the stack.
type StackOption func(*stackConfig)

type stackConfig struct {
	postgresImage  string
	postgrestImage string
	jwtSecret      string
	seedSQL        string
	startTimeout   time.Duration
}

// WithPostgRESTImage sets a custom PostgREST image.
func WithPostgRESTImage(image string) StackOption {
	return func(c *stackConfig) {
		c.postgrestImage = image
	}
}

// WithSeedSQL replaces the seed script.
func WithSeedSQL(sql string) StackOption {
	return func(c *stackConfig) {
		c.seedSQL = sql
	}
}

// WithStartTimeout sets how long to wait for each container.
func WithStartTimeout(timeout time.Duration) StackOption {
	return func(c *stackConfig) {
		c.startTimeout = timeout
	}
}

// NewPostgRESTStack starts the database, PostgREST and the /rest/v1 gateway.
// Call Terminate when done.
func NewPostgRESTStack(ctx context.Context, opts ...StackOption) (*PostgRESTStack, error) {
	cfg := &stackConfig{
		postgresImage:  DefaultPostgresImage,
		postgrestImage: DefaultPostgRESTImage,
		jwtSecret:      DefaultJWTSecret,
		seedSQL:        SeedSQL,
		startTimeout:   90 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	nw, err := network.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("create network: %w", err)
	}
	stack := &PostgRESTStack{net: nw}

	stack.db, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:          cfg.postgresImage,
			ExposedPorts:   []string{"5432/tcp"},
			Env:            map[string]string{"POSTGRES_PASSWORD": postgresPassword},
			Networks:       []string{nw.Name},
			NetworkAliases: map[string][]string{nw.Name: {dbAlias}},
			Files: []testcontainers.ContainerFile{{
				Reader:            strings.NewReader(cfg.seedSQL),
				ContainerFilePath: "/docker-entrypoint-initdb.d/01-seed.sql",
				FileMode:          0o644,
			}},
			// The entrypoint restarts the server once after running init scripts.
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(cfg.startTimeout),
		},
		Started: true,
	})
	if err != nil {
		stack.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("create postgres container: %w", err)
	}

	dbURI := fmt.Sprintf("postgres://postgres:%s@%s:5432/postgres", postgresPassword, dbAlias)
	stack.api, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        cfg.postgrestImage,
			ExposedPorts: []string{postgrestPort},
			Env: map[string]string{
				"PGRST_DB_URI":       dbURI,
				"PGRST_DB_SCHEMAS":   "public",
				"PGRST_DB_ANON_ROLE": "anon",
				"PGRST_JWT_SECRET":   cfg.jwtSecret,
			},
			Networks: []string{nw.Name},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort(postgrestPort),
				wait.ForHTTP("/").WithPort(postgrestPort),
			).WithStartupTimeout(cfg.startTimeout),
		},
		Started: true,
	})
	if err != nil {
		logs := containerLogs(ctx, stack.db)
		stack.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("create postgrest container: %w\npostgres logs:\n%s", err, logs)
	}

	host, err := stack.api.Host(ctx)
	if err != nil {
		stack.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}
	port, err := stack.api.MappedPort(ctx, postgrestPort)
	if err != nil {
		stack.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	target := &url.URL{Scheme: "http", Host: host + ":" + port.Port()}
	stack.gateway = httptest.NewServer(http.StripPrefix(restPrefix, httputil.NewSingleHostReverseProxy(target)))
	stack.URL = stack.gateway.URL

	stack.AnonKey, err = AnonKey(cfg.jwtSecret, time.Hour)
	if err != nil {
		stack.Terminate(ctx) //nolint:errcheck
		return nil, err
	}
	return stack, nil
}

// AnonKey mints a Supabase-style anon JWT signed with secret.
func AnonKey(secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":  "supabase",
		"role": "anon",
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign anon key: %w", err)
	}
	return signed, nil
}

// RawURL returns the PostgREST endpoint without the /rest/v1 gateway.
func (s *PostgRESTStack) RawURL(ctx context.Context) (string, error) {
	endpoint, err := s.api.PortEndpoint(ctx, postgrestPort, "http")
	if err != nil {
		return "", fmt.Errorf("postgrest endpoint: %w", err)
	}
	return endpoint, nil
}

// Terminate stops the gateway, both containers and the network.
func (s *PostgRESTStack) Terminate(ctx context.Context) error {
	if s.gateway != nil {
		s.gateway.Close()
	}
	terminate(ctx, s.api, s.db)
	if s.net != nil {
		if err := s.net.Remove(ctx); err != nil {
			return fmt.Errorf("remove network: %w", err)
		}
	}
	return nil
}
