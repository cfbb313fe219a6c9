// Package server orchestrates all components: NATS client, DB, call registry, facade, dispatcher, HTTP health.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	comms "github.com/nats-io/nats.go"

	"github.com/XBIZART/telecom-service/internal/config"
	"github.com/XBIZART/telecom-service/pkg/accounts"
	"github.com/XBIZART/telecom-service/pkg/bootstrap"
	"github.com/XBIZART/telecom-service/pkg/calls"
	"github.com/XBIZART/telecom-service/pkg/commsutil"
	"github.com/XBIZART/telecom-service/pkg/db"
	"github.com/XBIZART/telecom-service/pkg/dispatcher"
	"github.com/XBIZART/telecom-service/pkg/events"
	"github.com/XBIZART/telecom-service/pkg/missedcalls"
	"github.com/XBIZART/telecom-service/pkg/platform"
	"github.com/XBIZART/telecom-service/pkg/telecom"
)

const logPrefix = "server:server"

// Server is the telecom-service orchestrator.
type Server struct {
	cfg        *config.Config
	nc         *comms.Conn
	pool       *pgxpool.Pool
	httpServer *http.Server
	facade     *telecom.Facade
	registrar  *accounts.Registrar
	tracker    *missedcalls.Tracker

	serviceName    string
	serviceVersion string
}

// Run starts the server, blocks until shutdown signal, then cleans up.
func Run() error {
	// Setup structured logging
	var logLevel slog.Level
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("%s - failed to load config: %w", logPrefix, err)
	}
	if err := cfg.ValidateForServe(); err != nil {
		return err
	}

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info(fmt.Sprintf("%s - Starting telecom-service", logPrefix))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &Server{cfg: cfg}

	// Step 1: Load bootstrap config
	bootstrapCfg, err := bootstrap.LoadBootstrapConfig(cfg.BootstrapFile)
	if err != nil {
		return fmt.Errorf("%s - failed to load bootstrap config: %w", logPrefix, err)
	}
	resolved := bootstrap.CreateResolvedBootstrap(bootstrapCfg)
	s.serviceName = resolved.Name()
	s.serviceVersion = resolved.Version()

	// Determine service subject
	serviceSubject := cfg.ServiceSubject
	if serviceSubject == "" {
		serviceSubject = resolved.ServiceSubject()
	}
	if serviceSubject == "" {
		serviceSubject = commsutil.SubjectTelecomService
	}
	slog.Info(fmt.Sprintf("%s - Telecom subject: %s", logPrefix, serviceSubject))

	// Step 2: Build platform oracles from bootstrap
	permissions := platform.NewPermissionTable(platform.NewPermissionTableParams{
		Grants: resolved.Grants(),
		UIDs:   resolved.UIDs(),
	})
	features := platform.NewFeatureSet(resolved.Features())
	defaults := platform.NewDefaultApps(resolved.DefaultDialer())

	// Step 3: Connect to NATS
	nc, err := commsutil.Connect(cfg.COMMSURL, cfg.COMMSName)
	if err != nil {
		return fmt.Errorf("%s - failed to connect to NATS: %w", logPrefix, err)
	}
	s.nc = nc
	slog.Info(fmt.Sprintf("%s - Connected to NATS at %s", logPrefix, cfg.COMMSURL))

	// Step 4: Connect to database (unless memory-only)
	var repo *db.Repository
	if cfg.MemoryOnly {
		slog.Info(fmt.Sprintf("%s - Memory-only mode, skipping database", logPrefix))
	} else {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			nc.Close()
			return fmt.Errorf("%s - failed to connect to database: %w", logPrefix, err)
		}
		s.pool = pool

		// Step 4b: Run migrations if enabled
		if cfg.RunMigrations {
			migrationSQL, err := db.LoadMigrationFiles(cfg.MigrationPath)
			if err != nil {
				pool.Close()
				nc.Close()
				return fmt.Errorf("%s - failed to load migrations: %w", logPrefix, err)
			}
			if err := db.RunMigrations(ctx, pool, migrationSQL); err != nil {
				pool.Close()
				nc.Close()
				return fmt.Errorf("%s - failed to run migrations: %w", logPrefix, err)
			}
			if err := db.SeedBootstrap(ctx, pool, cfg.BootstrapFile); err != nil {
				pool.Close()
				nc.Close()
				return fmt.Errorf("%s - failed to seed bootstrap accounts: %w", logPrefix, err)
			}
		}
		repo = db.NewRepository(pool)
	}

	// Step 5: Create event publisher
	publisherOpts := &events.CommsPublisherOpts{}
	if cfg.ChangeEventSubject != "" {
		publisherOpts.GlobalChangeSubject = cfg.ChangeEventSubject
	} else if subj := resolved.GlobalChangeSubject(); subj != "" {
		publisherOpts.GlobalChangeSubject = subj
	}
	publisher := events.NewCommsPublisher(nc, publisherOpts)

	// Step 6: Create backends: registrar, missed-call tracker, call registry
	registrarParams := accounts.NewRegistrarParams{}
	trackerParams := missedcalls.NewTrackerParams{Publisher: publisher}
	if repo != nil {
		registrarParams.Store = repo
		trackerParams.Store = repo
	}
	registrar := accounts.NewRegistrar(registrarParams)
	if err := registrar.Hydrate(ctx); err != nil {
		s.closeBackends()
		return fmt.Errorf("%s - failed to hydrate accounts: %w", logPrefix, err)
	}
	s.registrar = registrar

	tracker := missedcalls.NewTracker(trackerParams)
	if err := tracker.Hydrate(ctx); err != nil {
		s.closeBackends()
		return fmt.Errorf("%s - failed to hydrate missed calls: %w", logPrefix, err)
	}
	s.tracker = tracker

	// Memory-only mode has no seeded rows to hydrate; register the
	// bootstrap accounts directly.
	if cfg.MemoryOnly {
		for _, acct := range resolved.Accounts() {
			if _, err := registrar.Register(ctx, acct); err != nil {
				slog.Warn(fmt.Sprintf("%s - bootstrap account %s: %v", logPrefix, acct.Handle, err))
			}
		}
	}

	manager := calls.NewManager(calls.NewManagerParams{
		TTYSupported: cfg.TTYSupported,
		TTYMode:      calls.TTYMode(cfg.TTYMode),
		MissedSink:   tracker,
	})

	// Step 7: Create facade (permission gate + request bridge)
	facade, err := telecom.NewFacade(telecom.NewFacadeParams{
		Calls:       manager,
		Accounts:    registrar,
		Missed:      tracker,
		Permissions: permissions,
		Features:    features,
		DefaultApps: defaults,
		Publisher:   publisher,
		Config:      telecom.Config{QueueSize: cfg.QueueSize},
	})
	if err != nil {
		s.closeBackends()
		return fmt.Errorf("%s - failed to create facade: %w", logPrefix, err)
	}
	s.facade = facade

	// Step 8: Create dispatcher and subscribe
	disp := dispatcher.NewDispatcher(facade)

	requestTimeout := cfg.RequestTimeout
	sub, err := nc.Subscribe(serviceSubject, func(msg *comms.Msg) {
		var req dispatcher.TelecomRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			slog.Error(fmt.Sprintf("%s - failed to decode request: %v", logPrefix, err))
			resp := &dispatcher.TelecomResponse{
				Ok: false,
				Error: &dispatcher.ErrorDetail{
					Code:    "INVALID_INPUT",
					Message: "Failed to decode request",
				},
			}
			data, _ := json.Marshal(resp)
			msg.Respond(data)
			return
		}

		// Per-request timeout; a client deadline can only shorten it.
		timeout := requestTimeout
		if req.Ctx != nil {
			ms := req.Ctx.DeadlineMs
			if ms <= 0 {
				ms = req.Ctx.TimeoutMs
			}
			if d := time.Duration(ms) * time.Millisecond; ms > 0 && d < timeout {
				timeout = d
			}
		}
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		// Dispatch
		resp := disp.Dispatch(reqCtx, &req)

		// Respond
		data, err := json.Marshal(resp)
		if err != nil {
			slog.Error(fmt.Sprintf("%s - failed to encode response: %v", logPrefix, err))
			return
		}
		msg.Respond(data)
	})
	if err != nil {
		facade.Close()
		s.closeBackends()
		return fmt.Errorf("%s - failed to subscribe to %s: %w", logPrefix, serviceSubject, err)
	}
	slog.Info(fmt.Sprintf("%s - Subscribed to %s", logPrefix, serviceSubject))

	// Step 8b: Subscribe to static bootstrap subject (returns bootstrap.json
	// content, enriched with the subject actually being served).
	bootstrapSub, err := nc.Subscribe(commsutil.SubjectBootstrap, func(msg *comms.Msg) {
		if bootstrapCfg.ServiceSubject == "" {
			bootstrapCfg.ServiceSubject = serviceSubject
		}
		data, err := json.Marshal(bootstrapCfg)
		if err != nil {
			slog.Error(fmt.Sprintf("%s - bootstrap response encode: %v", logPrefix, err))
			return
		}
		msg.Respond(data)
	})
	if err != nil {
		sub.Unsubscribe()
		facade.Close()
		s.closeBackends()
		return fmt.Errorf("%s - failed to subscribe to %s: %w", logPrefix, commsutil.SubjectBootstrap, err)
	}
	defer bootstrapSub.Unsubscribe()
	slog.Info(fmt.Sprintf("%s - Subscribed to %s", logPrefix, commsutil.SubjectBootstrap))

	// Step 9: Start HTTP health server
	healthTimeout := cfg.HealthCheckTimeout
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome())
	mux.HandleFunc("/account/", s.handleAccountDetail())
	mux.HandleFunc("/openapi.json", s.handleOpenAPI())
	mux.HandleFunc("/docs", s.handleDocs())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		healthCtx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		h := facade.Health(healthCtx)
		w.Header().Set("Content-Type", "application/json")
		if h.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(h)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})
	mux.HandleFunc("/connection", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", "GET")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		natsURL := cfg.NATSClientURL
		if natsURL == "" {
			natsURL = cfg.COMMSURL
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"natsUrl": natsURL})
	})

	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	s.httpServer = &http.Server{Addr: httpAddr, Handler: mux}
	go func() {
		slog.Info(fmt.Sprintf("%s - HTTP health server listening on %s", logPrefix, httpAddr))
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error(fmt.Sprintf("%s - HTTP server error: %v", logPrefix, err))
		}
	}()

	slog.Info(fmt.Sprintf("%s - Telecom-service is ready", logPrefix))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info(fmt.Sprintf("%s - Received signal %s, shutting down", logPrefix, sig))

	// Graceful shutdown: stop intake, drain the bridge, then the transports.
	sub.Unsubscribe()
	s.httpServer.Shutdown(ctx)
	if err := facade.CloseWithTimeout(cfg.ShutdownTimeout); err != nil {
		slog.Warn(fmt.Sprintf("%s - bridge drain: %v", logPrefix, err))
	}
	nc.Drain()
	if s.pool != nil {
		s.pool.Close()
	}

	slog.Info(fmt.Sprintf("%s - Shutdown complete", logPrefix))
	return nil
}

// closeBackends releases the NATS connection and pool during failed startup.
func (s *Server) closeBackends() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.nc != nil {
		s.nc.Close()
	}
}

// capabilityNames renders an account capability mask for the HTML pages.
func capabilityNames(mask uint32) string {
	var names []string
	if mask&accounts.CapabilityConnectionManager != 0 {
		names = append(names, "connectionManager")
	}
	if mask&accounts.CapabilityCallProvider != 0 {
		names = append(names, "callProvider")
	}
	if mask&accounts.CapabilitySimSubscription != 0 {
		names = append(names, "simSubscription")
	}
	if mask&accounts.CapabilityAlwaysEnabled != 0 {
		names = append(names, "alwaysEnabled")
	}
	if mask&accounts.CapabilityVideoCalling != 0 {
		names = append(names, "videoCalling")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// homePageTemplate is the HTML for the telecom home page (white bg, black/blue text).
const homePageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Telecom Service</title>
  <style>
    * { box-sizing: border-box; }
    body { background: #fff; color: #000; font-family: system-ui, sans-serif; margin: 0; padding: 2rem; line-height: 1.5; }
    a { color: #0066cc; }
    h1, h2, h3 { color: #0066cc; }
    .status-healthy { color: #0066cc; font-weight: bold; }
    .status-unhealthy { color: #cc0000; font-weight: bold; }
    table { border-collapse: collapse; width: 100%; max-width: 900px; margin-top: 0.5rem; }
    th, td { text-align: left; padding: 0.5rem 0.75rem; border: 1px solid #ccc; }
    th { background: #f0f4f8; color: #0066cc; }
    .stat { font-weight: bold; color: #0066cc; }
    .meta { color: #333; font-size: 0.9rem; margin-top: 1rem; }
    section { margin-bottom: 2rem; }
    .error { color: #cc0000; }
  </style>
</head>
<body>
  <h1>Telecom Service</h1>
  <p class="meta">Service health, statistics, and registered phone accounts. <a href="/docs">API docs</a></p>

  <section>
    <h2>Health</h2>
    <p>Status: <span class="status-{{.Health.Status}}">{{.Health.Status}}</span></p>
    <p>Bridge: {{if .Health.Checks.Bridge}}<span class="stat">OK</span>{{else}}<span class="error">Closed</span>{{end}}</p>
    <p>Accounts: {{if .Health.Checks.Accounts}}<span class="stat">OK</span>{{else}}<span class="error">Missing</span>{{end}}</p>
    <p>Calls: {{if .Health.Checks.Calls}}<span class="stat">OK</span>{{else}}<span class="error">Missing</span>{{end}}</p>
    <p>Timestamp: {{.Health.Timestamp}}</p>
  </section>

  <section>
    <h2>Statistics</h2>
    <p>Call state: <span class="stat">{{.CallState}}</span></p>
    <p>Registered accounts: <span class="stat">{{.Health.Accounts}}</span></p>
    <p>Missed calls pending: <span class="stat">{{.MissedCalls}}</span></p>
  </section>

  <section>
    <h2>Phone accounts</h2>
    {{if not .Accounts}}
    <p>No phone accounts registered.</p>
    {{else}}
    <table>
      <thead>
        <tr><th>Account</th><th>Label</th><th>Address</th><th>Capabilities</th><th>Schemes</th><th>Enabled</th></tr>
      </thead>
      <tbody>
        {{range .Accounts}}
        <tr>
          <td><a href="/account/{{.Handle.ComponentName}}:{{.Handle.ID}}">{{.Handle.ComponentName}}:{{.Handle.ID}}</a></td>
          <td>{{.Label}}</td>
          <td>{{.Address}}</td>
          <td>{{caps .Capabilities}}</td>
          <td>{{range .Schemes}}{{.}} {{end}}</td>
          <td>{{if .Enabled}}yes{{else}}no{{end}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
    {{end}}
  </section>
</body>
</html>
`

// accountDetailPageTemplate is the HTML for a single phone account detail page.
const accountDetailPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Account.Handle.ID}} – Telecom Service</title>
  <style>
    * { box-sizing: border-box; }
    body { background: #fff; color: #000; font-family: system-ui, sans-serif; margin: 0; padding: 2rem; line-height: 1.5; }
    a { color: #0066cc; }
    h1, h2, h3 { color: #0066cc; }
    table { border-collapse: collapse; width: 100%; max-width: 900px; margin-top: 0.5rem; }
    th, td { text-align: left; padding: 0.5rem 0.75rem; border: 1px solid #ccc; vertical-align: top; }
    th { background: #f0f4f8; color: #0066cc; width: 160px; }
    .meta { color: #333; font-size: 0.9rem; margin-top: 0.5rem; }
    section { margin-bottom: 2rem; }
    pre { background: #f5f5f5; padding: 0.75rem; overflow-x: auto; font-size: 0.85rem; margin: 0.25rem 0; border: 1px solid #eee; }
    .back { margin-bottom: 1rem; }
  </style>
</head>
<body>
  <p class="back"><a href="/">← Back to telecom service</a></p>
  <h1>{{.Account.Handle.ComponentName}}:{{.Account.Handle.ID}}</h1>
  {{if .Account.Description}}<p class="meta">{{.Account.Description}}</p>{{end}}

  <section>
    <h2>Details</h2>
    <table>
      <tr><th>Component</th><td>{{.Account.Handle.ComponentName}}</td></tr>
      <tr><th>ID</th><td>{{.Account.Handle.ID}}</td></tr>
      <tr><th>Label</th><td>{{.Account.Label}}</td></tr>
      <tr><th>Address</th><td>{{.Account.Address}}</td></tr>
      <tr><th>Capabilities</th><td>{{caps .Account.Capabilities}}</td></tr>
      <tr><th>Schemes</th><td>{{range .Account.Schemes}}{{.}} {{end}}</td></tr>
      <tr><th>Enabled</th><td>{{if .Account.Enabled}}yes{{else}}no{{end}}</td></tr>
      {{if .Account.VoicemailNumber}}<tr><th>Voicemail</th><td>{{.Account.VoicemailNumber}}</td></tr>{{end}}
      {{if .Account.LineNumber}}<tr><th>Line</th><td>{{.Account.LineNumber}}</td></tr>{{end}}
    </table>
  </section>

  <section>
    <h2>Raw</h2>
    <pre>{{json .Account}}</pre>
  </section>
</body>
</html>
`

// homeData is the data passed to the home page template.
type homeData struct {
	Health      *telecom.HealthOutput
	CallState   string
	MissedCalls int
	Accounts    []accounts.Account
}

// handleHome returns an HTTP handler for the telecom home page.
func (s *Server) handleHome() http.HandlerFunc {
	tmpl := template.Must(template.New("home").Funcs(template.FuncMap{
		"caps": capabilityNames,
	}).Parse(homePageTemplate))
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), s.cfg.HealthCheckTimeout)
		defer cancel()

		health := s.facade.Health(ctx)
		data := homeData{
			Health:      health,
			CallState:   calls.AggregateState(health.CallState).String(),
			MissedCalls: s.tracker.Count(),
			Accounts:    s.registrar.All(),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			slog.Error(fmt.Sprintf("%s - home template execute: %v", logPrefix, err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}

// accountDetailData is the data passed to the account detail page template.
type accountDetailData struct {
	Account accounts.Account
}

// handleAccountDetail returns an HTTP handler for the phone account detail
// page. The path carries the handle as component:id; component names
// contain slashes, so everything up to the last colon is the component.
func (s *Server) handleAccountDetail() http.HandlerFunc {
	tmpl := template.Must(template.New("accountDetail").Funcs(template.FuncMap{
		"caps": capabilityNames,
		"json": func(v interface{}) string {
			if v == nil {
				return ""
			}
			b, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return fmt.Sprintf("%v", v)
			}
			return string(b)
		},
	}).Parse(accountDetailPageTemplate))
	return func(w http.ResponseWriter, r *http.Request) {
		ref := strings.TrimPrefix(r.URL.Path, "/account/")
		if ref == "" {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		if unescaped, err := url.PathUnescape(ref); err == nil {
			ref = unescaped
		}
		idx := strings.LastIndex(ref, ":")
		if idx < 0 {
			http.NotFound(w, r)
			return
		}
		handle := accounts.Handle{ComponentName: ref[:idx], ID: ref[idx+1:]}

		acct, ok := s.registrar.Get(handle)
		if !ok {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, accountDetailData{Account: acct}); err != nil {
			slog.Error(fmt.Sprintf("%s - account detail template execute: %v", logPrefix, err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}

// openAPI3 types for generating the service spec from the wire methods.
type openAPI3Spec struct {
	OpenAPI string                      `json:"openapi"`
	Info    openAPI3Info                `json:"info"`
	Paths   map[string]openAPI3PathItem `json:"paths"`
}

type openAPI3Info struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
}

type openAPI3PathItem struct {
	Post *openAPI3Operation `json:"post,omitempty"`
}

type openAPI3Operation struct {
	Summary     string                      `json:"summary"`
	OperationID string                      `json:"operationId"`
	RequestBody *openAPI3RequestBody        `json:"requestBody,omitempty"`
	Responses   map[string]openAPI3Response `json:"responses"`
}

type openAPI3RequestBody struct {
	Content map[string]openAPI3MediaType `json:"content"`
}

type openAPI3Response struct {
	Description string                       `json:"description"`
	Content     map[string]openAPI3MediaType `json:"content,omitempty"`
}

type openAPI3MediaType struct {
	Schema map[string]interface{} `json:"schema,omitempty"`
}

// requestEnvelopeSchema describes the request envelope carried over NATS.
var requestEnvelopeSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"id":     map[string]interface{}{"type": "string"},
		"method": map[string]interface{}{"type": "string"},
		"params": map[string]interface{}{"type": "object"},
		"ctx": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"package":   map[string]interface{}{"type": "string"},
				"uid":       map[string]interface{}{"type": "integer"},
				"pid":       map[string]interface{}{"type": "integer"},
				"requestId": map[string]interface{}{"type": "string"},
			},
		},
	},
	"required": []string{"method"},
}

// responseEnvelopeSchema describes the response envelope.
var responseEnvelopeSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"id":     map[string]interface{}{"type": "string"},
		"ok":     map[string]interface{}{"type": "boolean"},
		"result": map[string]interface{}{"type": "object"},
		"error": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"code":      map[string]interface{}{"type": "string"},
				"message":   map[string]interface{}{"type": "string"},
				"retryable": map[string]interface{}{"type": "boolean"},
			},
		},
	},
}

// buildOpenAPISpec builds an OpenAPI 3.0 spec from the wire method list
// (one path per method). The transport is NATS request/reply, but the spec
// documents the same envelopes for HTTP-minded readers.
func buildOpenAPISpec(title, version string, methods []string) *openAPI3Spec {
	paths := make(map[string]openAPI3PathItem)
	for _, m := range methods {
		paths["/"+m] = openAPI3PathItem{
			Post: &openAPI3Operation{
				Summary:     m,
				OperationID: m,
				RequestBody: &openAPI3RequestBody{
					Content: map[string]openAPI3MediaType{
						"application/json": {Schema: requestEnvelopeSchema},
					},
				},
				Responses: map[string]openAPI3Response{
					"200": {
						Description: "Success",
						Content: map[string]openAPI3MediaType{
							"application/json": {Schema: responseEnvelopeSchema},
						},
					},
				},
			},
		}
	}
	return &openAPI3Spec{
		OpenAPI: "3.0.0",
		Info: openAPI3Info{
			Title:       title,
			Description: "Telecom service wire methods (NATS request/reply envelopes)",
			Version:     version,
		},
		Paths: paths,
	}
}

// handleOpenAPI returns an HTTP handler that serves the service OpenAPI spec.
func (s *Server) handleOpenAPI() http.HandlerFunc {
	title := s.serviceName
	if title == "" {
		title = "telecom-service"
	}
	version := s.serviceVersion
	if version == "" {
		version = "0.0.0"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		spec := buildOpenAPISpec(title, version, dispatcher.WireMethods())
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=60")
		if err := json.NewEncoder(w).Encode(spec); err != nil {
			slog.Error(fmt.Sprintf("%s - openapi json encode: %v", logPrefix, err))
		}
	}
}

// swaggerUIPage is the HTML that embeds Swagger UI from CDN and loads the OpenAPI spec.
const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>API – {{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      SwaggerUIBundle({
        url: "{{.SpecURL}}",
        dom_id: "#swagger-ui",
        presets: [
          SwaggerUIBundle.presets.apis,
          SwaggerUIBundle.SwaggerUIStandalonePreset
        ]
      });
    };
  </script>
</body>
</html>
`

// handleDocs returns an HTTP handler for the Swagger UI page.
func (s *Server) handleDocs() http.HandlerFunc {
	tmpl := template.Must(template.New("swagger").Parse(swaggerUIPage))
	title := s.serviceName
	if title == "" {
		title = "telecom-service"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		// Build absolute spec URL from request host so Swagger UI can fetch it
		specURL := "https://" + r.Host + "/openapi.json"
		if r.TLS == nil {
			specURL = "http://" + r.Host + "/openapi.json"
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		tmpl.Execute(w, map[string]string{"Title": title, "SpecURL": specURL})
	}
}
