package router

import (
	"database/sql"
	"net/http"
	"os"

	"soul-portrait/internal/adapters/assistant/openaiassist"
	"soul-portrait/internal/adapters/images/openaiimages"
	mem "soul-portrait/internal/adapters/storage/memory"
	pg "soul-portrait/internal/adapters/storage/postgres"
	lite "soul-portrait/internal/adapters/storage/sqlite"
	"soul-portrait/internal/domain/generation"
	"soul-portrait/internal/domain/portraits"
	"soul-portrait/internal/middleware"
	"soul-portrait/internal/platform/logger"
	"soul-portrait/internal/platform/metrics"
	"soul-portrait/internal/ports/assistant"
	"soul-portrait/internal/ports/images"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Options struct {
	// Inyectables para tests; los que vengan nil se arman desde env.
	Repo      portraits.Repository
	Assistant assistant.Runner
	Images    images.Generator
	Log       *zap.SugaredLogger

	// Config del loop de polling (zero value = defaults de producción).
	Generation generation.Config

	// Cuota diaria del endpoint de generación (0 = default del producto).
	DailyQuota int

	// Opcional: Postgres explícito. Si no, DB_DSN; si no, sqlite local.
	DB *sql.DB
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Registry propio por router: los tests arman varios sin chocar.
	reg := prometheus.NewRegistry()
	met := metrics.New(reg)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	repo := opts.Repo
	if repo == nil {
		repo = buildRepo(opts.DB, log)
	}

	runner := opts.Assistant
	if runner == nil {
		runner = openaiassist.NewClient(openaiassist.Config{
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			AssistantID: os.Getenv("OPENAI_ASSISTANT_ID"),
		})
	}

	gen := opts.Images
	if gen == nil {
		gen = openaiimages.NewClient(openaiimages.Config{
			APIKey: os.Getenv("OPENAI_API_KEY"),
		})
	}

	storeSvc := portraits.NewService(repo)
	orch := generation.NewOrchestrator(runner, opts.Generation, log)
	genSvc := generation.NewService(orch, gen, storeSvc, met, log)

	portraits.RegisterRoutes(r, storeSvc)

	quota := middleware.NewDailyQuota(opts.DailyQuota)
	r.Group(func(gr chi.Router) {
		gr.Use(quota.Middleware)
		generation.RegisterRoutes(gr, genSvc)
	})

	return r
}

// buildRepo elige el backend: Postgres si hay DSN, si no la base
// sqlite local (el medio durable por defecto), y memoria como último
// recurso para dev.
func buildRepo(db *sql.DB, log *zap.SugaredLogger) portraits.Repository {
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err != nil {
				log.Warnw("postgres unavailable, falling back", "err", err)
			} else {
				db = opened
			}
		}
	}
	if db != nil {
		return pg.NewPortraitsRepo(db)
	}

	path := os.Getenv("SQLITE_PATH")
	if path == "" {
		path = "portraits.db"
	}
	local, err := lite.Open(path)
	if err != nil {
		log.Warnw("sqlite unavailable, using in-memory store", "path", path, "err", err)
		return mem.NewPortraitsRepo()
	}
	return lite.NewPortraitsRepo(local)
}
