// Package api wires the HTTP surface: routing, middleware and handler
// construction.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mkravchenko/legal-assistant-backend/internal/api/handlers"
	"github.com/mkravchenko/legal-assistant-backend/internal/api/middleware"
	"github.com/mkravchenko/legal-assistant-backend/internal/cache"
	"github.com/mkravchenko/legal-assistant-backend/internal/cases"
	"github.com/mkravchenko/legal-assistant-backend/internal/chats"
	"github.com/mkravchenko/legal-assistant-backend/internal/config"
	"github.com/mkravchenko/legal-assistant-backend/internal/document"
	"github.com/mkravchenko/legal-assistant-backend/internal/embedding"
	"github.com/mkravchenko/legal-assistant-backend/internal/llm"
	"github.com/mkravchenko/legal-assistant-backend/internal/messages"
	"github.com/mkravchenko/legal-assistant-backend/internal/queue"
	"github.com/mkravchenko/legal-assistant-backend/internal/rag"
	"github.com/mkravchenko/legal-assistant-backend/internal/storage"
	"github.com/mkravchenko/legal-assistant-backend/internal/vectorstore"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
	llmGW llm.Gateway
	queue *queue.Client
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, queueClient *queue.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		llmGW: llm.NewGateway(cfg.LLM),
		queue: queueClient,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	c := cache.New(rt.redis)
	store := storage.NewSupabaseStorage(rt.cfg.Storage.SupabaseURL, rt.cfg.Storage.ServiceKey, rt.cfg.Storage.Bucket)
	chunks := vectorstore.NewPgChunkStore(rt.db)
	embedSvc := embedding.NewService(rt.llmGW, rt.cfg.RAG.EmbeddingModel, rt.cfg.RAG.EmbeddingDims)
	indexer := rag.NewIndexer(chunks, embedSvc, rt.cfg.RAG.ChunkSize, rt.cfg.RAG.ChunkOverlap)

	var enqueuer document.IndexEnqueuer
	if rt.queue != nil {
		enqueuer = rt.queue
	}

	caseSvc := cases.NewService(rt.db)
	chatSvc := chats.NewService(rt.db)
	msgSvc := messages.NewService(rt.db)
	docSvc := document.NewService(rt.db, store, chunks, enqueuer, indexer, c)

	retriever := rag.NewRetriever(docSvc, chunks, rt.cfg.RAG.MaxContextChunks, c)
	generator := rag.NewGenerator(rt.llmGW, rt.cfg.LLM.ChatModel)
	responder := messages.NewResponder(msgSvc, retriever, generator, rt.cfg.RAG.SystemPrompt)

	caseH := handlers.NewCaseHandler(caseSvc)
	chatH := handlers.NewChatHandler(chatSvc)
	docH := handlers.NewDocumentHandler(docSvc)
	msgH := handlers.NewMessageHandler(msgSvc, chatSvc, responder)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cases", func(r chi.Router) {
			r.Get("/", caseH.List)
			r.Post("/", caseH.Create)
			r.Get("/{caseID}", caseH.Get)
			r.Patch("/{caseID}", caseH.Update)
			r.Delete("/{caseID}", caseH.Delete)

			r.Get("/{caseID}/chats", chatH.ListByCase)
			r.Post("/{caseID}/chats", chatH.Create)

			r.Get("/{caseID}/documents", docH.ListByCase)
			r.Post("/{caseID}/documents", docH.Upload)
		})

		r.Route("/chats/{chatID}", func(r chi.Router) {
			r.Get("/", chatH.Get)
			r.Delete("/", chatH.Delete)

			r.Get("/messages", msgH.List)
			r.Post("/messages", msgH.Create)
			r.Post("/messages/stream", msgH.Stream)
		})

		r.Route("/documents/{documentID}", func(r chi.Router) {
			r.Get("/", docH.Get)
			r.Delete("/", docH.Delete)
		})
	})

	return r
}
