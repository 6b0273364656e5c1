package main

import (
	"context"
	"log"
	"net/http"
	"time"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/genai"

	"cliniq/config"
	"cliniq/controller"
	"cliniq/db"
	"cliniq/middleware"
	"cliniq/security"
	"cliniq/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	conn, err := db.Open(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("FATAL: Failed to connect to database: %v", err)
	}
	defer conn.Close()

	if err := db.InitSchema(ctx, conn); err != nil {
		log.Fatalf("FATAL: Failed to initialize schema: %v", err)
	}

	httpClient := &http.Client{
		Timeout: 60 * time.Second,
	}

	chromaClient, err := chromago.NewHTTPClient(chromago.WithBaseURL(cfg.Chroma.URL))
	if err != nil {
		log.Fatalf("FATAL: Failed to create chroma client: %v", err)
	}
	defer func() {
		if cerr := chromaClient.Close(); cerr != nil {
			log.Printf("Warning: Failed to close chroma client: %v", cerr)
		}
	}()

	collection, err := getOrCreateCollection(chromaClient, cfg.Chroma.Collection)
	if err != nil {
		log.Fatalf("FATAL: Failed to get or create collection: %v", err)
	}

	geminiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to create Gemini client: %v. Make sure GEMINI_API_KEY is set.", err)
	}
	log.Println("Successfully connected to Google Gemini.")

	// Assemble the pipeline explicitly: every collaborator is constructed
	// once here and injected, nothing is reached through globals.
	completer := services.NewGeminiCompleter(geminiClient)
	embedder := services.NewOllamaEmbedder(httpClient, cfg.Ollama.URL, cfg.Pipeline.EmbeddingModel)
	index := services.NewChromaIndex(collection)
	cohere := services.NewCohereClient(httpClient, "", cfg.Cohere.APIKey, cfg.Pipeline.RerankModel)

	registry := prometheus.NewRegistry()
	metrics := services.NewPipelineMetrics(registry)

	pipeline := services.NewPipeline(
		services.NewQueryExpander(completer, cfg.Pipeline.ExpansionModel, cfg.Pipeline.ExpansionTemp),
		services.NewCandidateRetriever(embedder, index, cfg.Pipeline.RetrievalK),
		services.NewReranker(cohere, cfg.Pipeline.RerankTopN),
		services.NewAnswerGenerator(completer, cfg.Pipeline.GeneratorModel, cfg.Pipeline.GeneratorTemp),
		metrics,
	)

	userRepo := db.NewUserRepository(conn)
	queryRepo := db.NewQueryRepository(conn)
	queryService := services.NewQueryService(pipeline, queryRepo)
	tokens := security.NewTokenManager(cfg.Auth.SecretKey, time.Duration(cfg.Auth.AccessTokenExpireMin)*time.Minute)

	authController := controller.NewAuthController(userRepo, tokens)
	chatController := controller.NewChatController(queryService)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "L'API CliniQ est prête !",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	auth := router.Group("/auth")
	{
		auth.POST("/signup", authController.Signup)
		auth.POST("/login", authController.Login)
	}

	chat := router.Group("/chat")
	chat.Use(middleware.RequireAuth(tokens, userRepo))
	{
		chat.POST("/query", chatController.PostQuery)
		chat.GET("/history", chatController.GetHistory)
	}

	log.Printf("CliniQ API starting on http://localhost:%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("FATAL: Failed to start server: %v", err)
	}
}

// getOrCreateCollection looks the protocol collection up, creating it on the
// first run.
func getOrCreateCollection(client chromago.Client, collectionName string) (chromago.Collection, error) {
	ctx := context.Background()

	log.Printf("Getting or creating collection '%s'...", collectionName)

	collection, err := client.GetOrCreateCollection(
		ctx,
		collectionName,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("description", "Medical protocol chunks"),
				chromago.NewStringAttribute("created_by", "cliniq"),
			),
		),
	)
	if err != nil {
		return nil, err
	}

	log.Printf("Successfully got/created collection '%s'", collectionName)
	return collection, nil
}
