/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/spf13/cobra"
	"github.com/tieubaoca/line-assistant-be/config"
	"github.com/tieubaoca/line-assistant-be/database"
	"github.com/tieubaoca/line-assistant-be/handler"
	"github.com/tieubaoca/line-assistant-be/middleware"
	"github.com/tieubaoca/line-assistant-be/repository"
	"github.com/tieubaoca/line-assistant-be/service"
	"github.com/tieubaoca/line-assistant-be/utils"
	"go.uber.org/zap"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the LINE assistant server",
	Long:  `Starts the webhook server that answers LINE messages from the knowledge base`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		logger, err := utils.InitLogger(os.Getenv("GIN_MODE") == "release")
		if err != nil {
			log.Fatalf("Failed to init logger: %v", err)
		}
		defer logger.Sync()

		mongoClient, err := database.NewMongoClient(cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to create MongoDB client: %v", err)
		}
		if err := mongoClient.Ping(context.Background(), nil); err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		mongoDb := mongoClient.Database("line_assistant")

		bot, err := linebot.New(cfg.Line.ChannelSecret, cfg.Line.ChannelToken)
		if err != nil {
			log.Fatalf("Failed to create LINE client: %v", err)
		}

		// init repo
		sessionRepo := repository.NewSessionRepo(mongoDb)

		// init services
		notionService := service.NewNotionService(cfg.Notion.APIKey)
		knowledgeService := service.NewKnowledgeService(notionService, cfg.Notion.PageIDs, cfg.Notion.CacheTTL)
		generateService := service.NewGenerateService(
			[]service.Provider{
				service.NewGeminiProvider(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel),
				service.NewGroqProvider(cfg.AI.GroqBaseURL, cfg.AI.GroqAPIKey, cfg.AI.GroqModel),
			},
			cfg.AI.Temperature,
			cfg.AI.Timeout,
			cfg.AI.ReplyLanguage,
		)
		sessionService := service.NewSessionService(sessionRepo)
		agentHub := service.NewAgentHub()
		dispatchService := service.NewDispatchService(sessionService, knowledgeService, generateService, agentHub)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		webhookHandler := handler.NewWebhookHandler(bot, dispatchService)
		adminHandler := handler.NewAdminHandler(sessionService, knowledgeService, generateService)
		loginHandler := handler.NewLoginHandler(cfg.Admin)

		// Setup Gin router
		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		router.POST("/webhook/line", webhookHandler.HandleWebhook)

		adminRoutes := router.Group("/admin/api/v1")
		adminRoutes.POST("/login", loginHandler.HandleLogin)

		protected := adminRoutes.Group("/")
		protected.Use(middleware.AdminAuthMiddleware)
		{
			protected.GET("/sessions/human", adminHandler.HandleListHumanSessions)
			protected.POST("/sessions/toggle", adminHandler.HandleToggleSession)
			protected.POST("/knowledge/refresh", adminHandler.HandleRefreshKnowledge)
			protected.GET("/knowledge", adminHandler.HandleKnowledgePreview)
			protected.POST("/test-bot", adminHandler.HandleTestBot)
			protected.GET("/agent/ws", func(c *gin.Context) {
				agentHub.HandleAgentFeed(c.Writer, c.Request)
			})
		}

		zap.L().Info("starting server", zap.String("port", cfg.Port))
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
	startServerCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
}
