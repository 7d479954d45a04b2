package http

import (
	"OpsLink/internal/config"
	"OpsLink/internal/initial"
	jwtMiddleware "OpsLink/internal/middleware/jwt"
	agentService "OpsLink/internal/modules/agent/application/service"
	"OpsLink/internal/modules/agent/infrastructure/llm"
	agentPersistence "OpsLink/internal/modules/agent/infrastructure/persistence"
	agentHandler "OpsLink/internal/modules/agent/interface/http"
	collabService "OpsLink/internal/modules/collab/application/service"
	collabPersistence "OpsLink/internal/modules/collab/infrastructure/persistence"
	collabHandler "OpsLink/internal/modules/collab/interface/http"
	ragService "OpsLink/internal/modules/rag/application/service"
	ragSource "OpsLink/internal/modules/rag/domain/source"
	ragPersistence "OpsLink/internal/modules/rag/infrastructure/persistence"
	ragSourceImpl "OpsLink/internal/modules/rag/infrastructure/source"
	ragHandler "OpsLink/internal/modules/rag/interface/http"
	sopService "OpsLink/internal/modules/sop/application/service"
	sopPersistence "OpsLink/internal/modules/sop/infrastructure/persistence"
	sopHandler "OpsLink/internal/modules/sop/interface/http"
	"OpsLink/internal/modules/user/application/service"
	"OpsLink/internal/modules/user/infrastructure/persistence"
	userHandler "OpsLink/internal/modules/user/interface/http"
	"OpsLink/pkg/ssl"
	"OpsLink/pkg/ws"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var GE *gin.Engine

func init() {
	conf := config.GetConfig()

	GE = gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	GE.Use(cors.New(corsConfig))
	GE.Use(ssl.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))

	wsHub := ws.NewHub()
	resolver := llm.EnvResolver{}
	dispatcher := llm.NewDispatcher(conf.LLMConfig.TimeoutSeconds)

	// 仓储
	userRepo := persistence.NewUserInfoRepository(initial.GormDB)
	agentRepo := agentPersistence.NewAgentRepository(initial.GormDB)
	agentLogRepo := agentPersistence.NewAgentLogRepository(initial.GormDB)
	docRepo := ragPersistence.NewKnowledgeDocRepository(initial.GormDB)
	sopRepo := sopPersistence.NewSOPRepository(initial.GormDB)
	sessionRepo := collabPersistence.NewCollabSessionRepository(initial.GormDB)
	msgRepo := collabPersistence.NewCollabMessageRepository(initial.GormDB)

	// 检索源，顺序即枚举顺序
	sources := []ragSource.Source{
		ragSourceImpl.NewDocsSource(conf.RagConfig.Docs, resolver.Resolve),
		ragSourceImpl.NewWikiSource(conf.RagConfig.Wiki, resolver.Resolve),
		ragSourceImpl.NewInternalStore(initial.GormDB),
	}

	// 应用服务
	userSvc := service.NewUserInfoService(userRepo)
	interactionLogger := agentService.NewInteractionLogger(agentLogRepo, initial.KafkaPublisher, conf.KafkaConfig.InteractionTopic)
	routerSvc := agentService.NewRouterService(agentRepo, interactionLogger, dispatcher, nil, conf.LLMConfig, resolver)
	agentSvc := agentService.NewAgentService(agentRepo, agentLogRepo)
	searchSvc := ragService.NewSearchService(sources, agentRepo, dispatcher, conf.LLMConfig, resolver, conf.RagConfig)
	docSvc := ragService.NewDocumentService(docRepo)
	sopSvc := sopService.NewSOPService(sopRepo, agentRepo, searchSvc, dispatcher, conf.LLMConfig, resolver, conf.RagConfig)
	meetingSvc := collabService.NewMeetingService(sessionRepo, msgRepo, routerSvc, wsHub)

	// Handler
	userH := userHandler.NewUserInfoHandler(userSvc)
	agentH := agentHandler.NewAgentHandler(agentSvc, routerSvc)
	ragH := ragHandler.NewSearchHandler(searchSvc, docSvc)
	sopH := sopHandler.NewSOPHandler(sopSvc)
	collabH := collabHandler.NewCollabHandler(meetingSvc)
	wsH := collabHandler.NewWsHandler(wsHub)

	GE.POST("/login", userH.Login)
	GE.POST("/register", userH.Register)
	// wss不走中间件，token在URL参数里握手时校验
	GE.GET("/wss", wsH.Connect)

	authed := GE.Group("/")
	authed.Use(jwtMiddleware.Auth())
	authed.GET("/auth/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"uuid":     c.GetString("uuid"),
			"username": c.GetString("username"),
		})
	})

	authed.POST("/agent/routeTask", agentH.RouteTask)
	authed.POST("/agent/getAgentRoles", agentH.GetAgentRoles)
	authed.POST("/agent/createAgent", agentH.CreateAgent)
	authed.POST("/agent/updateAgent", agentH.UpdateAgent)
	authed.POST("/agent/getAgentList", agentH.GetAgentList)
	authed.POST("/agent/getAgentLogs", agentH.GetAgentLogs)

	authed.POST("/rag/search", ragH.Search)
	authed.POST("/rag/createDocument", ragH.CreateDocument)
	authed.POST("/rag/getDocumentList", ragH.GetDocumentList)
	authed.POST("/rag/deleteDocument", ragH.DeleteDocument)

	authed.POST("/sop/generate", sopH.Generate)
	authed.POST("/sop/publish", sopH.Publish)
	authed.POST("/sop/createVersion", sopH.CreateVersion)
	authed.POST("/sop/get", sopH.Get)
	authed.POST("/sop/list", sopH.List)
	authed.POST("/sop/delete", sopH.Delete)

	authed.POST("/collab/createSession", collabH.CreateSession)
	authed.POST("/collab/getSessionList", collabH.GetSessionList)
	authed.POST("/collab/startMeeting", collabH.StartMeeting)
	authed.POST("/collab/nextTurn", collabH.NextTurn)
	authed.POST("/collab/endMeeting", collabH.EndMeeting)
	authed.POST("/collab/getMessages", collabH.GetMessages)
}
