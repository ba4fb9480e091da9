package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Global reference cache instance
var referenceCache *ReferenceCache

func main() {
	// Load configuration
	LoadConfig()

	// Initialize reference cache
	referenceCache = NewReferenceCache(ReferenceCacheTTL)

	router := NewRouter()

	// Start server
	log.Println("Starting clinical board backend on port 8001...")
	if err := router.Run(":8001"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// NewRouter builds the Gin router with middleware and all routes
func NewRouter() *gin.Engine {
	router := gin.Default()

	// Request size limit middleware
	router.Use(func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxRequestBodySize)
		c.Next()
	})

	// CORS middleware with dynamic origin validation
	router.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			// In production, use environment-configured origins
			if len(CORSAllowedOrigins) > 0 && CORSAllowedOrigins[0] != "" {
				for _, allowedOrigin := range CORSAllowedOrigins {
					if origin == allowedOrigin {
						return true
					}
				}
				return false
			}
			// In development, allow any localhost/127.0.0.1 origin
			return len(origin) > 0 && (
				len(origin) >= 16 && origin[:16] == "http://localhost" ||
				len(origin) >= 14 && origin[:14] == "http://127.0.0")
		},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
	}))

	// Routes
	router.GET("/", healthCheck)
	router.GET("/health", healthCheck)
	router.GET("/api/agents", listAgentsHandler)
	router.POST("/api/team-discussion", teamDiscussionHandler)
	router.POST("/api/broker-query", brokerQueryHandler)
	router.POST("/api/follow-up", followUpHandler)
	router.POST("/api/fetch-reference", fetchReferenceHandler)

	return router
}

// healthCheck returns a simple health check response.
// GET / and GET /health - Returns service status information.
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "Clinical Board API",
	})
}

// listAgentsHandler lists the selectable specialist roster.
// GET /api/agents - Returns agent ids, names, specialties and tiers.
func listAgentsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"agents": SelectableAgents(),
	})
}

// teamDiscussionHandler runs a full board discussion and streams it via SSE.
// POST /api/team-discussion - Streams phase_change, agent_thinking,
// agent_message, conflict_detected, consensus_building, consensus_complete,
// lab_parsed and error events as the discussion progresses.
func teamDiscussionHandler(c *gin.Context) {
	var request TeamDiscussionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid request: %v", err),
		})
		return
	}

	if request.Case.ChiefComplaint == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "chiefComplaint is required",
		})
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ctx := c.Request.Context()

	emit := func(event TeamDiscussionEvent) bool {
		if ctx.Err() != nil {
			return false
		}
		return sendSSEEvent(c, event)
	}

	RunDiscussion(ctx, request, emit)
}

// brokerQueryHandler answers a knowledge query on the side channel.
// POST /api/broker-query - Synchronous JSON response; never touches a
// running discussion.
func brokerQueryHandler(c *gin.Context) {
	var request BrokerQueryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid request: %v", err),
		})
		return
	}

	if request.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "query is required",
		})
		return
	}

	response, err := AnswerBrokerQuery(c.Request.Context(), request)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Broker query failed: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// followUpHandler answers a follow-up question in a specialist's voice.
// POST /api/follow-up - Synchronous JSON response.
func followUpHandler(c *gin.Context) {
	var request FollowUpRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid request: %v", err),
		})
		return
	}

	if request.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "question is required",
		})
		return
	}

	response, err := AnswerFollowUp(c.Request.Context(), request)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Follow-up failed: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// fetchReferenceHandler fetches and extracts content from a reference URL
// POST /api/fetch-reference - Body: {"url": "https://..."}
// Results are cached by URL.
func fetchReferenceHandler(c *gin.Context) {
	var request struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid request: %v", err),
		})
		return
	}

	if cached, ok := referenceCache.Get(request.URL); ok {
		c.JSON(http.StatusOK, gin.H{"reference": cached, "cached": true})
		return
	}

	content, err := FetchReferenceContent(c.Request.Context(), request.URL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Failed to fetch reference: %v", err),
		})
		return
	}

	referenceCache.Set(request.URL, content)
	c.JSON(http.StatusOK, gin.H{"reference": content, "cached": false})
}

// sendSSEEvent writes one event as an SSE frame and flushes it.
// Reports whether the write reached the client.
func sendSSEEvent(c *gin.Context, event TeamDiscussionEvent) bool {
	jsonData, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal SSE event: %v", err)
		return true
	}
	if _, err := c.Writer.WriteString(fmt.Sprintf("data: %s\n\n", string(jsonData))); err != nil {
		return false
	}
	c.Writer.Flush()
	return true
}
