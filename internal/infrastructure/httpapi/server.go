package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/felixgeelhaar/expenseflow/internal/application"
)

// Server is the HTTP surface over the approval workflow. It is a thin
// collaborator: every rule lives in the services it delegates to.
type Server struct {
	engine    *gin.Engine
	expenses  *application.ExpenseService
	decisions *application.DecisionService
	log       *zap.Logger
}

func NewServer(expenses *application.ExpenseService, decisions *application.DecisionService, log *zap.Logger) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(log))

	s := &Server{
		engine:    engine,
		expenses:  expenses,
		decisions: decisions,
		log:       log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.handleHealth)

	s.engine.POST("/expenses", s.handleSubmit)
	s.engine.GET("/expenses", s.handleList)
	s.engine.GET("/expenses/:id", s.handleGet)
	s.engine.GET("/expenses/:id/history", s.handleHistory)
	s.engine.GET("/expenses/:id/eligibility", s.handleEligibility)
	s.engine.POST("/expenses/:id/decision", s.handleDecide)
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Info("listening", zap.String("addr", addr))
	return s.engine.Run(addr)
}
