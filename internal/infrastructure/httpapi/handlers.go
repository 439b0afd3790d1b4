package httpapi

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/felixgeelhaar/expenseflow/internal/domain/approval"
	"github.com/felixgeelhaar/expenseflow/internal/domain/workflow"
)

// actorHeader carries the acting user. Authentication itself is out of
// scope; the service trusts the gateway in front of it.
const actorHeader = "X-User-ID"

var currencyPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
			return currencyPattern.MatchString(fl.Field().String())
		})
	}
}

type submitRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Currency    string `json:"currency" binding:"required,currencycode"`
	Description string `json:"description" binding:"required"`
}

type decisionRequest struct {
	Verdict string `json:"verdict" binding:"required"`
	Comment string `json:"comment"`
}

func actor(c *gin.Context) (string, bool) {
	id := c.GetHeader(actorHeader)
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing " + actorHeader + " header"})
		return "", false
	}
	return id, true
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSubmit(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exp, err := s.expenses.Submit(c.Request.Context(), actorID, req.AmountCents, req.Currency, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exp)
}

func (s *Server) handleList(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}

	if c.Query("pending") == "true" {
		expenses, err := s.expenses.ListPending(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"expenses": expenses})
		return
	}

	expenses, err := s.expenses.ListForSubmitter(c.Request.Context(), actorID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

func (s *Server) handleGet(c *gin.Context) {
	exp, err := s.expenses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, exp)
}

func (s *Server) handleHistory(c *gin.Context) {
	history, err := s.decisions.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"approvals": history})
}

func (s *Server) handleEligibility(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}

	eligible, err := s.decisions.CanApprove(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"can_approve": eligible})
}

func (s *Server) handleDecide(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	verdict, err := approval.ParseVerdict(req.Verdict)
	if err != nil {
		writeError(c, workflow.ErrInvalidDecision)
		return
	}

	exp, record, err := s.decisions.Decide(c.Request.Context(), c.Param("id"), actorID, verdict, req.Comment)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expense": exp, "approval": record})
}
