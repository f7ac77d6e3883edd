package http

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"cardpay-go/internal/analytics"
	"cardpay-go/internal/ledger"
	"cardpay-go/internal/models"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	DeviceID string `json:"device_id"`
}

// POST /v1/auth/login
func (s *Server) login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": "invalid_request"})
		return
	}

	if input.Username != s.cfg.DemoUsername ||
		bcrypt.CompareHashAndPassword(s.passwordHash, []byte(input.Password)) != nil {
		s.analytics.Log(analytics.LoginFailed, map[string]interface{}{
			"username": input.Username,
		})
		c.JSON(401, gin.H{"error": "invalid_credentials"})
		return
	}

	token := "mock_token_" + s.demoUserID + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	s.mu.Lock()
	s.sessions[token] = s.demoUserID
	s.mu.Unlock()

	s.analytics.Log(analytics.LoginSuccess, map[string]interface{}{
		"username":  input.Username,
		"device_id": input.DeviceID,
	})
	c.JSON(200, gin.H{
		"token": token,
		"user": gin.H{
			"id":       s.demoUserID,
			"username": input.Username,
		},
	})
}

// GET /v1/cards
func (s *Server) listCards(c *gin.Context) {
	c.JSON(200, gin.H{"cards": s.engine.ListCards()})
}

// GET /v1/cards/:id
func (s *Server) getCard(c *gin.Context) {
	card, err := s.engine.GetCard(c.Param("id"))
	if err != nil {
		c.JSON(404, gin.H{"error": "card_not_found"})
		return
	}
	s.analytics.Log(analytics.CardSelected, map[string]interface{}{
		"card_bank": card.Bank,
	})
	c.JSON(200, card)
}

type paymentRequest struct {
	CardID    string  `json:"card_id" binding:"required"`
	Amount    float64 `json:"amount"`
	UPIMethod string  `json:"upi_method" binding:"required"`
	UPIID     string  `json:"upi_id"`
}

// POST /v1/payments
func (s *Server) createPayment(c *gin.Context) {
	var input paymentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": "invalid_request"})
		return
	}

	rec, err := s.engine.ApplyPayment(c.Request.Context(), ledger.PaymentRequest{
		CardID:    input.CardID,
		Amount:    input.Amount,
		UPIMethod: models.UPIMethod(input.UPIMethod),
		UPIID:     input.UPIID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrCardNotFound):
			c.JSON(404, gin.H{"error": "card_not_found"})
		case errors.Is(err, ledger.ErrInvalidAmount),
			errors.Is(err, ledger.ErrInvalidUPIMethod),
			errors.Is(err, ledger.ErrInvalidUPIID):
			c.JSON(400, gin.H{"error": err.Error()})
		case errors.Is(err, ledger.ErrAmountExceedsDue):
			c.JSON(422, gin.H{"error": "amount_exceeds_due"})
		case errors.Is(err, ledger.ErrGateway):
			c.JSON(502, gin.H{"error": "gateway_error"})
		case errors.Is(err, ledger.ErrPersistence):
			// The payment was applied; only the durable write failed.
			c.JSON(500, gin.H{"error": "persistence_failed", "payment": rec})
		default:
			c.JSON(500, gin.H{"error": "internal_error"})
		}
		return
	}

	c.JSON(201, rec)
}

// GET /v1/payments/history
func (s *Server) paymentHistory(c *gin.Context) {
	c.JSON(200, gin.H{"payments": s.engine.History()})
}

// GET /v1/dashboard
func (s *Server) dashboard(c *gin.Context) {
	c.JSON(200, s.engine.Stats())
}
