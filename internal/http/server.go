package http

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"cardpay-go/internal/analytics"
	"cardpay-go/internal/config"
	"cardpay-go/internal/ledger"
)

type Server struct {
	cfg       *config.Config
	engine    *ledger.Engine
	analytics *analytics.Logger
	log       zerolog.Logger

	demoUserID   string
	passwordHash []byte

	mu       sync.Mutex
	sessions map[string]string // token -> user id
}

func NewServer(cfg *config.Config, engine *ledger.Engine, an *analytics.Logger, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors(cfg))
	r.Use(requestLog(log))

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}

	s := &Server{
		cfg:          cfg,
		engine:       engine,
		analytics:    an,
		log:          log,
		demoUserID:   uuid.NewString(),
		passwordHash: hash,
		sessions:     map[string]string{},
	}

	r.POST("/v1/auth/login", s.login)

	authorized := r.Group("/v1")
	authorized.Use(s.authMiddleware())
	{
		authorized.GET("/cards", s.listCards)
		authorized.GET("/cards/:id", s.getCard)
		authorized.POST("/payments", s.createPayment)
		authorized.GET("/payments/history", s.paymentHistory)
		authorized.GET("/dashboard", s.dashboard)
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	return r
}
