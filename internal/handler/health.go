package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/elegantjewellery/jewellery-api/internal/dto"
)

type HealthHandler struct {
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	amqpConn    *amqp.Connection
}

// ReadinessReport lists the state of each backing dependency.
type ReadinessReport struct {
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
	RabbitMQ string `json:"rabbitmq"`
}

func NewHealthHandler(dbPool *pgxpool.Pool, redisClient *redis.Client, amqpConn *amqp.Connection) *HealthHandler {
	return &HealthHandler{dbPool: dbPool, redisClient: redisClient, amqpConn: amqpConn}
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, dto.SuccessResponse(nil, "ok"))
}

func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.dbPool.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse("Service not ready", "postgres unavailable"))
		return
	}
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse("Service not ready", "redis unavailable"))
		return
	}
	if h.amqpConn.IsClosed() {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse("Service not ready", "rabbitmq unavailable"))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(ReadinessReport{
		Postgres: "connected",
		Redis:    "connected",
		RabbitMQ: "connected",
	}, ""))
}
