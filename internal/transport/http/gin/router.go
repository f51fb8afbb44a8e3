package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kirinyoku/reg-go/internal/domain"
	"github.com/kirinyoku/reg-go/internal/repository"
	redisrepo "github.com/kirinyoku/reg-go/internal/repository/redis"
	"github.com/kirinyoku/reg-go/internal/service"
	"github.com/kirinyoku/reg-go/internal/service/admin"
	"github.com/kirinyoku/reg-go/internal/service/query"
	"github.com/kirinyoku/reg-go/internal/service/registration"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health + metrics
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public API
	r.POST("/registrations", handleCreateRegistration(svcs, idem))
	r.GET("/registrations/:id", handleGetRegistration(svcs))
	r.GET("/registrations/reference/:ref", handleGetRegistrationByReference(svcs))
	r.POST("/registrations/:id/payment-proof", handleUploadPaymentProof(svcs))

	r.GET("/tickets/:code", handleGetTicket(svcs))
	r.GET("/tickets/:code/qr", handleTicketQR(svcs))

	r.GET("/ticket-types", handleListTicketTypes(svcs))

	// Admin-API
	// TODO: add admin middleware
	adm := r.Group("/admin")
	{
		adm.GET("/registrations", handleListRegistrations(svcs))
		adm.PATCH("/registrations/:id/status", handleUpdateStatus(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Create registration (idempotent)
// @Param    req body  CreateRegistrationRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} domain.RegistrationGraph
// @Failure  400 {object} ErrorResponse "validation failed"
// @Failure  409 {object} ErrorResponse "reference number taken / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /registrations [post]
func handleCreateRegistration(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRegistrationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemRegistration(idemKey)

			if payload, ok, _ := idem.GetResult(
				c.Request.Context(),
				idemStorageKey,
			); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(
					http.StatusCreated,
					"application/json; charset=utf-8",
					[]byte(payload),
				)
				return
			}

			locked, err := idem.AcquireLock(
				c.Request.Context(),
				idemStorageKey,
				60*time.Second,
			)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(
					c.Request.Context(),
					idemStorageKey,
				); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(
						http.StatusCreated,
						"application/json; charset=utf-8",
						[]byte(payload),
					)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(
					http.StatusConflict,
					ErrorResponse{Error: "idempotency key in progress"},
				)
				return
			}
		}

		order := registration.Order{
			FullName:            req.FullName,
			Email:               req.Email,
			Phone:               req.Phone,
			SpecialRequirements: req.SpecialRequirements,
			TotalPrice:          req.TotalPrice,
			ReferenceNumber:     req.ReferenceNumber,
		}
		for _, tg := range req.Tickets {
			order.Tickets = append(order.Tickets, registration.TicketGroup{
				Type:     tg.Type,
				Quantity: tg.Quantity,
				Holder:   tg.Dancer,
			})
		}

		rlKey := "ip:" + c.ClientIP()

		graph, err := svcs.Registration.Create(c.Request.Context(), order, rlKey)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			if errors.Is(err, registration.ErrRateLimited) {
				c.Header("Retry-After", "60")
				c.JSON(
					http.StatusTooManyRequests,
					ErrorResponse{Error: "rate limited"},
				)
				return
			}
			respondErr(c, err)
			return
		}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(graph)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, graph)
	}
}

// @Summary  Get registration
// @Param    id  path  string  true  "Registration ID (uuid)"
// @Success  200 {object} domain.RegistrationGraph
// @Failure  404 {object} ErrorResponse
// @Router   /registrations/{id} [get]
func handleGetRegistration(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		g, err := svcs.Query.GetRegistration(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s
		writeJSONWithCache(c, http.StatusOK, g, "public, max-age=15", true)
	}
}

// @Summary  Get registration by reference number
// @Param    ref  path  string  true  "Reference number"
// @Success  200 {object} domain.RegistrationGraph
// @Failure  404 {object} ErrorResponse
// @Router   /registrations/reference/{ref} [get]
func handleGetRegistrationByReference(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := c.Param("ref")
		g, err := svcs.Query.GetRegistrationByReference(c.Request.Context(), ref)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, g, "public, max-age=15", true)
	}
}

// @Summary  Upload payment proof
// @Param    id   path  string  true  "Registration ID (uuid)"
// @Param    req  body  PaymentProofRequest true "payload"
// @Success  201 {object} domain.PaymentProof
// @Failure  404 {object} ErrorResponse
// @Router   /registrations/{id}/payment-proof [post]
func handleUploadPaymentProof(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req PaymentProofRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		proof, err := svcs.Admin.SavePaymentProof(
			c.Request.Context(),
			id,
			req.ImageURL,
			req.Confirm,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, proof)
	}
}

// @Summary  Look up ticket by code
// @Param    code  path  string  true  "Ticket code"
// @Success  200 {object} domain.TicketDetail
// @Failure  404 {object} ErrorResponse
// @Router   /tickets/{code} [get]
func handleGetTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("code")
		d, err := svcs.Query.TicketByCode(c.Request.Context(), code)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, d, "public, max-age=15", true)
	}
}

// @Summary  List ticket types
// @Success  200 {array} domain.TicketType
// @Router   /ticket-types [get]
func handleListTicketTypes(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		types, err := svcs.Query.ListTicketTypes(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 60s
		writeJSONWithCache(c, http.StatusOK, types, "public, max-age=60", true)
	}
}

// @Summary  List registrations (dashboard)
// @Param    name         query  string  false "customer name, substring match"
// @Param    status       query  string  false "comma-separated statuses"
// @Param    ticket_type  query  string  false "comma-separated ticket types"
// @Param    page         query  int     false "page number"
// @Param    limit        query  int     false "page size"
// @Success  200 {object} domain.RegistrationPage
// @Router   /admin/registrations [get]
func handleListRegistrations(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := domain.RegistrationFilter{
			CustomerName: c.Query("name"),
			Page:         parseIntDefault(c.Query("page"), 1),
			Limit:        parseIntDefault(c.Query("limit"), 10),
		}

		for _, s := range splitCSV(c.Query("status")) {
			status, ok := domain.ParseStatus(s)
			if !ok {
				badRequest(c, "invalid status "+s)
				return
			}
			filter.Statuses = append(filter.Statuses, status)
		}
		filter.TicketTypes = splitCSV(c.Query("ticket_type"))

		page, err := svcs.Admin.ListRegistrations(c.Request.Context(), filter)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// @Summary  Update registration status
// @Param    id   path  string  true  "Registration ID (uuid)"
// @Param    req  body  UpdateStatusRequest true "payload"
// @Success  200 {object} domain.Registration
// @Failure  400 {object} ErrorResponse "unknown status"
// @Failure  404 {object} ErrorResponse
// @Router   /admin/registrations/{id}/status [patch]
func handleUpdateStatus(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		reg, err := svcs.Admin.SetStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, reg)
	}
}

// --- Helpers ---

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var verr *registration.ValidationError

	switch {
	// registration service
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  "validation failed",
			Fields: verr.Fields,
		})
		return
	case errors.Is(err, registration.ErrReferenceConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "reference number already used"})
		return
	case errors.Is(err, registration.ErrCodeGenerationExhausted):
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not issue ticket codes, retry with a new reference number"})
		return
	case errors.Is(err, registration.ErrTransactionTimeout):
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "registration timed out, retry with a new reference number"})
		return
	// query service
	case errors.Is(err, query.ErrRegistrationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "registration not found"})
		return
	case errors.Is(err, query.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "ticket not found"})
		return
	// admin service
	case errors.Is(err, admin.ErrRegistrationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "registration not found"})
		return
	case errors.Is(err, admin.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown status"})
		return
	// storage
	case errors.Is(err, repository.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "storage unavailable"})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
