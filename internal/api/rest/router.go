package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oshokin/minecraft-switchboard/internal/domain/count"
	"github.com/oshokin/minecraft-switchboard/internal/event"
	"github.com/oshokin/minecraft-switchboard/internal/logger"
	"github.com/oshokin/minecraft-switchboard/internal/repository/stack"
	counterservice "github.com/oshokin/minecraft-switchboard/internal/service/counter"
	"github.com/oshokin/minecraft-switchboard/internal/service/switcher"
)

// Handler serves the switchboard HTTP surface.
type Handler struct {
	// switcher toggles the infrastructure stack.
	switcher *switcher.Switcher
	// logsCounter processes stream-delivered log batches.
	logsCounter *counterservice.Counter
	// alarmCounter processes alarm notification events.
	alarmCounter *counterservice.Counter
	// stackName appears in response messages.
	stackName string
}

// NewHandler creates the handler over the wired services. Either counter
// may be nil when the deployment has no counter store; the corresponding
// ingestion endpoint then responds with 404.
func NewHandler(sw *switcher.Switcher, logsCounter, alarmCounter *counterservice.Counter, stackName string) *Handler {
	return &Handler{
		switcher:     sw,
		logsCounter:  logsCounter,
		alarmCounter: alarmCounter,
		stackName:    stackName,
	}
}

// NewRouter builds the gin engine with all routes attached.
func NewRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog())

	router.GET("/health", h.health)
	router.GET("/switch/on", h.switchOn)
	router.GET("/switch/off", h.switchOff)
	router.POST("/events/logs", h.ingestLogs)
	router.POST("/events/alarm", h.ingestAlarm)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// health reports liveness.
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "OK"})
}

// switchOn toggles the stack on.
func (h *Handler) switchOn(c *gin.Context) {
	h.respondSwitch(c, "on", h.switcher.On(c.Request.Context()))
}

// switchOff toggles the stack off.
func (h *Handler) switchOff(c *gin.Context) {
	h.respondSwitch(c, "off", h.switcher.Off(c.Request.Context()))
}

// respondSwitch maps switch outcomes to the caller-facing messages.
// Guard refusals and benign no-ops are reported as plain messages rather
// than HTTP failures; the switch endpoints are driven by chat commands and
// their consumers only read the text.
func (h *Handler) respondSwitch(c *gin.Context, direction string, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Try to switch %s, so please wait.", direction),
		})
	case errors.Is(err, switcher.ErrUnnecessaryUpdate):
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Stack is unnecessary to switch %s (stack_name=%s).", direction, h.stackName),
		})
	case errors.Is(err, stack.ErrStackNotFound):
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Stack is not found (stack_name=%s).", h.stackName),
		})
	case errors.Is(err, switcher.ErrUserStillConnected):
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Stack cannot switch %s because user still connected (stack_name=%s).", direction, h.stackName),
		})
	default:
		logger.ErrorKV(c.Request.Context(), "Failed to update stack",
			"direction", direction, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": fmt.Sprintf("Failed to update stack for switch %s (stack_name=%s).", direction, h.stackName),
		})
	}
}

// ingestLogs processes a stream-shaped event document.
func (h *Handler) ingestLogs(c *gin.Context) {
	h.ingest(c, h.logsCounter)
}

// ingestAlarm processes a notification-shaped event document.
func (h *Handler) ingestAlarm(c *gin.Context) {
	h.ingest(c, h.alarmCounter)
}

// ingest runs one counting service over the posted event document.
func (h *Handler) ingest(c *gin.Context, svc *counterservice.Counter) {
	if svc == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No counter store is configured."})

		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot read event document."})

		return
	}

	env, err := event.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})

		return
	}

	result, err := svc.Process(c.Request.Context(), env)

	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case errors.Is(err, event.ErrUnknownEventSource):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, count.ErrUnknownLogState),
		errors.Is(err, count.ErrNoDatapoint),
		errors.Is(err, counterservice.ErrAlarmNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
	default:
		logger.ErrorKV(c.Request.Context(), "Failed to process event", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process event."})
	}
}
