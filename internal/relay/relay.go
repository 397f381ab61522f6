package relay

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bitbucket.org/crgw/carrier-call-relay/internal/config"
	relayMiddleware "bitbucket.org/crgw/carrier-call-relay/internal/relay/middleware"
	"bitbucket.org/crgw/carrier-call-relay/internal/tools/requesting"
	"bitbucket.org/crgw/carrier-call-relay/internal/tools/slowlog"
	"bitbucket.org/crgw/carrier-call-relay/internal/upstream"
	"bitbucket.org/crgw/carrier-call-relay/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const slowUpstreamThreshold = 5 * time.Second

// TriggerPath binds and validates its own body so every body problem is
// rendered in the configured format.
const TriggerPath = "/trigger"

type Upstream interface {
	Trigger(ctx context.Context, payload any, logger *zerolog.Logger) (*upstream.Response, error)
}

type Relay struct {
	upstream    Upstream
	renderer    Renderer
	messages    Messages
	payload     config.Payload
	trackingURL string
	history     History
}

func New(cfg *config.Config, client Upstream, history History) *Relay {
	if history == nil {
		history = disabledHistory{}
	}

	return &Relay{
		upstream:    client,
		renderer:    NewRenderer(cfg.Format),
		messages:    MessagesFor(cfg.Format),
		payload:     cfg.Payload,
		trackingURL: cfg.TrackingURL,
		history:     history,
	}
}

func (r *Relay) RegisterRoutes(router gin.IRouter) {
	group := router.Group("", relayMiddleware.TapLogger)

	group.POST(TriggerPath,
		relayMiddleware.PrepareParams(TriggerRequest{}, r.bindFailed),
		r.trigger,
	)

	group.GET("/runs/:runId", r.run)
}

func (r *Relay) bindFailed(ctx *gin.Context, err error) {
	web.Logger(ctx).Warn().Err(err).Msg("Failed to bind trigger request")
	r.renderer.ValidationFailed(ctx, []string{r.messages.Unparsable})
}

func (r *Relay) trigger(ctx *gin.Context) {
	logger := web.Logger(ctx)

	request, ok := ctx.MustGet(relayMiddleware.ParamsKey).(*TriggerRequest)
	if !ok {
		web.HandleError(ctx, http.StatusInternalServerError, "Bad request params", nil)
		return
	}

	if errs := Validate(*request, r.messages); len(errs) > 0 {
		logger.Info().Strs("errors", errs).Msg("Trigger request rejected")
		r.renderer.ValidationFailed(ctx, errs)
		return
	}

	payload := NewPayload(r.payload, *request)

	slowLog := slowlog.CreateLogger(logger, slowUpstreamThreshold)
	slowLog.Start("upstream:trigger")
	response, err := r.upstream.Trigger(ctx.Request.Context(), payload, logger)
	slowLog.Stop("upstream:trigger")

	if err != nil {
		message := err.Error()
		var transportErr *requesting.TransportError
		if errors.As(err, &transportErr) {
			message = transportErr.Message
		}

		logger.Error().Err(err).Msg("Upstream trigger failed")
		r.renderer.Failed(ctx, http.StatusInternalServerError, message)
		return
	}

	outcome := Outcome{
		Status:  response.StatusCode,
		Body:    response.Body,
		Carrier: request.CarrierName(),
	}

	if response.StatusCode == http.StatusOK {
		if runID, found := firstRunID(response.Body); found {
			r.queued(ctx, logger, &outcome, runID, payload)
		}
	}

	r.renderer.Responded(ctx, outcome)
}

func (r *Relay) queued(ctx *gin.Context, logger *zerolog.Logger, outcome *Outcome, runID string, payload Payload) {
	trackingURL, err := TrackingURL(r.trackingURL, runID)
	if err != nil {
		logger.Error().Err(err).Str("runId", runID).Msg("Unable to build tracking url")
		return
	}

	outcome.RunID = runID
	outcome.TrackingURL = trackingURL

	logger.Info().
		Str("runId", runID).
		Str("trackingUrl", trackingURL).
		Msg("Call queued")

	err = r.history.Record(ctx.Request.Context(), TriggerRecord{
		RunID:         runID,
		TrackingURL:   trackingURL,
		Status:        outcome.Status,
		Carrier:       payload.Carrier,
		FreightOrder:  payload.FreightOrder,
		ContactNumber: maskContactNumber(payload.ContactNumber),
		CorrelationID: ctx.GetString(web.CorrelationIDKey),
		CreatedAt:     CurrentTimeFunc().UTC(),
	})
	if err != nil {
		logger.Warn().
			Err(err).
			Str("label", "history").
			Str("runId", runID).
			Msg("Unable to record triggered run")
	}
}

func (r *Relay) run(ctx *gin.Context) {
	record, err := r.history.Lookup(ctx.Request.Context(), ctx.Param("runId"))
	if err != nil {
		web.HandleError(ctx, http.StatusBadGateway, "Failed reading trigger history", err)
		return
	}

	if record == nil {
		web.HandleError(ctx, http.StatusNotFound, "run not found", nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"ok":  true,
		"run": record,
	})
}
