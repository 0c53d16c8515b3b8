package service

import (
	"fare-engine/internal/domain/fare"
	"fare-engine/internal/general/logger"
	"fare-engine/internal/general/rabbitmq"
	"fare-engine/internal/general/websocket"
	"fare-engine/internal/ports"
)

// defaultPrefetch bounds in-flight completion-request deliveries when no
// explicit value is configured.
const defaultPrefetch = 8

// completionService encapsulates the trip-completion flow and its dependencies.
type completionService struct {
	logger    *logger.Logger
	uow       ports.UnitOfWork
	trips     ports.TripRepository
	fixes     ports.TripFixRepository
	rates     ports.RateTableRepository
	fares     ports.FareRepository
	pub       *rabbitmq.MQPublisher
	rabbitmq  *rabbitmq.Client
	websocket *websocket.WebSocket
	engine    *fare.Engine
	prefetch  int
}

// NewCompletionService creates a new instance of the CompletionService with the provided dependencies.
// prefetch caps unacked completion-request deliveries for the MQ consumer.
func NewCompletionService(
	logger *logger.Logger,
	uow ports.UnitOfWork,
	trips ports.TripRepository,
	fixes ports.TripFixRepository,
	rates ports.RateTableRepository,
	fares ports.FareRepository,
	pub *rabbitmq.MQPublisher,
	rabbitmq *rabbitmq.Client,
	ws *websocket.WebSocket,
	engine *fare.Engine,
	prefetch int,
) ports.CompletionService {
	if prefetch <= 0 {
		prefetch = defaultPrefetch
	}
	return &completionService{
		logger:    logger,
		uow:       uow,
		trips:     trips,
		fixes:     fixes,
		rates:     rates,
		fares:     fares,
		pub:       pub,
		rabbitmq:  rabbitmq,
		websocket: ws,
		engine:    engine,
		prefetch:  prefetch,
	}
}
