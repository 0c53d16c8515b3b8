package contracts

// Exchanges
const (
	ExchangeTripTopic = "trip_topic"
	ExchangeFareTopic = "fare_topic"
)

// Queues
const (
	QueueTripCompletionRequests = "trip_completion_requests"
	QueueTripCompletions        = "trip_completions"
	QueueFareAlerts             = "fare_alerts"
)

// Routing patterns
const (
	RouteTripCompleteReqPrefix = "trip.complete.request." // {trip_id}
	RouteTripCompletedPrefix   = "trip.completed."        // {booking_type}
	RouteFareAlertPrefix       = "fare.alert."            // {driver_id}
)
