package entity

// FareOffer is one flight offer as returned by the external fare source.
// Departure, arrival, duration and price are free text; parsing them into
// typed values is the ingestor's job.
type FareOffer struct {
	Name             string `json:"name"`
	Departure        string `json:"departure"`
	Arrival          string `json:"arrival"`
	ArrivalTimeAhead string `json:"arrival_time_ahead"`
	Duration         string `json:"duration"`
	Stops            int    `json:"stops"`
	Delay            *int   `json:"delay"`
	Price            string `json:"price"`
	IsBest           bool   `json:"is_best"`
}

// FareResult is the full response of one fare lookup. Offers come back in
// the source's own ranking; the first offer is its best/recommended pick.
type FareResult struct {
	Offers []FareOffer `json:"flights"`
}
