package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ─── Types ────────────────────────────────────────────────────────────────────

// Flight is one normalized, display-ready flight leg. Every field is
// populated on records surfaced to callers; missing provider data is
// replaced by defaults, never by omitted fields.
type Flight struct {
	Label         string `json:"label"` // "Going" or "Return"
	Airline       string `json:"airline"`
	FlightNumber  string `json:"flight_number"`
	DepartureTime string `json:"departure_time"` // HH:MM, provider-local or synthetic
	ArrivalTime   string `json:"arrival_time"`
	Duration      string `json:"duration"` // "<H>h <M>m"
	Price         string `json:"price"`    // "₹" + amount
	BookingLink   string `json:"booking_link"`
}

// ─── Flight Client ────────────────────────────────────────────────────────────

type FlightClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var flightClient *FlightClient

func InitFlights() {
	baseURL := os.Getenv("SERPAPI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://serpapi.com"
	}

	flightClient = NewFlightClient(os.Getenv("SERPAPI_API_KEY"), baseURL)

	if flightClient.apiKey == "" {
		log.Println("⚠️  SERPAPI_API_KEY not set — flight search will use mock data")
	} else {
		log.Println("✅ Flight search (SerpApi) configured")
	}
}

func NewFlightClient(apiKey, baseURL string) *FlightClient {
	return &FlightClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func GetFlightClient() *FlightClient {
	return flightClient
}

// ─── Provider response (SerpApi Google Flights) ───────────────────────────────

type serpFlightsResponse struct {
	BestFlights  []serpItinerary `json:"best_flights"`
	OtherFlights []serpItinerary `json:"other_flights"`
}

type serpItinerary struct {
	Flights       []serpSegment `json:"flights"`
	TotalDuration any           `json:"total_duration"` // minutes, number or string
	Price         any           `json:"price"`
}

type serpSegment struct {
	DepartureAirport serpAirport `json:"departure_airport"`
	ArrivalAirport   serpAirport `json:"arrival_airport"`
	Airline          string      `json:"airline"`
	FlightNumber     string      `json:"flight_number"`
}

type serpAirport struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Time string `json:"time"`
}

// ─── Leg Fetcher ──────────────────────────────────────────────────────────────

// FetchLeg queries the provider for the single best-ranked one-way flight
// between origin and destination on date, and normalizes it for display.
// It returns nil — never an error — when no credential is configured, on
// any transport/provider failure, or when the provider finds nothing. A
// missing leg must not abort the whole planning request.
func (c *FlightClient) FetchLeg(ctx context.Context, origin, destination, date, label string) *Flight {
	if c.apiKey == "" {
		return nil
	}

	q := url.Values{}
	q.Set("engine", "google_flights")
	q.Set("departure_id", origin)
	q.Set("arrival_id", destination)
	q.Set("outbound_date", date)
	q.Set("currency", "INR")
	q.Set("hl", "en")
	q.Set("type", "2") // one-way search for this leg
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search.json?"+q.Encode(), nil)
	if err != nil {
		log.Printf("⚠️  %s leg %s → %s: bad request: %v", label, origin, destination, err)
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("⚠️  %s leg %s → %s failed: %v", label, origin, destination, err)
		return nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("⚠️  %s leg %s → %s: provider error (%d)", label, origin, destination, resp.StatusCode)
		return nil
	}

	var parsed serpFlightsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		log.Printf("⚠️  %s leg %s → %s: malformed provider response: %v", label, origin, destination, err)
		return nil
	}

	itineraries := parsed.BestFlights
	if len(itineraries) == 0 {
		itineraries = parsed.OtherFlights
	}
	if len(itineraries) == 0 {
		return nil
	}

	// Trust the provider's own ranking: take the first itinerary.
	best := itineraries[0]

	airline := "Unknown Airline"
	flightNo := ""
	depTime := ""
	arrTime := ""
	if len(best.Flights) > 0 {
		seg := best.Flights[0]
		if seg.Airline != "" {
			airline = seg.Airline
		}
		flightNo = seg.FlightNumber
		depTime = clockTime(seg.DepartureAirport.Time)
		arrTime = clockTime(seg.ArrivalAirport.Time)
	}

	return &Flight{
		Label:         label,
		Airline:       label + ": " + airline,
		FlightNumber:  flightNo,
		DepartureTime: depTime,
		ArrivalTime:   arrTime,
		Duration:      formatDurationMin(asMinutes(best.TotalDuration)),
		Price:         "₹" + strconv.Itoa(asAmount(best.Price)),
		BookingLink:   bookingLink(origin, destination, date, airline),
	}
}

// ─── Flight Pipeline ──────────────────────────────────────────────────────────

// FetchRoundTrip fetches the best outbound (source → destination on
// startDate) and return (destination → source on endDate) legs. The two
// fetches run concurrently; the result is always ordered outbound first.
// Partial results are returned as-is — one real leg is better than mixing
// real and synthetic data. Only when both legs are missing does the mock
// generator supply a full pair.
func (c *FlightClient) FetchRoundTrip(ctx context.Context, source, destination, startDate, endDate string) []Flight {
	var outbound, inbound *Flight
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		outbound = c.FetchLeg(ctx, source, destination, startDate, "Going")
	}()
	go func() {
		defer wg.Done()
		inbound = c.FetchLeg(ctx, destination, source, endDate, "Return")
	}()
	wg.Wait()

	flights := make([]Flight, 0, 2)
	if outbound != nil {
		flights = append(flights, *outbound)
	}
	if inbound != nil {
		flights = append(flights, *inbound)
	}
	if len(flights) > 0 {
		return flights
	}

	log.Println("⚠️  No live flight data for either leg — using mock flights")
	return GenerateMockFlights(source, destination, startDate, endDate)
}

// ─── Mock Generator ───────────────────────────────────────────────────────────

// GenerateMockFlights produces a plausible outbound/return pair with no
// network access. Values are randomized but internally consistent: both
// legs share one base duration, and each arrival time is its departure
// time plus that duration under wall-clock (mod 24h) addition.
func GenerateMockFlights(source, destination, startDate, endDate string) []Flight {
	baseMins := 120 + rand.Intn(101) // 120–220 minutes, shared by both legs

	outDep := 6 + rand.Intn(15) // departure on the hour, 06:00–20:00
	retDep := 6 + rand.Intn(15)

	return []Flight{
		{
			Label:         "Going",
			Airline:       "Going: IndiGo (Best)",
			FlightNumber:  "6E-501",
			DepartureTime: fmtClock(outDep*60, 0),
			ArrivalTime:   fmtClock(outDep*60, baseMins),
			Duration:      formatDurationMin(baseMins),
			Price:         "₹" + formatINR(4000+rand.Intn(4001)),
			BookingLink:   bookingLink(source, destination, startDate, "IndiGo"),
		},
		{
			Label:         "Return",
			Airline:       "Return: Air India (Best)",
			FlightNumber:  "AI-804",
			DepartureTime: fmtClock(retDep*60, 0),
			ArrivalTime:   fmtClock(retDep*60, baseMins),
			Duration:      formatDurationMin(baseMins),
			Price:         "₹" + formatINR(4000+rand.Intn(4001)),
			BookingLink:   bookingLink(destination, source, endDate, "Air India"),
		},
	}
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

// bookingLink synthesizes a generic Google Flights search URL. This is a
// provider-agnostic fallback link, not the provider's own deep link, so it
// works identically for real and mock records.
func bookingLink(origin, destination, date, airline string) string {
	query := fmt.Sprintf("flights from %s to %s on %s %s", origin, destination, date, airline)
	return "https://www.google.com/travel/flights?q=" + strings.ReplaceAll(query, " ", "+")
}

func formatDurationMin(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// fmtClock renders a start offset plus a duration as HH:MM, rolling past
// midnight when needed. Only time-of-day is tracked, never the date.
func fmtClock(startMins, plusMins int) string {
	total := (startMins + plusMins) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// clockTime extracts the trailing HH:MM portion of a provider timestamp
// such as "2026-02-06 10:30". Returns "" when nothing parseable is present.
func clockTime(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, ' '); i >= 0 {
		s = s[i+1:]
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return ""
	}
	return s
}

// asMinutes coerces the provider's total_duration — reported as a JSON
// number or a string — to integer minutes, defaulting to 0.
func asMinutes(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		fields := strings.Fields(t)
		if len(fields) == 0 {
			return 0
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// asAmount coerces the provider's numeric price to a whole amount,
// defaulting to 0.
func asAmount(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// formatINR groups an amount with thousands separators (4500 → "4,500").
func formatINR(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
