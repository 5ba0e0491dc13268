// Package weather fetches conditions from the tomorrow.io timelines API and
// merges current conditions with the daily forecast.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"github.com/tidwall/gjson"

	"github.com/duynhne/fishfile-service/config"
	"github.com/duynhne/fishfile-service/internal/core/domain"
)

const (
	currentFields  = "weatherCode,temperature,pressureSeaLevel,windSpeed"
	forecastFields = "weatherCodeDay,precipitationProbability,temperatureMax,temperatureMin,windSpeed,pressureSeaLevel"

	forecastDays = 7

	// Error bodies larger than this are truncated before parsing.
	maxErrorBody = 64 << 10
)

// Client calls the provider. Every failure is returned as *domain.UpstreamError.
// No call is retried; after repeated failures the breaker opens and calls
// fail fast until it half-opens again. A call abandoned by its caller is
// not reported to the breaker, since it says nothing about the provider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
	circuit    *gobreaker.TwoStepCircuitBreaker
}

// NewClient creates a Client. A nil httpClient uses a default client; the
// per-call deadline comes from cfg.Timeout either way.
func NewClient(cfg config.WeatherConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	cb := gobreaker.NewTwoStepCircuitBreaker(gobreaker.Settings{
		Name:        "tomorrow.io",
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Weather circuit breaker state changed")
		},
	})

	return &Client{
		httpClient: httpClient,
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		timeout:    cfg.Timeout,
		circuit:    cb,
	}
}

// Current returns the current conditions at the coordinates.
func (c *Client) Current(ctx context.Context, lat, long float64) (CurrentConditions, error) {
	intervals, err := c.timeline(ctx, "current", lat, long, "current", currentFields)
	if err != nil {
		return CurrentConditions{}, err
	}

	v := intervals[0].Values
	return CurrentConditions{
		CurrWeatherCode: strconv.Itoa(v.WeatherCode) + "0",
		CurrTemp:        roundString(v.Temperature),
		Pressure:        formatFloat(v.PressureSeaLevel),
		WindSpeed:       roundString(v.WindSpeed),
	}, nil
}

// Forecast returns up to seven daily forecasts starting today.
func (c *Client) Forecast(ctx context.Context, lat, long float64) ([]DayForecast, error) {
	intervals, err := c.timeline(ctx, "forecast", lat, long, "1d", forecastFields)
	if err != nil {
		return nil, err
	}
	if len(intervals) > forecastDays {
		intervals = intervals[:forecastDays]
	}

	days := make([]DayForecast, 0, len(intervals))
	for _, iv := range intervals {
		v := iv.Values
		days = append(days, DayForecast{
			AllDayWeatherCode: strconv.Itoa(v.WeatherCodeDay),
			HighTemp:          roundString(v.TemperatureMax),
			LowTemp:           roundString(v.TemperatureMin),
			PrecipChance:      formatFloat(v.PrecipitationProbability),
			WindSpeed:         roundString(v.WindSpeed),
			Pressure:          formatFloat(v.PressureSeaLevel),
		})
	}
	return days, nil
}

// timeline fetches the first timeline of a request and returns its
// intervals, which are never empty on success.
func (c *Client) timeline(ctx context.Context, endpoint string, lat, long float64, timesteps, fields string) ([]interval, error) {
	caller := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	done, err := c.circuit.Allow()
	if err != nil {
		apiCallsTotal.WithLabelValues(endpoint, "circuit_open").Inc()
		return nil, domain.NewUpstreamError("weather provider unavailable")
	}

	start := time.Now()
	intervals, err := c.do(ctx, endpoint, lat, long, timesteps, fields)
	apiLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		done(true)
	case caller.Err() != nil && c.circuit.State() != gobreaker.StateHalfOpen:
		// Canceled by the caller (a sibling call failed or the client went
		// away). The half-open probe slot must still be released, so only
		// the closed state skips reporting.
	default:
		done(false)
	}

	if err != nil {
		var upErr *domain.UpstreamError
		if errors.As(err, &upErr) {
			return nil, upErr
		}
		return nil, domain.NewUpstreamError(err.Error())
	}

	apiCallsTotal.WithLabelValues(endpoint, "ok").Inc()
	return intervals, nil
}

func (c *Client) do(ctx context.Context, endpoint string, lat, long float64, timesteps, fields string) ([]interval, error) {
	q := url.Values{}
	q.Set("location", formatFloat(lat)+","+formatFloat(long))
	q.Set("fields", fields)
	q.Set("timesteps", timesteps)
	q.Set("units", "imperial")
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		apiCallsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, domain.NewUpstreamError("invalid weather provider url")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiCallsTotal.WithLabelValues(endpoint, "error").Inc()
		// The url.Error text carries the API key, so it is not surfaced.
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.NewUpstreamError("weather provider timed out")
		}
		if errors.Is(err, context.Canceled) {
			return nil, domain.NewUpstreamError("weather request canceled")
		}
		return nil, domain.NewUpstreamError("weather provider unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiCallsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		messages := errorMessages(body)
		if len(messages) == 0 {
			messages = []string{fmt.Sprintf("weather provider returned status %d", resp.StatusCode)}
		}
		return nil, domain.NewUpstreamError(messages...)
	}

	var payload timelinesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		apiCallsTotal.WithLabelValues(endpoint, "decode_error").Inc()
		return nil, domain.NewUpstreamError("invalid weather provider response")
	}
	if len(payload.Data.Timelines) == 0 || len(payload.Data.Timelines[0].Intervals) == 0 {
		apiCallsTotal.WithLabelValues(endpoint, "empty").Inc()
		return nil, domain.NewUpstreamError("weather provider returned no data")
	}
	return payload.Data.Timelines[0].Intervals, nil
}

// errorMessages pulls the human-readable message(s) from a provider error
// body. Both {"message": ...} and {"error": {"message": ...}} are accepted,
// with the message given as a string or a list of strings.
func errorMessages(body []byte) []string {
	if !gjson.ValidBytes(body) {
		return nil
	}
	for _, path := range []string{"error.message", "message"} {
		res := gjson.GetBytes(body, path)
		if !res.Exists() {
			continue
		}
		if res.IsArray() {
			var out []string
			for _, m := range res.Array() {
				out = append(out, m.String())
			}
			return out
		}
		return []string{res.String()}
	}
	return nil
}

// roundString rounds half up to a whole number, so -2.5 becomes -2 and 2.5
// becomes 3.
func roundString(v float64) string {
	return strconv.FormatFloat(math.Floor(v+0.5), 'f', 0, 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
