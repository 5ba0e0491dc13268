package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"

	"github.com/duynhne/fishfile-service/config"
	"github.com/duynhne/fishfile-service/internal/core/domain"
)

const currentBody = `{"data":{"timelines":[{"timestep":"current","intervals":[
	{"startTime":"2024-05-01T15:00:00Z","values":{"weatherCode":1001,"temperature":71.5,"pressureSeaLevel":29.92,"windSpeed":4.49}}
]}]}}`

const forecastBody = `{"data":{"timelines":[{"timestep":"1d","intervals":[
	{"values":{"weatherCodeDay":10000,"precipitationProbability":5,"temperatureMax":80.4,"temperatureMin":49.5,"windSpeed":6.5,"pressureSeaLevel":30.01}},
	{"values":{"weatherCodeDay":11000,"precipitationProbability":0,"temperatureMax":78,"temperatureMin":52,"windSpeed":3,"pressureSeaLevel":30.1}},
	{"values":{"weatherCodeDay":10000,"precipitationProbability":10,"temperatureMax":75,"temperatureMin":48,"windSpeed":2,"pressureSeaLevel":30}},
	{"values":{"weatherCodeDay":10000,"precipitationProbability":15,"temperatureMax":74,"temperatureMin":47,"windSpeed":2,"pressureSeaLevel":30}},
	{"values":{"weatherCodeDay":40000,"precipitationProbability":60,"temperatureMax":65,"temperatureMin":45,"windSpeed":9,"pressureSeaLevel":29.8}},
	{"values":{"weatherCodeDay":40010,"precipitationProbability":80,"temperatureMax":60,"temperatureMin":44,"windSpeed":12,"pressureSeaLevel":29.7}},
	{"values":{"weatherCodeDay":10000,"precipitationProbability":0,"temperatureMax":70,"temperatureMin":46,"windSpeed":4,"pressureSeaLevel":30}},
	{"values":{"weatherCodeDay":10000,"precipitationProbability":0,"temperatureMax":72,"temperatureMin":20,"windSpeed":4,"pressureSeaLevel":30}}
]}]}}`

func testConfig(url string) config.WeatherConfig {
	return config.WeatherConfig{
		APIKey:             "secret-key",
		BaseURL:            url,
		Timeout:            2 * time.Second,
		BreakerFailures:    3,
		BreakerOpenTimeout: time.Minute,
	}
}

// providerServer answers by timesteps with the given bodies.
func providerServer(t *testing.T, current, forecast string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("apikey") != "secret-key" || q.Get("units") != "imperial" {
			t.Errorf("unexpected query %v", q)
		}
		if q.Get("location") != "44.72,-121.25" {
			t.Errorf("location = %q", q.Get("location"))
		}
		w.Header().Set("Content-Type", "application/json")
		switch q.Get("timesteps") {
		case "current":
			_, _ = w.Write([]byte(current))
		case "1d":
			_, _ = w.Write([]byte(forecast))
		default:
			http.Error(w, `{"message":"bad timesteps"}`, http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func upstreamMessages(t *testing.T, err error) []string {
	t.Helper()
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("error = %v, want ErrUpstream", err)
	}
	var upErr *domain.UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("error %T is not *UpstreamError", err)
	}
	if len(upErr.Messages) == 0 {
		t.Fatal("UpstreamError has no messages")
	}
	return upErr.Messages
}

func TestClientCurrent(t *testing.T) {
	srv := providerServer(t, currentBody, forecastBody)
	c := NewClient(testConfig(srv.URL), srv.Client())

	got, err := c.Current(context.Background(), 44.72, -121.25)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	want := CurrentConditions{CurrWeatherCode: "10010", CurrTemp: "72", Pressure: "29.92", WindSpeed: "4"}
	if got != want {
		t.Errorf("Current() = %+v, want %+v", got, want)
	}
}

func TestClientForecast(t *testing.T) {
	srv := providerServer(t, currentBody, forecastBody)
	c := NewClient(testConfig(srv.URL), srv.Client())

	days, err := c.Forecast(context.Background(), 44.72, -121.25)
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if len(days) != 7 {
		t.Fatalf("len(days) = %d, want 7", len(days))
	}
	want := DayForecast{AllDayWeatherCode: "10000", HighTemp: "80", LowTemp: "50", PrecipChance: "5", WindSpeed: "7", Pressure: "30.01"}
	if days[0] != want {
		t.Errorf("days[0] = %+v, want %+v", days[0], want)
	}
	if days[2].Pressure != "30" {
		t.Errorf("days[2].Pressure = %q, want 30", days[2].Pressure)
	}
}

func TestRoundString(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{71.5, "72"},
		{71.49, "71"},
		{-2.5, "-2"},
		{-2.51, "-3"},
		{-0.4, "0"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := roundString(tt.in); got != tt.want {
			t.Errorf("roundString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   []string
	}{
		{
			name:   "top-level message",
			status: http.StatusUnauthorized,
			body:   `{"code":401001,"type":"Invalid Auth","message":"The method requires authentication"}`,
			want:   []string{"The method requires authentication"},
		},
		{
			name:   "nested message list",
			status: http.StatusBadRequest,
			body:   `{"error":{"message":["location is invalid","fields is invalid"]}}`,
			want:   []string{"location is invalid", "fields is invalid"},
		},
		{
			name:   "nested single message",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"rate limited"}}`,
			want:   []string{"rate limited"},
		},
		{
			name:   "no body",
			status: http.StatusBadGateway,
			body:   ``,
			want:   []string{"weather provider returned status 502"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(testConfig(srv.URL), srv.Client())
			_, err := c.Current(context.Background(), 1, 2)
			if got := upstreamMessages(t, err); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("messages = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClientMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"timelines":[]}}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), srv.Client())
	_, err := c.Forecast(context.Background(), 1, 2)
	upstreamMessages(t, err)
}

func TestClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	c := NewClient(cfg, srv.Client())

	_, err := c.Current(context.Background(), 1, 2)
	msgs := upstreamMessages(t, err)
	if msgs[0] != "weather provider timed out" {
		t.Errorf("messages = %q", msgs)
	}
}

func TestClientUnreachableHidesAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(testConfig(url), nil)
	_, err := c.Current(context.Background(), 1, 2)
	for _, m := range upstreamMessages(t, err) {
		if strings.Contains(m, "secret-key") {
			t.Errorf("message leaks api key: %q", m)
		}
	}
}

func TestClientCircuitBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), srv.Client())
	for i := 0; i < 3; i++ {
		_, _ = c.Current(context.Background(), 1, 2)
	}

	_, err := c.Current(context.Background(), 1, 2)
	msgs := upstreamMessages(t, err)
	if msgs[0] != "weather provider unavailable" {
		t.Errorf("messages = %q, want breaker message", msgs)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("provider hits = %d, want 3", got)
	}
}

func TestClientCallerCancellationKeepsBreakerClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(currentBody))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), srv.Client())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 5; i++ {
		if _, err := c.Current(ctx, 1, 2); err == nil {
			t.Fatal("Current() with canceled context succeeded")
		}
	}

	if state := c.circuit.State(); state != gobreaker.StateClosed {
		t.Fatalf("breaker state = %v, want closed", state)
	}
	if got := c.circuit.Counts().ConsecutiveFailures; got != 0 {
		t.Errorf("ConsecutiveFailures = %d, want 0", got)
	}
	if _, err := c.Current(context.Background(), 1, 2); err != nil {
		t.Errorf("Current() error = %v", err)
	}
}
